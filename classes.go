package annotate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadClasses reads the class names of a dataset.  A .yaml or .yml file is
// read as an Ultralytics dataset config using its names key, any other file
// should contain one class name per line.
func LoadClasses(file string) ([]string, error) {

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return loadDatasetNames(file)
	}

	return loadClassList(file)
}

// loadClassList reads one class name per line
func loadClassList(file string) ([]string, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	// create a scanner to read the file.
	scanner := bufio.NewScanner(f)

	var classes []string

	// read and trim each line
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		classes = append(classes, line)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	// drop trailing blank lines so the count matches the class ids
	for len(classes) > 0 && classes[len(classes)-1] == "" {
		classes = classes[:len(classes)-1]
	}

	return classes, nil
}

// datasetConfig is the part of an Ultralytics data.yaml holding class names,
// which are either a list or a map of class id to name
type datasetConfig struct {
	Names yaml.Node `yaml:"names"`
}

// loadDatasetNames reads the names key of a dataset config
func loadDatasetNames(file string) ([]string, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	var cfg datasetConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}

	switch cfg.Names.Kind {
	case yaml.SequenceNode:
		var names []string

		if err := cfg.Names.Decode(&names); err != nil {
			return nil, fmt.Errorf("error parsing names in %s: %w", file, err)
		}

		return names, nil

	case yaml.MappingNode:
		var byID map[int]string

		if err := cfg.Names.Decode(&byID); err != nil {
			return nil, fmt.Errorf("error parsing names in %s: %w", file, err)
		}

		ids := make([]int, 0, len(byID))

		for id := range byID {
			if id < 0 {
				return nil, fmt.Errorf("negative class id %d in %s", id, file)
			}
			ids = append(ids, id)
		}

		sort.Ints(ids)

		names := make([]string, 0, len(ids))

		for _, id := range ids {
			// fill gaps in the ids with the numeric id as a name
			for len(names) < id {
				names = append(names, fmt.Sprint(len(names)))
			}
			names = append(names, byID[id])
		}

		return names, nil
	}

	return nil, fmt.Errorf("no class names found in %s", file)
}
