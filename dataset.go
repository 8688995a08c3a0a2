package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/swdee/go-annotate/augment"
)

// Item is an image and its YOLO label file to process, along with where the
// transformed image and labels are written.  Empty output paths skip writing
// that output.
type Item struct {
	Image     string
	Labels    string
	OutImage  string
	OutLabels string
}

// LabelPath returns the label file of an image in a YOLO dataset.  The last
// images directory in the path is swapped for labels and the extension for
// .txt, images outside of an images directory keep their labels alongside.
func LabelPath(image string) string {

	dir, file := filepath.Split(image)
	base := strings.TrimSuffix(file, filepath.Ext(file)) + ".txt"

	parts := strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/")

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "images" {
			parts[i] = "labels"
			return filepath.Join(filepath.FromSlash(strings.Join(parts, "/")), base)
		}
	}

	return filepath.Join(dir, base)
}

// FindItems walks imageDir for images and pairs each with its label file.
// When outDir is set the outputs mirror the layout under outDir/images and
// outDir/labels.
func FindItems(imageDir, outDir string) ([]Item, error) {

	info, err := os.Stat(imageDir)

	if err != nil {
		return nil, fmt.Errorf("no such image directory %s: %w", imageDir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("image path %s is not a directory", imageDir)
	}

	var items []Item

	err = filepath.WalkDir(imageDir, func(path string, d os.DirEntry, err error) error {

		if err != nil {
			return err
		}

		if d.IsDir() || !augment.IsImage(path) {
			return nil
		}

		item := Item{
			Image:  path,
			Labels: LabelPath(path),
		}

		if outDir != "" {
			rel, err := filepath.Rel(imageDir, path)

			if err != nil {
				return err
			}

			item.OutImage = filepath.Join(outDir, "images", rel)
			item.OutLabels = LabelPath(item.OutImage)
		}

		items = append(items, item)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error reading image directory: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Image < items[j].Image
	})

	return items, nil
}
