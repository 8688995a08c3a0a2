// Package config loads the settings used by the annotate command from a YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"github.com/swdee/go-annotate/augment"
	"github.com/swdee/go-annotate/dispatch"
	"github.com/swdee/go-annotate/transform"
	"github.com/swdee/go-annotate/yolo"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding the config,
// for example ANNOTATE_WORKERS or ANNOTATE_AUGMENT_FLIPLR
const EnvPrefix = "ANNOTATE"

// Image backends
const (
	BackendGoCV = "gocv"
	BackendGo   = "go"
)

type Config struct {
	// Augment are the random augmentation ranges
	Augment augment.Params `yaml:"augment" envconfig:"AUGMENT"`
	// Pipeline is a fixed transform chain applied before any augmentation
	Pipeline []transform.Spec `yaml:"pipeline" ignored:"true"`
	// Clip is the polygon clip policy, clamp or exact
	Clip string `yaml:"clip" envconfig:"CLIP"`
	// MinArea is the pixel area below which transformed annotations are
	// removed
	MinArea float64 `yaml:"min_area" envconfig:"MIN_AREA"`
	// Format is the YOLO label format, detect or segment
	Format string `yaml:"format" envconfig:"FORMAT"`
	// Workers is the number of images processed concurrently
	Workers int `yaml:"workers" envconfig:"WORKERS"`
	// Seed for the augmentation sampler, zero picks a random seed
	Seed uint64 `yaml:"seed" envconfig:"SEED"`
	// Backend used to warp image pixels, gocv or go
	Backend string `yaml:"backend" envconfig:"BACKEND"`
	// Classes is the path of the class names file
	Classes string `yaml:"classes" envconfig:"CLASSES"`
}

// Default returns the config used when no file is given
func Default() *Config {
	return &Config{
		Augment: augment.DefaultParams(),
		Clip:    transform.ClipClamp.String(),
		Format:  yolo.FormatDetection.String(),
		Workers: runtime.NumCPU(),
		Backend: BackendGoCV,
	}
}

// Load reads the YAML config file on top of the defaults then applies
// environment overrides.  An empty path uses only defaults and environment.
func Load(path string) (*Config, error) {

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		if err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every setting and returns all problems found
func (c *Config) Validate() error {

	var errs []error

	if err := c.Augment.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("augment: %w", err))
	}

	if _, err := transform.ParseClipPolicy(c.Clip); err != nil {
		errs = append(errs, err)
	}

	if _, err := yolo.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Workers))
	}

	if c.MinArea < 0 {
		errs = append(errs, fmt.Errorf("min_area %v must not be negative", c.MinArea))
	}

	if c.Backend != BackendGoCV && c.Backend != BackendGo {
		errs = append(errs, fmt.Errorf("unknown backend %q, expected %s or %s",
			c.Backend, BackendGoCV, BackendGo))
	}

	for i, s := range c.Pipeline {
		if s.Kind == "" {
			errs = append(errs, fmt.Errorf("pipeline step %d: %w: missing kind",
				i, transform.ErrInvalidTransformSpec))
		}
	}

	return errors.Join(errs...)
}

// Chain returns the fixed pipeline as a transform chain
func (c *Config) Chain() transform.Chain {
	return transform.Chain(c.Pipeline)
}

// YoloFormat returns the configured label format
func (c *Config) YoloFormat() yolo.Format {
	f, _ := yolo.ParseFormat(c.Format)
	return f
}

// DispatchParams returns the parameters for the annotation dispatcher
func (c *Config) DispatchParams() dispatch.Params {
	clip, _ := transform.ParseClipPolicy(c.Clip)
	return dispatch.Params{Clip: clip, MinArea: c.MinArea}
}
