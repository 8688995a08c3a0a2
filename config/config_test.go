package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/swdee/go-annotate/transform"
	"github.com/swdee/go-annotate/yolo"
)

const testConfig = `
format: segment
clip: exact
workers: 2
min_area: 4
augment:
  degrees: 10
  fliplr: 0.25
  imgsz: 320
pipeline:
  - kind: crop
    region: {x_min: 0, y_min: 0, x_max: 320, y_max: 240}
  - kind: rotate
    degrees: 90
  - kind: perspective
    corners:
      - {x: 5, y: 0}
      - {x: 0, y: 0}
      - {x: 0, y: 0}
      - {x: 0, y: -5}
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "annotate.yaml")

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("error writing config: %v", err)
	}

	return path
}

func TestLoadFile(t *testing.T) {

	cfg, err := Load(writeConfig(t, testConfig))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.YoloFormat() != yolo.FormatSegmentation {
		t.Errorf("expected segmentation format, got %v", cfg.YoloFormat())
	}

	if p := cfg.DispatchParams(); p.Clip != transform.ClipExact || p.MinArea != 4 {
		t.Errorf("unexpected dispatch params %+v", p)
	}

	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}

	// values missing from the file keep their defaults
	if cfg.Augment.Degrees != 10 || cfg.Augment.FlipLR != 0.25 || cfg.Augment.Scale != 0.5 {
		t.Errorf("unexpected augment params %+v", cfg.Augment)
	}

	if cfg.Backend != BackendGoCV {
		t.Errorf("expected default backend, got %q", cfg.Backend)
	}

	chain, err := cfg.Chain().Resolve(640, 480)

	if err != nil {
		t.Fatalf("pipeline does not resolve: %v", err)
	}

	if len(chain) != 3 || chain[0].OutWidth != 320 || *chain[1].Degrees != 90 ||
		chain[2].Corners[3].Y != -5 {
		t.Errorf("unexpected pipeline %+v", chain)
	}
}

func TestEnvironmentOverrides(t *testing.T) {

	t.Setenv("ANNOTATE_WORKERS", "7")
	t.Setenv("ANNOTATE_AUGMENT_FLIPLR", "0.9")
	t.Setenv("ANNOTATE_BACKEND", "go")

	cfg, err := Load(writeConfig(t, testConfig))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Workers != 7 || cfg.Augment.FlipLR != 0.9 || cfg.Backend != BackendGo {
		t.Errorf("environment not applied: %+v", cfg)
	}

	// untouched file values survive
	if cfg.Augment.Degrees != 10 {
		t.Errorf("expected degrees from file, got %v", cfg.Augment.Degrees)
	}
}

func TestLoadDefaults(t *testing.T) {

	cfg, err := Load("")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.YoloFormat() != yolo.FormatDetection || cfg.Augment.Size != 640 || len(cfg.Pipeline) != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestValidateCollectsErrors(t *testing.T) {

	cfg := Default()
	cfg.Clip = "fuzzy"
	cfg.Workers = 0
	cfg.Pipeline = []transform.Spec{{}}

	err := cfg.Validate()

	if err == nil {
		t.Fatalf("expected validation errors")
	}

	if !errors.Is(err, transform.ErrInvalidTransformSpec) {
		t.Errorf("expected pipeline error to be included, got %v", err)
	}

	if _, err := Load(writeConfig(t, "workers: [1")); err == nil {
		t.Errorf("expected error for invalid yaml")
	}
}
