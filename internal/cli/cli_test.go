package cli

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/swdee/go-annotate/export"
)

const testConfig = `
backend: go
workers: 1
seed: 7
augment:
  scale: 0
  fliplr: 0
  imgsz: 0
pipeline:
  - kind: resize
    width: 200
    height: 100
`

// execute runs the root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("error creating directory: %v", err)
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("error writing file: %v", err)
	}
}

// testDataset writes a 100x50 image with a single box label and returns the
// images directory
func testDataset(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	imgDir := filepath.Join(root, "images")

	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatalf("error creating directory: %v", err)
	}

	if err := imaging.Save(imaging.New(100, 50, image.White), filepath.Join(imgDir, "a.png")); err != nil {
		t.Fatalf("error writing image: %v", err)
	}

	// box (10,10)-(30,30)
	writeFile(t, filepath.Join(root, "labels", "a.txt"), "0 0.200000 0.400000 0.200000 0.400000\n")
	writeFile(t, filepath.Join(root, "classes.txt"), "person\ncar\n")

	return imgDir
}

func TestConvert(t *testing.T) {

	dir := t.TempDir()
	src := filepath.Join(dir, "labels")
	dst := filepath.Join(dir, "seg")

	writeFile(t, filepath.Join(src, "train", "a.txt"), "0 0.5 0.5 0.2 0.4\n")
	writeFile(t, filepath.Join(src, "train", "notes.md"), "not a label file")

	out, err := execute(t, "convert", "--labels", src, "--out", dst, "--to", "segment")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "converted 1 label files") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dst, "train", "a.txt"))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "0 0.400000 0.300000 0.600000 0.300000 0.600000 0.700000 0.400000 0.700000\n"

	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}

func TestConvertMalformed(t *testing.T) {

	dir := t.TempDir()
	src := filepath.Join(dir, "labels")

	writeFile(t, filepath.Join(src, "a.txt"), "0 0.5 0.5\n")

	if _, err := execute(t, "convert", "--labels", src, "--out", filepath.Join(dir, "out")); err == nil {
		t.Errorf("expected error for malformed label line")
	}
}

func TestTransformWithManifest(t *testing.T) {

	imgDir := testDataset(t)
	root := filepath.Dir(imgDir)
	outDir := filepath.Join(root, "out")
	manifest := filepath.Join(root, "out.parquet")

	cfgPath := filepath.Join(root, "annotate.yaml")
	writeFile(t, cfgPath, testConfig+"classes: "+filepath.Join(root, "classes.txt")+"\n")

	out, err := execute(t, "transform", "-c", cfgPath, "--images", imgDir, "--out", outDir,
		"--manifest", manifest, "--split", "train")

	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	if !strings.Contains(out, "transformed 1 images, 0 failed") || !strings.Contains(out, "person") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "labels", "a.txt"))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// doubled to (20,20)-(60,60) in a 200x100 image
	if string(data) != "0 0.200000 0.400000 0.200000 0.400000\n" {
		t.Errorf("unexpected labels %q", data)
	}

	rows, err := export.ReadFile(manifest)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 1 || rows[0].Split != "train" || rows[0].Width != 200 || rows[0].XMin != 20 {
		t.Errorf("unexpected manifest rows %+v", rows)
	}
}

func TestTransformMissingFlags(t *testing.T) {

	if _, err := execute(t, "transform", "--images", t.TempDir()); err == nil {
		t.Errorf("expected error for missing --out")
	}
}

func TestExport(t *testing.T) {

	imgDir := testDataset(t)
	manifest := filepath.Join(t.TempDir(), "val.parquet")

	out, err := execute(t, "export", "--images", imgDir, "--manifest", manifest, "--split", "val")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "wrote manifest of 1 images") {
		t.Errorf("unexpected output %q", out)
	}

	rows, err := export.ReadFile(manifest)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 1 || rows[0].Area != 400 || rows[0].Shape != "box" {
		t.Errorf("unexpected manifest rows %+v", rows)
	}
}

func TestTile(t *testing.T) {

	imgDir := testDataset(t)
	root := filepath.Dir(imgDir)
	outDir := filepath.Join(root, "tiles")

	cfgPath := filepath.Join(root, "annotate.yaml")
	writeFile(t, cfgPath, testConfig)

	out, err := execute(t, "tile", "-c", cfgPath, "--images", imgDir, "--out", outDir,
		"--width", "60", "--height", "50")

	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	if !strings.Contains(out, "wrote 2 tiles from 1 images, 1 annotations removed") {
		t.Errorf("unexpected output %q", out)
	}

	for _, name := range []string{"a_000.txt", "a_001.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, "labels", name)); err != nil {
			t.Errorf("expected tile labels %s: %v", name, err)
		}
	}
}

func TestBadConfig(t *testing.T) {

	cfgPath := filepath.Join(t.TempDir(), "annotate.yaml")
	writeFile(t, cfgPath, "workers: 0\n")

	if _, err := execute(t, "convert", "-c", cfgPath, "--labels", ".", "--out", "."); err == nil {
		t.Errorf("expected error for invalid config")
	}
}
