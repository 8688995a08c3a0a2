package annotate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLabelPath(t *testing.T) {

	tests := []struct {
		image  string
		expect string
	}{
		{filepath.FromSlash("data/images/train/0001.jpg"), filepath.FromSlash("data/labels/train/0001.txt")},
		{filepath.FromSlash("images/images/a.png"), filepath.FromSlash("images/labels/a.txt")},
		{filepath.FromSlash("photos/a.webp"), filepath.FromSlash("photos/a.txt")},
		{"a.jpeg", "a.txt"},
	}

	for _, tc := range tests {
		if got := LabelPath(tc.image); got != tc.expect {
			t.Errorf("%s expected %s, got %s", tc.image, tc.expect, got)
		}
	}
}

func TestFindItems(t *testing.T) {

	root := t.TempDir()
	imgDir := filepath.Join(root, "images")

	for _, f := range []string{"train/b.jpg", "train/a.png", "val/c.webp", "train/notes.txt"} {
		path := filepath.Join(imgDir, filepath.FromSlash(f))

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("error creating directory: %v", err)
		}

		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("error writing file: %v", err)
		}
	}

	out := filepath.Join(root, "out")

	items, err := FindItems(imgDir, out)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 images, got %d", len(items))
	}

	first := items[0]

	if first.Image != filepath.Join(imgDir, "train", "a.png") ||
		first.Labels != filepath.Join(root, "labels", "train", "a.txt") ||
		first.OutImage != filepath.Join(out, "images", "train", "a.png") ||
		first.OutLabels != filepath.Join(out, "labels", "train", "a.txt") {
		t.Errorf("unexpected item %+v", first)
	}

	if _, err := FindItems(filepath.Join(root, "missing"), ""); err == nil {
		t.Errorf("expected error for missing directory")
	}
}
