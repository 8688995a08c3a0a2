package export

import (
	"path/filepath"
	"testing"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/geom"
	"github.com/swdee/go-annotate/yolo"
)

func testImage(t *testing.T) Image {
	t.Helper()

	poly, err := annotation.NewPolygon(1, geom.PixelPolygon{{0, 0}, {50, 0}, {50, 50}})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return Image{
		Path:   "images/train/0001.jpg",
		Split:  "train",
		Width:  100,
		Height: 100,
		Annotations: []annotation.Annotation{
			annotation.NewBox(0, geom.PixelBox{XMin: 10, YMin: 10, XMax: 30, YMax: 50}),
			poly,
			annotation.NewBox(1, geom.PixelBox{XMin: 0, YMin: 0, XMax: 100, YMax: 100}),
		},
	}
}

func TestRows(t *testing.T) {

	rows, err := Rows(testImage(t), []string{"person"}, yolo.FormatDetection)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	if rows[0].ClassName != "person" || rows[0].Area != 800 || rows[0].Shape != "box" {
		t.Errorf("unexpected box row %+v", rows[0])
	}

	if rows[0].Label != "0 0.200000 0.300000 0.200000 0.400000" {
		t.Errorf("unexpected label %q", rows[0].Label)
	}

	// class 1 has no name in the class list
	if rows[1].ClassName != "" || rows[1].Shape != "polygon" || len(rows[1].Polygon) != 6 {
		t.Errorf("unexpected polygon row %+v", rows[1])
	}
}

func TestWriteReadManifest(t *testing.T) {

	path := filepath.Join(t.TempDir(), "manifest.parquet")

	rows, err := Rows(testImage(t), []string{"person", "car"}, yolo.FormatSegmentation)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := NewWriter(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Write(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Rows() != len(rows) {
		t.Errorf("expected %d rows written, got %d", len(rows), w.Rows())
	}

	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ReadFile(path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("expected %d rows read, got %d", len(rows), len(got))
	}

	for i := range rows {
		if got[i].AnnotationID != rows[i].AnnotationID || got[i].Label != rows[i].Label ||
			len(got[i].Polygon) != len(rows[i].Polygon) {
			t.Errorf("row %d expected %+v, got %+v", i, rows[i], got[i])
		}
	}

	summary := Summarize(got)

	if len(summary) != 2 || summary[0].Count != 1 || summary[1].Count != 2 ||
		summary[1].ClassName != "car" {
		t.Errorf("unexpected summary %+v", summary)
	}
}
