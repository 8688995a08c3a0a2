package render

import (
	"testing"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/geom"
	"gocv.io/x/gocv"
)

func TestLabelText(t *testing.T) {

	names := []string{"person", "car"}

	a := annotation.NewBox(1, geom.PixelBox{XMax: 10, YMax: 10})

	if got := labelText(a, names); got != "car" {
		t.Errorf("expected manual label %q, got %q", "car", got)
	}

	a, err := a.WithConfidence(0.5)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := labelText(a, names); got != "car 0.50" {
		t.Errorf("expected label with confidence, got %q", got)
	}

	a.ClassID = 7

	if got := labelText(a, names); got != "7 0.50" {
		t.Errorf("expected class id for unknown class, got %q", got)
	}
}

func TestClassColor(t *testing.T) {

	if ClassColor(0) != ClassColor(len(classColors)) {
		t.Errorf("expected palette to wrap around")
	}

	if ClassColor(-1) != ClassColor(1) {
		t.Errorf("expected negative ids to map into the palette")
	}
}

func TestAnnotations(t *testing.T) {

	img := gocv.Zeros(100, 100, gocv.MatTypeCV8UC3)
	defer img.Close()

	box := annotation.NewBox(0, geom.PixelBox{XMin: 50, YMin: 50, XMax: 90, YMax: 90})

	poly, err := annotation.NewPolygon(1, geom.PixelPolygon{{10, 60}, {40, 60}, {25, 95}})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	anns := []annotation.Annotation{box, poly}

	Annotations(&img, anns, []string{"a", "b"}, DefaultFont(), 2)

	// box outline is drawn on the left edge
	if v := img.GetVecbAt(70, 50); v[0] == 0 && v[1] == 0 && v[2] == 0 {
		t.Errorf("expected box outline at (50,70)")
	}

	if err := PolygonFill(&img, anns, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// polygon interior is tinted
	if v := img.GetVecbAt(70, 25); v[0] == 0 && v[1] == 0 && v[2] == 0 {
		t.Errorf("expected filled polygon at (25,70)")
	}

	if err := PolygonFill(&img, anns, 2); err == nil {
		t.Errorf("expected error for alpha out of range")
	}
}
