package yolo

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/geom"
)

const epsilon = 1e-6

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestToSegmentation(t *testing.T) {

	poly := geom.PixelPolygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	line, err := ToSegmentation(poly, 2, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "2 0.000000 0.000000 0.100000 0.000000 0.100000 0.100000 0.000000 0.100000"

	if line != expect {
		t.Errorf("expected %q, got %q", expect, line)
	}
}

func TestToDetection(t *testing.T) {

	line, err := ToDetection(geom.PixelBox{XMin: 10, YMin: 20, XMax: 50, YMax: 80}, 0, 100, 200)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "0 0.300000 0.250000 0.400000 0.300000"

	if line != expect {
		t.Errorf("expected %q, got %q", expect, line)
	}

	// boxes partially outside the image are clamped to the unit square
	line, err = ToDetection(geom.PixelBox{XMin: -10, YMin: 0, XMax: 10, YMax: 100}, 1, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line != "1 0.050000 0.500000 0.100000 1.000000" {
		t.Errorf("expected clamped line, got %q", line)
	}

	if _, err := ToDetection(geom.PixelBox{XMax: 1, YMax: 1}, 0, 0, 100); !errors.Is(err, geom.ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestDetectionRoundTrip(t *testing.T) {

	tests := []struct {
		box    geom.PixelBox
		class  int
		width  float64
		height float64
	}{
		{geom.PixelBox{XMin: 10, YMin: 20, XMax: 50, YMax: 80}, 0, 100, 200},
		{geom.PixelBox{XMin: 0, YMin: 0, XMax: 640, YMax: 480}, 7, 640, 480},
		{geom.PixelBox{XMin: 125, YMin: 62.5, XMax: 250, YMax: 125}, 12, 1000, 500},
	}

	for _, tc := range tests {
		line, err := ToDetection(tc.box, tc.class, tc.width, tc.height)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ann, err := FromDetection(line, tc.width, tc.height)

		if err != nil {
			t.Fatalf("line %q: unexpected error: %v", line, err)
		}

		if ann.Shape != annotation.ShapeBox || ann.ClassID != tc.class {
			t.Errorf("line %q: expected box of class %d, got %+v", line, tc.class, ann)
		}

		b := ann.Box

		if !floatEqual(b.XMin, tc.box.XMin) || !floatEqual(b.YMin, tc.box.YMin) ||
			!floatEqual(b.XMax, tc.box.XMax) || !floatEqual(b.YMax, tc.box.YMax) {
			t.Errorf("line %q: expected %+v, got %+v", line, tc.box, b)
		}
	}
}

func TestSegmentationRoundTrip(t *testing.T) {

	poly := geom.PixelPolygon{{10, 10}, {90, 20}, {50, 50}, {20, 80}}

	line, err := ToSegmentation(poly, 4, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ann, err := FromSegmentation(line, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ann.Shape != annotation.ShapePolygon || ann.ClassID != 4 || len(ann.Polygon) != len(poly) {
		t.Fatalf("unexpected annotation %+v", ann)
	}

	for i, pt := range ann.Polygon {
		if !floatEqual(pt.X, poly[i].X) || !floatEqual(pt.Y, poly[i].Y) {
			t.Errorf("vertex %d expected %v, got %v", i, poly[i], pt)
		}
	}
}

func TestMalformedLines(t *testing.T) {

	tests := []struct {
		name   string
		line   string
		format Format
	}{
		{"detection too few tokens", "0 0.5 0.5 0.1", FormatDetection},
		{"detection too many tokens", "0 0.5 0.5 0.1 0.1 0.9", FormatDetection},
		{"detection non numeric", "0 0.5 abc 0.1 0.1", FormatDetection},
		{"detection float class", "1.5 0.5 0.5 0.1 0.1", FormatDetection},
		{"detection negative class", "-1 0.5 0.5 0.1 0.1", FormatDetection},
		{"detection out of range", "0 1.5 0.5 0.1 0.1", FormatDetection},
		{"detection nan", "0 NaN 0.5 0.1 0.1", FormatDetection},
		{"segmentation even tokens", "0 0.1 0.1 0.2 0.2 0.3", FormatSegmentation},
		{"segmentation two vertices", "0 0.1 0.1 0.2 0.2", FormatSegmentation},
		{"segmentation non numeric", "0 0.1 0.1 0.2 x 0.3 0.3", FormatSegmentation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLine(tc.line, tc.format, 100, 100); !errors.Is(err, ErrMalformedLine) {
				t.Errorf("expected ErrMalformedLine, got %v", err)
			}
		})
	}
}

func TestDecodeEncode(t *testing.T) {

	input := "0 0.500000 0.500000 0.200000 0.400000\n\n3 0.250000 0.250000 0.100000 0.100000\n"

	anns, err := Decode(strings.NewReader(input), FormatDetection, 200, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(anns) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(anns))
	}

	var buf bytes.Buffer

	if err := Encode(&buf, FormatDetection, anns, 200, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "0 0.500000 0.500000 0.200000 0.400000\n3 0.250000 0.250000 0.100000 0.100000\n"

	if buf.String() != expect {
		t.Errorf("expected %q, got %q", expect, buf.String())
	}
}

func TestDecodeReportsLine(t *testing.T) {

	input := "0 0.5 0.5 0.2 0.4\n0 0.5 0.5\n"

	_, err := Decode(strings.NewReader(input), FormatDetection, 100, 100)

	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}

	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error to name line 2, got %v", err)
	}
}

func TestFormatLineConvertsShape(t *testing.T) {

	box := annotation.NewBox(1, geom.PixelBox{XMin: 0, YMin: 0, XMax: 50, YMax: 50})

	line, err := FormatLine(box, FormatSegmentation, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line != "1 0.000000 0.000000 0.500000 0.000000 0.500000 0.500000 0.000000 0.500000" {
		t.Errorf("unexpected segmentation line for box %q", line)
	}

	poly, err := annotation.NewPolygon(2, geom.PixelPolygon{{10, 10}, {30, 10}, {20, 40}})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line, err = FormatLine(poly, FormatDetection, 100, 100)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line != "2 0.200000 0.250000 0.200000 0.300000" {
		t.Errorf("unexpected detection line for polygon %q", line)
	}
}

func TestReadWriteFile(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "image.txt")

	poly, err := annotation.NewPolygon(0, geom.PixelPolygon{{0, 0}, {64, 0}, {64, 32}})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := WriteFile(file, FormatSegmentation, []annotation.Annotation{poly}, 128, 64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(file)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != "0 0.000000 0.000000 0.500000 0.000000 0.500000 0.500000\n" {
		t.Errorf("unexpected file contents %q", data)
	}

	anns, err := ReadFile(file, FormatSegmentation, 128, 64)

	if err != nil || len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d, err %v", len(anns), err)
	}

	// missing label files are background images
	anns, err = ReadFile(filepath.Join(dir, "missing.txt"), FormatSegmentation, 128, 64)

	if err != nil || len(anns) != 0 {
		t.Errorf("expected no annotations and no error, got %d, %v", len(anns), err)
	}
}

func TestParseFormat(t *testing.T) {

	for name, expect := range map[string]Format{
		"detect":       FormatDetection,
		"Segmentation": FormatSegmentation,
		"seg":          FormatSegmentation,
	} {
		f, err := ParseFormat(name)

		if err != nil || f != expect {
			t.Errorf("%q expected %v, got %v (%v)", name, expect, f, err)
		}
	}

	if _, err := ParseFormat("coco"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}
