// Package yolo converts annotations to and from the YOLO label file line
// formats.
//
// Detection lines hold a class id followed by the normalized center x,
// center y, width and height of a box.  Segmentation lines hold a class id
// followed by the normalized x y pairs of each polygon vertex.
package yolo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/geom"
)

// ErrMalformedLine is returned when a label line does not match the expected
// token structure
var ErrMalformedLine = errors.New("malformed annotation line")

// Format is the YOLO line layout used by a label file
type Format int

const (
	// FormatDetection lines are "class xc yc w h"
	FormatDetection Format = iota
	// FormatSegmentation lines are "class x1 y1 x2 y2 ... xn yn"
	FormatSegmentation
)

// detectionTokens is the number of tokens on a detection line
const detectionTokens = 5

// minSegmentationTokens is the class id plus three vertices
const minSegmentationTokens = 1 + 2*geom.MinPolygonVertices

// String returns the config name of the format
func (f Format) String() string {
	if f == FormatSegmentation {
		return "segment"
	}
	return "detect"
}

// ParseFormat returns the Format for the given name
func ParseFormat(name string) (Format, error) {

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "detect", "detection", "bbox":
		return FormatDetection, nil
	case "segment", "segmentation", "seg", "polygon":
		return FormatSegmentation, nil
	}

	return FormatDetection, fmt.Errorf("unknown yolo format %q, expected detect or segment", name)
}

// formatValue renders a normalized value with the six decimal places used by
// YOLO tooling
func formatValue(v float64) string {
	// avoid printing -0.000000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ToDetection renders a pixel space box as a detection line for an image of
// the given dimensions.  Values are clamped to the unit square.
func ToDetection(box geom.PixelBox, classID int, width, height float64) (string, error) {

	if classID < 0 {
		return "", fmt.Errorf("%w: %d", annotation.ErrInvalidClass, classID)
	}

	norm, err := geom.NormalizeBox(box, width, height)

	if err != nil {
		return "", err
	}

	c := norm.Clamp().Xywh()

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(classID))

	for _, v := range c {
		sb.WriteByte(' ')
		sb.WriteString(formatValue(v))
	}

	return sb.String(), nil
}

// ToSegmentation renders a pixel space polygon as a segmentation line for an
// image of the given dimensions.  Vertex order is kept and values are clamped
// to the unit square.
func ToSegmentation(poly geom.PixelPolygon, classID int, width, height float64) (string, error) {

	if classID < 0 {
		return "", fmt.Errorf("%w: %d", annotation.ErrInvalidClass, classID)
	}

	if err := poly.Validate(); err != nil {
		return "", err
	}

	norm, err := geom.NormalizePolygon(poly, width, height)

	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(classID))

	for _, pt := range norm {
		pt = pt.Clamp()
		sb.WriteByte(' ')
		sb.WriteString(formatValue(pt.X))
		sb.WriteByte(' ')
		sb.WriteString(formatValue(pt.Y))
	}

	return sb.String(), nil
}

// parseLine splits a line into its class id and normalized values
func parseLine(line string) (int, []float64, error) {

	fields := strings.Fields(line)

	if len(fields) == 0 {
		return 0, nil, fmt.Errorf("%w: empty line", ErrMalformedLine)
	}

	classID, err := strconv.Atoi(fields[0])

	if err != nil || classID < 0 {
		return 0, nil, fmt.Errorf("%w: class id %q is not a non-negative integer",
			ErrMalformedLine, fields[0])
	}

	vals := make([]float64, len(fields)-1)

	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)

		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, nil, fmt.Errorf("%w: token %d %q is not a number", ErrMalformedLine, i+1, f)
		}

		if v < 0 || v > 1 {
			return 0, nil, fmt.Errorf("%w: token %d value %v is outside [0, 1]", ErrMalformedLine, i+1, v)
		}

		vals[i] = v
	}

	return classID, vals, nil
}

// FromDetection parses a detection line into a box annotation in pixel space
// for an image of the given dimensions
func FromDetection(line string, width, height float64) (annotation.Annotation, error) {

	if n := len(strings.Fields(line)); n != detectionTokens {
		return annotation.Annotation{}, fmt.Errorf("%w: detection line has %d tokens, expected %d",
			ErrMalformedLine, n, detectionTokens)
	}

	classID, vals, err := parseLine(line)

	if err != nil {
		return annotation.Annotation{}, err
	}

	norm := geom.NormBoxFromXywh(geom.Xywh{vals[0], vals[1], vals[2], vals[3]})

	box, err := geom.DenormalizeBox(norm, width, height)

	if err != nil {
		return annotation.Annotation{}, err
	}

	return annotation.NewBox(classID, box), nil
}

// FromSegmentation parses a segmentation line into a polygon annotation in
// pixel space for an image of the given dimensions
func FromSegmentation(line string, width, height float64) (annotation.Annotation, error) {

	n := len(strings.Fields(line))

	if n%2 == 0 || n < minSegmentationTokens {
		return annotation.Annotation{}, fmt.Errorf("%w: segmentation line has %d tokens, expected an odd count of at least %d",
			ErrMalformedLine, n, minSegmentationTokens)
	}

	classID, vals, err := parseLine(line)

	if err != nil {
		return annotation.Annotation{}, err
	}

	norm := make(geom.NormPolygon, len(vals)/2)

	for i := range norm {
		norm[i] = geom.NormPoint{X: vals[2*i], Y: vals[2*i+1]}
	}

	poly, err := geom.DenormalizePolygon(norm, width, height)

	if err != nil {
		return annotation.Annotation{}, err
	}

	return annotation.NewPolygon(classID, poly)
}

// FormatLine renders an annotation in the given format.  Polygons written as
// detection lines use their bounding box and boxes written as segmentation
// lines use their four corners.
func FormatLine(a annotation.Annotation, format Format, width, height float64) (string, error) {

	switch format {
	case FormatDetection:
		return ToDetection(a.Bounds(), a.ClassID, width, height)

	case FormatSegmentation:
		poly := a.Polygon

		if a.Shape == annotation.ShapeBox {
			poly = a.Box.Polygon()
		}

		return ToSegmentation(poly, a.ClassID, width, height)
	}

	return "", fmt.Errorf("unknown yolo format %d", int(format))
}

// ParseLine parses a line in the given format
func ParseLine(line string, format Format, width, height float64) (annotation.Annotation, error) {

	switch format {
	case FormatDetection:
		return FromDetection(line, width, height)
	case FormatSegmentation:
		return FromSegmentation(line, width, height)
	}

	return annotation.Annotation{}, fmt.Errorf("unknown yolo format %d", int(format))
}
