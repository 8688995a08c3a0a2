/*
Package geom defines the coordinate types annotations are expressed in.

Every value carries the coordinate space it lives in as part of its Go type.
Pixel space values are measured in image pixels with the origin at the top
left corner and y growing downwards.  Normalized space values are fractions
of the image width and height in the range [0, 1].  Converting between the
two always goes through Normalize or Denormalize so the image dimensions are
stated explicitly at the boundary.
*/
package geom

import (
	"errors"
	"math"
)

var (
	// ErrInvalidDimension is returned when an image width or height is zero
	// or negative
	ErrInvalidDimension = errors.New("invalid image dimension")

	// ErrTooFewVertices is returned when a polygon has less than three vertices
	ErrTooFewVertices = errors.New("polygon requires at least 3 vertices")
)

// MinPolygonVertices is the smallest number of vertices a polygon may have
const MinPolygonVertices = 3

// PixelPoint is a point in pixel space
type PixelPoint struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// NormPoint is a point in normalized space
type NormPoint struct {
	X float64
	Y float64
}

// PixelBox is an axis aligned bounding box in pixel space
type PixelBox struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

// NormBox is an axis aligned bounding box in normalized space
type NormBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// PixelPolygon is an ordered list of vertices in pixel space.  The shape is
// closed implicitly between the last and first vertex.
type PixelPolygon []PixelPoint

// NormPolygon is an ordered list of vertices in normalized space
type NormPolygon []NormPoint

// NewPixelBox returns a box spanning the two given corners in any order
func NewPixelBox(x1, y1, x2, y2 float64) PixelBox {
	return PixelBox{
		XMin: math.Min(x1, x2),
		YMin: math.Min(y1, y2),
		XMax: math.Max(x1, x2),
		YMax: math.Max(y1, y2),
	}
}

// Width returns the width of the box
func (b PixelBox) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the height of the box
func (b PixelBox) Height() float64 {
	return b.YMax - b.YMin
}

// Area returns the area of the box.  Inverted boxes have a negative area.
func (b PixelBox) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the center point of the box
func (b PixelBox) Center() PixelPoint {
	return PixelPoint{
		X: (b.XMin + b.XMax) / 2,
		Y: (b.YMin + b.YMax) / 2,
	}
}

// Corners returns the four corners of the box in clockwise order starting
// from the top left
func (b PixelBox) Corners() [4]PixelPoint {
	return [4]PixelPoint{
		{X: b.XMin, Y: b.YMin},
		{X: b.XMax, Y: b.YMin},
		{X: b.XMax, Y: b.YMax},
		{X: b.XMin, Y: b.YMax},
	}
}

// Polygon returns the box as a four vertex polygon
func (b PixelBox) Polygon() PixelPolygon {
	c := b.Corners()
	return PixelPolygon{c[0], c[1], c[2], c[3]}
}

// Clamp restricts the box to lie within [0, width] x [0, height]
func (b PixelBox) Clamp(width, height float64) PixelBox {
	return PixelBox{
		XMin: clamp(b.XMin, 0, width),
		YMin: clamp(b.YMin, 0, height),
		XMax: clamp(b.XMax, 0, width),
		YMax: clamp(b.YMax, 0, height),
	}
}

// Translate returns the box moved by dx, dy
func (b PixelBox) Translate(dx, dy float64) PixelBox {
	return PixelBox{
		XMin: b.XMin + dx,
		YMin: b.YMin + dy,
		XMax: b.XMax + dx,
		YMax: b.YMax + dy,
	}
}

// IsEmpty reports whether the box has zero or negative area
func (b PixelBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Clamp restricts the point to lie within [0, width] x [0, height]
func (p PixelPoint) Clamp(width, height float64) PixelPoint {
	return PixelPoint{
		X: clamp(p.X, 0, width),
		Y: clamp(p.Y, 0, height),
	}
}

// Clone returns a copy of the polygon that shares no memory with the original
func (p PixelPolygon) Clone() PixelPolygon {
	if p == nil {
		return nil
	}

	out := make(PixelPolygon, len(p))
	copy(out, p)

	return out
}

// Area returns the absolute area enclosed by the polygon using the shoelace
// formula.  Self intersecting polygons return the net enclosed area.
func (p PixelPolygon) Area() float64 {

	if len(p) < MinPolygonVertices {
		return 0
	}

	sum := 0.0

	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}

	return math.Abs(sum) / 2
}

// Bounds returns the axis aligned bounding box of the polygon
func (p PixelPolygon) Bounds() PixelBox {

	if len(p) == 0 {
		return PixelBox{}
	}

	b := PixelBox{XMin: p[0].X, YMin: p[0].Y, XMax: p[0].X, YMax: p[0].Y}

	for _, pt := range p[1:] {
		b.XMin = math.Min(b.XMin, pt.X)
		b.YMin = math.Min(b.YMin, pt.Y)
		b.XMax = math.Max(b.XMax, pt.X)
		b.YMax = math.Max(b.YMax, pt.Y)
	}

	return b
}

// Clamp restricts every vertex to lie within [0, width] x [0, height] keeping
// the vertex order
func (p PixelPolygon) Clamp(width, height float64) PixelPolygon {

	out := make(PixelPolygon, len(p))

	for i, pt := range p {
		out[i] = pt.Clamp(width, height)
	}

	return out
}

// Validate checks the polygon has enough vertices to enclose an area
func (p PixelPolygon) Validate() error {
	if len(p) < MinPolygonVertices {
		return ErrTooFewVertices
	}
	return nil
}

// Clamp restricts the box to the unit square
func (b NormBox) Clamp() NormBox {
	return NormBox{
		XMin: clamp(b.XMin, 0, 1),
		YMin: clamp(b.YMin, 0, 1),
		XMax: clamp(b.XMax, 0, 1),
		YMax: clamp(b.YMax, 0, 1),
	}
}

// Clamp restricts the point to the unit square
func (p NormPoint) Clamp() NormPoint {
	return NormPoint{
		X: clamp(p.X, 0, 1),
		Y: clamp(p.Y, 0, 1),
	}
}

// clamp restricts the value x to be within the range min and max
func clamp(val, min, max float64) float64 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}
