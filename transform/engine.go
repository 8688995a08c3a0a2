package transform

import (
	"fmt"
	"strings"

	"github.com/swdee/go-annotate/geom"
)

// ClipPolicy selects how polygon vertices leaving the output image are
// brought back inside it
type ClipPolicy int

const (
	// ClipClamp moves each vertex outside the image onto the nearest image
	// edge keeping the vertex count and order
	ClipClamp ClipPolicy = iota
	// ClipExact intersects the polygon with the image rectangle.  The vertex
	// count and starting vertex may change and when a concave polygon is split
	// into several pieces the largest piece is kept.
	ClipExact
)

// String returns the config name of the policy
func (c ClipPolicy) String() string {
	switch c {
	case ClipExact:
		return "exact"
	default:
		return "clamp"
	}
}

// ParseClipPolicy returns the policy for the given name
func ParseClipPolicy(name string) (ClipPolicy, error) {

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "clamp":
		return ClipClamp, nil
	case "exact":
		return ClipExact, nil
	}

	return ClipClamp, fmt.Errorf("unknown clip policy %q, expected clamp or exact", name)
}

// BoxResult is the outcome of transforming a box.  When Empty is set the box
// was reduced to zero area by the transform and should be removed.
type BoxResult struct {
	Box   geom.PixelBox
	Empty bool
}

// PolygonResult is the outcome of transforming a polygon.  When Empty is set
// the polygon was reduced to zero area by the transform and should be removed.
type PolygonResult struct {
	Polygon geom.PixelPolygon
	Empty   bool
}

// ApplyPoint transforms a point by a resolved Spec and clamps it to the
// output image
func ApplyPoint(p geom.PixelPoint, s Spec) (geom.PixelPoint, error) {

	m, err := s.Matrix()

	if err != nil {
		return geom.PixelPoint{}, err
	}

	var out geom.PixelPoint

	switch s.Kind {
	case FlipHorizontal:
		out = geom.PixelPoint{X: float64(s.InWidth) - p.X, Y: p.Y}
	case FlipVertical:
		out = geom.PixelPoint{X: p.X, Y: float64(s.InHeight) - p.Y}
	default:
		out = m.Apply(p)
	}

	return out.Clamp(float64(s.OutWidth), float64(s.OutHeight)), nil
}

// ApplyBox transforms a box by a resolved Spec.
//
// Flips, resizes and crops map a box exactly onto a box.  Rotate, Shear,
// Perspective and Letterbox transform the four corners and return their axis
// aligned bounding box, for anything other than multiples of 90 degrees the
// rotated box is larger than the object it enclosed since a box can not
// represent a rotated rectangle.
//
// The result is clamped to the output image and flagged Empty when no area
// remains.
func ApplyBox(b geom.PixelBox, s Spec) (BoxResult, error) {

	m, err := s.Matrix()

	if err != nil {
		return BoxResult{}, err
	}

	w := float64(s.InWidth)
	h := float64(s.InHeight)

	var out geom.PixelBox

	switch s.Kind {
	case FlipHorizontal:
		out = geom.PixelBox{XMin: w - b.XMax, YMin: b.YMin, XMax: w - b.XMin, YMax: b.YMax}

	case FlipVertical:
		out = geom.PixelBox{XMin: b.XMin, YMin: h - b.YMax, XMax: b.XMax, YMax: h - b.YMin}

	case Resize:
		sx := float64(s.OutWidth) / w
		sy := float64(s.OutHeight) / h
		out = geom.PixelBox{XMin: b.XMin * sx, YMin: b.YMin * sy, XMax: b.XMax * sx, YMax: b.YMax * sy}

	case Crop:
		out = b.Translate(-s.Region.XMin, -s.Region.YMin)

	default:
		out = m.ApplyBox(b)
	}

	out = out.Clamp(float64(s.OutWidth), float64(s.OutHeight))

	return BoxResult{Box: out, Empty: out.IsEmpty()}, nil
}

// ApplyPolygon transforms every vertex of a polygon by a resolved Spec keeping
// the vertex order, flips do not reverse the winding.  Vertices outside the
// output image are handled according to the clip policy and the result is
// flagged Empty when no area remains.
func ApplyPolygon(p geom.PixelPolygon, s Spec, clip ClipPolicy) (PolygonResult, error) {

	m, err := s.Matrix()

	if err != nil {
		return PolygonResult{}, err
	}

	if err := p.Validate(); err != nil {
		return PolygonResult{}, err
	}

	w := float64(s.InWidth)
	h := float64(s.InHeight)
	out := make(geom.PixelPolygon, len(p))

	for i, pt := range p {
		switch s.Kind {
		case FlipHorizontal:
			out[i] = geom.PixelPoint{X: w - pt.X, Y: pt.Y}
		case FlipVertical:
			out[i] = geom.PixelPoint{X: pt.X, Y: h - pt.Y}
		default:
			out[i] = m.Apply(pt)
		}
	}

	outW := float64(s.OutWidth)
	outH := float64(s.OutHeight)

	switch clip {
	case ClipExact:
		out = clipPolygon(out, outW, outH)
	default:
		out = out.Clamp(outW, outH)
	}

	if len(out) < geom.MinPolygonVertices || out.Area() <= 0 {
		return PolygonResult{Polygon: out, Empty: true}, nil
	}

	return PolygonResult{Polygon: out}, nil
}
