package transform

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-annotate/geom"
)

// clipScale is the fixed point scale used to convert pixel coordinates to the
// integer coordinates clipper works with, giving a precision of 1e-6 pixels
const clipScale = 1e6

// toClipper converts a pixel space polygon to a clipper Path
func toClipper(p geom.PixelPolygon) clipper.Path {

	path := make(clipper.Path, 0, len(p))

	for _, pt := range p {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(pt.X * clipScale)),
			Y: clipper.CInt(math.Round(pt.Y * clipScale)),
		})
	}

	return path
}

// fromClipper converts a clipper Path back to a pixel space polygon
func fromClipper(path clipper.Path) geom.PixelPolygon {

	poly := make(geom.PixelPolygon, 0, len(path))

	for _, pt := range path {
		poly = append(poly, geom.PixelPoint{
			X: float64(pt.X) / clipScale,
			Y: float64(pt.Y) / clipScale,
		})
	}

	return poly
}

// clipPolygon intersects the polygon with the rectangle [0, width] x
// [0, height].  If the intersection is made of several pieces the one with the
// largest area is returned, nil is returned when nothing remains.
func clipPolygon(p geom.PixelPolygon, width, height float64) geom.PixelPolygon {

	bounds := geom.PixelBox{XMax: width, YMax: height}.Polygon()

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(toClipper(p), clipper.PtSubject, true)
	c.AddPath(toClipper(bounds), clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero,
		clipper.PftNonZero)

	if !ok || len(solution) == 0 {
		return nil
	}

	var best geom.PixelPolygon
	bestArea := 0.0

	for _, path := range solution {
		poly := fromClipper(path)

		// clipping a point back from its integer form can land a hair outside
		// the image
		poly = poly.Clamp(width, height)

		if a := poly.Area(); a > bestArea {
			best = poly
			bestArea = a
		}
	}

	return best
}
