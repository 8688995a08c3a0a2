// Package render draws annotations on images for previewing transformed
// datasets.
package render

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/geom"
	"gocv.io/x/gocv"
)

// className returns the name of the class or its id when no name is known
func className(classNames []string, classID int) string {
	if classID >= 0 && classID < len(classNames) {
		return classNames[classID]
	}
	return strconv.Itoa(classID)
}

// labelText returns the text drawn above an annotation, manual annotations
// show only the class name
func labelText(a annotation.Annotation, classNames []string) string {

	name := className(classNames, a.ClassID)

	if a.Confidence < annotation.ManualConfidence {
		return fmt.Sprintf("%s %.2f", name, a.Confidence)
	}

	return name
}

// toPoints rounds a pixel polygon to image points
func toPoints(poly geom.PixelPolygon) []image.Point {

	pts := make([]image.Point, len(poly))

	for i, p := range poly {
		pts[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}

	return pts
}

// toRect rounds a pixel box to an image rectangle
func toRect(b geom.PixelBox) image.Rectangle {
	return image.Rect(int(math.Round(b.XMin)), int(math.Round(b.YMin)),
		int(math.Round(b.XMax)), int(math.Round(b.YMax)))
}

// Annotations renders box outlines and polygon outlines with a class label
// for each annotation
func Annotations(img *gocv.Mat, anns []annotation.Annotation,
	classNames []string, font Font, lineThickness int) {

	// keep a record of all labels for later rendering
	labels := make([]label, 0, len(anns))

	for _, a := range anns {

		useClr := ClassColor(a.ClassID)
		bounds := toRect(a.Bounds())

		switch a.Shape {
		case annotation.ShapeBox:
			gocv.Rectangle(img, bounds, useClr, lineThickness)

		case annotation.ShapePolygon:
			ptsVec := gocv.NewPointsVectorFromPoints([][]image.Point{toPoints(a.Polygon)})
			gocv.Polylines(img, ptsVec, true, useClr, lineThickness)
			ptsVec.Close()

		default:
			continue
		}

		labels = append(labels, font.placeLabel(labelText(a, classNames),
			bounds.Min.X, bounds.Max.X, bounds.Min.Y, useClr, lineThickness))
	}

	// draw all labels last so they are the top most layer on the image and
	// don't get overlapped by outlines of neighbouring annotations
	for _, l := range labels {
		font.draw(img, l)
	}
}

// PolygonFill renders the polygon annotations as a transparent overlay on top
// of the whole image.  Alpha is the overlay opacity from 0.0 to 1.0.
func PolygonFill(img *gocv.Mat, anns []annotation.Annotation, alpha float64) error {

	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("alpha %v must be within [0, 1]", alpha)
	}

	overlay := img.Clone()
	defer overlay.Close()

	for _, a := range anns {
		if a.Shape != annotation.ShapePolygon {
			continue
		}

		ptsVec := gocv.NewPointsVectorFromPoints([][]image.Point{toPoints(a.Polygon)})
		gocv.FillPoly(&overlay, ptsVec, ClassColor(a.ClassID))
		ptsVec.Close()
	}

	gocv.AddWeighted(overlay, alpha, *img, 1-alpha, 0, img)

	return nil
}
