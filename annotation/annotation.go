// Package annotation defines a labelled object on an image, either a bounding
// box or a polygon outline, in pixel space.
package annotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/swdee/go-annotate/geom"
)

var (
	// ErrUnknownShape is returned for an Annotation without a valid shape tag
	ErrUnknownShape = errors.New("unknown annotation shape")

	// ErrInvalidConfidence is returned when a confidence is outside [0, 1]
	ErrInvalidConfidence = errors.New("confidence must be within [0, 1]")

	// ErrInvalidClass is returned for a negative class id
	ErrInvalidClass = errors.New("class id must not be negative")
)

// Shape tags which geometry an Annotation holds
type Shape int

const (
	ShapeBox Shape = iota + 1
	ShapePolygon
)

// String returns the name of the shape
func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ManualConfidence is the confidence given to annotations drawn by a user
const ManualConfidence = 1.0

// Annotation is a single labelled object.  Exactly one of Box or Polygon is
// used, selected by Shape.  Annotations are values, transforms return new
// Annotations rather than modifying existing ones.
type Annotation struct {
	// ID uniquely identifies the annotation within a dataset
	ID string
	// ClassID is the line number in the class list of the project
	ClassID int
	// Confidence is 1.0 for manual annotations or the score of the model
	// for automatically labelled ones
	Confidence float64
	// Shape selects whether Box or Polygon is set
	Shape   Shape
	Box     geom.PixelBox
	Polygon geom.PixelPolygon
}

// NewBox returns a manual box annotation with a new ID
func NewBox(classID int, box geom.PixelBox) Annotation {
	return Annotation{
		ID:         uuid.NewString(),
		ClassID:    classID,
		Confidence: ManualConfidence,
		Shape:      ShapeBox,
		Box:        box,
	}
}

// NewPolygon returns a manual polygon annotation with a new ID
func NewPolygon(classID int, poly geom.PixelPolygon) (Annotation, error) {

	if err := poly.Validate(); err != nil {
		return Annotation{}, err
	}

	return Annotation{
		ID:         uuid.NewString(),
		ClassID:    classID,
		Confidence: ManualConfidence,
		Shape:      ShapePolygon,
		Polygon:    poly.Clone(),
	}, nil
}

// WithConfidence returns a copy of the annotation with the given confidence,
// used for annotations produced by a model
func (a Annotation) WithConfidence(conf float64) (Annotation, error) {

	if math.IsNaN(conf) || conf < 0 || conf > 1 {
		return Annotation{}, fmt.Errorf("%w: %v", ErrInvalidConfidence, conf)
	}

	a.Confidence = conf
	a.Polygon = a.Polygon.Clone()

	return a, nil
}

// WithBox returns a copy of the annotation holding the given box
func (a Annotation) WithBox(box geom.PixelBox) Annotation {
	a.Shape = ShapeBox
	a.Box = box
	a.Polygon = nil
	return a
}

// WithPolygon returns a copy of the annotation holding the given polygon
func (a Annotation) WithPolygon(poly geom.PixelPolygon) Annotation {
	a.Shape = ShapePolygon
	a.Box = geom.PixelBox{}
	a.Polygon = poly.Clone()
	return a
}

// Validate checks the annotation holds a well formed shape
func (a Annotation) Validate() error {

	if a.ClassID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidClass, a.ClassID)
	}

	if math.IsNaN(a.Confidence) || a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, a.Confidence)
	}

	switch a.Shape {
	case ShapeBox:
		if a.Box.XMin > a.Box.XMax || a.Box.YMin > a.Box.YMax {
			return fmt.Errorf("box %+v has inverted corners", a.Box)
		}
		return nil

	case ShapePolygon:
		return a.Polygon.Validate()
	}

	return fmt.Errorf("%w: %s", ErrUnknownShape, a.Shape)
}

// Bounds returns the axis aligned bounding box of the annotation
func (a Annotation) Bounds() geom.PixelBox {

	if a.Shape == ShapePolygon {
		return a.Polygon.Bounds()
	}

	return a.Box
}

// Area returns the pixel area covered by the annotation
func (a Annotation) Area() float64 {

	if a.Shape == ShapePolygon {
		return a.Polygon.Area()
	}

	return a.Box.Area()
}
