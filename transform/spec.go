package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/swdee/go-annotate/geom"
)

// ErrInvalidTransformSpec is returned when a Spec is missing a parameter
// required by its Kind or a parameter is out of range
var ErrInvalidTransformSpec = errors.New("invalid transform spec")

// Kind names a geometric operation
type Kind string

const (
	FlipHorizontal Kind = "flip_horizontal"
	FlipVertical   Kind = "flip_vertical"
	Rotate         Kind = "rotate"
	Resize         Kind = "resize"
	Crop           Kind = "crop"
	Shear          Kind = "shear"
	Perspective    Kind = "perspective"
	// Letterbox scales the image to fit within the target dimensions keeping
	// its aspect ratio and pads the remainder evenly on both sides
	Letterbox Kind = "letterbox"
)

// Kinds returns all supported operation kinds
func Kinds() []Kind {
	return []Kind{FlipHorizontal, FlipVertical, Rotate, Resize, Crop, Shear,
		Perspective, Letterbox}
}

// Spec describes a single geometric operation and the image dimensions it is
// applied to.  Parameters not used by the Kind are ignored.
type Spec struct {
	Kind Kind `yaml:"kind"`
	// Degrees of rotation for Rotate, positive is clockwise on screen
	Degrees *float64 `yaml:"degrees,omitempty"`
	// Width and Height are the target dimensions for Resize and Letterbox
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
	// Region is the pixel area of the input image kept by Crop, its edges
	// must be whole pixels
	Region *geom.PixelBox `yaml:"region,omitempty"`
	// ShearX and ShearY are shear factors, x' = x + ShearX*y and
	// y' = y + ShearY*x.  A missing factor is treated as zero but at least
	// one must be given.
	ShearX *float64 `yaml:"shear_x,omitempty"`
	ShearY *float64 `yaml:"shear_y,omitempty"`
	// Corners are the pixel displacements applied to the top left, top right,
	// bottom right and bottom left image corners for Perspective
	Corners []geom.PixelPoint `yaml:"corners,omitempty"`

	// InWidth and InHeight are the dimensions of the image the operation is
	// applied to and OutWidth and OutHeight the dimensions it produces.  They
	// are set by Resolve.
	InWidth   int `yaml:"-"`
	InHeight  int `yaml:"-"`
	OutWidth  int `yaml:"-"`
	OutHeight int `yaml:"-"`

	// matrix is computed once by Resolve
	matrix *Matrix
}

// NewFlipHorizontal returns a horizontal flip Spec
func NewFlipHorizontal() Spec {
	return Spec{Kind: FlipHorizontal}
}

// NewFlipVertical returns a vertical flip Spec
func NewFlipVertical() Spec {
	return Spec{Kind: FlipVertical}
}

// NewRotate returns a Spec rotating around the image center
func NewRotate(degrees float64) Spec {
	return Spec{Kind: Rotate, Degrees: &degrees}
}

// NewResize returns a Spec scaling the image to width x height
func NewResize(width, height int) Spec {
	return Spec{Kind: Resize, Width: width, Height: height}
}

// NewLetterbox returns a Spec letterboxing the image into width x height
func NewLetterbox(width, height int) Spec {
	return Spec{Kind: Letterbox, Width: width, Height: height}
}

// NewCrop returns a Spec keeping only the given region of the image
func NewCrop(region geom.PixelBox) Spec {
	return Spec{Kind: Crop, Region: &region}
}

// NewShear returns a Spec shearing by the given factors
func NewShear(shearX, shearY float64) Spec {
	return Spec{Kind: Shear, ShearX: &shearX, ShearY: &shearY}
}

// NewPerspective returns a Spec displacing the four image corners, in the
// order top left, top right, bottom right, bottom left
func NewPerspective(corners [4]geom.PixelPoint) Spec {
	return Spec{Kind: Perspective, Corners: corners[:]}
}

// invalid wraps ErrInvalidTransformSpec with detail about the Spec
func (s Spec) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidTransformSpec, s.Kind,
		fmt.Sprintf(format, args...))
}

// finite reports whether all values are neither NaN or infinite
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// wholePixels reports whether every value is an integer
func wholePixels(vals ...float64) bool {
	for _, v := range vals {
		if v != math.Trunc(v) {
			return false
		}
	}
	return true
}

// validate checks the parameters of the Spec against the input dimensions
func (s Spec) validate(width, height int) error {

	if width <= 0 || height <= 0 {
		return s.invalid("input dimensions %dx%d must be positive", width, height)
	}

	switch s.Kind {
	case FlipHorizontal, FlipVertical:
		return nil

	case Rotate:
		if s.Degrees == nil {
			return s.invalid("missing degrees")
		}
		if !finite(*s.Degrees) {
			return s.invalid("degrees must be finite")
		}

	case Resize, Letterbox:
		if s.Width <= 0 || s.Height <= 0 {
			return s.invalid("target dimensions %dx%d must be positive",
				s.Width, s.Height)
		}

	case Crop:
		if s.Region == nil {
			return s.invalid("missing crop region")
		}

		r := *s.Region

		if !finite(r.XMin, r.YMin, r.XMax, r.YMax) {
			return s.invalid("crop region must be finite")
		}

		if r.IsEmpty() {
			return s.invalid("crop region %+v has no area", r)
		}

		if r.XMin < 0 || r.YMin < 0 || r.XMax > float64(width) || r.YMax > float64(height) {
			return s.invalid("crop region %+v outside of %dx%d image", r, width, height)
		}

		// the cropped image keeps whole pixels so the region must too, a
		// non empty whole pixel region is at least one pixel in size
		if !wholePixels(r.XMin, r.YMin, r.XMax, r.YMax) {
			return s.invalid("crop region %+v must lie on whole pixels", r)
		}

	case Shear:
		if s.ShearX == nil && s.ShearY == nil {
			return s.invalid("missing shear factors")
		}

		sx, sy := s.shearFactors()

		if !finite(sx, sy) {
			return s.invalid("shear factors must be finite")
		}

		// determinant of the shear matrix is 1 - sx*sy
		if math.Abs(1-sx*sy) < 1e-9 {
			return s.invalid("shear factors %v, %v collapse the image", sx, sy)
		}

	case Perspective:
		if len(s.Corners) != 4 {
			return s.invalid("expected 4 corner displacements, got %d", len(s.Corners))
		}

		for _, c := range s.Corners {
			if !finite(c.X, c.Y) {
				return s.invalid("corner displacements must be finite")
			}
		}

		_, dst := imageQuad(float64(width), float64(height), s.Corners)

		if !convexClockwise(dst) {
			return s.invalid("corner displacements %v fold the %dx%d image", s.Corners, width, height)
		}

	case "":
		return fmt.Errorf("%w: missing kind", ErrInvalidTransformSpec)

	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransformSpec, s.Kind)
	}

	return nil
}

// shearFactors returns the shear factors with missing values as zero
func (s Spec) shearFactors() (float64, float64) {

	var sx, sy float64

	if s.ShearX != nil {
		sx = *s.ShearX
	}

	if s.ShearY != nil {
		sy = *s.ShearY
	}

	return sx, sy
}

// outSize returns the dimensions of the image produced by the Spec
func (s Spec) outSize(width, height int) (int, int) {

	switch s.Kind {
	case Resize, Letterbox:
		return s.Width, s.Height

	case Crop:
		// whole pixels are checked by validate
		return int(s.Region.Width()), int(s.Region.Height())
	}

	return width, height
}

// Resolve validates the Spec for an input image of width x height and returns
// a copy with the input and output dimensions and transformation matrix set
func (s Spec) Resolve(width, height int) (Spec, error) {

	if err := s.validate(width, height); err != nil {
		return Spec{}, err
	}

	r := s
	r.InWidth = width
	r.InHeight = height
	r.OutWidth, r.OutHeight = s.outSize(width, height)

	m, err := r.buildMatrix()

	if err != nil {
		return Spec{}, err
	}

	r.matrix = &m

	return r, nil
}

// Resolved reports whether Resolve has been called on the Spec
func (s Spec) Resolved() bool {
	return s.matrix != nil
}

// Matrix returns the transformation matrix of a resolved Spec
func (s Spec) Matrix() (Matrix, error) {

	if s.matrix == nil {
		return Matrix{}, s.invalid("spec has not been resolved against image dimensions")
	}

	return *s.matrix, nil
}

// buildMatrix creates the transformation matrix from the Spec parameters
func (s Spec) buildMatrix() (Matrix, error) {

	w := float64(s.InWidth)
	h := float64(s.InHeight)

	switch s.Kind {
	case FlipHorizontal:
		return Matrix{-1, 0, w, 0, 1, 0, 0, 0, 1}, nil

	case FlipVertical:
		return Matrix{1, 0, 0, 0, -1, h, 0, 0, 1}, nil

	case Rotate:
		return RotateMatrix(*s.Degrees, w/2, h/2), nil

	case Resize:
		return ScaleMatrix(float64(s.OutWidth)/w, float64(s.OutHeight)/h), nil

	case Letterbox:
		return LetterboxFor(s.InWidth, s.InHeight, s.Width, s.Height).Matrix(), nil

	case Crop:
		return TranslateMatrix(-s.Region.XMin, -s.Region.YMin), nil

	case Shear:
		return ShearMatrix(s.shearFactors()), nil

	case Perspective:
		return perspectiveMatrix(w, h, s.Corners)
	}

	return Matrix{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTransformSpec, s.Kind)
}
