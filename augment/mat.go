package augment

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-annotate/transform"
	"gocv.io/x/gocv"
)

// MatWarper applies resolved transforms to gocv Mats
type MatWarper struct {
	// tempMat is a Mat used during letterbox resize
	tempMat gocv.Mat
	// border is the color used for pixels outside of the source image
	border color.RGBA
	// interp is the interpolation used by resize and warps
	interp gocv.InterpolationFlags
}

// NewMatWarper returns a warper filling uncovered pixels with the border color
func NewMatWarper(border color.RGBA) *MatWarper {
	return &MatWarper{
		tempMat: gocv.NewMat(),
		border:  border,
		interp:  gocv.InterpolationLinear,
	}
}

// Close frees memory allocated by the warper
func (w *MatWarper) Close() error {
	return w.tempMat.Close()
}

// pixelCenters converts a matrix in continuous image coordinates, where pixel
// (0,0) covers [0,1)x[0,1), to OpenCV's convention of integer pixel centers
func pixelCenters(m transform.Matrix) transform.Matrix {
	return transform.TranslateMatrix(-0.5, -0.5).
		Multiply(m).
		Multiply(transform.TranslateMatrix(0.5, 0.5))
}

// matrixMat copies the first rows of the matrix into a CV64F Mat
func matrixMat(m transform.Matrix, rows int) gocv.Mat {

	mat := gocv.NewMatWithSize(rows, 3, gocv.MatTypeCV64F)

	for r := 0; r < rows; r++ {
		for c := 0; c < 3; c++ {
			mat.SetDoubleAt(r, c, m[r*3+c])
		}
	}

	return mat
}

// cropRect returns the pixel rectangle of a resolved crop kept inside the
// source image
func cropRect(s transform.Spec) image.Rectangle {

	x := int(math.Round(s.Region.XMin))
	y := int(math.Round(s.Region.YMin))

	if x+s.OutWidth > s.InWidth {
		x = s.InWidth - s.OutWidth
	}

	if y+s.OutHeight > s.InHeight {
		y = s.InHeight - s.OutHeight
	}

	return image.Rect(x, y, x+s.OutWidth, y+s.OutHeight)
}

// Apply warps src into dst with a resolved Spec.  The src Mat must have the
// Spec's input dimensions.
func (w *MatWarper) Apply(src gocv.Mat, dst *gocv.Mat, s transform.Spec) error {

	if src.Cols() != s.InWidth || src.Rows() != s.InHeight {
		return fmt.Errorf("mat is %dx%d but %s step expects %dx%d",
			src.Cols(), src.Rows(), s.Kind, s.InWidth, s.InHeight)
	}

	m, err := s.Matrix()

	if err != nil {
		return err
	}

	size := image.Pt(s.OutWidth, s.OutHeight)

	switch s.Kind {
	case transform.FlipHorizontal:
		gocv.Flip(src, dst, 1)

	case transform.FlipVertical:
		gocv.Flip(src, dst, 0)

	case transform.Resize:
		gocv.Resize(src, dst, size, 0, 0, w.interp)

	case transform.Letterbox:
		g := transform.LetterboxFor(s.InWidth, s.InHeight, s.Width, s.Height)

		gocv.Resize(src, &w.tempMat, image.Pt(g.ResizeWidth, g.ResizeHeight),
			0, 0, gocv.InterpolationArea)

		gocv.CopyMakeBorder(w.tempMat, dst, g.YPad, g.DestHeight-g.ResizeHeight-g.YPad,
			g.XPad, g.DestWidth-g.ResizeWidth-g.XPad, gocv.BorderConstant, w.border)

	case transform.Crop:
		region := src.Region(cropRect(s))
		region.CopyTo(dst)
		region.Close()

	case transform.Rotate, transform.Shear:
		am := matrixMat(pixelCenters(m), 2)
		defer am.Close()

		gocv.WarpAffineWithParams(src, dst, am, size, w.interp,
			gocv.BorderConstant, w.border)

	case transform.Perspective:
		pm := matrixMat(pixelCenters(m), 3)
		defer pm.Close()

		gocv.WarpPerspectiveWithParams(src, dst, pm, size, w.interp,
			gocv.BorderConstant, w.border)

	default:
		return fmt.Errorf("%w: unknown kind %q", transform.ErrInvalidTransformSpec, s.Kind)
	}

	return nil
}

// ApplyChain warps src into dst with every step of a resolved chain
func (w *MatWarper) ApplyChain(src gocv.Mat, dst *gocv.Mat, chain transform.Chain) error {

	cur := src.Clone()

	for i, s := range chain {
		next := gocv.NewMat()

		if err := w.Apply(cur, &next, s); err != nil {
			cur.Close()
			next.Close()
			return fmt.Errorf("step %d: %w", i, err)
		}

		cur.Close()
		cur = next
	}

	cur.CopyTo(dst)

	return cur.Close()
}
