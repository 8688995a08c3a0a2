package augment

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/swdee/go-annotate/geom"
	"github.com/swdee/go-annotate/transform"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ApplyImage warps an image with a resolved Spec without needing OpenCV.
// Pixels not covered by the source image are set to fill.
func ApplyImage(img image.Image, s transform.Spec, fill color.Color) (*image.NRGBA, error) {

	// work on a zero origin copy so image coordinates match pixel space
	src := imaging.Clone(img)

	if b := src.Bounds(); b.Dx() != s.InWidth || b.Dy() != s.InHeight {
		return nil, fmt.Errorf("image is %dx%d but %s step expects %dx%d",
			b.Dx(), b.Dy(), s.Kind, s.InWidth, s.InHeight)
	}

	m, err := s.Matrix()

	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case transform.FlipHorizontal:
		return imaging.FlipH(src), nil

	case transform.FlipVertical:
		return imaging.FlipV(src), nil

	case transform.Resize:
		return imaging.Resize(src, s.OutWidth, s.OutHeight, imaging.Linear), nil

	case transform.Letterbox:
		g := transform.LetterboxFor(s.InWidth, s.InHeight, s.Width, s.Height)
		resized := imaging.Resize(src, g.ResizeWidth, g.ResizeHeight, imaging.Lanczos)
		bg := imaging.New(g.DestWidth, g.DestHeight, fill)
		return imaging.Paste(bg, resized, image.Pt(g.XPad, g.YPad)), nil

	case transform.Crop:
		return imaging.Crop(src, cropRect(s)), nil

	case transform.Rotate, transform.Shear:
		dst := imaging.New(s.OutWidth, s.OutHeight, fill)
		xdraw.BiLinear.Transform(dst, f64.Aff3(m.Aff3()), src, src.Bounds(), xdraw.Over, nil)
		return dst, nil

	case transform.Perspective:
		return warpPerspective(src, m, s.OutWidth, s.OutHeight, fill)
	}

	return nil, fmt.Errorf("%w: unknown kind %q", transform.ErrInvalidTransformSpec, s.Kind)
}

// warpPerspective maps every destination pixel back through the inverse
// homography and copies the nearest source pixel
func warpPerspective(src *image.NRGBA, m transform.Matrix, width, height int,
	fill color.Color) (*image.NRGBA, error) {

	inv, err := m.Inverse()

	if err != nil {
		return nil, fmt.Errorf("perspective matrix is not invertible: %w", err)
	}

	dst := imaging.New(width, height, fill)
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := inv.Apply(geom.PixelPoint{X: float64(x) + 0.5, Y: float64(y) + 0.5})

			// negated so NaN and infinite points are skipped
			if !(p.X >= 0 && p.X < sw && p.Y >= 0 && p.Y < sh) {
				continue
			}

			dst.SetNRGBA(x, y, src.NRGBAAt(int(math.Floor(p.X)), int(math.Floor(p.Y))))
		}
	}

	return dst, nil
}

// ApplyImageChain warps an image with every step of a resolved chain
func ApplyImageChain(img image.Image, chain transform.Chain, fill color.Color) (*image.NRGBA, error) {

	cur := imaging.Clone(img)

	for i, s := range chain {
		next, err := ApplyImage(cur, s, fill)

		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		cur = next
	}

	return cur, nil
}
