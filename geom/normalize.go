package geom

import (
	"fmt"
)

// checkDimensions validates image dimensions used for normalization
func checkDimensions(width, height float64) error {

	// written as negations so NaN dimensions are rejected too
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimension, width, height)
	}

	return nil
}

// Normalize converts a pixel space point to normalized space for an image of
// the given dimensions
func Normalize(p PixelPoint, width, height float64) (NormPoint, error) {

	if err := checkDimensions(width, height); err != nil {
		return NormPoint{}, err
	}

	return NormPoint{X: p.X / width, Y: p.Y / height}, nil
}

// Denormalize converts a normalized space point to pixel space for an image
// of the given dimensions
func Denormalize(p NormPoint, width, height float64) (PixelPoint, error) {

	if err := checkDimensions(width, height); err != nil {
		return PixelPoint{}, err
	}

	return PixelPoint{X: p.X * width, Y: p.Y * height}, nil
}

// NormalizeBox converts a pixel space box to normalized space
func NormalizeBox(b PixelBox, width, height float64) (NormBox, error) {

	if err := checkDimensions(width, height); err != nil {
		return NormBox{}, err
	}

	return NormBox{
		XMin: b.XMin / width,
		YMin: b.YMin / height,
		XMax: b.XMax / width,
		YMax: b.YMax / height,
	}, nil
}

// DenormalizeBox converts a normalized space box to pixel space
func DenormalizeBox(b NormBox, width, height float64) (PixelBox, error) {

	if err := checkDimensions(width, height); err != nil {
		return PixelBox{}, err
	}

	return PixelBox{
		XMin: b.XMin * width,
		YMin: b.YMin * height,
		XMax: b.XMax * width,
		YMax: b.YMax * height,
	}, nil
}

// NormalizePolygon converts every vertex of a pixel space polygon to
// normalized space keeping the vertex order
func NormalizePolygon(p PixelPolygon, width, height float64) (NormPolygon, error) {

	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	out := make(NormPolygon, len(p))

	for i, pt := range p {
		out[i] = NormPoint{X: pt.X / width, Y: pt.Y / height}
	}

	return out, nil
}

// DenormalizePolygon converts every vertex of a normalized space polygon to
// pixel space keeping the vertex order
func DenormalizePolygon(p NormPolygon, width, height float64) (PixelPolygon, error) {

	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	out := make(PixelPolygon, len(p))

	for i, pt := range p {
		out[i] = PixelPoint{X: pt.X * width, Y: pt.Y * height}
	}

	return out, nil
}
