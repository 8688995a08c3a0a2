package transform

import (
	"fmt"
	"math"

	"github.com/swdee/go-annotate/geom"
)

// tilePositions returns the start coordinates (0 based) of each tile along one
// axis and the tile length.  It guarantees:
//
//   - you get the smallest n tiles so that consecutive tiles overlap by at
//     least tileLen*overlapRatio pixels
//   - the last tile ends exactly on the image edge
//
// any leftover pixels get spread evenly between the tiles via rounding.
func tilePositions(srcLen, tileLen int, overlapRatio float64) ([]int, int) {

	// a single tile covers the whole axis
	if srcLen <= tileLen {
		return []int{0}, srcLen
	}

	// maximum step between tiles that keeps the minimum overlap
	minOv := int(math.Ceil(float64(tileLen) * overlapRatio))
	stride := tileLen - minOv

	if stride < 1 {
		stride = 1
	}

	n := int(math.Ceil(float64(srcLen-tileLen)/float64(stride))) + 1

	// actual step, evenly spread
	step := float64(srcLen-tileLen) / float64(n-1)

	positions := make([]int, n)

	for i := 0; i < n; i++ {
		p := int(math.Round(step * float64(i)))

		// clamp to [0, srcLen-tileLen]
		if p < 0 {
			p = 0
		} else if p > srcLen-tileLen {
			p = srcLen - tileLen
		}

		positions[i] = p
	}

	return positions, tileLen
}

// Tiles slices a srcWidth x srcHeight image into overlapping tiles of
// tileWidth x tileHeight and returns a Crop Spec for each tile in row major
// order.  The overlap ratios are from 0.0 to 1.0, a value of 0.2 overlaps
// neighbouring tiles by 20% of the tile size.  Tiles larger than the image are
// shrunk to the image size.
func Tiles(srcWidth, srcHeight, tileWidth, tileHeight int,
	overlapWidth, overlapHeight float64) ([]Spec, error) {

	if srcWidth <= 0 || srcHeight <= 0 || tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile dimensions %dx%d and image dimensions %dx%d must be positive",
			ErrInvalidTransformSpec, tileWidth, tileHeight, srcWidth, srcHeight)
	}

	if overlapWidth < 0 || overlapWidth >= 1 || overlapHeight < 0 || overlapHeight >= 1 {
		return nil, fmt.Errorf("%w: tile overlap %v, %v must be in [0, 1)",
			ErrInvalidTransformSpec, overlapWidth, overlapHeight)
	}

	xs, tileW := tilePositions(srcWidth, tileWidth, overlapWidth)
	ys, tileH := tilePositions(srcHeight, tileHeight, overlapHeight)

	specs := make([]Spec, 0, len(xs)*len(ys))

	for _, y := range ys {
		for _, x := range xs {
			specs = append(specs, NewCrop(geom.PixelBox{
				XMin: float64(x),
				YMin: float64(y),
				XMax: float64(x + tileW),
				YMax: float64(y + tileH),
			}))
		}
	}

	return specs, nil
}
