package transform

// LetterboxGeometry holds the scaling and padding used to letterbox a source
// image into destination dimensions whilst maintaining the image aspect
type LetterboxGeometry struct {
	// SrcWidth is the width of the source image
	SrcWidth int
	// SrcHeight is the height of the source image
	SrcHeight int
	// DestWidth is the width to scale to
	DestWidth int
	// DestHeight is the height to scale to
	DestHeight int
	// Scale is the single scale factor applied to both axes
	Scale float64
	// ResizeWidth and ResizeHeight are the dimensions of the scaled image
	// before padding
	ResizeWidth  int
	ResizeHeight int
	// XPad and YPad are the padding placed on the left and top
	XPad int
	YPad int
}

// LetterboxFor precalculates the scaling dimensions and padding for
// letterboxing a srcWidth x srcHeight image into destWidth x destHeight
func LetterboxFor(srcWidth, srcHeight, destWidth, destHeight int) LetterboxGeometry {

	g := LetterboxGeometry{
		SrcWidth:     srcWidth,
		SrcHeight:    srcHeight,
		DestWidth:    destWidth,
		DestHeight:   destHeight,
		ResizeWidth:  destWidth,
		ResizeHeight: destHeight,
	}

	scaleW := float64(destWidth) / float64(srcWidth)
	scaleH := float64(destHeight) / float64(srcHeight)
	g.Scale = scaleH

	if scaleW < scaleH {
		g.Scale = scaleW
		g.ResizeHeight = int(float64(srcHeight) * g.Scale)
	} else {
		g.ResizeWidth = int(float64(srcWidth) * g.Scale)
	}

	// guard against rounding a thin image down to nothing
	if g.ResizeWidth < 1 {
		g.ResizeWidth = 1
	}

	if g.ResizeHeight < 1 {
		g.ResizeHeight = 1
	}

	g.YPad = (destHeight - g.ResizeHeight) / 2 // padding height / 2
	g.XPad = (destWidth - g.ResizeWidth) / 2   // padding width / 2

	return g
}

// Matrix returns the coordinate transform of the letterbox.  The per axis
// ratios of the integer resize dimensions are used rather than Scale so
// coordinates line up with the pixels of the resized image.
func (g LetterboxGeometry) Matrix() Matrix {

	sx := float64(g.ResizeWidth) / float64(g.SrcWidth)
	sy := float64(g.ResizeHeight) / float64(g.SrcHeight)

	return TranslateMatrix(float64(g.XPad), float64(g.YPad)).Multiply(ScaleMatrix(sx, sy))
}
