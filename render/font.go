package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the text label to the annotation
	Alignment Alignment
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}

// label defines where an annotation label should be rendered on the image
type label struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// placeLabel positions the text above the span left to right at height top
func (f Font) placeLabel(text string, left, right, top int, clr color.RGBA,
	lineThickness int) label {

	textSize := gocv.GetTextSize(text, f.Face, f.Scale, f.Thickness)

	// calculate the alignment of text label
	var centerX int

	switch f.Alignment {
	case Center:
		centerX = (left + right) / 2

	case Right:
		centerX = right - (textSize.X / 2) - f.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = left + (textSize.X / 2) + f.LeftPad - (lineThickness / 2)
	}

	// keep labels of objects touching the top edge on the image
	if top < textSize.Y+f.TopPad+f.BottomPad {
		top = textSize.Y + f.TopPad + f.BottomPad
	}

	return label{
		rect: image.Rect(centerX-textSize.X/2-f.LeftPad,
			top-textSize.Y-f.TopPad-f.BottomPad,
			centerX+textSize.X/2+f.RightPad, top),
		clr:     clr,
		text:    text,
		textPos: image.Pt(centerX-textSize.X/2, top-f.BottomPad),
	}
}

// draw renders the label background box and text
func (f Font) draw(img *gocv.Mat, l label) {

	// draw box text gets written on
	gocv.Rectangle(img, l.rect, l.clr, -1)

	// draw the label over box
	gocv.PutTextWithParams(img, l.text, l.textPos,
		f.Face, f.Scale, f.Color, f.Thickness, f.LineType, false)
}
