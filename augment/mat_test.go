package augment

import (
	"image"
	"image/color"
	"testing"

	"github.com/swdee/go-annotate/geom"
	"github.com/swdee/go-annotate/transform"
	"gocv.io/x/gocv"
)

var (
	blackRGBA = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	whiteRGBA = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestMatWarperLetterbox(t *testing.T) {

	tests := []struct {
		srcWidth     int
		srcHeight    int
		resizeWidth  int
		resizeHeight int
	}{
		{1280, 720, 640, 640},
		{800, 1000, 640, 640},
		{800, 800, 640, 640},
	}

	warper := NewMatWarper(blackRGBA)
	defer warper.Close()

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC1)
		resizedImg := gocv.NewMat()

		s, err := transform.NewLetterbox(tc.resizeWidth, tc.resizeHeight).Resolve(tc.srcWidth, tc.srcHeight)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := warper.Apply(img, &resizedImg, s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resizedImg.Cols() != tc.resizeWidth || resizedImg.Rows() != tc.resizeHeight {
			t.Errorf("Test failed for src (%d, %d): expected %dx%d, got %dx%d",
				tc.srcWidth, tc.srcHeight, tc.resizeWidth, tc.resizeHeight,
				resizedImg.Cols(), resizedImg.Rows())
		}

		img.Close()
		resizedImg.Close()
	}
}

func TestMatWarperKeepsLabelsAligned(t *testing.T) {

	img := gocv.Zeros(100, 100, gocv.MatTypeCV8UC1)
	defer img.Close()

	gocv.Rectangle(&img, image.Rect(10, 10, 30, 30), whiteRGBA, -1)

	box := geom.PixelBox{XMin: 10, YMin: 10, XMax: 30, YMax: 30}

	warper := NewMatWarper(blackRGBA)
	defer warper.Close()

	chains := map[string]transform.Chain{
		"flip horizontal": {transform.NewFlipHorizontal()},
		"rotate 90":       {transform.NewRotate(90)},
		"crop and resize": {
			transform.NewCrop(geom.PixelBox{XMin: 0, YMin: 0, XMax: 50, YMax: 50}),
			transform.NewResize(100, 100),
		},
		"perspective": {transform.NewPerspective([4]geom.PixelPoint{{X: 5}, {}, {}, {Y: -5}})},
	}

	for name, chain := range chains {
		t.Run(name, func(t *testing.T) {

			resolved := mustResolveChain(t, chain, 100, 100)

			out := gocv.NewMat()
			defer out.Close()

			if err := warper.ApplyChain(img, &out, resolved); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			b := box

			for _, s := range resolved {
				r, err := transform.ApplyBox(b, s)

				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				b = r.Box
			}

			c := b.Center()

			if v := out.GetUCharAt(int(c.Y), int(c.X)); v < 200 {
				t.Errorf("expected white pixel at box center %v, got %d", c, v)
			}
		})
	}
}

func TestMatWarperWrongSize(t *testing.T) {

	img := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
	defer img.Close()

	out := gocv.NewMat()
	defer out.Close()

	s, err := transform.NewFlipVertical().Resolve(20, 20)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	warper := NewMatWarper(blackRGBA)
	defer warper.Close()

	if err := warper.Apply(img, &out, s); err == nil {
		t.Errorf("expected error for mismatched mat size")
	}
}
