// Package augment samples random geometric augmentations as transform chains
// and applies those chains to image pixels.  Labels go through the same
// chain with the dispatch package so images and annotations stay aligned.
package augment

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/swdee/go-annotate/geom"
	"github.com/swdee/go-annotate/transform"
)

// Params are the augmentation ranges used when sampling a chain.  The
// defaults match the Ultralytics training hyperparameters.
type Params struct {
	// Degrees is the rotation range, a value in [-Degrees, +Degrees] is used
	Degrees float64 `yaml:"degrees" envconfig:"DEGREES"`
	// Scale is the zoom gain, a factor in [1-Scale, 1+Scale] is used
	Scale float64 `yaml:"scale" envconfig:"SCALE"`
	// Shear is the shear range in degrees for each axis
	Shear float64 `yaml:"shear" envconfig:"SHEAR"`
	// Perspective is the largest corner displacement as a fraction of the
	// image size
	Perspective float64 `yaml:"perspective" envconfig:"PERSPECTIVE"`
	// FlipUD is the probability of a vertical flip
	FlipUD float64 `yaml:"flipud" envconfig:"FLIPUD"`
	// FlipLR is the probability of a horizontal flip
	FlipLR float64 `yaml:"fliplr" envconfig:"FLIPLR"`
	// Size is the square letterbox size applied last, zero disables it
	Size int `yaml:"imgsz" envconfig:"IMGSZ"`
}

// DefaultParams returns the Ultralytics default augmentation ranges
func DefaultParams() Params {
	return Params{
		Degrees:     0.0,
		Scale:       0.5,
		Shear:       0.0,
		Perspective: 0.0,
		FlipUD:      0.0,
		FlipLR:      0.5,
		Size:        640,
	}
}

// Validate checks the ranges are usable
func (p Params) Validate() error {

	if p.Degrees < 0 || p.Degrees > 180 {
		return fmt.Errorf("degrees %v must be within [0, 180]", p.Degrees)
	}

	if p.Scale < 0 || p.Scale >= 1 {
		return fmt.Errorf("scale %v must be within [0, 1)", p.Scale)
	}

	if p.Shear < 0 || p.Shear >= 45 {
		return fmt.Errorf("shear %v must be within [0, 45)", p.Shear)
	}

	if p.Perspective < 0 || p.Perspective >= 0.5 {
		return fmt.Errorf("perspective %v must be within [0, 0.5)", p.Perspective)
	}

	if p.FlipUD < 0 || p.FlipUD > 1 || p.FlipLR < 0 || p.FlipLR > 1 {
		return fmt.Errorf("flip probabilities %v, %v must be within [0, 1]", p.FlipUD, p.FlipLR)
	}

	if p.Size < 0 {
		return fmt.Errorf("imgsz %d must not be negative", p.Size)
	}

	return nil
}

// uniform returns a value in [-r, r]
func uniform(rng *rand.Rand, r float64) float64 {
	return (rng.Float64()*2 - 1) * r
}

// perspectiveDraws is the number of attempts at sampling corner
// displacements that do not fold the image
const perspectiveDraws = 10

// samplePerspective draws corner displacements of up to Perspective times
// the image size.  Large ranges can fold the image so draws that do not
// resolve are retried and after perspectiveDraws failures no perspective is
// applied.
func (p Params) samplePerspective(rng *rand.Rand, width, height int) (transform.Spec, bool) {

	for range perspectiveDraws {
		var corners [4]geom.PixelPoint

		for i := range corners {
			corners[i] = geom.PixelPoint{
				X: uniform(rng, p.Perspective*float64(width)),
				Y: uniform(rng, p.Perspective*float64(height)),
			}
		}

		s := transform.NewPerspective(corners)

		if _, err := s.Resolve(width, height); err == nil {
			return s, true
		}
	}

	return transform.Spec{}, false
}

// Sample draws one random augmentation for an image of width x height and
// returns it as an unresolved chain.  Operations that sample to a no-op are
// left out so an all zero Params gives an empty chain.
func (p Params) Sample(rng *rand.Rand, width, height int) transform.Chain {

	var chain transform.Chain
	w, h := width, height

	if p.Degrees > 0 {
		if deg := uniform(rng, p.Degrees); deg != 0 {
			chain = append(chain, transform.NewRotate(deg))
		}
	}

	if p.Shear > 0 {
		sx := math.Tan(uniform(rng, p.Shear) * math.Pi / 180)
		sy := math.Tan(uniform(rng, p.Shear) * math.Pi / 180)
		chain = append(chain, transform.NewShear(sx, sy))
	}

	if p.Perspective > 0 {
		if s, ok := p.samplePerspective(rng, w, h); ok {
			chain = append(chain, s)
		}
	}

	if p.Scale > 0 {
		chain, w, h = appendZoom(chain, 1+uniform(rng, p.Scale), w, h)
	}

	if p.FlipLR > 0 && rng.Float64() < p.FlipLR {
		chain = append(chain, transform.NewFlipHorizontal())
	}

	if p.FlipUD > 0 && rng.Float64() < p.FlipUD {
		chain = append(chain, transform.NewFlipVertical())
	}

	if p.Size > 0 && (w != p.Size || h != p.Size) {
		chain = append(chain, transform.NewLetterbox(p.Size, p.Size))
	}

	return chain
}

// appendZoom adds the steps zooming a width x height image by factor around
// its center while keeping its size.  Zooming in resizes then crops the
// center, zooming out resizes then pads back with a letterbox.
func appendZoom(chain transform.Chain, factor float64, width, height int) (transform.Chain, int, int) {

	zw := int(math.Round(float64(width) * factor))
	zh := int(math.Round(float64(height) * factor))

	if zw < 1 || zh < 1 || (zw == width && zh == height) {
		return chain, width, height
	}

	chain = append(chain, transform.NewResize(zw, zh))

	if zw > width && zh > height {
		// crop regions lie on whole pixels
		x := float64((zw - width) / 2)
		y := float64((zh - height) / 2)

		chain = append(chain, transform.NewCrop(geom.PixelBox{
			XMin: x, YMin: y, XMax: x + float64(width), YMax: y + float64(height),
		}))

		return chain, width, height
	}

	chain = append(chain, transform.NewLetterbox(width, height))

	return chain, width, height
}
