package transform

import (
	"fmt"
)

// Chain is an ordered list of operations applied one after another.  The
// output dimensions of each step are the input dimensions of the next.
type Chain []Spec

// Resolve validates every step of the chain for a starting image of width x
// height and returns a copy with each step's dimensions and matrix set
func (c Chain) Resolve(width, height int) (Chain, error) {

	out := make(Chain, len(c))
	w, h := width, height

	for i, s := range c {
		r, err := s.Resolve(w, h)

		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		out[i] = r
		w, h = r.OutWidth, r.OutHeight
	}

	return out, nil
}

// OutSize returns the dimensions of the image produced by a resolved chain
// starting from width x height
func (c Chain) OutSize(width, height int) (int, int) {

	if len(c) == 0 {
		return width, height
	}

	last := c[len(c)-1]

	return last.OutWidth, last.OutHeight
}

// Matrix returns the combined transformation matrix of a resolved chain.
// Coordinates mapped with the combined matrix are not clamped between steps,
// use the per shape Apply functions when intermediate clipping matters.
func (c Chain) Matrix() (Matrix, error) {

	m := Identity()

	for i, s := range c {
		sm, err := s.Matrix()

		if err != nil {
			return Matrix{}, fmt.Errorf("step %d: %w", i, err)
		}

		m = sm.Multiply(m)
	}

	return m, nil
}

// Kinds returns the operation kind of each step, mostly useful for logging
func (c Chain) Kinds() []Kind {

	kinds := make([]Kind, len(c))

	for i, s := range c {
		kinds[i] = s.Kind
	}

	return kinds
}
