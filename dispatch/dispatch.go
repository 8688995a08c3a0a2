// Package dispatch applies a chain of transforms to a set of annotations,
// routing boxes and polygons through their own transform functions.
package dispatch

import (
	"fmt"

	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/transform"
)

// Params configures the Dispatcher
type Params struct {
	// Clip is the policy used for polygon vertices leaving the image
	Clip transform.ClipPolicy
	// MinArea is the pixel area an annotation must keep after each step to
	// survive.  Zero removes only annotations that lost all area.
	MinArea float64
}

// Removal records an annotation removed by the chain
type Removal struct {
	ID string
	// Step is the index of the chain step that removed the annotation
	Step int
	Kind transform.Kind
}

// Result holds the annotations surviving a chain and the IDs of the ones
// reduced to nothing by it.  Width and Height are the image dimensions after
// the chain.
type Result struct {
	Annotations []annotation.Annotation
	Removed     []Removal
	Width       int
	Height      int
}

// RemovedIDs returns the IDs of the removed annotations in input order
func (r Result) RemovedIDs() []string {

	ids := make([]string, len(r.Removed))

	for i, rm := range r.Removed {
		ids[i] = rm.ID
	}

	return ids
}

// Dispatcher applies transform chains to annotations
type Dispatcher struct {
	params Params
}

// New returns a Dispatcher with the given parameters
func New(params Params) *Dispatcher {
	return &Dispatcher{params: params}
}

// Apply runs the chain over every annotation for a starting image of width x
// height.  The chain is resolved against those dimensions first so an invalid
// step fails the whole call before any annotation is touched.  Annotations
// are not modified, new values are returned.
func (d *Dispatcher) Apply(chain transform.Chain, anns []annotation.Annotation,
	width, height int) (Result, error) {

	resolved, err := chain.Resolve(width, height)

	if err != nil {
		return Result{}, err
	}

	outW, outH := resolved.OutSize(width, height)

	res := Result{
		Annotations: make([]annotation.Annotation, 0, len(anns)),
		Width:       outW,
		Height:      outH,
	}

	for _, a := range anns {
		out, step, err := d.applyResolved(resolved, a)

		if err != nil {
			return Result{}, fmt.Errorf("annotation %s: %w", a.ID, err)
		}

		if step >= 0 {
			res.Removed = append(res.Removed, Removal{
				ID:   a.ID,
				Step: step,
				Kind: resolved[step].Kind,
			})
			continue
		}

		res.Annotations = append(res.Annotations, out)
	}

	return res, nil
}

// ApplyOne runs a resolved chain over a single annotation.  The returned bool
// is false when the annotation was removed by the chain.
func (d *Dispatcher) ApplyOne(resolved transform.Chain,
	a annotation.Annotation) (annotation.Annotation, bool, error) {

	out, step, err := d.applyResolved(resolved, a)

	if err != nil {
		return annotation.Annotation{}, false, err
	}

	return out, step < 0, nil
}

// applyResolved returns the transformed annotation, or the index of the step
// that emptied it, or -1 when it survives every step
func (d *Dispatcher) applyResolved(resolved transform.Chain,
	a annotation.Annotation) (annotation.Annotation, int, error) {

	switch a.Shape {
	case annotation.ShapeBox:
		return d.applyBox(resolved, a)
	case annotation.ShapePolygon:
		return d.applyPolygon(resolved, a)
	}

	return annotation.Annotation{}, -1, fmt.Errorf("%w: %s", annotation.ErrUnknownShape, a.Shape)
}

// applyBox runs the box specific transform for each step
func (d *Dispatcher) applyBox(resolved transform.Chain,
	a annotation.Annotation) (annotation.Annotation, int, error) {

	box := a.Box

	for i, s := range resolved {
		r, err := transform.ApplyBox(box, s)

		if err != nil {
			return annotation.Annotation{}, -1, fmt.Errorf("step %d: %w", i, err)
		}

		if r.Empty || r.Box.Area() < d.params.MinArea {
			return annotation.Annotation{}, i, nil
		}

		box = r.Box
	}

	return a.WithBox(box), -1, nil
}

// applyPolygon runs the polygon specific transform for each step
func (d *Dispatcher) applyPolygon(resolved transform.Chain,
	a annotation.Annotation) (annotation.Annotation, int, error) {

	poly := a.Polygon

	for i, s := range resolved {
		r, err := transform.ApplyPolygon(poly, s, d.params.Clip)

		if err != nil {
			return annotation.Annotation{}, -1, fmt.Errorf("step %d: %w", i, err)
		}

		if r.Empty || r.Polygon.Area() < d.params.MinArea {
			return annotation.Annotation{}, i, nil
		}

		poly = r.Polygon
	}

	return a.WithPolygon(poly), -1, nil
}
