package transform

import (
	"github.com/swdee/go-annotate/geom"
	"gonum.org/v1/gonum/mat"
)

// imageQuad returns the corners of a width x height image in clockwise order
// on screen and the same corners moved by the given displacements
func imageQuad(width, height float64, displacements []geom.PixelPoint) ([4]geom.PixelPoint, [4]geom.PixelPoint) {

	src := [4]geom.PixelPoint{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
	}

	var dst [4]geom.PixelPoint

	for i := range src {
		dst[i] = geom.PixelPoint{
			X: src[i].X + displacements[i].X,
			Y: src[i].Y + displacements[i].Y,
		}
	}

	return src, dst
}

// convexClockwise reports whether the quadrilateral is strictly convex and
// wound the same way as the image corners from imageQuad.  Any other corner
// set folds or collapses the image and has no usable homography.
func convexClockwise(q [4]geom.PixelPoint) bool {

	for i := range q {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]

		// with y pointing down the image corners all turn positive
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)

		if !(cross > 0) {
			return false
		}
	}

	return true
}

// perspectiveMatrix returns the homography mapping the corners of a width x
// height image onto the same corners moved by the given displacements
func perspectiveMatrix(width, height float64, displacements []geom.PixelPoint) (Matrix, error) {
	src, dst := imageQuad(width, height, displacements)
	return Homography(src, dst)
}

// Homography solves for the projective transform mapping the four src
// points onto the four dst points.  The eight unknowns of the matrix, with the
// bottom right element fixed to 1, are found from the linear system
//
//	u = (a*x + b*y + c) / (g*x + h*y + 1)
//	v = (d*x + e*y + f) / (g*x + h*y + 1)
//
// written out for each point pair.
func Homography(src, dst [4]geom.PixelPoint) (Matrix, error) {

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(i*2, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		a.SetRow(i*2+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})

		b.SetVec(i*2, u)
		b.SetVec(i*2+1, v)
	}

	var h mat.VecDense

	if err := h.SolveVec(a, b); err != nil {
		return Matrix{}, (Spec{Kind: Perspective}).invalid("corners do not form a valid quadrilateral: %v", err)
	}

	return Matrix{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}, nil
}
