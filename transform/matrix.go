package transform

import (
	"fmt"
	"math"

	"github.com/swdee/go-annotate/geom"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a 3x3 homogeneous transformation matrix stored in row major
// order.
//
//	| m0  m1  m2 |
//	| m3  m4  m5 |
//	| m6  m7  m8 |
//
// Affine matrices have a bottom row of 0, 0, 1.  A point (x, y) maps to
// ((m0*x + m1*y + m2) / w, (m3*x + m4*y + m5) / w) with w = m6*x + m7*y + m8.
type Matrix [9]float64

// Identity returns the identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// TranslateMatrix returns a translation matrix
func TranslateMatrix(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty, 0, 0, 1}
}

// ScaleMatrix returns a scale matrix
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0, 0, 0, 1}
}

// ShearMatrix returns a shear matrix where x' = x + sx*y and y' = y + sy*x
func ShearMatrix(sx, sy float64) Matrix {
	return Matrix{1, sx, 0, sy, 1, 0, 0, 0, 1}
}

// RotateMatrix returns a matrix rotating by the given degrees around the pivot
// point (cx, cy).  In image coordinates, with y growing downwards, positive
// degrees turn clockwise on screen.  Whole turns return the identity matrix
// so rotating by 0 or 360 degrees leaves coordinates untouched.
func RotateMatrix(degrees, cx, cy float64) Matrix {

	deg := math.Mod(degrees, 360)

	if deg == 0 {
		return Identity()
	}

	rad := deg * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	// T(cx,cy) * R * T(-cx,-cy)
	return Matrix{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
		0, 0, 1,
	}
}

// Multiply returns m * other, which applies other first and then m
func (m Matrix) Multiply(other Matrix) Matrix {

	var out Matrix

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3+0]*other[0*3+c] +
				m[r*3+1]*other[1*3+c] +
				m[r*3+2]*other[2*3+c]
		}
	}

	return out
}

// IsAffine reports whether the matrix has no projective component
func (m Matrix) IsAffine() bool {
	return m[6] == 0 && m[7] == 0 && m[8] == 1
}

// IsIdentity checks if this is the identity matrix within a small epsilon
func (m Matrix) IsIdentity() bool {

	const eps = 1e-10
	id := Identity()

	for i := range m {
		if math.Abs(m[i]-id[i]) > eps {
			return false
		}
	}

	return true
}

// Apply transforms a point by the matrix including the perspective divide
func (m Matrix) Apply(p geom.PixelPoint) geom.PixelPoint {

	x := m[0]*p.X + m[1]*p.Y + m[2]
	y := m[3]*p.X + m[4]*p.Y + m[5]

	if m.IsAffine() {
		return geom.PixelPoint{X: x, Y: y}
	}

	w := m[6]*p.X + m[7]*p.Y + m[8]

	return geom.PixelPoint{X: x / w, Y: y / w}
}

// ApplyBox transforms the four corners of a box and returns their axis
// aligned bounding box.  The result of any rotation, shear or perspective
// matrix is larger than the shape it encloses, boxes can not represent
// rotated rectangles.
func (m Matrix) ApplyBox(b geom.PixelBox) geom.PixelBox {

	corners := b.Corners()
	poly := make(geom.PixelPolygon, len(corners))

	for i, c := range corners {
		poly[i] = m.Apply(c)
	}

	return poly.Bounds()
}

// Inverse returns the inverse of the matrix, normalized so the bottom right
// element is 1
func (m Matrix) Inverse() (Matrix, error) {

	var inv mat.Dense

	if err := inv.Inverse(mat.NewDense(3, 3, m[:])); err != nil {
		return Matrix{}, fmt.Errorf("matrix is not invertible: %w", err)
	}

	var out Matrix

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = inv.At(r, c)
		}
	}

	if out[8] != 0 && out[8] != 1 {
		div := out[8]
		for i := range out {
			out[i] /= div
		}
	}

	return out, nil
}

// Aff3 returns the top two rows of the matrix in the layout used by
// golang.org/x/image/math/f64.Aff3
func (m Matrix) Aff3() [6]float64 {
	return [6]float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}
