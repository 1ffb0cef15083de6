package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatVec computes dst = a·x.
//
// len(x) must equal a.Cols() and len(dst) must equal a.Rows().
func MatVec(dst []float64, a *Matrix, x []float64) {
	mustLen("MatVec", x, a.cols)
	mustLen("MatVec", dst, a.rows)
	out := mat.NewVecDense(a.rows, dst)
	out.MulVec(a.dense(), mat.NewVecDense(a.cols, x))
}

// MatTVec computes dst = aᵀ·x without materializing the transpose.
//
// len(x) must equal a.Rows() and len(dst) must equal a.Cols().
func MatTVec(dst []float64, a *Matrix, x []float64) {
	mustLen("MatTVec", x, a.rows)
	mustLen("MatTVec", dst, a.cols)
	out := mat.NewVecDense(a.cols, dst)
	out.MulVec(a.dense().T(), mat.NewVecDense(a.rows, x))
}

// Outer overwrites dst with the outer product x·yᵀ.
func Outer(dst *Matrix, x, y []float64) {
	mustLen("Outer", x, dst.rows)
	mustLen("Outer", y, dst.cols)
	dst.dense().Outer(1, mat.NewVecDense(len(x), x), mat.NewVecDense(len(y), y))
}

// Mul computes dst = a·b.
func Mul(dst, a, b *Matrix) {
	if a.cols != b.rows {
		panic(&ShapeError{Op: "Mul", Expected: fmt.Sprintf("%d rows in rhs", a.cols), Got: b.Shape().String()})
	}
	if dst.rows != a.rows || dst.cols != b.cols {
		panic(&ShapeError{Op: "Mul", Expected: Shape{Rows: a.rows, Cols: b.cols}.String(), Got: dst.Shape().String()})
	}
	dst.dense().Mul(a.dense(), b.dense())
}

// Transpose returns a new matrix holding mᵀ.
func Transpose(m *Matrix) *Matrix {
	t := NewMatrix(m.cols, m.rows)
	t.dense().Copy(m.dense().T())
	return t
}

// AddInPlace computes dst += src.
func AddInPlace(dst, src *Matrix) {
	mustSameShape("AddInPlace", dst, src)
	floats.Add(dst.data, src.data)
}

// SubInPlace computes dst -= src.
func SubInPlace(dst, src *Matrix) {
	mustSameShape("SubInPlace", dst, src)
	floats.Sub(dst.data, src.data)
}

// AddScaled computes dst += alpha*src.
func AddScaled(dst *Matrix, alpha float64, src *Matrix) {
	mustSameShape("AddScaled", dst, src)
	floats.AddScaled(dst.data, alpha, src.data)
}

// Scale multiplies every element of m by alpha.
func Scale(m *Matrix, alpha float64) {
	floats.Scale(alpha, m.data)
}

// Clip clamps every element of m into [-limit, limit].
func Clip(m *Matrix, limit float64) {
	ClipVec(m.data, limit)
}

// ClipVec clamps every element of v into [-limit, limit].
func ClipVec(v []float64, limit float64) {
	for i, x := range v {
		v[i] = math.Max(-limit, math.Min(limit, x))
	}
}

// Hadamard computes the elementwise product dst = a ⊙ b.
func Hadamard(dst, a, b []float64) {
	mustLen("Hadamard", a, len(dst))
	mustLen("Hadamard", b, len(dst))
	floats.MulTo(dst, a, b)
}

// Apply computes dst[i] = f(src[i]).
func Apply(dst, src []float64, f func(float64) float64) {
	mustLen("Apply", src, len(dst))
	for i, x := range src {
		dst[i] = f(x)
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	mustLen("Dot", b, len(a))
	return floats.Dot(a, b)
}

// AddVec computes dst += src.
func AddVec(dst, src []float64) {
	mustLen("AddVec", src, len(dst))
	floats.Add(dst, src)
}

// ScaleVec multiplies every element of v by alpha.
func ScaleVec(v []float64, alpha float64) {
	floats.Scale(alpha, v)
}

// MaxAbs returns the largest absolute element of m, or 0 for an empty matrix.
func MaxAbs(m *Matrix) float64 {
	if len(m.data) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(m.data)), math.Abs(floats.Min(m.data)))
}
