package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatrix(t *testing.T, rows, cols int, data ...float64) *Matrix {
	t.Helper()
	m, err := NewMatrixFrom(rows, cols, data)
	require.NoError(t, err)
	return m
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{Rows: 2, Cols: 3}.Validate())
	assert.Error(t, Shape{Rows: 0, Cols: 3}.Validate())
	assert.Error(t, Shape{Rows: 2, Cols: -1}.Validate())
	assert.Equal(t, "2x3", Shape{Rows: 2, Cols: 3}.String())
	assert.Equal(t, 6, Shape{Rows: 2, Cols: 3}.NumElements())
}

func TestNewMatrixFrom_LengthMismatch(t *testing.T) {
	_, err := NewMatrixFrom(2, 2, []float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs 4 values")
}

func TestMatrix_AccessorsAndClone(t *testing.T) {
	m := mustMatrix(t, 2, 3, 1, 2, 3, 4, 5, 6)

	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))

	c := m.Clone()
	c.Set(0, 0, 42)
	assert.Equal(t, 1.0, m.At(0, 0), "clone must not alias the original")
	assert.False(t, m.Equal(c))

	c.CopyFrom(m)
	assert.True(t, m.Equal(c))

	m.Zero()
	assert.Equal(t, 0.0, MaxAbs(m))

	assert.Panics(t, func() { m.At(2, 0) })
}

func TestMatVec(t *testing.T) {
	a := mustMatrix(t, 2, 3, 1, 2, 3, 4, 5, 6)
	dst := make([]float64, 2)

	MatVec(dst, a, []float64{1, 0, -1})
	assert.Equal(t, []float64{-2, -2}, dst)

	assert.Panics(t, func() { MatVec(dst, a, []float64{1, 2}) })
}

func TestMatTVec(t *testing.T) {
	a := mustMatrix(t, 2, 3, 1, 2, 3, 4, 5, 6)
	dst := make([]float64, 3)

	MatTVec(dst, a, []float64{1, 1})
	assert.Equal(t, []float64{5, 7, 9}, dst)
}

func TestOuter(t *testing.T) {
	dst := NewMatrix(2, 3)
	Outer(dst, []float64{1, 2}, []float64{3, 4, 5})
	assert.Equal(t, []float64{3, 4, 5, 6, 8, 10}, dst.Data())

	assert.Panics(t, func() { Outer(dst, []float64{1}, []float64{3, 4, 5}) })
}

func TestMulAndTranspose(t *testing.T) {
	a := mustMatrix(t, 2, 3, 1, 2, 3, 4, 5, 6)
	at := Transpose(a)
	assert.Equal(t, Shape{Rows: 3, Cols: 2}, at.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, at.Data())

	dst := NewMatrix(2, 2)
	Mul(dst, a, at)
	assert.Equal(t, []float64{14, 32, 32, 77}, dst.Data())

	var shapeErr *ShapeError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorAs(t, err, &shapeErr)
		}()
		Mul(dst, a, a)
	}()
	assert.Equal(t, "Mul", shapeErr.Op)
}

func TestElementwise(t *testing.T) {
	a := mustMatrix(t, 1, 3, 1, 2, 3)
	b := mustMatrix(t, 1, 3, 10, 20, 30)

	AddInPlace(a, b)
	assert.Equal(t, []float64{11, 22, 33}, a.Data())

	SubInPlace(a, b)
	assert.Equal(t, []float64{1, 2, 3}, a.Data())

	AddScaled(a, 0.5, b)
	assert.Equal(t, []float64{6, 12, 18}, a.Data())

	Scale(a, 0.5)
	assert.Equal(t, []float64{3, 6, 9}, a.Data())

	Clip(a, 5)
	assert.Equal(t, []float64{3, 5, 5}, a.Data())

	bad := NewMatrix(3, 1)
	assert.Panics(t, func() { AddInPlace(a, bad) })
	assert.Error(t, CheckSameShape("AddInPlace", a, bad))
}

func TestVectorKernels(t *testing.T) {
	dst := make([]float64, 3)
	Hadamard(dst, []float64{1, 2, 3}, []float64{4, 5, 6})
	assert.Equal(t, []float64{4, 10, 18}, dst)

	assert.Equal(t, 32.0, Dot([]float64{1, 2, 3}, []float64{4, 5, 6}))

	AddVec(dst, []float64{1, 1, 1})
	assert.Equal(t, []float64{5, 11, 19}, dst)

	ScaleVec(dst, 2)
	assert.Equal(t, []float64{10, 22, 38}, dst)

	Apply(dst, []float64{-1, 0, 1}, func(x float64) float64 { return x * x })
	assert.Equal(t, []float64{1, 0, 1}, dst)

	v := []float64{-3, 0.5, 7}
	ClipVec(v, 1)
	assert.Equal(t, []float64{-1, 0.5, 1}, v)

	assert.Error(t, CheckLen("Dot", v, 4))
}
