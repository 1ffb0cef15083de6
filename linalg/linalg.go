// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linalg provides the public API for the dense matrix and vector
// kernels used by dagnet.
//
// The package defines:
//   - Matrix: row-major float64 matrix
//   - Shape: matrix dimensions
//   - Kernels on vectors ([]float64) and matrices
//
// Kernels panic with a *ShapeError on mismatched operands.
//
// Example:
//
//	w, _ := linalg.NewMatrixFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
//	y := make([]float64, 2)
//	linalg.MatVec(y, w, []float64{1, 0, -1}) // y = [-2, -2]
package linalg

import (
	"github.com/born-ml/dagnet/internal/linalg"
)

// Type aliases for public API

// Matrix is a dense row-major float64 matrix.
type Matrix = linalg.Matrix

// Shape is the dimensions of a matrix.
type Shape = linalg.Shape

// ShapeError reports operands whose dimensions disagree.
type ShapeError = linalg.ShapeError

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return linalg.NewMatrix(rows, cols)
}

// NewMatrixFrom wraps data, which must hold rows*cols values in row-major order.
func NewMatrixFrom(rows, cols int, data []float64) (*Matrix, error) {
	return linalg.NewMatrixFrom(rows, cols, data)
}

// ZerosLike creates a zero matrix with the shape of m.
func ZerosLike(m *Matrix) *Matrix {
	return linalg.ZerosLike(m)
}

// CheckSameShape returns a *ShapeError if a and b differ in shape.
func CheckSameShape(op string, a, b *Matrix) error {
	return linalg.CheckSameShape(op, a, b)
}

// Matrix kernels

// MatVec computes dst = a·x.
func MatVec(dst []float64, a *Matrix, x []float64) { linalg.MatVec(dst, a, x) }

// MatTVec computes dst = aᵀ·x.
func MatTVec(dst []float64, a *Matrix, x []float64) { linalg.MatTVec(dst, a, x) }

// Outer computes dst = x·yᵀ.
func Outer(dst *Matrix, x, y []float64) { linalg.Outer(dst, x, y) }

// Mul computes dst = a·b.
func Mul(dst, a, b *Matrix) { linalg.Mul(dst, a, b) }

// Transpose returns a new matrix holding mᵀ.
func Transpose(m *Matrix) *Matrix { return linalg.Transpose(m) }

// AddInPlace computes dst += src.
func AddInPlace(dst, src *Matrix) { linalg.AddInPlace(dst, src) }

// SubInPlace computes dst -= src.
func SubInPlace(dst, src *Matrix) { linalg.SubInPlace(dst, src) }

// AddScaled computes dst += alpha·src.
func AddScaled(dst *Matrix, alpha float64, src *Matrix) { linalg.AddScaled(dst, alpha, src) }

// Scale computes m *= alpha.
func Scale(m *Matrix, alpha float64) { linalg.Scale(m, alpha) }

// Clip clamps every entry of m into [-limit, limit].
func Clip(m *Matrix, limit float64) { linalg.Clip(m, limit) }

// MaxAbs returns the largest absolute entry of m.
func MaxAbs(m *Matrix) float64 { return linalg.MaxAbs(m) }

// Vector kernels

// Hadamard computes dst[i] = a[i]·b[i].
func Hadamard(dst, a, b []float64) { linalg.Hadamard(dst, a, b) }

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 { return linalg.Dot(a, b) }

// AddVec computes dst += src.
func AddVec(dst, src []float64) { linalg.AddVec(dst, src) }

// ScaleVec computes v *= alpha.
func ScaleVec(v []float64, alpha float64) { linalg.ScaleVec(v, alpha) }

// ClipVec clamps every entry of v into [-limit, limit].
func ClipVec(v []float64, limit float64) { linalg.ClipVec(v, limit) }

// Apply computes dst[i] = f(src[i]).
func Apply(dst, src []float64, f func(float64) float64) { linalg.Apply(dst, src, f) }
