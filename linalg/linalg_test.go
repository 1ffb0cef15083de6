// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package linalg_test

import (
	"errors"
	"testing"

	"github.com/born-ml/dagnet/linalg"
)

func TestMatVec(t *testing.T) {
	w, err := linalg.NewMatrixFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	y := make([]float64, 2)
	linalg.MatVec(y, w, []float64{1, 0, -1})
	if y[0] != -2 || y[1] != -2 {
		t.Errorf("MatVec = %v, want [-2 -2]", y)
	}
}

func TestShapeError(t *testing.T) {
	a := linalg.NewMatrix(2, 2)
	b := linalg.NewMatrix(2, 3)

	var se *linalg.ShapeError
	if err := linalg.CheckSameShape("Add", a, b); !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on mismatched shapes")
		}
	}()
	linalg.AddInPlace(a, b)
}
