// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/dagnet/internal/nn"
	"github.com/born-ml/dagnet/linalg"
)

// Parameter represents a trainable parameter in a layer.
//
// A Parameter pairs a value matrix with a gradient matrix of the same shape.
//
// Example:
//
//	for _, p := range net.Parameters() {
//	    w := p.Value()
//	    g := p.Grad() // same shape as w
//	}
//
// Methods:
//
//	Name() string
//	Value() *linalg.Matrix
//	Grad() *linalg.Matrix
//	Shape() linalg.Shape
//	ZeroGrad()
type Parameter = nn.Parameter

// NewParameter creates a parameter with a zeroed gradient.
func NewParameter(name string, value *linalg.Matrix) *Parameter {
	return nn.NewParameter(name, value)
}

// Xavier returns a fanOut×fanIn matrix drawn from the Glorot uniform distribution.
func Xavier(fanIn, fanOut int, rng *rand.Rand) *linalg.Matrix {
	return nn.Xavier(fanIn, fanOut, rng)
}

// FanInUniform returns a fanOut×1 column drawn from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
func FanInUniform(fanIn, fanOut int, rng *rand.Rand) *linalg.Matrix {
	return nn.FanInUniform(fanIn, fanOut, rng)
}
