// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/dagnet/internal/nn"
)

// Layer is a node of the computational graph.
type Layer = nn.Layer

// Kind identifies a layer variant.
type Kind = nn.Kind

// Layer kinds.
const (
	KindInput   = nn.KindInput
	KindDense   = nn.KindDense
	KindAdd     = nn.KindAdd
	KindConcat  = nn.KindConcat
	KindSoftmax = nn.KindSoftmax
)

// Layers

// Input is the entry point of a network.
type Input = nn.Input

// NewInput creates a standalone Input layer.
func NewInput(name string, size int) (*Input, error) {
	return nn.NewInput(name, size)
}

// Dense represents a fully connected layer followed by an activation.
type Dense = nn.Dense

// NewDense creates a standalone Dense layer with Xavier-initialized weights.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	layer, err := nn.NewDense("hidden", 16, 4, nn.Tanh{}, rng)
func NewDense(name string, size, inFeatures int, activation Activation, rng *rand.Rand) (*Dense, error) {
	return nn.NewDense(name, size, inFeatures, activation, rng)
}

// Add sums equal-length inputs elementwise.
type Add = nn.Add

// NewAdd creates a standalone Add layer.
func NewAdd(name string, size, numInputs int) (*Add, error) {
	return nn.NewAdd(name, size, numInputs)
}

// Concatenate joins its inputs into one vector.
type Concatenate = nn.Concatenate

// NewConcatenate creates a standalone Concatenate layer.
func NewConcatenate(name string, inputSizes []int) (*Concatenate, error) {
	return nn.NewConcatenate(name, inputSizes)
}

// Softmax normalizes its input into a probability distribution.
type Softmax = nn.Softmax

// NewSoftmax creates a standalone Softmax layer.
func NewSoftmax(name string, size int, epsilon float64) (*Softmax, error) {
	return nn.NewSoftmax(name, size, epsilon)
}

// Networks

// Network is a directed acyclic graph of layers.
type Network = nn.Network

// Descriptor is the serializable description of one layer.
type Descriptor = nn.Descriptor

// FromDescriptors builds and validates a network from layer descriptors.
func FromDescriptors(descs []Descriptor, outputs []int, seed int64) (*Network, error) {
	return nn.FromDescriptors(descs, outputs, seed)
}

// Builder assembles a Network layer by layer.
type Builder = nn.Builder

// NewBuilder creates an empty Builder. seed drives parameter initialization.
func NewBuilder(seed int64) *Builder {
	return nn.NewBuilder(seed)
}

// DenseSpec describes one Dense layer of a Sequential chain.
type DenseSpec = nn.DenseSpec

// Sequential builds a chain of Dense layers behind one Input layer.
func Sequential(seed int64, inputSize int, layers ...DenseSpec) (*Network, error) {
	return nn.Sequential(seed, inputSize, layers...)
}

// ValidName reports whether name can be used as a layer name.
func ValidName(name string) bool {
	return nn.ValidName(name)
}

// Errors

// GraphError describes a structurally invalid layer graph.
type GraphError = nn.GraphError

// Graph validation reasons.
const (
	ReasonCycle        = nn.ReasonCycle
	ReasonDisconnected = nn.ReasonDisconnected
	ReasonUnused       = nn.ReasonUnused
	ReasonMissingInput = nn.ReasonMissingInput
	ReasonNoInputs     = nn.ReasonNoInputs
	ReasonNoOutputs    = nn.ReasonNoOutputs
)

// Sentinel errors.
var (
	ErrInvalidName    = nn.ErrInvalidName
	ErrDuplicateName  = nn.ErrDuplicateName
	ErrUnknownLayer   = nn.ErrUnknownLayer
	ErrShapeMismatch  = nn.ErrShapeMismatch
	ErrInputMismatch  = nn.ErrInputMismatch
	ErrOutputMismatch = nn.ErrOutputMismatch
)

// IsGraphError reports whether err is a *GraphError with the given reason.
func IsGraphError(err error, reason string) bool {
	return nn.IsGraphError(err, reason)
}
