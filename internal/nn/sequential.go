package nn

import (
	"strconv"
)

// DenseSpec describes one Dense layer of a Sequential chain.
type DenseSpec struct {
	Size       int
	Activation Activation
}

// Sequential builds a chain network: one Input layer named "input" followed
// by Dense layers named "dense0", "dense1", ... Each layer's output becomes
// the next layer's input, and the last Dense layer is the single output.
//
// Example:
//
//	net, err := nn.Sequential(42, 1,
//	    nn.DenseSpec{Size: 16, Activation: nn.Tanh{}},
//	    nn.DenseSpec{Size: 16, Activation: nn.Tanh{}},
//	    nn.DenseSpec{Size: 1, Activation: nn.Linear{}},
//	)
//
// This is equivalent to:
//
//	b := nn.NewBuilder(42)
//	b.Input("input", 1)
//	b.Dense("dense0", 16, nn.Tanh{}, "input")
//	b.Dense("dense1", 16, nn.Tanh{}, "dense0")
//	b.Dense("dense2", 1, nn.Linear{}, "dense1")
//	net, err := b.Build("dense2")
func Sequential(seed int64, inputSize int, layers ...DenseSpec) (*Network, error) {
	b := NewBuilder(seed)
	b.Input("input", inputSize)

	prev := "input"
	for i, spec := range layers {
		name := "dense" + strconv.Itoa(i)
		b.Dense(name, spec.Size, spec.Activation, prev)
		prev = name
	}
	return b.Build(prev)
}
