package train

import (
	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/nn"
)

// Sample is one training example: a vector per network input and a target
// vector per network output.
type Sample struct {
	Inputs  [][]float64
	Targets [][]float64
}

// NewSample creates a sample for a network with one input and one output.
func NewSample(x, y []float64) Sample {
	return Sample{Inputs: [][]float64{x}, Targets: [][]float64{y}}
}

// CheckSamples verifies that every sample matches the input and output
// layers of n in count and length.
func CheckSamples(n *nn.Network, data []Sample) error {
	for i, s := range data {
		if err := checkSample(n, i, s); err != nil {
			return err
		}
	}
	return nil
}

func checkSample(n *nn.Network, i int, s Sample) error {
	inputs, outputs := n.Inputs(), n.Outputs()
	if len(s.Inputs) != len(inputs) {
		return errors.Wrapf(nn.ErrInputMismatch, "sample %d: %d input vectors, network has %d inputs", i, len(s.Inputs), len(inputs))
	}
	for k, l := range inputs {
		if len(s.Inputs[k]) != l.Size() {
			return errors.Wrapf(nn.ErrInputMismatch, "sample %d: input %q has length %d, want %d", i, l.Name(), len(s.Inputs[k]), l.Size())
		}
	}
	if len(s.Targets) != len(outputs) {
		return errors.Wrapf(nn.ErrOutputMismatch, "sample %d: %d target vectors, network has %d outputs", i, len(s.Targets), len(outputs))
	}
	for k, l := range outputs {
		if len(s.Targets[k]) != l.Size() {
			return errors.Wrapf(nn.ErrOutputMismatch, "sample %d: target for %q has length %d, want %d", i, l.Name(), len(s.Targets[k]), l.Size())
		}
	}
	return nil
}
