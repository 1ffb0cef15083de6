package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// Dense implements a fully connected layer followed by an activation.
//
// Performs the transformation: y = f(W·x + b)
// where:
//   - x is the input vector with length in_features
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1]
//   - f is the activation, applied elementwise
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized with U(-1/sqrt(in_features), 1/sqrt(in_features)).
//
// Backward, with s = W·x + b:
//
//	dL/ds       = dL/dy ⊙ f'(s)
//	dL/db       = dL/ds
//	dL/dW[r][c] = dL/ds[r] · x[c]
//	dL/dx[c]    = Σ_r W[r][c] · dL/ds[r]
type Dense struct {
	base
	activation Activation
	weight     *Parameter // [out_features, in_features]
	bias       *Parameter // [out_features, 1]
	preact     []float64  // s = W·x + b from the last Forward
	dLds       []float64
}

// NewDense creates a new Dense layer.
//
// Parameters:
//   - name: Layer name
//   - size: Number of output features
//   - inFeatures: Length of the single input vector
//   - activation: Elementwise activation (use Linear{} for none)
//   - rng: Source for weight initialization
//
// Returns an error if a size is not positive or activation is nil.
func NewDense(name string, size, inFeatures int, activation Activation, rng *rand.Rand) (*Dense, error) {
	if err := validateSize(KindDense, name, size); err != nil {
		return nil, err
	}
	if inFeatures <= 0 {
		return nil, errors.Errorf("DENSE layer %q: input size must be > 0, got %d", name, inFeatures)
	}
	if activation == nil {
		return nil, errors.Errorf("DENSE layer %q: activation is nil", name)
	}
	if rng == nil {
		return nil, errors.Errorf("DENSE layer %q: random source is nil", name)
	}

	return &Dense{
		base:       newBase(name, size, []int{inFeatures}),
		activation: activation,
		weight:     NewParameter("weight", Xavier(inFeatures, size, rng)),
		bias:       NewParameter("bias", FanInUniform(inFeatures, size, rng)),
		preact:     make([]float64, size),
		dLds:       make([]float64, size),
	}, nil
}

// Kind implements Layer.
func (l *Dense) Kind() Kind { return KindDense }

// Forward computes y = f(W·x + b).
func (l *Dense) Forward() {
	linalg.MatVec(l.preact, l.weight.Value(), l.inputs[0])
	linalg.AddVec(l.preact, l.bias.Value().Data())
	ApplyActivation(l.activation, l.output, l.preact)
}

// Backward computes dL/dx and overwrites the weight and bias gradients.
func (l *Dense) Backward() {
	ApplyDerivative(l.activation, l.dLds, l.preact)
	linalg.Hadamard(l.dLds, l.dLds, l.dLdY)

	copy(l.bias.Grad().Data(), l.dLds)
	linalg.Outer(l.weight.Grad(), l.dLds, l.inputs[0])
	linalg.MatTVec(l.dLdX[0], l.weight.Value(), l.dLds)
}

// Reset implements Layer.
func (l *Dense) Reset() {
	l.base.Reset()
	clear(l.preact)
	clear(l.dLds)
}

// Parameters returns [weight, bias].
func (l *Dense) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Dense) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Dense) Bias() *Parameter {
	return l.bias
}

// Activation returns the layer's activation function.
func (l *Dense) Activation() Activation {
	return l.activation
}

// InFeatures returns the number of input features.
func (l *Dense) InFeatures() int {
	return len(l.inputs[0])
}
