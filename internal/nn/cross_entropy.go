package nn

import (
	"math"

	"github.com/pkg/errors"
)

// DefaultCrossEntropyEpsilon is the stabilizer added inside the logarithm.
const DefaultCrossEntropyEpsilon = 1e-12

// CrossEntropyLoss computes cross-entropy between a predicted distribution
// and a target distribution (usually one-hot).
//
// Mathematical Formulation:
//
//	component_i = -t_i · log(p_i + ε)
//	Loss        = Σ_i component_i
//
// Gradient:
//
//	∂L/∂p_i = -t_i / (p_i + ε)
//
// The network is expected to end in a Softmax layer, so predictions are
// probabilities. ε keeps log(0) finite when a probability underflows.
//
// Usage:
//
//	criterion, _ := nn.NewCrossEntropyLoss(nn.DefaultCrossEntropyEpsilon)
//	loss := nn.LossValue(criterion, probs, oneHot)
type CrossEntropyLoss struct {
	epsilon float64
}

// NewCrossEntropyLoss creates a cross-entropy loss with stabilizer epsilon >= 0.
func NewCrossEntropyLoss(epsilon float64) (*CrossEntropyLoss, error) {
	if epsilon < 0 || math.IsNaN(epsilon) {
		return nil, errors.Errorf("cross-entropy epsilon must be >= 0, got %g", epsilon)
	}
	return &CrossEntropyLoss{epsilon: epsilon}, nil
}

// Name implements Loss.
func (c *CrossEntropyLoss) Name() string { return LossCrossEntropy }

// Epsilon returns the stabilizing constant.
func (c *CrossEntropyLoss) Epsilon() float64 { return c.epsilon }

// Components implements Loss.
func (c *CrossEntropyLoss) Components(dst, predicted, target []float64) {
	checkLossArgs("CrossEntropyLoss", dst, predicted, target)
	for i, p := range predicted {
		if target[i] == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = -target[i] * math.Log(p+c.epsilon)
	}
}

// Gradient implements Loss.
func (c *CrossEntropyLoss) Gradient(dst, predicted, target []float64) {
	checkLossArgs("CrossEntropyLoss", dst, predicted, target)
	for i, p := range predicted {
		if target[i] == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = -target[i] / (p + c.epsilon)
	}
}

// Reduce implements Loss: sum over classes.
func (c *CrossEntropyLoss) Reduce(components []float64) float64 {
	var sum float64
	for _, v := range components {
		sum += v
	}
	return sum
}

// Argmax returns the index of the maximum value in the slice.
//
// This is used for computing classification accuracy.
func Argmax(z []float64) int {
	maxIdx := 0
	for i := 1; i < len(z); i++ {
		if z[i] > z[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}

// Accuracy returns the fraction of predictions whose argmax matches the
// argmax of the corresponding target.
func Accuracy(predictions, targets [][]float64) float64 {
	if len(predictions) == 0 {
		return 0
	}
	correct := 0
	for i, p := range predictions {
		if Argmax(p) == Argmax(targets[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(predictions))
}
