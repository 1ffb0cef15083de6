package nn

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Loss is a differentiable scalar objective over one output vector.
//
// The scalar loss is Reduce(Components(predicted, target)). Gradient must
// return the derivative of that scalar with respect to each predicted
// component, so that gradient checks against Reduce hold exactly.
//
// All slices passed to a Loss must have the same length; implementations
// panic otherwise.
type Loss interface {
	// Name returns the registry name (e.g. "MSE").
	Name() string

	// Components writes the per-component loss into dst.
	Components(dst, predicted, target []float64)

	// Gradient writes dL/dpredicted into dst.
	Gradient(dst, predicted, target []float64)

	// Reduce collapses per-component losses into the scalar loss.
	Reduce(components []float64) float64
}

// Loss registry names.
const (
	LossMSE          = "MSE"
	LossMAE          = "MAE"
	LossHuber        = "HUBER"
	LossCrossEntropy = "CROSS_ENTROPY"
)

// DefaultHuberDelta is the Huber threshold used by LossByName.
const DefaultHuberDelta = 1.0

// LossByName returns the loss registered under name with default settings.
func LossByName(name string) (Loss, error) {
	switch name {
	case LossMSE:
		return MSELoss{}, nil
	case LossMAE:
		return MAELoss{}, nil
	case LossHuber:
		return NewHuberLoss(DefaultHuberDelta)
	case LossCrossEntropy:
		return NewCrossEntropyLoss(DefaultCrossEntropyEpsilon)
	default:
		return nil, errors.Errorf("unknown loss %q", name)
	}
}

// LossValue returns the scalar loss of predicted against target.
func LossValue(l Loss, predicted, target []float64) float64 {
	components := make([]float64, len(predicted))
	l.Components(components, predicted, target)
	return l.Reduce(components)
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values.
type MSELoss struct{}

// Name implements Loss.
func (MSELoss) Name() string { return LossMSE }

// Components implements Loss: (p - t)².
func (MSELoss) Components(dst, predicted, target []float64) {
	checkLossArgs("MSELoss", dst, predicted, target)
	for i, p := range predicted {
		d := p - target[i]
		dst[i] = d * d
	}
}

// Gradient implements Loss: 2(p - t)/n.
func (MSELoss) Gradient(dst, predicted, target []float64) {
	checkLossArgs("MSELoss", dst, predicted, target)
	n := float64(len(predicted))
	for i, p := range predicted {
		dst[i] = 2 * (p - target[i]) / n
	}
}

// Reduce implements Loss: arithmetic mean.
func (MSELoss) Reduce(components []float64) float64 {
	return mean(components)
}

// MAELoss computes Mean Absolute Error loss.
//
// Loss = mean(|predictions - targets|)
//
// The derivative at p == t is taken to be 0.
type MAELoss struct{}

// Name implements Loss.
func (MAELoss) Name() string { return LossMAE }

// Components implements Loss: |p - t|.
func (MAELoss) Components(dst, predicted, target []float64) {
	checkLossArgs("MAELoss", dst, predicted, target)
	for i, p := range predicted {
		dst[i] = math.Abs(p - target[i])
	}
}

// Gradient implements Loss: sign(p - t)/n.
func (MAELoss) Gradient(dst, predicted, target []float64) {
	checkLossArgs("MAELoss", dst, predicted, target)
	n := float64(len(predicted))
	for i, p := range predicted {
		switch d := p - target[i]; {
		case d > 0:
			dst[i] = 1 / n
		case d < 0:
			dst[i] = -1 / n
		default:
			dst[i] = 0
		}
	}
}

// Reduce implements Loss: arithmetic mean.
func (MAELoss) Reduce(components []float64) float64 {
	return mean(components)
}

// HuberLoss is quadratic for small residuals and linear for large ones.
//
//	component = ½d²            if |d| ≤ δ
//	          = δ(|d| - ½δ)     otherwise
//
// where d = p - t. Loss is the mean of the components.
type HuberLoss struct {
	delta float64
}

// NewHuberLoss creates a Huber loss with threshold delta > 0.
func NewHuberLoss(delta float64) (*HuberLoss, error) {
	if !(delta > 0) {
		return nil, errors.Errorf("huber delta must be > 0, got %g", delta)
	}
	return &HuberLoss{delta: delta}, nil
}

// Name implements Loss.
func (h *HuberLoss) Name() string { return LossHuber }

// Delta returns the quadratic/linear threshold.
func (h *HuberLoss) Delta() float64 { return h.delta }

// Components implements Loss.
func (h *HuberLoss) Components(dst, predicted, target []float64) {
	checkLossArgs("HuberLoss", dst, predicted, target)
	for i, p := range predicted {
		d := math.Abs(p - target[i])
		if d <= h.delta {
			dst[i] = 0.5 * d * d
		} else {
			dst[i] = h.delta * (d - 0.5*h.delta)
		}
	}
}

// Gradient implements Loss.
func (h *HuberLoss) Gradient(dst, predicted, target []float64) {
	checkLossArgs("HuberLoss", dst, predicted, target)
	n := float64(len(predicted))
	for i, p := range predicted {
		d := p - target[i]
		dst[i] = math.Max(-h.delta, math.Min(h.delta, d)) / n
	}
}

// Reduce implements Loss: arithmetic mean.
func (h *HuberLoss) Reduce(components []float64) float64 {
	return mean(components)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func checkLossArgs(name string, dst, predicted, target []float64) {
	if len(predicted) != len(target) || len(dst) != len(predicted) {
		panic(fmt.Sprintf("%s: length mismatch: dst=%d predicted=%d target=%d",
			name, len(dst), len(predicted), len(target)))
	}
}
