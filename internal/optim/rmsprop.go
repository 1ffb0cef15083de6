package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// RMSProp divides the learning rate by a running root mean square of
// recent gradients.
//
// Update rule:
//
//	s = rho * s + (1-rho) * gradient²
//	update = lr * gradient / sqrt(s + eps)
//
// s starts at zero for every parameter.
//
// Example:
//
//	optimizer, err := optim.NewRMSProp(optim.RMSPropConfig{
//	    LR:  0.01,
//	    Rho: 0.9,
//	    Eps: 1e-6,
//	})
type RMSProp struct {
	lr        float64
	rho       float64
	eps       float64
	squareAvg slots
	out       slots
}

// RMSPropConfig holds configuration for RMSProp optimizer.
type RMSPropConfig struct {
	LR  float64 `json:"lr"`  // Learning rate, > 0
	Rho float64 `json:"rho"` // Decay of the squared-gradient average, in [0, 1)
	Eps float64 `json:"eps"` // Added under the square root, > 0
}

// Validate checks the configuration. Invalid values are never defaulted.
func (c RMSPropConfig) Validate() error {
	if err := checkPositive(NameRMSProp, "LR", c.LR); err != nil {
		return err
	}
	if err := checkDecay(NameRMSProp, "Rho", c.Rho); err != nil {
		return err
	}
	return checkPositive(NameRMSProp, "Eps", c.Eps)
}

// NewRMSProp creates a new RMSProp optimizer.
//
// Returns a *ConfigError if the configuration is invalid.
func NewRMSProp(config RMSPropConfig) (*RMSProp, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RMSProp{lr: config.LR, rho: config.Rho, eps: config.Eps}, nil
}

// Update implements Optimizer.
func (r *RMSProp) Update(grads []*linalg.Matrix) ([]*linalg.Matrix, error) {
	if err := r.squareAvg.ensure(grads); err != nil {
		return nil, err
	}
	if err := r.out.ensure(grads); err != nil {
		return nil, err
	}

	for i, g := range grads {
		s := r.squareAvg[i].Data()
		out := r.out[i].Data()
		for j, gj := range g.Data() {
			s[j] = r.rho*s[j] + (1-r.rho)*gj*gj
			out[j] = r.lr * gj / math.Sqrt(s[j]+r.eps)
		}
	}
	return r.out, nil
}

// Reset implements Optimizer.
func (r *RMSProp) Reset() {
	r.squareAvg = nil
	r.out = nil
}

// Name implements Optimizer.
func (r *RMSProp) Name() string { return NameRMSProp }

// LearningRate implements Optimizer.
func (r *RMSProp) LearningRate() float64 { return r.lr }

// SetLearningRate implements Optimizer.
func (r *RMSProp) SetLearningRate(lr float64) error {
	if err := checkPositive(NameRMSProp, "LR", lr); err != nil {
		return err
	}
	r.lr = lr
	return nil
}

// Hyperparameters implements Optimizer.
func (r *RMSProp) Hyperparameters() map[string]float64 {
	return map[string]float64{"lr": r.lr, "rho": r.rho, "eps": r.eps}
}

// State implements Optimizer.
//
// State keys: "square_avg.{param_index}".
func (r *RMSProp) State() map[string]*linalg.Matrix {
	state := make(map[string]*linalg.Matrix)
	r.squareAvg.export("square_avg", state)
	return state
}

// LoadState implements Optimizer.
func (r *RMSProp) LoadState(state map[string]*linalg.Matrix) error {
	if err := checkKnownKeys(NameRMSProp, state, "square_avg"); err != nil {
		return err
	}
	squareAvg, err := importSlots("square_avg", state)
	if err != nil {
		return errors.Wrap(err, NameRMSProp)
	}
	r.squareAvg = squareAvg
	r.out = nil
	return nil
}
