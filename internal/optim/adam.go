package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	update = lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Beta1: 0.9,
//	    Beta2: 0.999,
//	    Eps:   1e-8,
//	})
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int   // Timestep for bias correction
	m     slots // First moment estimates
	v     slots // Second moment estimates
	out   slots
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64 `json:"lr"`    // Learning rate, > 0
	Beta1 float64 `json:"beta1"` // First moment decay, in [0, 1)
	Beta2 float64 `json:"beta2"` // Second moment decay, in [0, 1)
	Eps   float64 `json:"eps"`   // Term for numerical stability, > 0
}

// Validate checks the configuration. Invalid values are never defaulted.
func (c AdamConfig) Validate() error {
	if err := checkPositive(NameAdam, "LR", c.LR); err != nil {
		return err
	}
	if err := checkDecay(NameAdam, "Beta1", c.Beta1); err != nil {
		return err
	}
	if err := checkDecay(NameAdam, "Beta2", c.Beta2); err != nil {
		return err
	}
	return checkPositive(NameAdam, "Eps", c.Eps)
}

// NewAdam creates a new Adam optimizer.
//
// Returns a *ConfigError if the configuration is invalid.
func NewAdam(config AdamConfig) (*Adam, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adam{lr: config.LR, beta1: config.Beta1, beta2: config.Beta2, eps: config.Eps}, nil
}

// Update implements Optimizer.
//
// Applies the Adam update to every gradient:
//  1. Update biased first moment estimate
//  2. Update biased second moment estimate
//  3. Compute bias-corrected moment estimates
//  4. Write the update
func (a *Adam) Update(grads []*linalg.Matrix) ([]*linalg.Matrix, error) {
	for _, s := range []*slots{&a.m, &a.v, &a.out} {
		if err := s.ensure(grads); err != nil {
			return nil, err
		}
	}

	a.t++
	biasCorrection1 := 1 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, g := range grads {
		m, v, out := a.m[i].Data(), a.v[i].Data(), a.out[i].Data()
		for j, gj := range g.Data() {
			m[j] = a.beta1*m[j] + (1-a.beta1)*gj
			v[j] = a.beta2*v[j] + (1-a.beta2)*gj*gj

			mHat := m[j] / biasCorrection1
			vHat := v[j] / biasCorrection2
			out[j] = a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
	return a.out, nil
}

// Reset implements Optimizer.
func (a *Adam) Reset() {
	a.t = 0
	a.m = nil
	a.v = nil
	a.out = nil
}

// Name implements Optimizer.
func (a *Adam) Name() string { return NameAdam }

// LearningRate implements Optimizer.
func (a *Adam) LearningRate() float64 { return a.lr }

// SetLearningRate implements Optimizer.
func (a *Adam) SetLearningRate(lr float64) error {
	if err := checkPositive(NameAdam, "LR", lr); err != nil {
		return err
	}
	a.lr = lr
	return nil
}

// Timestep returns the number of updates applied since the last Reset.
func (a *Adam) Timestep() int { return a.t }

// Hyperparameters implements Optimizer.
func (a *Adam) Hyperparameters() map[string]float64 {
	return map[string]float64{"lr": a.lr, "beta1": a.beta1, "beta2": a.beta2, "eps": a.eps}
}

// State implements Optimizer.
//
// State keys: "m.{param_index}", "v.{param_index}" and "step.0", a 1x1
// matrix holding the timestep.
func (a *Adam) State() map[string]*linalg.Matrix {
	state := make(map[string]*linalg.Matrix)
	if a.m == nil {
		return state
	}
	a.m.export("m", state)
	a.v.export("v", state)
	step := linalg.NewMatrix(1, 1)
	step.Set(0, 0, float64(a.t))
	state["step.0"] = step
	return state
}

// LoadState implements Optimizer.
func (a *Adam) LoadState(state map[string]*linalg.Matrix) error {
	if err := checkKnownKeys(NameAdam, state, "m", "v", "step"); err != nil {
		return err
	}
	m, err := importSlots("m", state)
	if err != nil {
		return errors.Wrap(err, NameAdam)
	}
	v, err := importSlots("v", state)
	if err != nil {
		return errors.Wrap(err, NameAdam)
	}
	if !sameShapes(m, v) {
		return errors.Wrap(ErrStateShape, "ADAM: first and second moments differ")
	}

	t := 0
	if step, ok := state["step.0"]; ok {
		if step.Len() != 1 || step.Data()[0] < 0 || step.Data()[0] != math.Trunc(step.Data()[0]) {
			return errors.New("ADAM: step must be a 1x1 non-negative integer")
		}
		t = int(step.Data()[0])
	}
	if (m == nil) != (t == 0) {
		return errors.New("ADAM: moments and step must be given together")
	}

	a.m, a.v, a.t = m, v, t
	a.out = nil
	return nil
}
