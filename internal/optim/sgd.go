package optim

import (
	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	update = lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	update = lr * velocity
//
// Momentum helps accelerate SGD in relevant directions and dampens oscillations.
//
// Example:
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	lr       float64
	momentum float64
	velocity slots
	out      slots
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 `json:"lr"`       // Learning rate, > 0
	Momentum float64 `json:"momentum"` // Momentum factor, in [0, 1); 0 disables momentum
}

// Validate checks the configuration. Invalid values are never defaulted.
func (c SGDConfig) Validate() error {
	if err := checkPositive(NameSGD, "LR", c.LR); err != nil {
		return err
	}
	return checkDecay(NameSGD, "Momentum", c.Momentum)
}

// NewSGD creates a new SGD optimizer.
//
// Returns a *ConfigError if the configuration is invalid.
func NewSGD(config SGDConfig) (*SGD, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SGD{lr: config.LR, momentum: config.Momentum}, nil
}

// Update implements Optimizer.
//
// Without momentum SGD is stateless apart from its output buffers.
func (s *SGD) Update(grads []*linalg.Matrix) ([]*linalg.Matrix, error) {
	if err := s.out.ensure(grads); err != nil {
		return nil, err
	}

	if s.momentum == 0 {
		for i, g := range grads {
			scaleInto(s.out[i], g, s.lr)
		}
		return s.out, nil
	}

	if err := s.velocity.ensure(grads); err != nil {
		return nil, err
	}
	for i, g := range grads {
		// velocity = momentum * velocity + grad
		linalg.Scale(s.velocity[i], s.momentum)
		linalg.AddInPlace(s.velocity[i], g)
		scaleInto(s.out[i], s.velocity[i], s.lr)
	}
	return s.out, nil
}

// Reset implements Optimizer.
func (s *SGD) Reset() {
	s.velocity = nil
	s.out = nil
}

// Name implements Optimizer.
func (s *SGD) Name() string { return NameSGD }

// LearningRate implements Optimizer.
func (s *SGD) LearningRate() float64 { return s.lr }

// SetLearningRate implements Optimizer.
func (s *SGD) SetLearningRate(lr float64) error {
	if err := checkPositive(NameSGD, "LR", lr); err != nil {
		return err
	}
	s.lr = lr
	return nil
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float64 { return s.momentum }

// Hyperparameters implements Optimizer.
func (s *SGD) Hyperparameters() map[string]float64 {
	return map[string]float64{"lr": s.lr, "momentum": s.momentum}
}

// State implements Optimizer.
//
// State keys: "velocity.{param_index}". Empty without momentum or before
// the first Update.
func (s *SGD) State() map[string]*linalg.Matrix {
	state := make(map[string]*linalg.Matrix)
	s.velocity.export("velocity", state)
	return state
}

// LoadState implements Optimizer.
func (s *SGD) LoadState(state map[string]*linalg.Matrix) error {
	if err := checkKnownKeys(NameSGD, state, "velocity"); err != nil {
		return err
	}
	velocity, err := importSlots("velocity", state)
	if err != nil {
		return errors.Wrap(err, NameSGD)
	}
	if velocity != nil && s.momentum == 0 {
		return errors.New("SGD: velocity state given but momentum is disabled")
	}
	s.velocity = velocity
	s.out = nil
	return nil
}
