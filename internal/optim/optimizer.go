// Package optim implements optimization algorithms for training networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - RMSProp: Root Mean Square Propagation
//   - Adam: Adaptive Moment Estimation
//
// Optimizers do not touch parameters. Update turns a list of gradient
// matrices into a list of update matrices that the caller subtracts from the
// parameters, which keeps the optimizer independent of the network.
//
// Example usage:
//
//	optimizer, err := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01, Rho: 0.9, Eps: 1e-6})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Training step
//	updates, err := optimizer.Update(net.Gradients())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, p := range net.Parameters() {
//	    linalg.SubInPlace(p.Value(), updates[i])
//	}
package optim

import (
	"github.com/born-ml/dagnet/internal/linalg"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers keep per-parameter state (momentum, running averages) that is
// allocated lazily from the first gradient list. Every later call must pass
// gradients of the same count and shapes, in the same order.
type Optimizer interface {
	// Update returns, for each gradient, the amount to subtract from the
	// matching parameter.
	//
	// The returned matrices are owned by the optimizer and stay valid until
	// the next call to Update. Returns an error wrapping ErrStateShape if the
	// gradients do not match the state built by earlier calls.
	Update(grads []*linalg.Matrix) ([]*linalg.Matrix, error)

	// Reset discards all accumulated state.
	Reset()

	// Name returns the optimizer type ("SGD", "RMSPROP", "ADAM").
	Name() string

	// LearningRate returns the current learning rate.
	LearningRate() float64

	// SetLearningRate updates the learning rate, for scheduling. lr must be
	// finite and > 0; otherwise a *ConfigError is returned and the rate is
	// unchanged.
	SetLearningRate(lr float64) error

	// Hyperparameters returns the configuration as a flat map.
	Hyperparameters() map[string]float64

	// State returns copies of the optimizer buffers keyed by name.
	State() map[string]*linalg.Matrix

	// LoadState replaces the optimizer buffers with copies of state.
	LoadState(state map[string]*linalg.Matrix) error
}

// Optimizer names.
const (
	NameSGD     = "SGD"
	NameRMSProp = "RMSPROP"
	NameAdam    = "ADAM"
)

// scaleInto sets dst = alpha * src elementwise.
func scaleInto(dst, src *linalg.Matrix, alpha float64) {
	d, s := dst.Data(), src.Data()
	for i, v := range s {
		d[i] = alpha * v
	}
}
