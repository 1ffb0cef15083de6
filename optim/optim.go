// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/dagnet/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config selects and configures an optimizer by name.
type Config = optim.Config

// ConfigError reports an invalid hyperparameter.
type ConfigError = optim.ConfigError

// ErrStateShape is returned when gradients do not match the optimizer state.
var ErrStateShape = optim.ErrStateShape

// Optimizer names.
const (
	NameSGD     = optim.NameSGD
	NameRMSProp = optim.NameRMSProp
	NameAdam    = optim.NameAdam
)

// New creates the optimizer named by config.Name (case-insensitive).
func New(config Config) (Optimizer, error) {
	return optim.New(config)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(config SGDConfig) (*SGD, error) {
	return optim.NewSGD(config)
}

// RMSProp (Root Mean Square Propagation)

// RMSProp represents the RMSProp optimizer.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp optimizer.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates a new RMSProp optimizer.
//
// Example:
//
//	optimizer, err := optim.NewRMSProp(optim.RMSPropConfig{
//	    LR:  0.01,
//	    Rho: 0.9,
//	    Eps: 1e-6,
//	})
func NewRMSProp(config RMSPropConfig) (*RMSProp, error) {
	return optim.NewRMSProp(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Beta1: 0.9,
//	    Beta2: 0.999,
//	    Eps:   1e-8,
//	})
func NewAdam(config AdamConfig) (*Adam, error) {
	return optim.NewAdam(config)
}
