// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - RMSProp: Root Mean Square Propagation
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dagnet/linalg"
//	    "github.com/born-ml/dagnet/optim"
//	)
//
//	func main() {
//	    optimizer, err := optim.NewRMSProp(optim.RMSPropConfig{
//	        LR:  0.01,
//	        Rho: 0.9,
//	        Eps: 1e-6,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // After a backward pass
//	    updates, err := optimizer.Update(net.Gradients())
//	    for i, p := range net.Parameters() {
//	        linalg.SubInPlace(p.Value(), updates[i])
//	    }
//	}
//
// # Optimizers by name
//
// Configurations read from files select the optimizer by name:
//
//	optimizer, err := optim.New(optim.Config{Name: "ADAM", LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8})
//
// # State
//
// Optimizer state is allocated from the first gradient list and rejected
// with ErrStateShape when later gradients differ. State and LoadState
// expose the buffers for checkpoints; Reset discards them.
package optim
