// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides minibatch training of networks.
//
// Example:
//
//	net, _ := nn.Sequential(1, 1,
//	    nn.DenseSpec{Size: 16, Activation: nn.Tanh{}},
//	    nn.DenseSpec{Size: 1, Activation: nn.Linear{}},
//	)
//	opt, _ := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01, Rho: 0.9, Eps: 1e-6})
//	trainer, err := train.New(net, opt, nn.MSELoss{}, train.Config{
//	    Epochs:    20,
//	    BatchSize: 32,
//	    Seed:      7,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trainer.SetLogger(slog.Default())
//	history, err := trainer.Fit(samples)
package train

import (
	"math/rand"

	"github.com/born-ml/dagnet/internal/nn"
	"github.com/born-ml/dagnet/internal/optim"
	"github.com/born-ml/dagnet/internal/train"
)

// Trainer runs minibatch gradient descent on a network.
type Trainer = train.Trainer

// Config holds the training loop settings.
type Config = train.Config

// RunConfig bundles the training, optimizer and loss settings of a run.
type RunConfig = train.RunConfig

// Sample is one training example.
type Sample = train.Sample

// EpochStats summarizes one epoch.
type EpochStats = train.EpochStats

// History is the list of completed epochs.
type History = train.History

// ErrStop may be returned by an epoch hook to end training early.
var ErrStop = train.ErrStop

// New creates a Trainer.
func New(net *nn.Network, opt optim.Optimizer, loss nn.Loss, cfg Config) (*Trainer, error) {
	return train.New(net, opt, loss, cfg)
}

// NewSample creates a sample for a network with one input and one output.
func NewSample(x, y []float64) Sample {
	return train.NewSample(x, y)
}

// Partition shuffles 0..n-1 into batches of batchSize; the last may be shorter.
func Partition(n, batchSize int, rng *rand.Rand) [][]int {
	return train.Partition(n, batchSize, rng)
}

// ParseConfig decodes and validates a JSON run configuration.
func ParseConfig(data []byte) (*RunConfig, error) {
	return train.ParseConfig(data)
}

// LoadConfig reads a JSON run configuration from path.
func LoadConfig(path string) (*RunConfig, error) {
	return train.LoadConfig(path)
}
