// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"

	"github.com/born-ml/dagnet/internal/nn"
)

// Format selects the on-disk encoding of a network.
type Format = nn.Format

// Supported formats.
const (
	FormatBinary = nn.FormatBinary
	FormatText   = nn.FormatText
)

// Save writes net to path in the binary .dag format.
//
// Example:
//
//	if err := nn.Save(net, "model.dag"); err != nil {
//	    log.Fatal(err)
//	}
func Save(net *Network, path string) error {
	return nn.Save(net, path)
}

// SaveText writes net to path in the text format.
func SaveText(net *Network, path string) error {
	return nn.SaveText(net, path)
}

// Load reads a network written by Save or SaveText.
func Load(path string) (*Network, error) {
	return nn.Load(path)
}

// WriteModel encodes net to w in the given format.
func WriteModel(w io.Writer, net *Network, format Format) error {
	return nn.WriteModel(w, net, format)
}

// ReadModel decodes a network from r, detecting the format.
func ReadModel(r io.Reader) (*Network, error) {
	return nn.ReadModel(r)
}

// Checkpoint is a training state snapshot: network, optimizer state and
// progress counters.
type Checkpoint = nn.Checkpoint

// OptimizerState is implemented by optimizers that can be checkpointed.
type OptimizerState = nn.OptimizerState

// LoadCheckpoint reads a checkpoint and restores optimizer state into
// optimizer when it is non-nil.
//
// Example:
//
//	opt, _ := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01, Rho: 0.9, Eps: 1e-6})
//	checkpoint, err := nn.LoadCheckpoint("checkpoint.dag", opt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trainer.Resume(checkpoint.Epoch, checkpoint.Step)
func LoadCheckpoint(path string, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, optimizer)
}
