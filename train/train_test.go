// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dagnet/nn"
	"github.com/born-ml/dagnet/optim"
	"github.com/born-ml/dagnet/train"
)

// TestFitLinear fits y = 2x - 1 through the public packages.
func TestFitLinear(t *testing.T) {
	net, err := nn.Sequential(3, 1, nn.DenseSpec{Size: 1, Activation: nn.Linear{}})
	require.NoError(t, err)
	opt, err := optim.NewSGD(optim.SGDConfig{LR: 0.05, Momentum: 0.9})
	require.NoError(t, err)

	var data []train.Sample
	for i := range 21 {
		x := -1 + float64(i)/10
		data = append(data, train.NewSample([]float64{x}, []float64{2*x - 1}))
	}

	trainer, err := train.New(net, opt, nn.MSELoss{}, train.Config{Epochs: 200, BatchSize: 7, Seed: 1})
	require.NoError(t, err)
	history, err := trainer.Fit(data)
	require.NoError(t, err)
	assert.Len(t, history, 200)

	out, err := net.Predict([]float64{0.25})
	require.NoError(t, err)
	assert.InDelta(t, -0.5, out[0][0], 1e-3)
}
