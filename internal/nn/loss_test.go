package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/dagnet/internal/nn"
)

func TestMSELoss(t *testing.T) {
	pred := []float64{1, 2}
	target := []float64{0, 0}

	assert.InDelta(t, 2.5, nn.LossValue(nn.MSELoss{}, pred, target), 1e-12)

	grad := make([]float64, 2)
	nn.MSELoss{}.Gradient(grad, pred, target)
	assert.InDeltaSlice(t, []float64{1, 2}, grad, 1e-12)
}

func TestMAELoss(t *testing.T) {
	pred := []float64{1, -2, 3}
	target := []float64{0, 0, 3}

	assert.InDelta(t, 1.0, nn.LossValue(nn.MAELoss{}, pred, target), 1e-12)

	grad := make([]float64, 3)
	nn.MAELoss{}.Gradient(grad, pred, target)
	assert.InDeltaSlice(t, []float64{1.0 / 3, -1.0 / 3, 0}, grad, 1e-12)
}

func TestHuberLoss(t *testing.T) {
	h, err := nn.NewHuberLoss(1)
	require.NoError(t, err)

	// Residuals 0.5 (quadratic) and 3 (linear).
	pred := []float64{0.5, 3}
	target := []float64{0, 0}
	assert.InDelta(t, (0.125+2.5)/2, nn.LossValue(h, pred, target), 1e-12)

	grad := make([]float64, 2)
	h.Gradient(grad, pred, target)
	assert.InDeltaSlice(t, []float64{0.25, 0.5}, grad, 1e-12)

	_, err = nn.NewHuberLoss(0)
	assert.Error(t, err)
}

func TestCrossEntropyLoss(t *testing.T) {
	ce, err := nn.NewCrossEntropyLoss(nn.DefaultCrossEntropyEpsilon)
	require.NoError(t, err)

	pred := []float64{0.7, 0.2, 0.1}
	target := []float64{1, 0, 0}
	assert.InDelta(t, -math.Log(0.7), nn.LossValue(ce, pred, target), 1e-9)

	grad := make([]float64, 3)
	ce.Gradient(grad, pred, target)
	assert.InDelta(t, -1/0.7, grad[0], 1e-9)
	assert.Equal(t, 0.0, grad[1])
	assert.Equal(t, 0.0, grad[2])

	// A zero probability stays finite.
	pred = []float64{0, 1}
	target = []float64{1, 0}
	loss := nn.LossValue(ce, pred, target)
	assert.False(t, math.IsInf(loss, 0) || math.IsNaN(loss), "loss = %g", loss)

	_, err = nn.NewCrossEntropyLoss(-1)
	assert.Error(t, err)
}

// TestLossGradients compares every loss gradient against central
// differences of the scalar loss.
func TestLossGradients(t *testing.T) {
	huber, err := nn.NewHuberLoss(0.75)
	require.NoError(t, err)
	ce, err := nn.NewCrossEntropyLoss(1e-9)
	require.NoError(t, err)

	tests := []struct {
		loss   nn.Loss
		pred   []float64
		target []float64
	}{
		{nn.MSELoss{}, []float64{0.3, -1.2, 2.5}, []float64{0, 1, 2}},
		{nn.MAELoss{}, []float64{0.3, -1.2, 2.5}, []float64{0, 1, 2}},
		{huber, []float64{0.3, -1.2, 2.5}, []float64{0, 1, 2}},
		{ce, []float64{0.2, 0.5, 0.3}, []float64{0, 1, 0}},
		{ce, []float64{0.2, 0.5, 0.3}, []float64{0.25, 0.5, 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.loss.Name(), func(t *testing.T) {
			analytic := make([]float64, len(tt.pred))
			tt.loss.Gradient(analytic, tt.pred, tt.target)

			f := func(p []float64) float64 { return nn.LossValue(tt.loss, p, tt.target) }
			numeric := fd.Gradient(nil, f, tt.pred, &fd.Settings{Formula: fd.Central, Step: 1e-6})

			assert.InDeltaSlice(t, numeric, analytic, 1e-5)
		})
	}
}

func TestLossByName(t *testing.T) {
	for _, name := range []string{nn.LossMSE, nn.LossMAE, nn.LossHuber, nn.LossCrossEntropy} {
		l, err := nn.LossByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, l.Name())
	}

	_, err := nn.LossByName("HINGE")
	assert.Error(t, err)
}

func TestLossLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		nn.MSELoss{}.Gradient(make([]float64, 2), []float64{1, 2}, []float64{1})
	})
}

func TestAccuracy(t *testing.T) {
	preds := [][]float64{{0.1, 0.9}, {0.8, 0.2}, {0.3, 0.7}, {0.6, 0.4}}
	targets := [][]float64{{0, 1}, {1, 0}, {1, 0}, {0, 1}}

	assert.Equal(t, 1, nn.Argmax([]float64{0.1, 0.9, 0.5}))
	assert.InDelta(t, 0.5, nn.Accuracy(preds, targets), 1e-12)
	assert.Equal(t, 0.0, nn.Accuracy(nil, nil))
}
