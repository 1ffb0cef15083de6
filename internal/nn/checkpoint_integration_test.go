package nn_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dagnet/internal/linalg"
	"github.com/born-ml/dagnet/internal/nn"
	"github.com/born-ml/dagnet/internal/optim"
)

// stepOnce runs one forward/backward pass and applies opt to the network.
func stepOnce(t *testing.T, net *nn.Network, opt optim.Optimizer) {
	t.Helper()
	require.NoError(t, net.Forward([]float64{0.5, -1, 2}, []float64{1, 0}))
	require.NoError(t, net.Backward([]float64{0.1, -0.2, 0.1}, []float64{1, 1, -1, 0}))
	updates, err := opt.Update(net.Gradients())
	require.NoError(t, err)
	for i, p := range net.Parameters() {
		linalg.SubInPlace(p.Value(), updates[i])
	}
}

func TestCheckpointSaveLoad(t *testing.T) {
	tests := []struct {
		name string
		cfg  optim.Config
	}{
		{"SGD", optim.Config{Name: "SGD", LR: 0.01, Momentum: 0.9}},
		{"RMSProp", optim.Config{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-6}},
		{"Adam", optim.Config{Name: "ADAM", LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "checkpoint.dag")
			net := mixedNetwork(t, 21)
			opt, err := optim.New(tt.cfg)
			require.NoError(t, err)
			stepOnce(t, net, opt)
			stepOnce(t, net, opt)

			c := &nn.Checkpoint{
				Network:   net,
				Optimizer: opt,
				Epoch:     10,
				Step:      5000,
				Loss:      0.123,
				Metadata:  map[string]any{"batch_size": 32, "note": "warm"},
			}
			require.NoError(t, c.Save(path))

			restored, err := optim.New(tt.cfg)
			require.NoError(t, err)
			loaded, err := nn.LoadCheckpoint(path, restored)
			require.NoError(t, err)

			assert.Equal(t, 10, loaded.Epoch)
			assert.Equal(t, int64(5000), loaded.Step)
			assert.Equal(t, 0.123, loaded.Loss)
			assert.Equal(t, "warm", loaded.Metadata["note"])
			assert.False(t, loaded.CreatedAt.IsZero())

			for i, p := range net.Parameters() {
				assert.Equal(t, p.Value().Data(), loaded.Network.Parameters()[i].Value().Data())
			}
			want := opt.State()
			got := restored.State()
			require.Len(t, got, len(want))
			for k, m := range want {
				require.Contains(t, got, k)
				assert.Equal(t, m.Data(), got[k].Data(), k)
			}

			// Both copies continue identically.
			stepOnce(t, net, opt)
			stepOnce(t, loaded.Network, restored)
			for i, p := range net.Parameters() {
				assert.Equal(t, p.Value().Data(), loaded.Network.Parameters()[i].Value().Data())
			}
		})
	}
}

func TestLoadCheckpoint_OptimizerMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.dag")
	net := mixedNetwork(t, 2)
	sgd, err := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.5})
	require.NoError(t, err)
	stepOnce(t, net, sgd)

	require.NoError(t, (&nn.Checkpoint{Network: net, Optimizer: sgd, Epoch: 1}).Save(path))

	adam, err := optim.NewAdam(optim.AdamConfig{LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8})
	require.NoError(t, err)
	_, err = nn.LoadCheckpoint(path, adam)
	assert.ErrorContains(t, err, "SGD")

	// Without an optimizer only the network is restored.
	c, err := nn.LoadCheckpoint(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Epoch)
	assert.Nil(t, c.Optimizer)

	// The checkpoint is also a loadable model.
	loaded, err := nn.Load(path)
	require.NoError(t, err)
	assert.Equal(t, net.NumParameters(), loaded.NumParameters())
}

func TestLoadCheckpoint_PlainModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.dag")
	require.NoError(t, nn.Save(mixedNetwork(t, 2), path))

	_, err := nn.LoadCheckpoint(path, nil)
	assert.ErrorContains(t, err, "not a checkpoint")

	assert.Error(t, (&nn.Checkpoint{}).Save(path))
}
