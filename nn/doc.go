// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides layers, graph networks and their persistence.
//
// # Overview
//
// This package contains:
//   - Layers: Input, Dense, Add, Concatenate, Softmax
//   - Network: a directed acyclic graph of layers with cached topological order
//   - Builder and Sequential for constructing networks
//   - Activations: Linear, Sigmoid, Tanh, ReLU, LeakyReLU, Softplus
//   - Loss functions: MSELoss, MAELoss, HuberLoss, CrossEntropyLoss
//   - Persistence: binary .dag files, the text format and checkpoints
//
// # Basic Usage
//
//	import "github.com/born-ml/dagnet/nn"
//
//	func main() {
//	    b := nn.NewBuilder(42)
//	    b.Input("x", 2)
//	    b.Dense("h", 8, nn.Tanh{}, "x")
//	    b.Dense("left", 4, nn.ReLU{}, "h")
//	    b.Dense("right", 4, nn.Sigmoid{}, "h")
//	    b.Add("merge", 4, "left", "right")
//	    b.Dense("logits", 3, nn.Linear{}, "merge")
//	    b.Softmax("probs", 3, 0, "logits")
//	    net, err := b.Build("probs")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := net.Predict([]float64{0.5, -1})
//	}
//
// # Sequential Models
//
// Chains of Dense layers have a shorthand:
//
//	net, err := nn.Sequential(42, 1,
//	    nn.DenseSpec{Size: 16, Activation: nn.Tanh{}},
//	    nn.DenseSpec{Size: 16, Activation: nn.Tanh{}},
//	    nn.DenseSpec{Size: 1, Activation: nn.Linear{}},
//	)
//
// # Gradients
//
// Forward fills every layer's output; Backward takes dL/dY for each network
// output and overwrites each parameter gradient:
//
//	loss := nn.MSELoss{}
//	grad := make([]float64, 1)
//	net.Forward(x)
//	loss.Gradient(grad, net.Outputs()[0].Output(), y)
//	net.Backward(grad)
//	for _, p := range net.Parameters() {
//	    fmt.Println(p.Name(), p.Grad().Shape())
//	}
//
// # Persistence
//
//	nn.Save(net, "model.dag")      // binary, checksummed
//	nn.SaveText(net, "model.txt")  // human-readable
//	net, err := nn.Load("model.dag")
package nn
