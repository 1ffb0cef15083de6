// Package nn implements the computational graph for feed-forward networks.
//
// This package provides the building blocks of a network:
//   - Layer: sealed interface over Input, Dense, Add, Concatenate, Softmax
//   - Parameter: trainable matrix with its gradient
//   - Activation: Linear, Sigmoid, Tanh, ReLU, LeakyReLU, Softplus
//   - Loss: MSE, MAE, Huber, CrossEntropy
//   - Network: DAG of layers with cached topological order
//   - Builder, Sequential: network construction
//
// Layers exchange plain []float64 vectors. The Network copies predecessor
// outputs into each layer's input slots before Forward, and sums successor
// input gradients into each layer's output gradient before Backward, so a
// layer whose output fans out to several successors receives the sum of
// their contributions.
//
// Networks are persisted with Save (binary), SaveText (text) and Load.
package nn
