// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/dagnet/internal/nn"
)

// Activations

// Activation is a scalar differentiable function applied by Dense layers.
type Activation = nn.Activation

// Built-in activations.
type (
	Linear    = nn.Linear
	Sigmoid   = nn.Sigmoid
	Tanh      = nn.Tanh
	ReLU      = nn.ReLU
	LeakyReLU = nn.LeakyReLU
	Softplus  = nn.Softplus
)

// ActivationByName returns the activation registered under name (e.g. "TANH").
func ActivationByName(name string) (Activation, error) {
	return nn.ActivationByName(name)
}

// RegisterActivation makes a custom activation loadable from model files
// by its name. Built-in names cannot be replaced.
//
// Example:
//
//	if err := nn.RegisterActivation(Swish{}); err != nil {
//	    log.Fatal(err)
//	}
func RegisterActivation(a Activation) error {
	return nn.RegisterActivation(a)
}

// Loss Functions

// Loss maps a predicted and a target vector to a scalar and its gradient.
type Loss = nn.Loss

// MSELoss computes mean squared error.
type MSELoss = nn.MSELoss

// MAELoss computes mean absolute error.
type MAELoss = nn.MAELoss

// HuberLoss is quadratic for small residuals and linear for large ones.
type HuberLoss = nn.HuberLoss

// NewHuberLoss creates a Huber loss with threshold delta > 0.
func NewHuberLoss(delta float64) (*HuberLoss, error) {
	return nn.NewHuberLoss(delta)
}

// CrossEntropyLoss computes cross-entropy against a target distribution.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a cross-entropy loss with stabilizer epsilon >= 0.
//
// Example:
//
//	criterion, err := nn.NewCrossEntropyLoss(nn.DefaultCrossEntropyEpsilon)
//	loss := nn.LossValue(criterion, probs, oneHot)
func NewCrossEntropyLoss(epsilon float64) (*CrossEntropyLoss, error) {
	return nn.NewCrossEntropyLoss(epsilon)
}

// DefaultCrossEntropyEpsilon is the stabilizer used by LossByName.
const DefaultCrossEntropyEpsilon = nn.DefaultCrossEntropyEpsilon

// LossByName returns the loss registered under name ("MSE", "MAE", "HUBER",
// "CROSS_ENTROPY") with default settings.
func LossByName(name string) (Loss, error) {
	return nn.LossByName(name)
}

// LossValue returns the scalar loss of predicted against target.
func LossValue(l Loss, predicted, target []float64) float64 {
	return nn.LossValue(l, predicted, target)
}

// Accuracy returns the fraction of rows whose argmax matches the target's.
func Accuracy(predictions, targets [][]float64) float64 {
	return nn.Accuracy(predictions, targets)
}
