package nn

import (
	"fmt"
	"math"
)

// ActivationFunc maps a neuron's weighted input sum to its output value.
type ActivationFunc func(x float64) float64

// SigmoidSlope is the steepness used by Sigmoid, the value from the original NEAT paper.
const SigmoidSlope = 4.924273

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationFunc{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"abs":      Absolute, // Alias for absolute
	"sine":     Sine,
	"hat":      Hat,
	"step":     Step,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Sigmoid is the logistic function 1 / (1 + exp(-k*x)) with k = SigmoidSlope.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-SigmoidSlope*x))
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}

// Identity activation function (linear).
func Identity(x float64) float64 {
	return x
}

// Clamped clamps the output between -1 and 1.
func Clamped(x float64) float64 {
	return math.Max(-1.0, math.Min(x, 1.0))
}

// Gaussian activation function.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute value activation function.
func Absolute(x float64) float64 {
	return math.Abs(x)
}

// Sine activation function.
func Sine(x float64) float64 {
	return math.Sin(x)
}

// Hat is a triangular pulse centered at 0.
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Step returns 1 for positive input and 0 otherwise.
func Step(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}
