package neuralnet

import (
	"math"

	"github.com/pkg/errors"
)

// Activation selects the function that a perceptron layer applies to the combination of its
// inputs.
type Activation int8

const (
	Linear Activation = iota
	Logistic
	HyperbolicTangent
	Threshold
	SymmetricThreshold
)

var activationNames = map[Activation]string{
	Linear:             "linear",
	Logistic:           "logistic",
	HyperbolicTangent:  "hyperbolic-tangent",
	Threshold:          "threshold",
	SymmetricThreshold: "symmetric-threshold",
}

func (a Activation) String() string {
	if s, ok := activationNames[a]; ok {
		return s
	}

	return "unknown"
}

// ParseActivation returns the Activation whose String() is s.
func ParseActivation(s string) (Activation, error) {
	for a, name := range activationNames {
		if name == s {
			return a, nil
		}
	}

	return 0, errors.Wrapf(ErrUnknownType, "Can't parse activation %q\n", s)
}

// Activate returns the value of the activation function at the combination x.
func (a Activation) Activate(x float64) float64 {
	switch a {
	case Logistic:
		return 0.5 + 0.5*math.Tanh(0.5*x) // equivalent to the logistic function
	case HyperbolicTangent:
		return math.Tanh(x)
	case Threshold:
		if x < 0 {
			return 0
		}
		return 1
	case SymmetricThreshold:
		if x < 0 {
			return -1
		}
		return 1
	}

	return x
}

// Derivative returns the derivative of the activation function at the combination x. The
// threshold functions report 0, their derivative almost everywhere; Differentiable() should be
// consulted before using them with gradient based training.
func (a Activation) Derivative(x float64) float64 {
	switch a {
	case Logistic:
		s := a.Activate(x)
		return s * (1 - s)
	case HyperbolicTangent:
		t := math.Tanh(x)
		return 1 - t*t
	case Threshold, SymmetricThreshold:
		return 0
	}

	return 1
}

// Differentiable returns whether or not the activation has a usable derivative.
func (a Activation) Differentiable() bool {
	return a != Threshold && a != SymmetricThreshold
}
