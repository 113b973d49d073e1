package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/JackieXie168/libNeuralNet-sub003/numdiff"
)

// EvaluateAt returns f of a Clone of net with its parameters set to p. It is the way that
// performance terms evaluate themselves at a point without changing their Network.
func EvaluateAt(net *Network, p []float64, f func(*Network) (float64, error)) (float64, error) {
	c, err := net.WithParameters(p)
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to evaluate at parameters\n")
	}

	return f(c)
}

// NumericalGradient returns the gradient of f with respect to the parameters of net, by finite
// differences. net is not changed.
func NumericalGradient(net *Network, f func(*Network) (float64, error)) ([]float64, error) {
	return numdiff.Gradient(func(p []float64) (float64, error) {
		return EvaluateAt(net, p, f)
	}, net.Parameters(), nil)
}

// NumericalHessian returns the Hessian with respect to the parameters of net of the function
// whose gradient is given, by finite differences of that gradient. net is not changed.
func NumericalHessian(net *Network, gradient func(*Network) ([]float64, error)) (*mat.SymDense, error) {
	p := net.Parameters()
	if len(p) == 0 {
		return nil, ConfigErrorf("Can't compute hessian, network has no parameters")
	}

	return numdiff.HessianFromGradient(func(dst, p []float64) error {
		c, err := net.WithParameters(p)
		if err != nil {
			return err
		}

		g, err := gradient(c)
		if err != nil {
			return err
		}

		copy(dst, g)
		return nil
	}, p, nil)
}

// CheckNetwork returns a ConfigError if net is nil or if its layers do not fit together.
func CheckNetwork(net *Network) error {
	if net == nil {
		return errors.WithStack(NilArgError{"Network"})
	}

	return net.Check()
}
