// Package costfuncs provides the objective terms that compare the outputs of a Network against
// the targets of a Dataset. Every term here implements neuralnet.PerformanceTerm and
// neuralnet.Generalizer; the squared error terms also implement neuralnet.LeastSquaresTerm.
//
// All of the terms sum their error over the training instances of the Dataset, and over the
// validation instances for Generalization.
package costfuncs

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// partition selects the instances of a Dataset that a term is computed over
type partition struct {
	count         int
	input, target func(int) []float64
}

func training(d nn.Dataset) partition {
	return partition{d.TrainingCount(), d.TrainingInput, d.TrainingTarget}
}

func validation(d nn.Dataset) partition {
	return partition{d.ValidationCount(), d.ValidationInput, d.ValidationTarget}
}

// dataTerm holds what every term in the package borrows
type dataTerm struct {
	net  *nn.Network
	data nn.Dataset
}

func (t *dataTerm) check() error {
	if err := nn.CheckNetwork(t.net); err != nil {
		return err
	} else if t.data == nil {
		return nn.ConfigErrorf("Dataset is nil")
	} else if t.data.InputCount() != t.net.InputCount() {
		return nn.ConfigErrorf("Dataset has %d inputs, network has %d", t.data.InputCount(), t.net.InputCount())
	} else if t.data.TargetCount() != t.net.OutputCount() {
		return nn.ConfigErrorf("Dataset has %d targets, network has %d outputs", t.data.TargetCount(), t.net.OutputCount())
	} else if t.data.TrainingCount() == 0 {
		return nn.ConfigErrorf("Dataset has no training instances")
	}

	return nil
}

// errorFunc gives the error of a single instance from its outputs and targets
type errorFunc func(outs, targets []float64) (float64, error)

// derivFunc gives the derivatives of the error of a single instance with respect to its outputs
type derivFunc func(outs, targets []float64) ([]float64, error)

// sum returns the sum of the error over every instance of the partition
func sum(net *nn.Network, p partition, f errorFunc) (float64, error) {
	var s float64
	for i := 0; i < p.count; i++ {
		outs, err := net.Outputs(p.input(i))
		if err != nil {
			return 0, errors.Wrapf(err, "Failed to get outputs of instance %d\n", i)
		}

		e, err := f(outs, p.target(i))
		if err != nil {
			return 0, errors.Wrapf(err, "Bad instance %d\n", i)
		}
		s += e
	}

	return s, nil
}

// gradient returns the sum over every instance of the partition of the gradient of the error
// with respect to the parameters
func gradient(net *nn.Network, p partition, d derivFunc) ([]float64, error) {
	grad := make([]float64, net.ParameterCount())
	for i := 0; i < p.count; i++ {
		prop, err := net.Forward(p.input(i))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to propagate instance %d\n", i)
		}

		ds, err := d(prop.Outputs, p.target(i))
		if err != nil {
			return nil, errors.Wrapf(err, "Bad instance %d\n", i)
		}

		g, err := net.ParametersGradient(prop, ds)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to backpropagate instance %d\n", i)
		}

		floats.Add(grad, g)
	}

	return grad, nil
}

// hessian returns the Hessian by finite differences of the given gradient
func hessian(net *nn.Network, grad func(*nn.Network) ([]float64, error)) (*mat.SymDense, error) {
	h, err := nn.NumericalHessian(net, grad)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to compute hessian\n")
	}

	return h, nil
}
