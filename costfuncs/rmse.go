package costfuncs

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type rootMeanSquared struct {
	mse *squaredError
}

// RootMeanSquaredError returns the square root of the mean squared error. It is not a least
// squares term.
func RootMeanSquaredError(net *nn.Network, data nn.Dataset) *rootMeanSquared {
	return &rootMeanSquared{MeanSquaredError(net, data)}
}

// RMSE is a proxy for RootMeanSquaredError
func RMSE(net *nn.Network, data nn.Dataset) *rootMeanSquared {
	return RootMeanSquaredError(net, data)
}

func (r *rootMeanSquared) TypeString() string {
	return "root-mean-squared-error"
}

func (r *rootMeanSquared) Check() error {
	if err := r.mse.check(); err != nil {
		return errors.Wrapf(err, "Check failed for %s\n", r.TypeString())
	}

	return nil
}

func (r *rootMeanSquared) evaluate(net *nn.Network) (float64, error) {
	v, err := r.mse.evaluate(net, training(r.mse.data))
	if err != nil {
		return 0, err
	}

	return math.Sqrt(v), nil
}

func (r *rootMeanSquared) Evaluate() (float64, error) {
	if err := r.Check(); err != nil {
		return 0, err
	}

	return r.evaluate(r.mse.net)
}

func (r *rootMeanSquared) EvaluateAt(params []float64) (float64, error) {
	if err := r.Check(); err != nil {
		return 0, err
	}

	return nn.EvaluateAt(r.mse.net, params, r.evaluate)
}

// the gradient of √E is ∇E / (2√E), taken as zero where E is zero
func (r *rootMeanSquared) gradient(net *nn.Network) ([]float64, error) {
	v, err := r.evaluate(net)
	if err != nil {
		return nil, err
	}

	g, err := r.mse.gradient(net)
	if err != nil {
		return nil, err
	}

	if v == 0 {
		floats.Scale(0, g)
		return g, nil
	}

	floats.Scale(1/(2*v), g)
	return g, nil
}

func (r *rootMeanSquared) Gradient() ([]float64, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}

	g, err := r.gradient(r.mse.net)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get gradient of %s\n", r.TypeString())
	}

	return g, nil
}

func (r *rootMeanSquared) Hessian() (*mat.SymDense, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}

	return hessian(r.mse.net, r.gradient)
}

func (r *rootMeanSquared) Generalization() (float64, error) {
	v, err := r.mse.Generalization()
	if err != nil {
		return 0, err
	}

	return math.Sqrt(v), nil
}
