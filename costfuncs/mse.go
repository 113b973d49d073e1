package costfuncs

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type squaredKind int8

const (
	sumKind squaredKind = iota
	meanKind
	normalizedKind
)

// squaredError is the sum of the squared errors of every instance, divided by a coefficient
// that depends on its kind
type squaredError struct {
	dataTerm
	kind squaredKind
}

// SumSquaredError returns the sum over every instance of the squared euclidean distance between
// the outputs and the targets.
func SumSquaredError(net *nn.Network, data nn.Dataset) *squaredError {
	return &squaredError{dataTerm{net, data}, sumKind}
}

// SSE is a proxy for SumSquaredError
func SSE(net *nn.Network, data nn.Dataset) *squaredError {
	return SumSquaredError(net, data)
}

// MeanSquaredError returns the sum squared error divided by the number of instances.
func MeanSquaredError(net *nn.Network, data nn.Dataset) *squaredError {
	return &squaredError{dataTerm{net, data}, meanKind}
}

// MSE is a proxy for MeanSquaredError
func MSE(net *nn.Network, data nn.Dataset) *squaredError {
	return MeanSquaredError(net, data)
}

// NormalizedSquaredError returns the sum squared error divided by the sum over every instance
// of the squared distance between the targets and their mean. It is 1 for a Network that
// always outputs the mean of the targets. Evaluating it over targets that are all the same is
// a NumericError.
func NormalizedSquaredError(net *nn.Network, data nn.Dataset) *squaredError {
	return &squaredError{dataTerm{net, data}, normalizedKind}
}

// NSE is a proxy for NormalizedSquaredError
func NSE(net *nn.Network, data nn.Dataset) *squaredError {
	return NormalizedSquaredError(net, data)
}

func (t *squaredError) TypeString() string {
	switch t.kind {
	case meanKind:
		return "mean-squared-error"
	case normalizedKind:
		return "normalized-squared-error"
	}

	return "sum-squared-error"
}

func (t *squaredError) Check() error {
	if err := t.check(); err != nil {
		return errors.Wrapf(err, "Check failed for %s\n", t.TypeString())
	}

	return nil
}

// coefficient returns what the sum squared error over p is divided by
func (t *squaredError) coefficient(p partition) (float64, error) {
	switch t.kind {
	case meanKind:
		return float64(p.count), nil
	case normalizedKind:
		mean := make([]float64, t.data.TargetCount())
		for i := 0; i < p.count; i++ {
			floats.Add(mean, p.target(i))
		}
		floats.Scale(1/float64(p.count), mean)

		var c float64
		for i := 0; i < p.count; i++ {
			d := floats.Distance(p.target(i), mean, 2)
			c += d * d
		}

		if c == 0 {
			return 0, nn.NumericErrorf("Normalization coefficient is zero, all %d targets are equal", p.count)
		}
		return c, nil
	}

	return 1, nil
}

func squaredDistance(outs, targets []float64) (float64, error) {
	d := floats.Distance(outs, targets, 2)
	return d * d, nil
}

func twiceDifference(outs, targets []float64) ([]float64, error) {
	ds := make([]float64, len(outs))
	floats.SubTo(ds, outs, targets)
	floats.Scale(2, ds)
	return ds, nil
}

func (t *squaredError) evaluate(net *nn.Network, p partition) (float64, error) {
	c, err := t.coefficient(p)
	if err != nil {
		return 0, err
	}

	s, err := sum(net, p, squaredDistance)
	if err != nil {
		return 0, err
	}

	return s / c, nil
}

func (t *squaredError) Evaluate() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	v, err := t.evaluate(t.net, training(t.data))
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to evaluate %s\n", t.TypeString())
	}

	return v, nil
}

func (t *squaredError) EvaluateAt(params []float64) (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	v, err := nn.EvaluateAt(t.net, params, func(net *nn.Network) (float64, error) {
		return t.evaluate(net, training(t.data))
	})
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to evaluate %s at parameters\n", t.TypeString())
	}

	return v, nil
}

func (t *squaredError) gradient(net *nn.Network) ([]float64, error) {
	p := training(t.data)
	c, err := t.coefficient(p)
	if err != nil {
		return nil, err
	}

	grad, err := gradient(net, p, twiceDifference)
	if err != nil {
		return nil, err
	}

	floats.Scale(1/c, grad)
	return grad, nil
}

func (t *squaredError) Gradient() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	g, err := t.gradient(t.net)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get gradient of %s\n", t.TypeString())
	}

	return g, nil
}

func (t *squaredError) Hessian() (*mat.SymDense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	return hessian(t.net, t.gradient)
}

// Terms returns, for each training instance, the distance between its outputs and targets,
// divided by the square root of the coefficient.
func (t *squaredError) Terms() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	p := training(t.data)
	c, err := t.coefficient(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get terms of %s\n", t.TypeString())
	}

	terms := make([]float64, p.count)
	for i := range terms {
		outs, err := t.net.Outputs(p.input(i))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get outputs of instance %d\n", i)
		}

		terms[i] = floats.Distance(outs, p.target(i), 2) / math.Sqrt(c)
	}

	return terms, nil
}

// TermsJacobian returns the jacobian of Terms. Rows of instances whose outputs equal their
// targets are zero.
func (t *squaredError) TermsJacobian() (*mat.Dense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	} else if t.net.ParameterCount() == 0 {
		return nil, nn.ConfigErrorf("Can't get terms jacobian of %s, network has no parameters", t.TypeString())
	}

	p := training(t.data)
	c, err := t.coefficient(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get terms jacobian of %s\n", t.TypeString())
	}

	jac := mat.NewDense(p.count, t.net.ParameterCount(), nil)
	e := make([]float64, t.net.OutputCount())
	for i := 0; i < p.count; i++ {
		prop, err := t.net.Forward(p.input(i))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to propagate instance %d\n", i)
		}

		floats.SubTo(e, prop.Outputs, p.target(i))
		d := floats.Norm(e, 2)
		if d == 0 {
			continue
		}

		row, err := t.net.ParametersGradient(prop, e)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to backpropagate instance %d\n", i)
		}

		floats.Scale(1/(d*math.Sqrt(c)), row)
		jac.SetRow(i, row)
	}

	return jac, nil
}

func (t *squaredError) Generalization() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	} else if t.data.ValidationCount() == 0 {
		return 0, errors.WithStack(nn.ErrNoValidation)
	}

	return t.evaluate(t.net, validation(t.data))
}
