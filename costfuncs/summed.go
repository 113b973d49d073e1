package costfuncs

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// summed is a term that is the sum over every instance of an error with a closed form
// derivative with respect to the outputs
type summed struct {
	dataTerm
	name string

	errorOf errorFunc
	derivOf derivFunc

	// additional checks, may be nil
	checkMore func() error
}

func (t *summed) TypeString() string {
	return t.name
}

func (t *summed) Check() error {
	if err := t.check(); err != nil {
		return errors.Wrapf(err, "Check failed for %s\n", t.name)
	} else if t.checkMore != nil {
		if err = t.checkMore(); err != nil {
			return errors.Wrapf(err, "Check failed for %s\n", t.name)
		}
	}

	return nil
}

func (t *summed) Evaluate() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	v, err := sum(t.net, training(t.data), t.errorOf)
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to evaluate %s\n", t.name)
	}

	return v, nil
}

func (t *summed) EvaluateAt(params []float64) (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	v, err := nn.EvaluateAt(t.net, params, func(net *nn.Network) (float64, error) {
		return sum(net, training(t.data), t.errorOf)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to evaluate %s at parameters\n", t.name)
	}

	return v, nil
}

func (t *summed) gradient(net *nn.Network) ([]float64, error) {
	return gradient(net, training(t.data), t.derivOf)
}

func (t *summed) Gradient() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	g, err := t.gradient(t.net)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get gradient of %s\n", t.name)
	}

	return g, nil
}

func (t *summed) Hessian() (*mat.SymDense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	return hessian(t.net, t.gradient)
}

func (t *summed) Generalization() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	} else if t.data.ValidationCount() == 0 {
		return 0, errors.WithStack(nn.ErrNoValidation)
	}

	return sum(t.net, validation(t.data), t.errorOf)
}
