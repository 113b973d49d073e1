package constraints

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type independentParameters struct {
	net *nn.Network

	targets []float64
	weights []float64
}

// IndependentParametersError returns Σ w_k (p_k - t_k)² over the independent parameters p of
// the Network and their targets t. Every weight starts at 1.
func IndependentParametersError(net *nn.Network, targets []float64) *independentParameters {
	w := make([]float64, len(targets))
	for i := range w {
		w[i] = 1
	}

	return &independentParameters{
		net:     net,
		targets: append([]float64(nil), targets...),
		weights: w,
	}
}

// Weights sets the weights of each independent parameter. They must be non-negative.
func (t *independentParameters) Weights(w []float64) *independentParameters {
	t.weights = append([]float64(nil), w...)
	return t
}

func (t *independentParameters) TypeString() string {
	return "independent-parameters-error"
}

func (t *independentParameters) Check() error {
	if err := nn.CheckNetwork(t.net); err != nil {
		return errors.Wrapf(err, "Check failed for independent-parameters-error\n")
	}

	n := t.net.IndependentParameterCount()
	if n == 0 {
		return nn.ConfigErrorf("Check failed for independent-parameters-error, network has no independent parameters")
	} else if len(t.targets) != n {
		return errors.Wrapf(nn.SizeMismatchError{Expected: n, Got: len(t.targets), What: "independent parameter targets"},
			"Check failed for independent-parameters-error\n")
	} else if len(t.weights) != n {
		return errors.Wrapf(nn.SizeMismatchError{Expected: n, Got: len(t.weights), What: "independent parameter weights"},
			"Check failed for independent-parameters-error\n")
	}

	for i, w := range t.weights {
		if !(w >= 0) {
			return nn.ConfigErrorf("Check failed for independent-parameters-error, weight %d must be >= 0 (%v)", i, w)
		}
	}

	return nil
}

// residuals returns p - t, from the full parameter vector
func (t *independentParameters) residuals(params []float64) []float64 {
	ind := params[t.net.NeuralParameterCount():]
	r := make([]float64, len(ind))
	for k := range r {
		r[k] = ind[k] - t.targets[k]
	}

	return r
}

func (t *independentParameters) value(params []float64) float64 {
	var e float64
	for k, rk := range t.residuals(params) {
		e += t.weights[k] * rk * rk
	}

	return e
}

func (t *independentParameters) Evaluate() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	return t.value(t.net.Parameters()), nil
}

func (t *independentParameters) EvaluateAt(params []float64) (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	} else if len(params) != t.net.ParameterCount() {
		return 0, errors.WithStack(nn.SizeMismatchError{Expected: t.net.ParameterCount(), Got: len(params), What: "parameters"})
	}

	return t.value(params), nil
}

func (t *independentParameters) Gradient() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	off := t.net.NeuralParameterCount()
	grad := make([]float64, t.net.ParameterCount())
	for k, rk := range t.residuals(t.net.Parameters()) {
		grad[off+k] = 2 * t.weights[k] * rk
	}

	return grad, nil
}

func (t *independentParameters) Hessian() (*mat.SymDense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	off := t.net.NeuralParameterCount()
	h := mat.NewSymDense(t.net.ParameterCount(), nil)
	for k, w := range t.weights {
		h.SetSym(off+k, off+k, 2*w)
	}

	return h, nil
}

// Terms returns √w_k (p_k - t_k).
func (t *independentParameters) Terms() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	r := t.residuals(t.net.Parameters())
	for k := range r {
		r[k] *= math.Sqrt(t.weights[k])
	}

	return r, nil
}

func (t *independentParameters) TermsJacobian() (*mat.Dense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	off := t.net.NeuralParameterCount()
	jac := mat.NewDense(len(t.weights), t.net.ParameterCount(), nil)
	for k, w := range t.weights {
		jac.Set(k, off+k, math.Sqrt(w))
	}

	return jac, nil
}
