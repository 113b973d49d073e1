// Package constraints provides the performance terms that hold a Network to conditions outside
// of any Dataset: the final state of a mathematical model, and the values of the independent
// parameters. Both are least squares terms.
package constraints

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/numdiff"
)

type finalSolutions struct {
	net   *nn.Network
	model nn.MathematicalModel

	targets []float64
	weights []float64
}

// FinalSolutionsError returns Σ w_k (y_k - t_k)², where y are the dependent variables of the
// model at its final independent value and t are the targets. Every weight starts at 1.
//
// If the model is an nn.SensitivityModel, the gradient is computed from its FinalJacobian;
// otherwise, or when it returns nn.ErrNoSensitivity, by finite differences of the solution.
func FinalSolutionsError(net *nn.Network, model nn.MathematicalModel, targets []float64) *finalSolutions {
	w := make([]float64, len(targets))
	for i := range w {
		w[i] = 1
	}

	return &finalSolutions{
		net:     net,
		model:   model,
		targets: append([]float64(nil), targets...),
		weights: w,
	}
}

// Weights sets the weights of each dependent variable. They must be non-negative.
func (t *finalSolutions) Weights(w []float64) *finalSolutions {
	t.weights = append([]float64(nil), w...)
	return t
}

func (t *finalSolutions) TypeString() string {
	return "final-solutions-error"
}

func (t *finalSolutions) Check() error {
	if err := nn.CheckNetwork(t.net); err != nil {
		return errors.Wrapf(err, "Check failed for final-solutions-error\n")
	} else if t.model == nil {
		return nn.ConfigErrorf("Check failed for final-solutions-error, model is nil")
	} else if t.model.DependentCount() < 1 {
		return nn.ConfigErrorf("Check failed for final-solutions-error, model has no dependent variables")
	} else if n := t.model.DependentCount(); len(t.targets) != n {
		return errors.Wrapf(nn.SizeMismatchError{Expected: n, Got: len(t.targets), What: "final solution targets"},
			"Check failed for final-solutions-error\n")
	} else if len(t.weights) != n {
		return errors.Wrapf(nn.SizeMismatchError{Expected: n, Got: len(t.weights), What: "final solution weights"},
			"Check failed for final-solutions-error\n")
	}

	for i, w := range t.weights {
		if !(w >= 0) {
			return nn.ConfigErrorf("Check failed for final-solutions-error, weight %d must be >= 0 (%v)", i, w)
		}
	}

	return nil
}

// residuals returns y - t at the final independent value of the model driven by net
func (t *finalSolutions) residuals(net *nn.Network) ([]float64, error) {
	sol, err := t.model.Solve(net)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to solve model\n")
	} else if len(sol.Dependent) == 0 {
		return nil, nn.NumericErrorf("Model returned an empty solution")
	}

	final := sol.Final()
	if len(final) != len(t.targets) {
		return nil, errors.WithStack(nn.SizeMismatchError{Expected: len(t.targets), Got: len(final), What: "final solutions"})
	}

	r := make([]float64, len(final))
	for k := range r {
		r[k] = final[k] - t.targets[k]
	}

	return r, nil
}

func (t *finalSolutions) evaluate(net *nn.Network) (float64, error) {
	r, err := t.residuals(net)
	if err != nil {
		return 0, err
	}

	var e float64
	for k, rk := range r {
		e += t.weights[k] * rk * rk
	}

	return e, nil
}

func (t *finalSolutions) Evaluate() (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	return t.evaluate(t.net)
}

func (t *finalSolutions) EvaluateAt(p []float64) (float64, error) {
	if err := t.Check(); err != nil {
		return 0, err
	}

	return nn.EvaluateAt(t.net, p, t.evaluate)
}

// jacobian returns the derivatives of the final solutions with respect to the parameters of
// net
func (t *finalSolutions) jacobian(net *nn.Network) (*mat.Dense, error) {
	if sm, ok := t.model.(nn.SensitivityModel); ok {
		jac, err := sm.FinalJacobian(net)
		if err == nil {
			return jac, nil
		} else if errors.Cause(err) != nn.ErrNoSensitivity {
			return nil, errors.Wrapf(err, "Failed to get final jacobian\n")
		}
	}

	if net.ParameterCount() == 0 {
		return nil, nn.ConfigErrorf("Can't differentiate final solutions, network has no parameters")
	}

	return numdiff.Jacobian(func(r, p []float64) error {
		c, err := net.WithParameters(p)
		if err != nil {
			return err
		}

		res, err := t.residuals(c)
		if err != nil {
			return err
		}

		copy(r, res)
		return nil
	}, len(t.targets), net.Parameters(), nil)
}

func (t *finalSolutions) gradient(net *nn.Network) ([]float64, error) {
	r, err := t.residuals(net)
	if err != nil {
		return nil, err
	}

	jac, err := t.jacobian(net)
	if err != nil {
		return nil, err
	}

	wr := make([]float64, len(r))
	for k := range r {
		wr[k] = 2 * t.weights[k] * r[k]
	}

	grad := make([]float64, net.ParameterCount())
	mat.NewVecDense(len(grad), grad).MulVec(jac.T(), mat.NewVecDense(len(wr), wr))
	return grad, nil
}

func (t *finalSolutions) Gradient() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	return t.gradient(t.net)
}

func (t *finalSolutions) Hessian() (*mat.SymDense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	h, err := nn.NumericalHessian(t.net, t.gradient)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to compute hessian of final-solutions-error\n")
	}

	return h, nil
}

// Terms returns √w_k (y_k - t_k).
func (t *finalSolutions) Terms() ([]float64, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	r, err := t.residuals(t.net)
	if err != nil {
		return nil, err
	}

	for k := range r {
		r[k] *= math.Sqrt(t.weights[k])
	}

	return r, nil
}

func (t *finalSolutions) TermsJacobian() (*mat.Dense, error) {
	if err := t.Check(); err != nil {
		return nil, err
	}

	jac, err := t.jacobian(t.net)
	if err != nil {
		return nil, err
	}

	scaled := mat.DenseCopyOf(jac)
	for k, w := range t.weights {
		row := scaled.RawRowView(k)
		for j := range row {
			row[j] *= math.Sqrt(w)
		}
	}

	return scaled, nil
}
