package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PerformanceFunctional is the function of the parameters of a Network minimized by training:
// the sum of an objective, a regularization and a constraints term, any of which may be
// absent. With no terms, it is zero everywhere.
//
// Evaluating the functional at a point other than the current parameters never changes the
// Network.
type PerformanceFunctional struct {
	net *Network

	objective      PerformanceTerm
	regularization PerformanceTerm
	constraints    PerformanceTerm
}

// NewPerformanceFunctional returns a functional over the parameters of net, without any terms.
func NewPerformanceFunctional(net *Network) *PerformanceFunctional {
	return &PerformanceFunctional{net: net}
}

// Network returns the Network whose parameters the functional is a function of.
func (f *PerformanceFunctional) Network() *Network {
	return f.net
}

// SetObjective sets the objective term, returning the functional. A nil term removes it.
func (f *PerformanceFunctional) SetObjective(t PerformanceTerm) *PerformanceFunctional {
	f.objective = t
	return f
}

// SetRegularization sets the regularization term, returning the functional. A nil term
// removes it.
func (f *PerformanceFunctional) SetRegularization(t PerformanceTerm) *PerformanceFunctional {
	f.regularization = t
	return f
}

// SetConstraints sets the constraints term, returning the functional. A nil term removes it.
func (f *PerformanceFunctional) SetConstraints(t PerformanceTerm) *PerformanceFunctional {
	f.constraints = t
	return f
}

func (f *PerformanceFunctional) Objective() PerformanceTerm      { return f.objective }
func (f *PerformanceFunctional) Regularization() PerformanceTerm { return f.regularization }
func (f *PerformanceFunctional) Constraints() PerformanceTerm    { return f.constraints }

type namedTerm struct {
	name string
	PerformanceTerm
}

// present returns the terms that have been set, in order
func (f *PerformanceFunctional) present() []namedTerm {
	var ts []namedTerm
	if f.objective != nil {
		ts = append(ts, namedTerm{"objective", f.objective})
	}
	if f.regularization != nil {
		ts = append(ts, namedTerm{"regularization", f.regularization})
	}
	if f.constraints != nil {
		ts = append(ts, namedTerm{"constraints", f.constraints})
	}

	return ts
}

// Check runs Check on the Network and on every term.
func (f *PerformanceFunctional) Check() error {
	if err := CheckNetwork(f.net); err != nil {
		return errors.Wrapf(err, "Performance functional is misconfigured\n")
	}

	for _, t := range f.present() {
		if err := t.Check(); err != nil {
			return errors.Wrapf(err, "Check failed for %s term %q\n", t.name, t.TypeString())
		}
	}

	return nil
}

// Evaluate returns the sum of the values of every term.
func (f *PerformanceFunctional) Evaluate() (float64, error) {
	if err := CheckNetwork(f.net); err != nil {
		return 0, errors.Wrapf(err, "Can't evaluate performance functional\n")
	}

	var sum float64
	for _, t := range f.present() {
		v, err := t.Evaluate()
		if err != nil {
			return 0, errors.Wrapf(err, "Failed to evaluate %s term %q\n", t.name, t.TypeString())
		}
		sum += v
	}

	return sum, nil
}

// EvaluateAt returns the value of the functional with the parameters of the Network set to p.
// The Network is not changed.
func (f *PerformanceFunctional) EvaluateAt(p []float64) (float64, error) {
	if err := CheckNetwork(f.net); err != nil {
		return 0, errors.Wrapf(err, "Can't evaluate performance functional\n")
	} else if len(p) != f.net.ParameterCount() {
		return 0, errors.WithStack(SizeMismatchError{f.net.ParameterCount(), len(p), "parameters"})
	}

	var sum float64
	for _, t := range f.present() {
		v, err := t.EvaluateAt(p)
		if err != nil {
			return 0, errors.Wrapf(err, "Failed to evaluate %s term %q at parameters\n", t.name, t.TypeString())
		}
		sum += v
	}

	return sum, nil
}

// EvaluateAlong returns the value of the functional at the current parameters plus step times
// direction. The Network is not changed. This is the function minimized by line searches.
func (f *PerformanceFunctional) EvaluateAlong(direction []float64, step float64) (float64, error) {
	if err := CheckNetwork(f.net); err != nil {
		return 0, errors.Wrapf(err, "Can't evaluate performance functional\n")
	} else if len(direction) != f.net.ParameterCount() {
		return 0, errors.WithStack(SizeMismatchError{f.net.ParameterCount(), len(direction), "direction"})
	}

	p := f.net.Parameters()
	floats.AddScaled(p, step, direction)
	return f.EvaluateAt(p)
}

// Gradient returns the sum of the gradients of every term.
func (f *PerformanceFunctional) Gradient() ([]float64, error) {
	if err := CheckNetwork(f.net); err != nil {
		return nil, errors.Wrapf(err, "Can't get gradient of performance functional\n")
	}

	grad := make([]float64, f.net.ParameterCount())
	for _, t := range f.present() {
		g, err := t.Gradient()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get gradient of %s term %q\n", t.name, t.TypeString())
		} else if len(g) != len(grad) {
			return nil, errors.Wrapf(SizeMismatchError{len(grad), len(g), "gradient"}, "Bad gradient from %s term %q\n", t.name, t.TypeString())
		}

		floats.Add(grad, g)
	}

	return grad, nil
}

// Hessian returns the sum of the Hessians of every term.
func (f *PerformanceFunctional) Hessian() (*mat.SymDense, error) {
	if err := CheckNetwork(f.net); err != nil {
		return nil, errors.Wrapf(err, "Can't get hessian of performance functional\n")
	}

	n := f.net.ParameterCount()
	if n == 0 {
		return nil, ConfigErrorf("Can't get hessian of performance functional, network has no parameters")
	}

	hess := mat.NewSymDense(n, nil)
	for _, t := range f.present() {
		h, err := t.Hessian()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get hessian of %s term %q\n", t.name, t.TypeString())
		} else if h.SymmetricDim() != n {
			return nil, errors.Wrapf(SizeMismatchError{n, h.SymmetricDim(), "hessian"}, "Bad hessian from %s term %q\n", t.name, t.TypeString())
		}

		hess.AddSym(hess, h)
	}

	return hess, nil
}

func (f *PerformanceFunctional) leastSquares() ([]LeastSquaresTerm, error) {
	var ls []LeastSquaresTerm
	for _, t := range f.present() {
		l, ok := t.PerformanceTerm.(LeastSquaresTerm)
		if !ok {
			return nil, errors.Wrapf(ErrNotLeastSquares, "%s term %q is not least squares\n", t.name, t.TypeString())
		}
		ls = append(ls, l)
	}

	if len(ls) == 0 {
		return nil, errors.Wrapf(ErrNotLeastSquares, "Performance functional has no terms\n")
	}

	return ls, nil
}

// Terms returns the terms of every present term, one after the other. Every present term must
// be a LeastSquaresTerm.
func (f *PerformanceFunctional) Terms() ([]float64, error) {
	if err := CheckNetwork(f.net); err != nil {
		return nil, errors.Wrapf(err, "Can't get terms of performance functional\n")
	}

	ls, err := f.leastSquares()
	if err != nil {
		return nil, err
	}

	var terms []float64
	for _, l := range ls {
		ts, err := l.Terms()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get terms of %q\n", l.TypeString())
		}
		terms = append(terms, ts...)
	}

	return terms, nil
}

// TermsJacobian returns the jacobians of every present term, stacked in the same order as
// Terms. Every present term must be a LeastSquaresTerm.
func (f *PerformanceFunctional) TermsJacobian() (*mat.Dense, error) {
	if err := CheckNetwork(f.net); err != nil {
		return nil, errors.Wrapf(err, "Can't get terms jacobian of performance functional\n")
	}

	ls, err := f.leastSquares()
	if err != nil {
		return nil, err
	}

	var stacked *mat.Dense
	for _, l := range ls {
		j, err := l.TermsJacobian()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get terms jacobian of %q\n", l.TypeString())
		} else if _, c := j.Dims(); c != f.net.ParameterCount() {
			return nil, errors.Wrapf(SizeMismatchError{f.net.ParameterCount(), c, "terms jacobian columns"}, "Bad terms jacobian from %q\n", l.TypeString())
		}

		if stacked == nil {
			stacked = j
			continue
		}

		var s mat.Dense
		s.Stack(stacked, j)
		stacked = &s
	}

	return stacked, nil
}

// Generalization returns the generalization of the objective term: its value over the
// validation partition of its Dataset. If there is no objective, or it cannot generalize,
// ErrNoValidation is returned.
func (f *PerformanceFunctional) Generalization() (float64, error) {
	g, ok := f.objective.(Generalizer)
	if f.objective == nil || !ok {
		return 0, errors.WithStack(ErrNoValidation)
	}

	return g.Generalization()
}
