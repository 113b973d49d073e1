// Package numdiff provides finite difference derivatives of functions that may fail, on top of
// gonum's diff/fd. It is used both to check the analytic derivatives of performance terms and
// as the implementation of the derivatives that have no closed form.
//
// The first error returned by the function being differentiated is returned; when one occurs,
// the remaining evaluations still happen but their values are discarded.
package numdiff

import (
	"math"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Settings configure the finite differences. A nil *Settings uses central differences with the
// default step of the formula.
type Settings struct {
	// Formula is one of fd.Forward, fd.Backward or fd.Central. The zero value selects
	// fd.Central.
	Formula fd.Formula

	// Step is the step size, with 0 selecting the default step of the formula
	Step float64

	// Concurrent evaluates the function from multiple goroutines. The function must be safe
	// for concurrent use.
	Concurrent bool
}

func (s *Settings) formula() fd.Formula {
	if s == nil || s.Formula.Stencil == nil {
		return fd.Central
	}

	return s.Formula
}

func (s *Settings) fd() *fd.Settings {
	f := &fd.Settings{Formula: s.formula()}
	if s != nil {
		f.Step = s.Step
		f.Concurrent = s.Concurrent
	}

	return f
}

// firstErr keeps the first error set
type firstErr struct {
	sync.Mutex
	err error
}

func (e *firstErr) set(err error) {
	e.Lock()
	if e.err == nil {
		e.err = err
	}
	e.Unlock()
}

func (e *firstErr) get() error {
	e.Lock()
	defer e.Unlock()
	return e.err
}

// Derivative returns the derivative of f at x.
func Derivative(f func(float64) (float64, error), x float64, s *Settings) (float64, error) {
	var fe firstErr
	d := fd.Derivative(func(x float64) float64 {
		y, err := f(x)
		if err != nil {
			fe.set(err)
			return math.NaN()
		}
		return y
	}, x, s.fd())

	if err := fe.get(); err != nil {
		return 0, errors.Wrapf(err, "Failed to compute derivative\n")
	}

	return d, nil
}

// Gradient returns the gradient of f at x.
func Gradient(f func([]float64) (float64, error), x []float64, s *Settings) ([]float64, error) {
	var fe firstErr
	g := fd.Gradient(nil, func(x []float64) float64 {
		y, err := f(x)
		if err != nil {
			fe.set(err)
			return math.NaN()
		}
		return y
	}, x, s.fd())

	if err := fe.get(); err != nil {
		return nil, errors.Wrapf(err, "Failed to compute gradient\n")
	}

	return g, nil
}

// Jacobian returns the m×len(x) Jacobian of f at x, where f sets the m values of the function
// at x into y.
func Jacobian(f func(y, x []float64) error, m int, x []float64, s *Settings) (*mat.Dense, error) {
	if m < 1 || len(x) < 1 {
		return nil, errors.Errorf("Can't compute jacobian with %d rows and %d columns", m, len(x))
	}

	settings := &fd.JacobianSettings{Formula: s.formula()}
	if s != nil {
		settings.Step = s.Step
		settings.Concurrent = s.Concurrent
	}

	var fe firstErr
	jac := mat.NewDense(m, len(x), nil)
	fd.Jacobian(jac, func(y, x []float64) {
		if err := f(y, x); err != nil {
			fe.set(err)
			for i := range y {
				y[i] = math.NaN()
			}
		}
	}, x, settings)

	if err := fe.get(); err != nil {
		return nil, errors.Wrapf(err, "Failed to compute jacobian\n")
	}

	return jac, nil
}

// Hessian returns the Hessian of f at x, from second differences of f.
func Hessian(f func([]float64) (float64, error), x []float64, s *Settings) (*mat.SymDense, error) {
	if len(x) < 1 {
		return nil, errors.Errorf("Can't compute hessian of a function of no variables")
	}

	var fe firstErr
	hess := mat.NewSymDense(len(x), nil)
	fd.Hessian(hess, func(x []float64) float64 {
		y, err := f(x)
		if err != nil {
			fe.set(err)
			return math.NaN()
		}
		return y
	}, x, s.fd())

	if err := fe.get(); err != nil {
		return nil, errors.Wrapf(err, "Failed to compute hessian\n")
	}

	return hess, nil
}

// HessianFromGradient returns the Hessian at x of the function whose gradient is computed by
// g, from first differences of the gradient. The result is symmetrized.
func HessianFromGradient(g func(dst, x []float64) error, x []float64, s *Settings) (*mat.SymDense, error) {
	jac, err := Jacobian(g, len(x), x, s)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to compute hessian from gradient\n")
	}

	n := len(x)
	hess := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			hess.SetSym(i, j, 0.5*(jac.At(i, j)+jac.At(j, i)))
		}
	}

	return hess, nil
}
