// Package models provides the mathematical models that performance terms in "constraints" can
// compare a Network against: a system of ordinary differential equations and an algebraic
// system. In both, the Network has a single input, the independent variable, and its outputs
// are the controls of the system.
package models

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// Method is the integration method of an ODE.
type Method int8

const (
	// RK4 is the classic fourth order Runge-Kutta method, with a fixed number of points
	RK4 Method = iota
	// RKF45 is the adaptive Runge-Kutta-Fehlberg method, with a tolerance
	RKF45
)

func (m Method) String() string {
	switch m {
	case RK4:
		return "runge-kutta"
	case RKF45:
		return "runge-kutta-fehlberg"
	}

	return "unknown"
}

// Defaults of new ODEs
const (
	DefaultPoints        int     = 101
	DefaultTolerance     float64 = 1e-6
	DefaultMaximumPoints int     = 10000
)

// ODE is the system of ordinary differential equations
//	dy/dx = Derivatives(x, y, u(x))
// for x from InitialIndependent to the final independent value, with y(InitialIndependent) =
// Initial and u(x) the outputs of the Network at x.
type ODE struct {
	// Dependent is the number of dependent variables, the length of y
	Dependent int

	Initial            []float64
	InitialIndependent float64
	FinalIndependent   float64

	// FinalIndependentParameter, if not negative, is the index of the independent parameter of
	// the Network that gives the final independent value, in place of FinalIndependent
	FinalIndependentParameter int

	Derivatives func(x float64, y, u []float64) []float64

	// StateJacobian (∂f/∂y, Dependent × Dependent) and ControlJacobian (∂f/∂u, Dependent ×
	// outputs) allow FinalJacobian to be computed. Either may be nil.
	StateJacobian   func(x float64, y, u []float64) *mat.Dense
	ControlJacobian func(x float64, y, u []float64) *mat.Dense

	Method Method

	// Points is the number of points used by RK4
	Points int

	// Tolerance and MaximumPoints are used by RKF45
	Tolerance     float64
	MaximumPoints int
}

// NewODE returns an ODE over [0, 1], integrated by RK4 with DefaultPoints points, starting from
// y = 0.
func NewODE(dependent int, derivatives func(x float64, y, u []float64) []float64) *ODE {
	return &ODE{
		Dependent:                 dependent,
		Initial:                   make([]float64, dependent),
		InitialIndependent:        0,
		FinalIndependent:          1,
		FinalIndependentParameter: -1,
		Derivatives:               derivatives,
		Method:                    RK4,
		Points:                    DefaultPoints,
		Tolerance:                 DefaultTolerance,
		MaximumPoints:             DefaultMaximumPoints,
	}
}

func (o *ODE) DependentCount() int {
	return o.Dependent
}

func (o *ODE) check(net *nn.Network) error {
	if err := nn.CheckNetwork(net); err != nil {
		return err
	} else if net.InputCount() != 1 {
		return nn.ConfigErrorf("Network must have one input for an ODE (has %d)", net.InputCount())
	} else if o.Derivatives == nil {
		return nn.ConfigErrorf("ODE has no derivatives")
	} else if len(o.Initial) != o.Dependent {
		return errors.WithStack(nn.SizeMismatchError{Expected: o.Dependent, Got: len(o.Initial), What: "initial values"})
	} else if o.FinalIndependentParameter >= net.IndependentParameterCount() {
		return nn.ConfigErrorf("Final independent parameter %d out of range [0, %d)", o.FinalIndependentParameter, net.IndependentParameterCount())
	}

	switch o.Method {
	case RK4:
		if o.Points < 2 {
			return nn.ConfigErrorf("RK4 needs at least 2 points (%d)", o.Points)
		}
	case RKF45:
		if !(o.Tolerance > 0) || o.MaximumPoints < 2 {
			return nn.ConfigErrorf("RKF45 needs a positive tolerance and at least 2 points (%v, %d)", o.Tolerance, o.MaximumPoints)
		}
	default:
		return errors.Wrapf(nn.ErrUnknownType, "Can't integrate with method %d\n", o.Method)
	}

	return nil
}

// final returns the final independent value
func (o *ODE) final(net *nn.Network) (float64, error) {
	xf := o.FinalIndependent
	if o.FinalIndependentParameter >= 0 {
		xf = net.Independent().Value(o.FinalIndependentParameter)
	}

	if !(xf > o.InitialIndependent) {
		return 0, nn.NumericErrorf("Final independent value %v is not above the initial value %v", xf, o.InitialIndependent)
	}

	return xf, nil
}

func (o *ODE) stateDerivs(net *nn.Network) derivs {
	return func(x float64, y, dy []float64) error {
		u, err := net.Outputs([]float64{x})
		if err != nil {
			return err
		}

		d := o.Derivatives(x, y, u)
		if len(d) != o.Dependent {
			return errors.WithStack(nn.SizeMismatchError{Expected: o.Dependent, Got: len(d), What: "derivatives"})
		}

		copy(dy, d)
		return nil
	}
}

// Solve integrates the system from its initial to its final independent value.
func (o *ODE) Solve(net *nn.Network) (*nn.Solution, error) {
	if err := o.check(net); err != nil {
		return nil, errors.Wrapf(err, "Can't solve ODE\n")
	}

	xf, err := o.final(net)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't solve ODE\n")
	}

	f := o.stateDerivs(net)
	sol := &nn.Solution{
		Independent: []float64{o.InitialIndependent},
		Dependent:   [][]float64{append([]float64(nil), o.Initial...)},
	}

	if o.Method == RK4 {
		h := (xf - o.InitialIndependent) / float64(o.Points-1)
		y := sol.Dependent[0]
		for i := 1; i < o.Points; i++ {
			x := o.InitialIndependent + float64(i-1)*h
			if y, err = rk4(f, x, y, h); err != nil {
				return nil, errors.Wrapf(err, "Failed to integrate ODE at %v\n", x)
			}

			xi := o.InitialIndependent + float64(i)*h
			if i == o.Points-1 {
				xi = xf
			}
			sol.Independent = append(sol.Independent, xi)
			sol.Dependent = append(sol.Dependent, y)
		}

		return sol, nil
	}

	x, y := o.InitialIndependent, sol.Dependent[0]
	h := (xf - x) / float64(DefaultPoints-1)
	for trials := 0; x < xf; trials++ {
		if len(sol.Independent) >= o.MaximumPoints || trials >= 10*o.MaximumPoints {
			return nil, nn.NumericErrorf("RKF45 reached %d points at %v before the final value %v", len(sol.Independent), x, xf)
		}

		h = math.Min(h, xf-x)
		next, diff, err := rkf45(f, x, y, h)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to integrate ODE at %v\n", x)
		}

		if diff <= o.Tolerance {
			x += h
			if xf-x < 1e-12*math.Max(1, math.Abs(xf)) {
				x = xf
			}
			y = next

			sol.Independent = append(sol.Independent, x)
			sol.Dependent = append(sol.Dependent, y)
		}

		scale := 4.0
		if diff > 0 {
			scale = math.Max(0.1, math.Min(4, 0.84*math.Pow(o.Tolerance/diff, 0.25)))
		}
		h *= scale
	}

	return sol, nil
}

// FinalJacobian returns the derivatives of the final dependent variables with respect to the
// parameters of the Network, by integrating the forward sensitivities S = dy/dθ,
//	dS/dx = (∂f/∂y) S + (∂f/∂u)(∂u/∂θ)
// alongside the system. It is only available with RK4, a fixed final independent value and both
// StateJacobian and ControlJacobian set; otherwise it returns nn.ErrNoSensitivity.
func (o *ODE) FinalJacobian(net *nn.Network) (*mat.Dense, error) {
	if err := o.check(net); err != nil {
		return nil, errors.Wrapf(err, "Can't get final jacobian of ODE\n")
	} else if o.Method != RK4 || o.FinalIndependentParameter >= 0 || o.StateJacobian == nil || o.ControlJacobian == nil {
		return nil, errors.WithStack(nn.ErrNoSensitivity)
	} else if net.ParameterCount() == 0 {
		return nil, nn.ConfigErrorf("Can't get final jacobian of ODE, network has no parameters")
	}

	if _, err := o.final(net); err != nil {
		return nil, errors.Wrapf(err, "Can't get final jacobian of ODE\n")
	}

	n, p := o.Dependent, net.ParameterCount()
	f := o.stateDerivs(net)

	// z = [y, S row by row]
	aug := func(x float64, z, dz []float64) error {
		y := z[:n]
		if err := f(x, y, dz[:n]); err != nil {
			return err
		}

		prop, err := net.Forward([]float64{x})
		if err != nil {
			return err
		}
		ju, err := net.ParametersJacobian(prop)
		if err != nil {
			return err
		}

		s := mat.NewDense(n, p, z[n:])
		var ds, bju mat.Dense
		ds.Mul(o.StateJacobian(x, y, prop.Outputs), s)
		bju.Mul(o.ControlJacobian(x, y, prop.Outputs), ju)
		ds.Add(&ds, &bju)

		for i := 0; i < n; i++ {
			mat.Row(dz[n+i*p:n+(i+1)*p], i, &ds)
		}
		return nil
	}

	z := make([]float64, n+n*p)
	copy(z, o.Initial)

	h := (o.FinalIndependent - o.InitialIndependent) / float64(o.Points-1)
	for i := 1; i < o.Points; i++ {
		x := o.InitialIndependent + float64(i-1)*h
		var err error
		if z, err = rk4(aug, x, z, h); err != nil {
			return nil, errors.Wrapf(err, "Failed to integrate sensitivities at %v\n", x)
		}
	}

	if !floats.HasNaN(z) {
		return mat.NewDense(n, p, z[n:]), nil
	}

	return nil, nn.NumericErrorf("Sensitivities of ODE are not finite")
}
