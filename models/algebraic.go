package models

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// Algebraic is the system of algebraic equations
//	y = Map(x, u(x))
// evaluated at evenly spaced points x in [Lower, Upper], where u(x) are the outputs of the
// Network at x.
type Algebraic struct {
	Dependent int

	Map func(x float64, u []float64) []float64

	// MapJacobian, ∂y/∂u (Dependent × outputs), allows FinalJacobian to be computed. It may be
	// nil.
	MapJacobian func(x float64, u []float64) *mat.Dense

	Lower, Upper float64
	Points       int
}

// NewAlgebraic returns an Algebraic model over [0, 1] with DefaultPoints points.
func NewAlgebraic(dependent int, m func(x float64, u []float64) []float64) *Algebraic {
	return &Algebraic{
		Dependent: dependent,
		Map:       m,
		Lower:     0,
		Upper:     1,
		Points:    DefaultPoints,
	}
}

func (a *Algebraic) DependentCount() int {
	return a.Dependent
}

func (a *Algebraic) check(net *nn.Network) error {
	if err := nn.CheckNetwork(net); err != nil {
		return err
	} else if net.InputCount() != 1 {
		return nn.ConfigErrorf("Network must have one input for an algebraic model (has %d)", net.InputCount())
	} else if a.Map == nil {
		return nn.ConfigErrorf("Algebraic model has no map")
	} else if a.Points < 1 {
		return nn.ConfigErrorf("Algebraic model needs at least 1 point (%d)", a.Points)
	} else if a.Points > 1 && !(a.Lower < a.Upper) {
		return nn.ConfigErrorf("Algebraic model domain is empty ([%v, %v])", a.Lower, a.Upper)
	}

	return nil
}

func (a *Algebraic) at(net *nn.Network, x float64) ([]float64, error) {
	u, err := net.Outputs([]float64{x})
	if err != nil {
		return nil, err
	}

	y := a.Map(x, u)
	if len(y) != a.Dependent {
		return nil, errors.WithStack(nn.SizeMismatchError{Expected: a.Dependent, Got: len(y), What: "dependent variables"})
	}

	return y, nil
}

// Solve evaluates the map at every point. With a single point, it is evaluated at Upper.
func (a *Algebraic) Solve(net *nn.Network) (*nn.Solution, error) {
	if err := a.check(net); err != nil {
		return nil, errors.Wrapf(err, "Can't solve algebraic model\n")
	}

	sol := &nn.Solution{}
	for i := 0; i < a.Points; i++ {
		x := a.Upper
		if i < a.Points-1 {
			x = a.Lower + float64(i)*(a.Upper-a.Lower)/float64(a.Points-1)
		}

		y, err := a.at(net, x)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to evaluate algebraic model at %v\n", x)
		}

		sol.Independent = append(sol.Independent, x)
		sol.Dependent = append(sol.Dependent, y)
	}

	return sol, nil
}

// FinalJacobian returns the derivatives of the dependent variables at Upper with respect to the
// parameters of the Network. It returns nn.ErrNoSensitivity if MapJacobian is nil.
func (a *Algebraic) FinalJacobian(net *nn.Network) (*mat.Dense, error) {
	if err := a.check(net); err != nil {
		return nil, errors.Wrapf(err, "Can't get final jacobian of algebraic model\n")
	} else if a.MapJacobian == nil {
		return nil, errors.WithStack(nn.ErrNoSensitivity)
	}

	prop, err := net.Forward([]float64{a.Upper})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to propagate %v\n", a.Upper)
	}

	ju, err := net.ParametersJacobian(prop)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get parameters jacobian at %v\n", a.Upper)
	}

	var jac mat.Dense
	jac.Mul(a.MapJacobian(a.Upper, prop.Outputs), ju)
	return &jac, nil
}
