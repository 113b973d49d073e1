package training

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type gradientDescent struct {
	f *nn.PerformanceFunctional

	Common
	LineSearch LineSearch
}

// GradientDescent returns the steepest descent algorithm over f: each step follows the
// normalized negative gradient, with a length chosen by LineSearch.
func GradientDescent(f *nn.PerformanceFunctional) *gradientDescent {
	return &gradientDescent{
		f:          f,
		Common:     defaultCommon(),
		LineSearch: DefaultLineSearch(),
	}
}

func (g *gradientDescent) TypeString() string {
	return "gradient-descent"
}

// SetFirstStep sets the first step of the line search.
func (g *gradientDescent) SetFirstStep(hp nn.HyperParameter) {
	g.LineSearch.FirstStep = hp
}

func (g *gradientDescent) step(iter int, s *state) (*update, error) {
	u := &update{params: s.params}
	if s.gradientNorm == 0 {
		return u, nil
	}

	d := make([]float64, len(s.gradient))
	floats.ScaleTo(d, -1/s.gradientNorm, s.gradient)
	u.direction = d

	t, _, err := g.LineSearch.search(g.f, iter, d, s.performance, -s.gradientNorm)
	if err != nil {
		return nil, err
	}

	u.step = t
	if t > 0 {
		u.params = append([]float64(nil), s.params...)
		floats.AddScaled(u.params, t, d)
	}

	return u, nil
}

func (g *gradientDescent) Train() (*nn.Results, error) {
	if err := checkDifferentiable(g.f, g.TypeString()); err != nil {
		return nil, err
	} else if err := g.LineSearch.check(); err != nil {
		return nil, errors.Wrapf(err, "Can't train with %s\n", g.TypeString())
	}

	r := &run{name: g.TypeString(), f: g.f, c: &g.Common, gradient: true, step: g.step}
	return r.train()
}
