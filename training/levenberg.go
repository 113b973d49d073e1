package training

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type levenbergMarquardt struct {
	f *nn.PerformanceFunctional

	Common

	// Damping is the initial damping parameter λ. It is divided by DampingFactor after every
	// successful step and multiplied by it after every failed one, staying within
	// [MinimumDamping, MaximumDamping].
	Damping        float64
	DampingFactor  float64
	MinimumDamping float64
	MaximumDamping float64

	// MaximumTrials bounds the number of damping increases within a single iteration
	MaximumTrials int

	λ float64
}

// LevenbergMarquardt returns the Levenberg-Marquardt algorithm over f. Every term of f must be
// an nn.LeastSquaresTerm. Steps δ solve the damped normal equations
//	(JᵀJ + λI)δ = -Jᵀe
// where e are the terms of f and J their Jacobian.
func LevenbergMarquardt(f *nn.PerformanceFunctional) *levenbergMarquardt {
	return &levenbergMarquardt{
		f:              f,
		Common:         defaultCommon(),
		Damping:        1e-3,
		DampingFactor:  10,
		MinimumDamping: 1e-15,
		MaximumDamping: 1e15,
		MaximumTrials:  20,
	}
}

func (l *levenbergMarquardt) TypeString() string {
	return "levenberg-marquardt"
}

func (l *levenbergMarquardt) check() error {
	if !(l.Damping > 0) {
		return nn.ConfigErrorf("Damping must be > 0 (%v)", l.Damping)
	} else if !(l.DampingFactor > 1) {
		return nn.ConfigErrorf("Damping factor must be > 1 (%v)", l.DampingFactor)
	} else if !(l.MinimumDamping > 0 && l.MinimumDamping <= l.Damping && l.Damping <= l.MaximumDamping) {
		return nn.ConfigErrorf("Damping %v must be within [%v, %v], with a positive minimum", l.Damping, l.MinimumDamping, l.MaximumDamping)
	} else if l.MaximumTrials < 1 {
		return nn.ConfigErrorf("Levenberg-Marquardt needs at least 1 trial (%d)", l.MaximumTrials)
	}

	return nil
}

func (l *levenbergMarquardt) step(iter int, s *state) (*update, error) {
	u := &update{params: s.params}

	e, err := l.f.Terms()
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get terms\n")
	}
	jac, err := l.f.TermsJacobian()
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get terms jacobian\n")
	}

	n := len(s.params)
	if len(e) == 0 || n == 0 {
		return u, nil
	}

	var jtj mat.SymDense
	jtj.SymOuterK(1, jac.T())

	var jte mat.VecDense
	jte.MulVec(jac.T(), mat.NewVecDense(len(e), e))
	jte.ScaleVec(-1, &jte)

	a := mat.NewSymDense(n, nil)
	for trial := 0; trial < l.MaximumTrials; trial++ {
		a.CopySym(&jtj)
		for i := 0; i < n; i++ {
			a.SetSym(i, i, a.At(i, i)+l.λ)
		}

		var ch mat.Cholesky
		if ch.Factorize(a) {
			var δ mat.VecDense
			if err := ch.SolveVecTo(&δ, &jte); err == nil {
				p := make([]float64, n)
				for i := range p {
					p[i] = s.params[i] + δ.AtVec(i)
				}

				v, err := l.f.EvaluateAt(p)
				if err != nil {
					return nil, errors.Wrapf(err, "Failed to evaluate trial %d\n", trial)
				}

				if v < s.performance {
					l.λ = l.clamp(l.λ / l.DampingFactor)
					u.params, u.direction, u.step = p, δ.RawVector().Data, 1
					return u, nil
				}
			}
		}

		if l.λ >= l.MaximumDamping {
			break
		}
		l.λ = l.clamp(l.λ * l.DampingFactor)
	}

	return u, nil
}

func (l *levenbergMarquardt) clamp(λ float64) float64 {
	if λ < l.MinimumDamping {
		return l.MinimumDamping
	} else if λ > l.MaximumDamping {
		return l.MaximumDamping
	}

	return λ
}

func (l *levenbergMarquardt) Train() (*nn.Results, error) {
	if err := checkDifferentiable(l.f, l.TypeString()); err != nil {
		return nil, err
	} else if err := l.check(); err != nil {
		return nil, errors.Wrapf(err, "Can't train with %s\n", l.TypeString())
	} else if l.f != nil {
		if _, err := l.f.Terms(); err != nil {
			return nil, errors.Wrapf(err, "Can't train with %s\n", l.TypeString())
		}
	}

	l.λ = l.Damping
	r := &run{name: l.TypeString(), f: l.f, c: &l.Common, gradient: true, step: l.step}
	return r.train()
}
