package training

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/hyperparams"
)

type randomSearch struct {
	f   *nn.PerformanceFunctional
	rng *rand.Rand

	Common

	// StepLength gives the length of the step at each iteration, before it is reduced
	StepLength nn.HyperParameter

	// Reduction multiplies the step length after every rejected trial, within (0, 1]
	Reduction float64

	reduced float64
}

// RandomSearch returns an algorithm over f that, at each iteration, tries a single step in a
// uniformly random direction and keeps it only if it decreases the performance. Directions are
// drawn from rng; if rng is nil, one is seeded with nn.DefaultSeed.
func RandomSearch(f *nn.PerformanceFunctional, rng *rand.Rand) *randomSearch {
	if rng == nil {
		rng = rand.New(rand.NewSource(nn.DefaultSeed))
	}

	return &randomSearch{
		f:          f,
		rng:        rng,
		Common:     defaultCommon(),
		StepLength: hyperparams.Constant(0.1),
		Reduction:  0.9,
	}
}

func (r *randomSearch) TypeString() string {
	return "random-search"
}

// SetFirstStep sets the StepLength.
func (r *randomSearch) SetFirstStep(hp nn.HyperParameter) {
	r.StepLength = hp
}

// direction returns a random unit vector. Normal components make every direction equally
// likely.
func (r *randomSearch) direction(n int) []float64 {
	d := make([]float64, n)
	for {
		for i := range d {
			d[i] = r.rng.NormFloat64()
		}

		if norm := floats.Norm(d, 2); norm > 0 {
			floats.Scale(1/norm, d)
			return d
		}
	}
}

func (r *randomSearch) step(iter int, s *state) (*update, error) {
	u := &update{params: s.params}
	if len(s.params) == 0 {
		return u, nil
	}

	d := r.direction(len(s.params))
	t := r.StepLength.Value(iter) * r.reduced

	p := append([]float64(nil), s.params...)
	floats.AddScaled(p, t, d)

	v, err := r.f.EvaluateAt(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to evaluate trial\n")
	}

	u.direction = d
	if v < s.performance {
		u.params, u.step = p, t
	} else {
		r.reduced *= r.Reduction
	}

	return u, nil
}

func (r *randomSearch) Train() (*nn.Results, error) {
	if r.StepLength == nil {
		return nil, nn.ConfigErrorf("Can't train with %s, no step length", r.TypeString())
	} else if !(r.Reduction > 0 && r.Reduction <= 1) {
		return nil, nn.ConfigErrorf("Can't train with %s, reduction must be within (0, 1] (%v)", r.TypeString(), r.Reduction)
	}

	r.reduced = 1
	tr := &run{name: r.TypeString(), f: r.f, c: &r.Common, gradient: false, step: r.step}
	return tr.train()
}
