package training

import (
	"math"

	"github.com/pkg/errors"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/hyperparams"
)

// LineSearchMethod is the way a LineSearch picks its step.
type LineSearchMethod int8

const (
	// Backtracking shrinks the first step until it satisfies the Armijo condition
	Backtracking LineSearchMethod = iota
	// GoldenSection brackets a minimum from the first step and narrows it down by golden
	// section search
	GoldenSection
)

func (m LineSearchMethod) String() string {
	switch m {
	case Backtracking:
		return "backtracking"
	case GoldenSection:
		return "golden-section"
	}

	return "unknown"
}

// golden is 1/φ
var golden = (math.Sqrt(5) - 1) / 2

// LineSearch finds the step length along a direction used by gradient descent and
// quasi-Newton.
type LineSearch struct {
	Method LineSearchMethod

	// FirstStep gives the first step tried at each iteration
	FirstStep nn.HyperParameter

	// MaximumTrials bounds the number of evaluations of the performance per search
	MaximumTrials int

	// Contraction is the factor that steps are shrunk by, within (0, 1)
	Contraction float64

	// Sufficient is the fraction of the decrease predicted by the slope required of a
	// backtracking step
	Sufficient float64

	// Tolerance is the width of the interval at which golden section search stops
	Tolerance float64
}

// DefaultLineSearch returns backtracking from a first step of 1, halving the step at most 50
// times.
func DefaultLineSearch() LineSearch {
	return LineSearch{
		Method:        Backtracking,
		FirstStep:     hyperparams.Constant(1),
		MaximumTrials: 50,
		Contraction:   0.5,
		Sufficient:    1e-4,
		Tolerance:     1e-6,
	}
}

func (ls *LineSearch) check() error {
	if ls.FirstStep == nil {
		return nn.ConfigErrorf("Line search has no first step")
	} else if ls.MaximumTrials < 1 {
		return nn.ConfigErrorf("Line search needs at least 1 trial (%d)", ls.MaximumTrials)
	} else if !(ls.Contraction > 0 && ls.Contraction < 1) {
		return nn.ConfigErrorf("Line search contraction must be within (0, 1) (%v)", ls.Contraction)
	} else if !(ls.Sufficient >= 0 && ls.Sufficient < 1) {
		return nn.ConfigErrorf("Line search sufficient decrease must be within [0, 1) (%v)", ls.Sufficient)
	} else if ls.Method != Backtracking && ls.Method != GoldenSection {
		return errors.Wrapf(nn.ErrUnknownType, "Can't search with method %d\n", ls.Method)
	} else if ls.Method == GoldenSection && !(ls.Tolerance > 0) {
		return nn.ConfigErrorf("Golden section tolerance must be > 0 (%v)", ls.Tolerance)
	}

	return nil
}

// search returns the step along direction from the current parameters of f, and the
// performance there. perf is the current performance and slope the derivative along direction,
// which should be negative. If no step decreases the performance, search returns 0 and perf.
func (ls *LineSearch) search(f *nn.PerformanceFunctional, iter int, direction []float64, perf, slope float64) (float64, float64, error) {
	first := ls.FirstStep.Value(iter)
	if !(first > 0) {
		return 0, 0, nn.ConfigErrorf("First step of line search must be > 0 (%v at iteration %d)", first, iter)
	}

	along := func(t float64) (float64, error) {
		v, err := f.EvaluateAlong(direction, t)
		if err != nil {
			return 0, errors.Wrapf(err, "Line search failed to evaluate step %v\n", t)
		}
		return v, nil
	}

	if ls.Method == GoldenSection {
		return ls.golden(along, first, perf)
	}

	t := first
	for trial := 0; trial < ls.MaximumTrials; trial++ {
		v, err := along(t)
		if err != nil {
			return 0, 0, err
		}

		if v < perf && v <= perf+ls.Sufficient*t*slope {
			return t, v, nil
		}
		t *= ls.Contraction
	}

	return 0, perf, nil
}

func (ls *LineSearch) golden(along func(float64) (float64, error), first, perf float64) (float64, float64, error) {
	trials := 0
	bestT, bestV := 0.0, perf
	eval := func(t float64) (float64, error) {
		trials++
		v, err := along(t)
		if err == nil && v < bestV {
			bestT, bestV = t, v
		}
		return v, err
	}

	// bracket a minimum within [a, c], with a lower value at b
	a, b := 0.0, first
	vb, err := eval(b)
	if err != nil {
		return 0, 0, err
	}

	c := b
	if !(vb < perf) {
		for !(vb < perf) {
			if trials >= ls.MaximumTrials {
				return 0, perf, nil
			}

			c, b = b, b*ls.Contraction
			if vb, err = eval(b); err != nil {
				return 0, 0, err
			}
		}
	} else {
		c = b / golden
		vc, err := eval(c)
		if err != nil {
			return 0, 0, err
		}

		for vc < vb {
			if trials >= ls.MaximumTrials {
				return bestT, bestV, nil
			}

			a, b, vb = b, c, vc
			c = b + (b-a)/golden
			if vc, err = eval(c); err != nil {
				return 0, 0, err
			}
		}
	}

	x1, x2 := c-golden*(c-a), a+golden*(c-a)
	v1, err := eval(x1)
	if err != nil {
		return 0, 0, err
	}
	v2, err := eval(x2)
	if err != nil {
		return 0, 0, err
	}

	for c-a > ls.Tolerance && trials < ls.MaximumTrials {
		if v1 < v2 {
			c, x2, v2 = x2, x1, v1
			x1 = c - golden*(c-a)
			if v1, err = eval(x1); err != nil {
				return 0, 0, err
			}
		} else {
			a, x1, v1 = x1, x2, v2
			x2 = a + golden*(c-a)
			if v2, err = eval(x2); err != nil {
				return 0, 0, err
			}
		}
	}

	return bestT, bestV, nil
}
