// Package training provides the algorithms that minimize a neuralnet.PerformanceFunctional:
// gradient descent, quasi-Newton, random search and Levenberg-Marquardt. They all implement
// neuralnet.TrainingAlgorithm and share the stopping criteria, history and display settings in
// Common.
//
// Every algorithm changes the parameters of the Network of its functional. If training fails,
// the parameters are restored to what they were when Train was called.
package training

import (
	"log"
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// StoppingCriteria decide when a training run ends. The criteria are independent of each other,
// and are checked in the order of their fields. Each of the first five is disabled by its zero
// value (negative infinity for PerformanceGoal); MaximumIterations and MaximumTime are always in
// effect.
type StoppingCriteria struct {
	// PerformanceGoal stops training once the performance is at or below it
	PerformanceGoal float64

	// MinimumParametersIncrementNorm stops training once a step changes the parameters by less
	// than it
	MinimumParametersIncrementNorm float64

	// MinimumPerformanceIncrease stops training once a step improves the performance by less
	// than it
	MinimumPerformanceIncrease float64

	// GradientNormGoal stops training once the norm of the gradient is at or below it. It is
	// ignored by algorithms that do not use the gradient.
	GradientNormGoal float64

	// MaximumGeneralizationFailures stops training once the generalization performance has
	// increased this many times. It is ignored if there is no validation partition.
	MaximumGeneralizationFailures int

	MaximumIterations int
	MaximumTime       time.Duration
}

// DefaultStoppingCriteria returns the criteria of new algorithms: at most 1000 iterations and an
// hour of training, and nothing else.
func DefaultStoppingCriteria() StoppingCriteria {
	return StoppingCriteria{
		PerformanceGoal:   math.Inf(-1),
		MaximumIterations: 1000,
		MaximumTime:       time.Hour,
	}
}

// DefaultDisplayPeriod is the number of iterations between lines of output, if there is a
// Display.
const DefaultDisplayPeriod int = 10

// Common holds the settings shared by every training algorithm.
type Common struct {
	Criteria StoppingCriteria

	// History selects which values are recorded in the Results at every iteration
	History nn.HistoryFlags

	// Display, if not nil, is given a line of progress every DisplayPeriod iterations, and at
	// the end of training
	Display       *log.Logger
	DisplayPeriod int

	// RestoreBestGeneralization sets the parameters with the lowest generalization performance
	// seen during training once MaximumGeneralizationFailures is reached
	RestoreBestGeneralization bool
}

func defaultCommon() Common {
	return Common{
		Criteria:      DefaultStoppingCriteria(),
		DisplayPeriod: DefaultDisplayPeriod,
	}
}

// Settings returns the Common settings themselves, NOT a copy. It is promoted to every
// algorithm in the package, so that algorithms made through neuralnet.NewAlgorithm can be
// configured through
//	alg.(interface{ Settings() *training.Common })
func (c *Common) Settings() *Common {
	return c
}

// state is the point that an iteration starts from
type state struct {
	params      []float64
	performance float64

	// gradient is nil for algorithms that do not use it
	gradient     []float64
	gradientNorm float64
}

// update is the result of a single step of an algorithm. If the step failed to improve on
// the state, params may be the same as before, with a step length of 0.
type update struct {
	params    []float64
	direction []float64
	step      float64
}

// stepFunc takes one step from s, at the given iteration
type stepFunc func(iter int, s *state) (*update, error)

// run is the training loop used by every algorithm
type run struct {
	name     string
	f        *nn.PerformanceFunctional
	c        *Common
	gradient bool
	step     stepFunc
}

func (r *run) evaluate(s *state) error {
	var err error
	if s.performance, err = r.f.Evaluate(); err != nil {
		return errors.Wrapf(err, "Failed to evaluate performance\n")
	}

	s.gradientNorm = math.NaN()
	if r.gradient {
		if s.gradient, err = r.f.Gradient(); err != nil {
			return errors.Wrapf(err, "Failed to compute gradient\n")
		}
		s.gradientNorm = floats.Norm(s.gradient, 2)
	}

	return nil
}

// generalization returns the generalization performance, or NaN and false if there is no
// validation partition
func (r *run) generalization() (float64, bool, error) {
	g, err := r.f.Generalization()
	if errors.Cause(err) == nn.ErrNoValidation {
		return math.NaN(), false, nil
	} else if err != nil {
		return 0, false, errors.Wrapf(err, "Failed to compute generalization performance\n")
	}

	return g, true, nil
}

func (r *run) display(iter int, s *state, gen float64, final bool) {
	if r.c.Display == nil {
		return
	}

	period := r.c.DisplayPeriod
	if period < 1 {
		period = DefaultDisplayPeriod
	}

	if final || iter%period == 0 {
		r.c.Display.Printf("%s iteration %d: performance %v, gradient norm %v, generalization %v\n",
			r.name, iter, s.performance, s.gradientNorm, gen)
	}
}

// stop returns the first criterion met at the given iteration. increment and decrease are
// the change in parameters and performance of the last step, if one was taken.
func (r *run) stop(iter int, s *state, increment, decrease float64, failures int, elapsed time.Duration) nn.StoppingCondition {
	cr := r.c.Criteria
	stepped := iter > 0

	switch {
	case s.performance <= cr.PerformanceGoal:
		return nn.PerformanceGoalReached
	case stepped && cr.MinimumParametersIncrementNorm > 0 && increment < cr.MinimumParametersIncrementNorm:
		return nn.MinimumParametersIncrementNormReached
	case stepped && cr.MinimumPerformanceIncrease > 0 && decrease < cr.MinimumPerformanceIncrease:
		return nn.MinimumPerformanceIncreaseReached
	case r.gradient && cr.GradientNormGoal > 0 && s.gradientNorm <= cr.GradientNormGoal:
		return nn.GradientNormGoalReached
	case cr.MaximumGeneralizationFailures > 0 && failures >= cr.MaximumGeneralizationFailures:
		return nn.GeneralizationFailuresReached
	case iter >= cr.MaximumIterations:
		return nn.MaximumIterationsReached
	case elapsed >= cr.MaximumTime:
		return nn.MaximumTimeReached
	}

	return nn.NotStopped
}

func (r *run) record(res *nn.Results, s *state, gen float64, elapsed time.Duration) {
	h := r.c.History
	if h.Has(nn.ParametersHistory) {
		res.Parameters = append(res.Parameters, append([]float64(nil), s.params...))
	}
	if h.Has(nn.ParametersNormHistory) {
		res.ParametersNorm = append(res.ParametersNorm, floats.Norm(s.params, 2))
	}
	if h.Has(nn.PerformanceHistory) {
		res.Performance = append(res.Performance, s.performance)
	}
	if h.Has(nn.GradientHistory) && s.gradient != nil {
		res.Gradient = append(res.Gradient, append([]float64(nil), s.gradient...))
	}
	if h.Has(nn.GradientNormHistory) {
		res.GradientNorm = append(res.GradientNorm, s.gradientNorm)
	}
	if h.Has(nn.GeneralizationHistory) {
		res.Generalization = append(res.Generalization, gen)
	}
	if h.Has(nn.ElapsedTimeHistory) {
		res.ElapsedTime = append(res.ElapsedTime, elapsed)
	}
}

func (r *run) train() (*nn.Results, error) {
	start := time.Now()

	if r.f == nil {
		return nil, nn.ConfigErrorf("Can't train with %s, performance functional is nil", r.name)
	} else if err := r.f.Check(); err != nil {
		return nil, errors.Wrapf(err, "Can't train with %s\n", r.name)
	}

	net := r.f.Network()
	initial := net.Parameters()

	res, err := r.loop(net, start)
	if err != nil {
		if e := net.SetParameters(initial); e != nil {
			panic(e.Error())
		}

		return nil, errors.Wrapf(err, "Training with %s failed\n", r.name)
	}

	return res, nil
}

func (r *run) loop(net *nn.Network, start time.Time) (*nn.Results, error) {
	cr := r.c.Criteria
	res := nn.NewResults(r.name, r.c.History, cr.MaximumIterations)

	s := &state{params: net.Parameters()}
	if err := r.evaluate(s); err != nil {
		return nil, err
	}

	gen, validation, err := r.generalization()
	if err != nil {
		return nil, err
	}

	best, bestParams := gen, s.params
	failures := 0

	var increment, decrease float64

	for iter := 0; ; iter++ {
		elapsed := time.Since(start)
		r.record(res, s, gen, elapsed)

		if cond := r.stop(iter, s, increment, decrease, failures, elapsed); cond != nn.NotStopped {
			res.Condition = cond
			res.Iterations = iter
			r.display(iter, s, gen, true)
			break
		}
		r.display(iter, s, gen, false)

		u, err := r.step(iter, s)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to take step %d\n", iter)
		}

		if r.c.History.Has(nn.DirectionHistory) {
			res.Direction = append(res.Direction, append([]float64(nil), u.direction...))
		}
		if r.c.History.Has(nn.StepLengthHistory) {
			res.StepLength = append(res.StepLength, u.step)
		}

		if err := net.SetParameters(u.params); err != nil {
			return nil, errors.Wrapf(err, "Failed to set parameters after step %d\n", iter)
		}

		prev := s
		s = &state{params: net.Parameters()}
		if err := r.evaluate(s); err != nil {
			return nil, err
		}
		increment = floats.Distance(s.params, prev.params, 2)
		decrease = prev.performance - s.performance

		if validation {
			g, _, err := r.generalization()
			if err != nil {
				return nil, err
			}

			if g > gen {
				failures++
			}
			if g < best {
				best, bestParams = g, s.params
			}
			gen = g
		}
	}

	if res.Condition == nn.GeneralizationFailuresReached && r.c.RestoreBestGeneralization && validation {
		if err := net.SetParameters(bestParams); err != nil {
			return nil, errors.Wrapf(err, "Failed to restore best generalization parameters\n")
		}

		s = &state{params: bestParams}
		if err := r.evaluate(s); err != nil {
			return nil, err
		}
		gen = best
	}

	res.Elapsed = time.Since(start)
	res.FinalParameters = append([]float64(nil), s.params...)
	res.FinalParametersNorm = floats.Norm(s.params, 2)
	res.FinalPerformance = s.performance
	res.FinalGradientNorm = s.gradientNorm
	res.FinalGeneralization = gen

	return res, nil
}

// checkDifferentiable returns nn.ErrNotDifferentiable if the Network of f has a
// non-differentiable activation
func checkDifferentiable(f *nn.PerformanceFunctional, name string) error {
	if f != nil && f.Network() != nil && !f.Network().Differentiable() {
		return errors.Wrapf(nn.ErrNotDifferentiable, "Can't train with %s\n", name)
	}

	return nil
}
