package training

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/costfuncs"
)

// line returns a (1,1) network at the origin, and a functional whose minimum of 0 is at bias 1
// and weight 2
func line(t *testing.T) (*nn.Network, *nn.PerformanceFunctional) {
	data, err := nn.NewDataset([][][]float64{
		{{0}, {1}},
		{{1}, {3}},
	}, nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 0}))

	return net, nn.NewPerformanceFunctional(net).SetObjective(costfuncs.SumSquaredError(net, data))
}

func TestGradientDescentDecreases(t *testing.T) {
	net, f := line(t)
	before, err := f.Evaluate()
	require.NoError(t, err)

	gd := GradientDescent(f)
	gd.Criteria.MaximumIterations = 1
	res, err := gd.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, nn.MaximumIterationsReached, res.Condition)
	assert.Equal(t, nn.MaxIterations, res.State())
	assert.Less(t, res.FinalPerformance, before)
	assert.Equal(t, net.Parameters(), res.FinalParameters)
}

func TestGradientNormGoal(t *testing.T) {
	for _, m := range []LineSearchMethod{Backtracking, GoldenSection} {
		_, f := line(t)
		gd := GradientDescent(f)
		gd.LineSearch.Method = m
		gd.Criteria.GradientNormGoal = 0.1

		res, err := gd.Train()
		if err != nil {
			t.Fatalf("%s: %+v", m, err)
		}

		assert.Equal(t, nn.GradientNormGoalReached, res.Condition, m.String())
		assert.Equal(t, nn.Converged, res.State())
		assert.LessOrEqual(t, res.FinalGradientNorm, 0.1, m.String())
	}
}

func TestCriteriaAreIndependent(t *testing.T) {
	cases := []struct {
		name       string
		set        func(*StoppingCriteria)
		condition  nn.StoppingCondition
		iterations int
	}{
		{"performance goal", func(c *StoppingCriteria) { c.PerformanceGoal = 1e3 }, nn.PerformanceGoalReached, 0},
		{"parameters increment", func(c *StoppingCriteria) { c.MinimumParametersIncrementNorm = 1e3 }, nn.MinimumParametersIncrementNormReached, 1},
		{"performance increase", func(c *StoppingCriteria) { c.MinimumPerformanceIncrease = 1e6 }, nn.MinimumPerformanceIncreaseReached, 1},
		{"gradient norm", func(c *StoppingCriteria) { c.GradientNormGoal = 1e6 }, nn.GradientNormGoalReached, 0},
		{"iterations", func(c *StoppingCriteria) { c.MaximumIterations = 3 }, nn.MaximumIterationsReached, 3},
		{"time", func(c *StoppingCriteria) { c.MaximumTime = 0 }, nn.MaximumTimeReached, 0},
	}

	for _, c := range cases {
		_, f := line(t)
		gd := GradientDescent(f)
		c.set(&gd.Criteria)

		res, err := gd.Train()
		if err != nil {
			t.Fatalf("%s: %+v", c.name, err)
		}

		assert.Equal(t, c.condition, res.Condition, c.name)
		assert.Equal(t, c.iterations, res.Iterations, c.name)
	}
}

func TestQuasiNewton(t *testing.T) {
	for _, m := range []InverseHessianMethod{BFGS, DFP} {
		_, f := line(t)
		qn := QuasiNewton(f)
		qn.Method = m
		qn.Criteria.PerformanceGoal = 1e-12

		res, err := qn.Train()
		if err != nil {
			t.Fatalf("%s: %+v", m, err)
		}

		assert.Equal(t, nn.PerformanceGoalReached, res.Condition, m.String())
		assert.True(t, cmp.Equal([]float64{1, 2}, res.FinalParameters, cmpopts.EquateApprox(0, 1e-4)), "%s: %v", m, res.FinalParameters)
	}
}

func TestQuasiNewtonNonlinear(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	set := make([][][]float64, 10)
	for i := range set {
		x := 2*rng.Float64() - 1
		set[i] = [][]float64{{x}, {math.Sin(2 * x)}}
	}
	data, err := nn.NewDataset(set, nil)
	require.NoError(t, err)

	net, err := nn.NewNetwork([]int{1, 3, 1}, rng)
	require.NoError(t, err)
	f := nn.NewPerformanceFunctional(net).SetObjective(costfuncs.MeanSquaredError(net, data))
	before, err := f.Evaluate()
	require.NoError(t, err)

	qn := QuasiNewton(f)
	qn.Criteria.MaximumIterations = 200
	qn.History = nn.PerformanceHistory

	res, err := qn.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert.Less(t, res.FinalPerformance, before/10)
	for i := 1; i < len(res.Performance); i++ {
		assert.LessOrEqual(t, res.Performance[i], res.Performance[i-1], "iteration %d", i)
	}
}

func TestLevenbergMarquardt(t *testing.T) {
	_, f := line(t)
	lm := LevenbergMarquardt(f)
	lm.Criteria.PerformanceGoal = 1e-12

	res, err := lm.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert.Equal(t, nn.PerformanceGoalReached, res.Condition)
	assert.Less(t, res.Iterations, 20)
	assert.True(t, cmp.Equal([]float64{1, 2}, res.FinalParameters, cmpopts.EquateApprox(0, 1e-4)), "%v", res.FinalParameters)
}

func TestLevenbergMarquardtNeedsLeastSquares(t *testing.T) {
	net, f := line(t)
	data, err := nn.NewDataset([][][]float64{{{0}, {1}}}, nil)
	require.NoError(t, err)
	f.SetObjective(costfuncs.MinkowskiError(net, data))

	_, err = LevenbergMarquardt(f).Train()
	assert.Equal(t, nn.ErrNotLeastSquares, errors.Cause(err))
	assert.Equal(t, []float64{0, 0}, net.Parameters())
}

func TestRandomSearch(t *testing.T) {
	_, f := line(t)
	before, err := f.Evaluate()
	require.NoError(t, err)

	rs := RandomSearch(f, rand.New(rand.NewSource(7)))
	rs.Criteria.MaximumIterations = 300
	rs.History = nn.PerformanceHistory | nn.StepLengthHistory

	res, err := rs.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert.Less(t, res.FinalPerformance, before)
	assert.True(t, math.IsNaN(res.FinalGradientNorm))
	for i := 1; i < len(res.Performance); i++ {
		assert.LessOrEqual(t, res.Performance[i], res.Performance[i-1], "iteration %d", i)
	}
}

func TestNotDifferentiable(t *testing.T) {
	net, f := line(t)
	require.NoError(t, net.SetActivation(0, nn.Threshold))

	for _, alg := range []nn.TrainingAlgorithm{GradientDescent(f), QuasiNewton(f), LevenbergMarquardt(f)} {
		_, err := alg.Train()
		assert.Equal(t, nn.ErrNotDifferentiable, errors.Cause(err), alg.TypeString())
	}

	rs := RandomSearch(f, nil)
	rs.Criteria.MaximumIterations = 5
	_, err := rs.Train()
	assert.NoError(t, err)
}

// failing is an objective that fails once it has been evaluated a number of times
type failing struct {
	nn.PerformanceTerm
	left int
}

func (f *failing) Evaluate() (float64, error) {
	if f.left--; f.left < 0 {
		return 0, nn.NumericErrorf("failing term")
	}

	return f.PerformanceTerm.Evaluate()
}

func TestRestoresParametersOnError(t *testing.T) {
	net, f := line(t)
	f.SetObjective(&failing{f.Objective(), 3})

	_, err := GradientDescent(f).Train()
	assert.True(t, nn.IsNumericError(err), "%+v", err)
	assert.Equal(t, []float64{0, 0}, net.Parameters())

	_, err = GradientDescent(nil).Train()
	assert.True(t, nn.IsConfigError(err))
}

func TestHistory(t *testing.T) {
	_, f := line(t)
	qn := QuasiNewton(f)
	qn.Criteria.MaximumIterations = 5
	qn.History = nn.AllHistory()

	res, err := qn.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	n := res.Iterations + 1
	assert.Len(t, res.Parameters, n)
	assert.Len(t, res.ParametersNorm, n)
	assert.Len(t, res.Performance, n)
	assert.Len(t, res.Gradient, n)
	assert.Len(t, res.GradientNorm, n)
	assert.Len(t, res.Generalization, n)
	assert.Len(t, res.ElapsedTime, n)
	assert.Len(t, res.Direction, res.Iterations)
	assert.Len(t, res.StepLength, res.Iterations)
	assert.Equal(t, 6, cap(res.Performance))

	assert.Equal(t, res.FinalPerformance, res.Performance[n-1])
	assert.True(t, math.IsNaN(res.FinalGeneralization))

	res, err = GradientDescent(f).Train()
	require.NoError(t, err)
	assert.Nil(t, res.Performance)
	assert.LessOrEqual(t, res.Elapsed, time.Hour)
}

func TestGeneralizationFailures(t *testing.T) {
	data, err := nn.NewDataset(
		[][][]float64{{{1}, {2}}, {{2}, {4}}},
		[][][]float64{{{1}, {-2}}, {{2}, {-4}}},
	)
	require.NoError(t, err)

	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 0}))
	f := nn.NewPerformanceFunctional(net).SetObjective(costfuncs.SumSquaredError(net, data))

	gd := GradientDescent(f)
	gd.Criteria.MaximumGeneralizationFailures = 3
	gd.RestoreBestGeneralization = true
	gd.History = nn.ParametersHistory | nn.GeneralizationHistory

	res, err := gd.Train()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert.Equal(t, nn.GeneralizationFailuresReached, res.Condition)
	assert.Equal(t, nn.Stopped, res.State())

	best := 0
	for i, g := range res.Generalization {
		if g < res.Generalization[best] {
			best = i
		}
	}
	assert.Equal(t, res.Generalization[best], res.FinalGeneralization)
	assert.Equal(t, res.Parameters[best], res.FinalParameters)
	assert.Equal(t, res.Parameters[best], net.Parameters())
}

func TestRegistered(t *testing.T) {
	_, f := line(t)
	for _, name := range []string{"gradient-descent", "quasi-newton", "random-search", "levenberg-marquardt"} {
		alg, err := nn.NewAlgorithm(name, f)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		assert.Equal(t, name, alg.TypeString())

		s, ok := alg.(interface{ Settings() *Common })
		require.True(t, ok, name)
		s.Settings().Criteria.MaximumIterations = 2
		res, err := alg.Train()
		require.NoError(t, err, name)
		assert.LessOrEqual(t, res.Iterations, 2, name)
	}

	assert.Subset(t, nn.AlgorithmTypes(), []string{"gradient-descent", "levenberg-marquardt"})
}

func TestSetFirstStep(t *testing.T) {
	_, f := line(t)
	first, err := nn.NewHyperParameter("decay")
	require.NoError(t, err)

	gd := GradientDescent(f)
	qn := QuasiNewton(f)
	rs := RandomSearch(f, nil)
	for _, alg := range []nn.TrainingAlgorithm{gd, qn, rs} {
		s, ok := alg.(interface{ SetFirstStep(nn.HyperParameter) })
		require.True(t, ok, alg.TypeString())
		s.SetFirstStep(first)
	}

	assert.Equal(t, first, gd.LineSearch.FirstStep)
	assert.Equal(t, first, qn.LineSearch.FirstStep)
	assert.Equal(t, first, rs.StepLength)

	_, ok := nn.TrainingAlgorithm(LevenbergMarquardt(f)).(interface{ SetFirstStep(nn.HyperParameter) })
	assert.False(t, ok)

	gd.Criteria.MaximumIterations = 3
	_, err = gd.Train()
	require.NoError(t, err)
}
