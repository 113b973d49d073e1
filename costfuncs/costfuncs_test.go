package costfuncs

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

var architectures = [][]int{
	{1, 1},
	{1, 1, 1},
	{3, 4, 2},
}

var tolerance = cmpopts.EquateApprox(0, 1e-3)

// randomData returns n instances with inputs and targets uniform on [-1, 1), or with one-hot
// targets if oneHot is set
func randomData(t *testing.T, rng *rand.Rand, in, out, n int, oneHot bool) *nn.MemoryDataset {
	set := make([][][]float64, n)
	for i := range set {
		set[i] = [][]float64{make([]float64, in), make([]float64, out)}
		for j := range set[i][0] {
			set[i][0][j] = 2*rng.Float64() - 1
		}

		if oneHot {
			set[i][1][rng.Intn(out)] = 1
			continue
		}
		for j := range set[i][1] {
			set[i][1][j] = 2*rng.Float64() - 1
		}
	}

	d, err := nn.NewDataset(set, nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	return d
}

func randomNetwork(t *testing.T, rng *rand.Rand, arch []int) *nn.Network {
	net, err := nn.NewNetwork(arch, rng)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	net.RandomizeParameters(-1, 1)
	return net
}

type termCase struct {
	name      string
	make      func(*nn.Network, nn.Dataset) nn.PerformanceTerm
	softmax   bool
	instances int // minimum number of instances
}

var termCases = []termCase{
	{"sse", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return SumSquaredError(n, d) }, false, 1},
	{"mse", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return MeanSquaredError(n, d) }, false, 1},
	{"nse", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return NormalizedSquaredError(n, d) }, false, 2},
	{"rmse", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return RootMeanSquaredError(n, d) }, false, 1},
	{"minkowski", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return MinkowskiError(n, d) }, false, 1},
	{"minkowski-3", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return MinkowskiError(n, d).Exponent(3) }, false, 1},
	{"huber", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return HuberError(n, d, 0.5) }, false, 1},
	{"cross-entropy", func(n *nn.Network, d nn.Dataset) nn.PerformanceTerm { return CrossEntropyError(n, d) }, true, 1},
}

// forEachCase runs f for every term over every architecture and from 1 to 5 instances
func forEachCase(t *testing.T, f func(t *testing.T, net *nn.Network, term nn.PerformanceTerm)) {
	rng := rand.New(rand.NewSource(2))
	for _, c := range termCases {
		for _, arch := range architectures {
			for n := c.instances; n <= 5; n++ {
				net := randomNetwork(t, rng, arch)
				if c.softmax {
					require.NoError(t, net.SetProbabilistic(nn.NewProbabilisticLayer(nn.Softmax, net.OutputCount())))
				}

				data := randomData(t, rng, arch[0], arch[len(arch)-1], n, c.softmax)
				t.Run(fmt.Sprintf("%s/%v/%d", c.name, arch, n), func(t *testing.T) {
					f(t, net, c.make(net, data))
				})
			}
		}
	}
}

func TestGradientMatchesNumerical(t *testing.T) {
	forEachCase(t, func(t *testing.T, net *nn.Network, term nn.PerformanceTerm) {
		grad, err := term.Gradient()
		if err != nil {
			t.Fatalf("%+v", err)
		}

		num, err := nn.NumericalGradient(net, func(c *nn.Network) (float64, error) {
			return term.EvaluateAt(c.Parameters())
		})
		if err != nil {
			t.Fatalf("%+v", err)
		}

		if !cmp.Equal(num, grad, tolerance) {
			t.Errorf("gradient does not match numerical gradient: %s", cmp.Diff(num, grad, tolerance))
		}
	})
}

func TestEvaluateAtDoesNotChangeNetwork(t *testing.T) {
	forEachCase(t, func(t *testing.T, net *nn.Network, term nn.PerformanceTerm) {
		before := net.Parameters()
		v, err := term.Evaluate()
		require.NoError(t, err)

		p := append([]float64(nil), before...)
		floats.Scale(2, p)
		_, err = term.EvaluateAt(p)
		require.NoError(t, err)

		assert.Equal(t, before, net.Parameters())

		w, err := term.EvaluateAt(before)
		require.NoError(t, err)
		assert.Equal(t, v, w)
	})
}

func TestLeastSquares(t *testing.T) {
	forEachCase(t, func(t *testing.T, net *nn.Network, term nn.PerformanceTerm) {
		ls, ok := term.(nn.LeastSquaresTerm)
		if !ok {
			t.Skipf("%s is not least squares", term.TypeString())
		}

		terms, err := ls.Terms()
		require.NoError(t, err)
		jac, err := ls.TermsJacobian()
		require.NoError(t, err)
		grad, err := ls.Gradient()
		require.NoError(t, err)
		v, err := ls.Evaluate()
		require.NoError(t, err)

		assert.InDelta(t, v, floats.Dot(terms, terms), 1e-9)

		var jtv mat.VecDense
		jtv.MulVec(jac.T(), mat.NewVecDense(len(terms), terms))
		jtv.ScaleVec(2, &jtv)
		if got := jtv.RawVector().Data; !cmp.Equal(grad, got, tolerance) {
			t.Errorf("2Jᵀv does not match gradient: %s", cmp.Diff(grad, got, tolerance))
		}
	})
}

func TestHessianMatchesNumerical(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	net := randomNetwork(t, rng, []int{1, 2, 1})
	data := randomData(t, rng, 1, 1, 3, false)
	term := SumSquaredError(net, data)

	hess, err := term.Hessian()
	if err != nil {
		t.Fatalf("%+v", err)
	}

	p := net.Parameters()
	for i := range p {
		// differences of the gradient along each parameter
		h := 1e-6
		up := append([]float64(nil), p...)
		up[i] += h
		dn := append([]float64(nil), p...)
		dn[i] -= h

		gu, err := term.gradient(mustWith(t, net, up))
		require.NoError(t, err)
		gd, err := term.gradient(mustWith(t, net, dn))
		require.NoError(t, err)

		for j := range p {
			assert.InDelta(t, (gu[j]-gd[j])/(2*h), hess.At(i, j), 1e-3, "hessian at (%d, %d)", i, j)
		}
	}
}

func mustWith(t *testing.T, net *nn.Network, p []float64) *nn.Network {
	c, err := net.WithParameters(p)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	return c
}

func TestZeroResidual(t *testing.T) {
	net, err := nn.NewNetwork([]int{2, 3, 1}, nil)
	require.NoError(t, err)
	net.InitializeParameters(0)

	zeros := [][][]float64{
		{{0, 0}, {0}},
		{{0, 0}, {0}},
		{{0, 0}, {0}},
	}
	data, err := nn.NewDataset(zeros, nil)
	require.NoError(t, err)

	for _, term := range []nn.PerformanceTerm{SumSquaredError(net, data), MeanSquaredError(net, data)} {
		v, err := term.Evaluate()
		require.NoError(t, err)
		assert.Equal(t, 0.0, v, term.TypeString())

		w, err := term.EvaluateAt(net.Parameters())
		require.NoError(t, err)
		assert.Equal(t, v, w, term.TypeString())
	}
}

func TestScaleChangesPerformance(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	net := randomNetwork(t, rng, []int{3, 4, 2})
	data := randomData(t, rng, 3, 2, 4, false)

	for _, term := range []nn.PerformanceTerm{SumSquaredError(net, data), MinkowskiError(net, data)} {
		v, err := term.Evaluate()
		require.NoError(t, err)

		p := net.Parameters()
		floats.Scale(2, p)
		w, err := term.EvaluateAt(p)
		require.NoError(t, err)

		assert.NotEqual(t, v, w, term.TypeString())
	}
}

func TestNormalizedSquaredErrorPerfectFit(t *testing.T) {
	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 1})) // bias, weight

	data, err := nn.NewDataset([][][]float64{
		{{-1}, {-1}},
		{{1}, {1}},
	}, nil)
	require.NoError(t, err)

	v, err := NormalizedSquaredError(net, data).Evaluate()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, 0.0, v)
}

func TestNormalizedSquaredErrorEqualTargets(t *testing.T) {
	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)

	data, err := nn.NewDataset([][][]float64{
		{{-1}, {3}},
		{{1}, {3}},
	}, nil)
	require.NoError(t, err)

	_, err = NormalizedSquaredError(net, data).Evaluate()
	assert.True(t, nn.IsNumericError(err), "%+v", err)

	_, err = NormalizedSquaredError(net, data).Gradient()
	assert.True(t, nn.IsNumericError(err), "%+v", err)
}

func TestCrossEntropyChecks(t *testing.T) {
	net, err := nn.NewNetwork([]int{2, 3}, nil)
	require.NoError(t, err)

	data, err := nn.NewDataset([][][]float64{{{1, 2}, {0, 1, 0}}}, nil)
	require.NoError(t, err)

	term := CrossEntropyError(net, data)
	err = term.Check()
	assert.True(t, nn.IsConfigError(err), "without a probabilistic layer: %+v", err)

	require.NoError(t, net.SetProbabilistic(nn.NewProbabilisticLayer(nn.NoProbabilistic, 3)))
	err = term.Check()
	assert.True(t, nn.IsConfigError(err), "without softmax: %+v", err)

	require.NoError(t, net.SetProbabilistic(nn.NewProbabilisticLayer(nn.Softmax, 3)))
	assert.NoError(t, term.Check())

	_, err = term.Evaluate()
	assert.NoError(t, err)

	require.NoError(t, net.Enable(nn.KindProbabilistic, false))
	_, err = term.Evaluate()
	assert.True(t, nn.IsConfigError(err), "with softmax disabled: %+v", err)
	require.NoError(t, net.Enable(nn.KindProbabilistic, true))

	bad, err := nn.NewDataset([][][]float64{{{1, 2}, {0, 2, 0}}}, nil)
	require.NoError(t, err)
	_, err = CrossEntropyError(net, bad).Evaluate()
	assert.True(t, nn.IsNumericError(err), "with a target outside of [0, 1]: %+v", err)

	wide, err := nn.NewDataset([][][]float64{{{1, 2}, {0, 1}}}, nil)
	require.NoError(t, err)
	err = CrossEntropyError(net, wide).Check()
	assert.True(t, nn.IsConfigError(err), "with mismatched widths: %+v", err)
}

func TestGeneralization(t *testing.T) {
	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 1}))

	train := [][][]float64{{{1}, {1}}}
	data, err := nn.NewDataset(train, nil)
	require.NoError(t, err)

	_, err = SumSquaredError(net, data).Generalization()
	assert.Equal(t, nn.ErrNoValidation, errors.Cause(err))

	data, err = nn.NewDataset(train, [][][]float64{{{2}, {0}}, {{1}, {0}}})
	require.NoError(t, err)

	cases := []struct {
		term nn.Generalizer
		want float64
	}{
		{SumSquaredError(net, data), 5},
		{MeanSquaredError(net, data), 2.5},
		{RootMeanSquaredError(net, data), 1.5811388300841898},
		{MinkowskiError(net, data).Exponent(1), 3},
	}

	for _, c := range cases {
		v, err := c.term.Generalization()
		require.NoError(t, err)
		assert.InDelta(t, c.want, v, 1e-12)
	}
}

func TestRegistered(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	net := randomNetwork(t, rng, []int{1, 1})
	data := randomData(t, rng, 1, 1, 3, false)

	for _, name := range []string{"sum-squared-error", "mean-squared-error", "normalized-squared-error", "minkowski-error"} {
		term, err := nn.NewTerm(name, nn.TermConfig{Network: net, Dataset: data})
		if err != nil {
			t.Fatalf("%+v", err)
		}
		assert.Equal(t, name, term.TypeString())
	}

	_, err := nn.NewTerm("cross-entropy-error", nn.TermConfig{Network: net, Dataset: data})
	assert.True(t, nn.IsConfigError(err), "%+v", err)
}
