package penalties

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

var tolerance = cmpopts.EquateApprox(0, 1e-3)

func randomNetwork(t *testing.T, arch []int, seed int64) *nn.Network {
	net, err := nn.NewNetwork(arch, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	net.RandomizeParameters(-1, 1)
	return net
}

func checkGradient(t *testing.T, net *nn.Network, term nn.PerformanceTerm) {
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
		t.Errorf("%s: gradient does not match numerical gradient: %s", term.TypeString(), cmp.Diff(num, grad, tolerance))
	}
}

func TestNorms(t *testing.T) {
	for _, arch := range [][]int{{1, 1}, {1, 1, 1}, {3, 4, 2}} {
		net := randomNetwork(t, arch, 1)
		net.SetIndependentParameterCount(2).SetValues([]float64{3, -4})

		p := net.Parameters()
		θ := p[:net.NeuralParameterCount()]

		cases := []struct {
			term nn.PerformanceTerm
			want float64
		}{
			{NeuralParametersNorm(net, 0.1), 0.1 * floats.Dot(θ, θ)},
			{L1(net, 0.2), 0.2 * floats.Norm(θ, 1)},
			{ElasticNet(net, 0.25, 0.5), 0.5 * (0.75*floats.Dot(θ, θ) + 0.25*floats.Norm(θ, 1))},
		}

		for _, c := range cases {
			v, err := c.term.Evaluate()
			require.NoError(t, err)
			assert.InDelta(t, c.want, v, 1e-12, "%s over %v", c.term.TypeString(), arch)

			checkGradient(t, net, c.term)

			g, err := c.term.Gradient()
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 0}, g[net.NeuralParameterCount():], "independent parameters are not penalized")
		}
	}
}

func TestNeuralParametersNormLeastSquares(t *testing.T) {
	net := randomNetwork(t, []int{3, 4, 2}, 2)
	term := NeuralParametersNorm(net, 0.3)

	terms, err := term.Terms()
	require.NoError(t, err)
	v, err := term.Evaluate()
	require.NoError(t, err)
	assert.InDelta(t, v, floats.Dot(terms, terms), 1e-12)

	jac, err := term.TermsJacobian()
	require.NoError(t, err)
	grad, err := term.Gradient()
	require.NoError(t, err)

	var jtv mat.VecDense
	jtv.MulVec(jac.T(), mat.NewVecDense(len(terms), terms))
	jtv.ScaleVec(2, &jtv)
	assert.True(t, cmp.Equal(grad, jtv.RawVector().Data, tolerance))

	hess, err := term.Hessian()
	require.NoError(t, err)
	n := net.ParameterCount()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 0.6
			}
			assert.InDelta(t, want, hess.At(i, j), 1e-12)
		}
	}
}

func TestNormChecks(t *testing.T) {
	net := randomNetwork(t, []int{1, 1}, 3)

	assert.True(t, nn.IsConfigError(ElasticNet(net, 2, 0.1).Check()))
	assert.True(t, nn.IsConfigError(L1(net, -1).Check()))
	assert.True(t, nn.IsConfigError(L1(nil, 1).Check()))

	_, err := L1(net, 1).EvaluateAt([]float64{1})
	assert.True(t, nn.IsConfigError(err))
}

// identity returns a (1,1) network with output x
func identity(t *testing.T) *nn.Network {
	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 1}))
	return net
}

func TestOutputIntegralsValues(t *testing.T) {
	cases := []struct {
		name string
		term *outputIntegrals
		want float64
	}{
		{"x", OutputIntegrals(identity(t)), 0.5},
		{"x²", OutputIntegrals(identity(t)).Integrand(SquaredOutput), 1.0 / 3},
		{"x² on [-1, 2]", OutputIntegrals(identity(t)).Integrand(SquaredOutput).Domain(-1, 2).Points(31), 3},
		{"2x trapezoid", OutputIntegrals(identity(t)).Rule(Trapezoid).Weight(2).Points(2), 1},
	}

	for _, c := range cases {
		v, err := c.term.Evaluate()
		if err != nil {
			t.Fatalf("%s: %+v", c.name, err)
		}
		assert.InDelta(t, c.want, v, 1e-12, c.name)
	}
}

func TestOutputIntegralsGradient(t *testing.T) {
	for _, g := range []Integrand{Output, SquaredOutput} {
		for _, r := range []Rule{Simpson, Trapezoid} {
			net := randomNetwork(t, []int{1, 3, 1}, 4)
			checkGradient(t, net, OutputIntegrals(net).Integrand(g).Rule(r).Points(21).Domain(-1, 1))
		}
	}
}

func TestOutputIntegralsChecks(t *testing.T) {
	net := randomNetwork(t, []int{2, 1}, 5)
	assert.True(t, nn.IsConfigError(OutputIntegrals(net).Check()))

	net = randomNetwork(t, []int{1, 1}, 5)
	assert.True(t, nn.IsConfigError(OutputIntegrals(net).Points(2).Check()))
	assert.NoError(t, OutputIntegrals(net).Points(2).Rule(Trapezoid).Check())
	assert.True(t, nn.IsConfigError(OutputIntegrals(net).Domain(1, 1).Check()))
}
