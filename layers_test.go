package neuralnet_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
	"github.com/JackieXie168/libNeuralNet-sub003/numdiff"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestActivations(t *testing.T) {
	for _, a := range []nn.Activation{nn.Linear, nn.Logistic, nn.HyperbolicTangent, nn.Threshold, nn.SymmetricThreshold} {
		p, err := nn.ParseActivation(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, p)

		if !a.Differentiable() {
			continue
		}

		for _, x := range []float64{-2, -0.3, 0, 0.7, 3} {
			d, err := numdiff.Derivative(func(x float64) (float64, error) { return a.Activate(x), nil }, x, nil)
			require.NoError(t, err)
			assert.InDelta(t, d, a.Derivative(x), 1e-7, "%s at %v", a, x)
		}
	}

	assert.Equal(t, 0.5, nn.Logistic.Activate(0))
	assert.Equal(t, 0.0, nn.Threshold.Activate(-1))
	assert.Equal(t, 1.0, nn.Threshold.Activate(0))
	assert.Equal(t, -1.0, nn.SymmetricThreshold.Activate(-0.1))

	_, err := nn.ParseActivation("relu")
	assert.Equal(t, nn.ErrUnknownType, errors.Cause(err))
}

func TestScaling(t *testing.T) {
	stats := []nn.Statistics{
		{Minimum: 0, Maximum: 4, Mean: 1, StandardDeviation: 2},
		{Minimum: 3, Maximum: 3, Mean: 3, StandardDeviation: 0},
	}

	cases := []struct {
		method nn.ScalingMethod
		x      []float64
		scaled []float64
	}{
		{nn.MinimumMaximum, []float64{0, 7}, []float64{-1, 7}},
		{nn.MinimumMaximum, []float64{4, 3}, []float64{1, 3}},
		{nn.MinimumMaximum, []float64{2, -1}, []float64{0, -1}},
		{nn.MeanStandardDeviation, []float64{1, 7}, []float64{0, 7}},
		{nn.MeanStandardDeviation, []float64{5, 0}, []float64{2, 0}},
		{nn.NoScaling, []float64{5, 0}, []float64{5, 0}},
	}

	for _, c := range cases {
		s := nn.NewScalingLayer(c.method, stats)
		scaled := s.Scale(c.x)
		if diff := cmp.Diff(c.scaled, scaled, approx); diff != "" {
			t.Errorf("%s: Scale(%v) mismatch (-want +got):\n%s", c.method, c.x, diff)
		}
		if diff := cmp.Diff(c.x, s.Unscale(scaled), approx); diff != "" {
			t.Errorf("%s: Unscale(Scale(%v)) mismatch (-want +got):\n%s", c.method, c.x, diff)
		}
	}

	s := nn.NewScalingLayer(nn.MinimumMaximum, stats)
	stats[0].Maximum = 100
	assert.Equal(t, 4.0, s.Statistics()[0].Maximum)
}

func TestProbabilistic(t *testing.T) {
	p := nn.NewProbabilisticLayer(nn.Softmax, 3)

	small := p.Outputs([]float64{0, 1, 2})
	large := p.Outputs([]float64{1000, 1001, 1002})

	var sum float64
	for i := range small {
		assert.False(t, math.IsNaN(large[i]))
		sum += small[i]
	}
	assert.InDelta(t, 1, sum, 1e-12)
	assert.True(t, small[0] < small[1] && small[1] < small[2])

	if diff := cmp.Diff(small, large, approx); diff != "" {
		t.Errorf("softmax is not shift invariant (-small +large):\n%s", diff)
	}

	none := nn.NewProbabilisticLayer(nn.NoProbabilistic, 2)
	assert.Equal(t, []float64{3, -1}, none.Outputs([]float64{3, -1}))
}

func TestBounding(t *testing.T) {
	_, err := nn.NewBoundingLayer([]float64{0}, []float64{1, 2})
	assert.True(t, nn.IsConfigError(err))
	_, err = nn.NewBoundingLayer([]float64{2}, []float64{1})
	assert.True(t, nn.IsConfigError(err))

	b, err := nn.NewBoundingLayer([]float64{-1, 0, -1, -1}, []float64{1, 0, 1, 1})
	require.NoError(t, err)

	x := []float64{-3, 5, 0.5, 1}
	assert.Equal(t, []float64{-1, 0, 0.5, 1}, b.Outputs(x))
	assert.Equal(t, []float64{0, 0, 1, 0}, b.Derivatives(x))
}

func TestBoundedGradientIsZero(t *testing.T) {
	net, err := nn.NewNetwork([]int{1, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, net.SetParameters([]float64{0, 1}))

	b, err := nn.NewBoundingLayer([]float64{10}, []float64{20})
	require.NoError(t, err)
	require.NoError(t, net.SetBounding(b))

	prop, err := net.Forward([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, prop.Outputs)

	grad, err := net.ParametersGradient(prop, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, grad)
}

func TestConditionsExact(t *testing.T) {
	_, err := nn.TwoConditionsLayer(0, 1, 1, []float64{0}, []float64{1})
	assert.True(t, nn.IsConfigError(err))
	_, err = nn.TwoConditionsLayer(0, 0, 1, []float64{0}, []float64{1, 2})
	assert.True(t, nn.IsConfigError(err))

	net, err := nn.NewNetwork([]int{2, 4, 2}, nil)
	require.NoError(t, err)
	net.RandomizeParameters(-2, 2)

	yA, yB := []float64{0.1, -3}, []float64{7, 0.3}
	two, err := nn.TwoConditionsLayer(1, -0.7, 2.9, yA, yB)
	require.NoError(t, err)
	require.NoError(t, net.SetConditions(two))

	for _, other := range []float64{-5, 0, 0.3, 11} {
		outs, err := net.Outputs([]float64{other, -0.7})
		require.NoError(t, err)
		assert.Equal(t, yA, outs)

		outs, err = net.Outputs([]float64{other, 2.9})
		require.NoError(t, err)
		assert.Equal(t, yB, outs)
	}

	require.NoError(t, net.SetConditions(nn.OneConditionLayer(0, 1.5, yA)))
	outs, err := net.Outputs([]float64{1.5, 100})
	require.NoError(t, err)
	assert.Equal(t, yA, outs)

	between, err := net.Outputs([]float64{0, 100})
	require.NoError(t, err)
	assert.NotEqual(t, yA, between)
}

func TestIndependentBounds(t *testing.T) {
	p := nn.NewIndependentParameters(2)
	require.NoError(t, p.SetValues([]float64{-4, 4}))
	require.NoError(t, p.SetBounds(0, -1, 1))
	assert.Equal(t, []float64{-1, 4}, p.Values())

	require.NoError(t, p.SetValues([]float64{3, 5}))
	assert.Equal(t, []float64{1, 5}, p.Values())

	assert.True(t, nn.IsConfigError(p.SetBounds(1, 2, 1)))
	assert.True(t, nn.IsConfigError(p.SetValues([]float64{1})))
}
