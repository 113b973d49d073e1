package neuralnet_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

func TestNewDataset(t *testing.T) {
	cases := []struct {
		name       string
		training   [][][]float64
		validation [][][]float64
	}{
		{"empty", nil, nil},
		{"parts", [][][]float64{{{1}}}, nil},
		{"inputs", [][][]float64{{{1}, {1}}, {{1, 2}, {1}}}, nil},
		{"targets", [][][]float64{{{1}, {1}}, {{1}, {}}}, nil},
		{"validation inputs", [][][]float64{{{1}, {1}}}, [][][]float64{{{1, 2}, {1}}}},
		{"validation parts", [][][]float64{{{1}, {1}}}, [][][]float64{{{1}, {1}, {1}}}},
	}

	for _, c := range cases {
		_, err := nn.NewDataset(c.training, c.validation)
		assert.True(t, nn.IsConfigError(err), "%s: %v", c.name, err)
	}

	_, err := nn.NewDataset([][][]float64{{{1}, {1}}, {{1, 2}, {1}}}, nil)
	assert.Equal(t, nn.SizeMismatchError{Expected: 1, Got: 2, What: "inputs"}, errors.Cause(err))
}

func TestDatasetCopies(t *testing.T) {
	training := [][][]float64{{{1, 2}, {3}}, {{4, 5}, {6}}}
	d, err := nn.NewDataset(training, nil)
	require.NoError(t, err)

	training[0][0][0] = 100
	assert.Equal(t, []float64{1, 2}, d.TrainingInput(0))
	assert.Equal(t, []float64{6}, d.TrainingTarget(1))
	assert.Equal(t, 2, d.InputCount())
	assert.Equal(t, 1, d.TargetCount())
	assert.Equal(t, 2, d.TrainingCount())
	assert.Equal(t, 0, d.ValidationCount())
}

func TestStatistics(t *testing.T) {
	d, err := nn.NewDataset([][][]float64{
		{{1, 5}, {-1}},
		{{2, 5}, {0}},
		{{3, 5}, {4}},
	}, [][][]float64{{{100, 100}, {100}}})
	require.NoError(t, err)

	want := []nn.Statistics{
		{Minimum: 1, Maximum: 3, Mean: 2, StandardDeviation: 1},
		{Minimum: 5, Maximum: 5, Mean: 5, StandardDeviation: 0},
	}
	if diff := cmp.Diff(want, nn.InputStatistics(d), approx); diff != "" {
		t.Errorf("input statistics mismatch (-want +got):\n%s", diff)
	}

	ts := nn.TargetStatistics(d)
	require.Len(t, ts, 1)
	assert.Equal(t, -1.0, ts[0].Minimum)
	assert.Equal(t, 4.0, ts[0].Maximum)
	assert.InDelta(t, 1, ts[0].Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(7), ts[0].StandardDeviation, 1e-12)

	single, err := nn.NewDataset([][][]float64{{{7}, {8}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []nn.Statistics{{Minimum: 7, Maximum: 7, Mean: 7}}, nn.InputStatistics(single))

	// degenerate statistics leave the variable unscaled
	s := nn.NewScalingLayer(nn.MeanStandardDeviation, nn.InputStatistics(d))
	assert.Equal(t, []float64{0, 9}, s.Scale([]float64{2, 9}))
}

func TestRegistry(t *testing.T) {
	factory := func(c nn.TermConfig) (nn.PerformanceTerm, error) { return nil, nil }
	require.NoError(t, nn.RegisterTerm("registry-test-term", factory))

	err := nn.RegisterTerm("registry-test-term", factory)
	assert.Equal(t, nn.ErrDuplicateType, errors.Cause(err))
	err = nn.RegisterTerm("registry-test-nil", nil)
	assert.Equal(t, nn.ErrNilFactory, errors.Cause(err))
	assert.Contains(t, nn.TermTypes(), "registry-test-term")
	assert.NotContains(t, nn.TermTypes(), "registry-test-nil")

	_, err = nn.NewTerm("registry-test-missing", nn.TermConfig{})
	assert.Equal(t, nn.ErrUnknownType, errors.Cause(err))

	for _, name := range []string{"sum-squared-error", "normalized-squared-error", "neural-parameters-norm"} {
		assert.Contains(t, nn.TermTypes(), name)
	}

	net, data := line(t, 0, 0)
	term, err := nn.NewTerm("sum-squared-error", nn.TermConfig{Network: net, Dataset: data})
	require.NoError(t, err)
	assert.Equal(t, "sum-squared-error", term.TypeString())

	_, err = nn.NewTerm("sum-squared-error", nn.TermConfig{Network: net})
	assert.True(t, nn.IsConfigError(err))

	_, err = nn.NewAlgorithm("registry-test-missing", nn.NewPerformanceFunctional(net))
	assert.Equal(t, nn.ErrUnknownType, errors.Cause(err))
	_, err = nn.NewHyperParameter("registry-test-missing")
	assert.Equal(t, nn.ErrUnknownType, errors.Cause(err))
	_, err = nn.NewInitializer("registry-test-missing")
	assert.Equal(t, nn.ErrUnknownType, errors.Cause(err))

	assert.Equal(t, nn.ErrNilFactory, errors.Cause(nn.RegisterAlgorithm("registry-test-nil", nil)))
	assert.Equal(t, nn.ErrNilFactory, errors.Cause(nn.RegisterHyperParameter("registry-test-nil", nil)))
	assert.Equal(t, nn.ErrNilFactory, errors.Cause(nn.RegisterInitializer("registry-test-nil", nil)))
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err            error
		config, number bool
	}{
		{nn.ConfigErrorf("bad %d", 1), true, false},
		{errors.Wrapf(nn.ConfigErrorf("bad"), "Wrapped\n"), true, false},
		{errors.WithStack(nn.SizeMismatchError{Expected: 1, Got: 2, What: "inputs"}), true, false},
		{nn.NumericErrorf("zero"), false, true},
		{errors.Wrapf(nn.NumericErrorf("zero"), "Wrapped\n"), false, true},
		{nn.ErrNoValidation, false, false},
		{nil, false, false},
	}

	for i, c := range cases {
		assert.Equal(t, c.config, nn.IsConfigError(c.err), "case %d", i)
		assert.Equal(t, c.number, nn.IsNumericError(c.err), "case %d", i)
	}

	assert.Equal(t, "bad 1", errors.Cause(nn.ConfigErrorf("bad %d", 1)).Error())
	assert.Equal(t, "Size of inputs does not match, expected 1 but got 2", nn.SizeMismatchError{Expected: 1, Got: 2, What: "inputs"}.Error())
}
