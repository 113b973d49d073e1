package initializers

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

func draw(in nn.Initializer, seed int64, fanIn, fanOut, n int) []float64 {
	ws := make([]float64, n)
	in.Set(rand.New(rand.NewSource(seed)), fanIn, fanOut, ws)
	return ws
}

func TestUniform(t *testing.T) {
	ws := draw(Uniform().Range(0.5, -0.5), 1, 3, 4, 1000)
	for _, w := range ws {
		assert.True(t, w >= -0.5 && w < 0.5, "%v", w)
		assert.NotZero(t, w)
	}

	assert.InDelta(t, 0, stat.Mean(ws, nil), 0.05)
}

func TestReproducible(t *testing.T) {
	for _, name := range nn.InitializerTypes() {
		in, err := nn.NewInitializer(name)
		require.NoError(t, err)

		assert.Equal(t, draw(in, 4, 5, 6, 20), draw(in, 4, 5, 6, 20), name)
	}
}

func TestVarianceScaling(t *testing.T) {
	cases := []struct {
		name          string
		init          *varianceScaling
		fanIn, fanOut int
		σ             float64
	}{
		{"lecun", LeCun(), 50, 10, math.Sqrt(1.0 / 50)},
		{"he", He(), 50, 10, math.Sqrt(2.0 / 50)},
		{"xavier", Xavier(), 50, 10, math.Sqrt(1.0 / 30)},
		{"fan out", VarianceScaling().Out().Factor(3), 50, 10, math.Sqrt(3.0 / 10)},
	}

	for _, c := range cases {
		assert.InDelta(t, c.σ, c.init.stddev(c.fanIn, c.fanOut), 1e-12, c.name)

		ws := draw(c.init, 2, c.fanIn, c.fanOut, 2000)
		for _, w := range ws {
			assert.LessOrEqual(t, math.Abs(w), 2*c.σ+1e-12, c.name)
		}
		// truncation at 2σ leaves the standard deviation at about 0.88σ
		assert.InDelta(t, 0.88*c.σ, stat.StdDev(ws, nil), 0.1*c.σ, c.name)
	}
}

func TestTruncNormal(t *testing.T) {
	var g RNG = TruncNormal().Trunc(1.5).Mean(3).SD(0.5)
	_, ok := g.(*truncNormal)
	require.True(t, ok, "%T", g)

	ws := draw(Random(g), 5, 1, 1, 2000)
	for _, w := range ws {
		assert.InDelta(t, 3, w, 0.75+1e-12)
	}
	assert.InDelta(t, 3, stat.Mean(ws, nil), 0.05)

	in, err := nn.NewInitializer("truncated-normal")
	require.NoError(t, err)
	for _, w := range draw(in, 6, 1, 1, 2000) {
		assert.LessOrEqual(t, math.Abs(w), 2.0)
	}
}

func TestNetworkUsesInitializer(t *testing.T) {
	net, err := nn.NewNetwork([]int{2, 3}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	net.SetInitializer(Uniform().Range(5, 6)).InitializeWeights()
	p := net.Parameters()
	for i, v := range p {
		if i < 3 {
			assert.Equal(t, 0.0, v, "bias %d", i)
		} else {
			assert.True(t, v >= 5 && v < 6, "weight %d: %v", i, v)
		}
	}
}

func TestSetDefault(t *testing.T) {
	require.NoError(t, SetDefault("uniform-upper", 3))
	defer SetDefault_Lazy("uniform-upper", 1)

	assert.Equal(t, 3.0, Uniform().upper)
	assert.Equal(t, 3.0, UniformRNG().upper)

	assert.Error(t, SetDefault("uniform-middle", 0))
	assert.Error(t, SetDefault("normal-sd", math.NaN()))
	assert.Error(t, SetDefault("trunc-sds", -1))
	assert.Panics(t, func() { SetDefault_Lazy("nothing", 1) })
}
