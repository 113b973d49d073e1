package initializers

import (
	"math"
	"math/rand"
)

// Mode is what the variance of VarianceScaling is scaled by.
type Mode int8

const (
	// FanIn scales by the number of inputs of the layer
	FanIn Mode = iota
	// FanOut scales by the number of neurons of the layer
	FanOut
	// FanAvg scales by the average of the two
	FanAvg
)

type varianceScaling struct {
	mode   Mode
	factor float64
}

// VarianceScaling returns the variance scaling initializer, which has 3 modes and a
// user-defined scaling factor. The three modes can be set by In, Out, and Avg. It defaults to
// Avg. Weights are drawn from a normal distribution truncated at two standard deviations, with
// variance factor / scale.
func VarianceScaling() *varianceScaling {
	return &varianceScaling{FanAvg, defaultValue["varscl-factor"]}
}

// Factor sets the scaling factor to be used for the Initializer. The default factor can be set
// by SetDefault("varscl-factor")
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of inputs to the layer.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = FanIn
	return v
}

// Out sets the scaling to be based on the number of neurons of the layer.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = FanOut
	return v
}

// Avg sets the scaling to be based on the average of the numbers of inputs and neurons of the
// layer.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = FanAvg
	return v
}

func (v *varianceScaling) stddev(fanIn, fanOut int) float64 {
	var scale float64
	switch v.mode {
	case FanIn:
		scale = float64(fanIn)
	case FanOut:
		scale = float64(fanOut)
	default:
		scale = float64(fanIn+fanOut) / 2
	}

	return math.Sqrt(v.factor / math.Max(1, scale))
}

func (v *varianceScaling) Set(rng *rand.Rand, fanIn, fanOut int, ws []float64) {
	gen := TruncNormal().Trunc(2).Mean(0).SD(v.stddev(fanIn, fanOut))

	for i := range ws {
		ws[i] = gen.Gen(rng)
	}
}

// LeCun returns variance scaling by the number of inputs, with a factor of 1.
func LeCun() *varianceScaling {
	return VarianceScaling().In().Factor(1)
}

// He returns variance scaling by the number of inputs, with a factor of 2.
func He() *varianceScaling {
	return VarianceScaling().In().Factor(2)
}

// Xavier returns variance scaling by the average of the numbers of inputs and neurons, with a
// factor of 1.
func Xavier() *varianceScaling {
	return VarianceScaling().Avg().Factor(1)
}

func Glorot() *varianceScaling {
	return Xavier()
}
