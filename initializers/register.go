// Package initializers provides the ways that a Network can draw its initial weights. Every
// Initializer here implements neuralnet.Initializer, taking its randomness from the source of
// the Network, so that a seeded Network is reproducible.
package initializers

import (
	"math"

	"github.com/pkg/errors"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// default values, because 'default' is a keyword
var defaultValue = map[string]float64{
	"uniform-lower": -1,
	"uniform-upper": 1,
	"normal-mean":   0,
	"normal-sd":     1,
	"trunc-sds":     2,
	"varscl-factor": 1,
}

func init() {
	list := map[string]func() nn.Initializer{
		"uniform":          func() nn.Initializer { return Uniform() },
		"normal":           func() nn.Initializer { return Random(Normal()) },
		"truncated-normal": func() nn.Initializer { return Random(TruncNormal()) },
		"variance-scaling": func() nn.Initializer { return VarianceScaling() },
		"lecun":            func() nn.Initializer { return LeCun() },
		"he":               func() nn.Initializer { return He() },
		"xavier":           func() nn.Initializer { return Xavier() },
	}

	for s, f := range list {
		err := nn.RegisterInitializer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}

// SetDefault sets one of the default values used by the constructors in this package. It
// affects only values constructed afterwards.
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	} else if name == "trunc-sds" && value <= 0 {
		return errors.Errorf("Number of standard deviations must be > 0 (%v)", value)
	}

	defaultValue[name] = value
	return nil
}

// SetDefault_Lazy simply calls SetDefault, but panics instead of returning an error
func SetDefault_Lazy(name string, value float64) {
	if err := SetDefault(name, value); err != nil {
		panic(err)
	}
}
