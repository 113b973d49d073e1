package costfuncs

import (
	"math"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type crossEntropy struct {
	summed
}

// CrossEntropyError returns the sum over every instance of -Σ target·log(output). The Network
// must end in an enabled softmax probabilistic layer, and every target must be within [0, 1].
func CrossEntropyError(net *nn.Network, data nn.Dataset) *crossEntropy {
	c := &crossEntropy{}
	c.summed = summed{
		dataTerm:  dataTerm{net, data},
		name:      "cross-entropy-error",
		errorOf:   c.errorOf,
		derivOf:   c.derivOf,
		checkMore: c.checkSoftmax,
	}

	return c
}

// NegativeLog is a proxy for CrossEntropyError
func NegativeLog(net *nn.Network, data nn.Dataset) *crossEntropy {
	return CrossEntropyError(net, data)
}

func (c *crossEntropy) checkSoftmax() error {
	if !c.net.Enabled(nn.KindProbabilistic) {
		return nn.ConfigErrorf("Network has no enabled probabilistic layer")
	} else if m := c.net.Probabilistic().Method(); m != nn.Softmax {
		return nn.ConfigErrorf("Probabilistic layer method is %s, must be %s", m, nn.Softmax)
	}

	return nil
}

func checkTargets(outs, targets []float64) error {
	for i, t := range targets {
		if t < 0 || t > 1 || math.IsNaN(t) {
			return nn.NumericErrorf("Target %d is outside of [0, 1] (%v)", i, t)
		} else if t > 0 && !(outs[i] > 0) {
			return nn.NumericErrorf("Output %d is not positive (%v) where target is %v", i, outs[i], t)
		}
	}

	return nil
}

func (c *crossEntropy) errorOf(outs, targets []float64) (float64, error) {
	if err := checkTargets(outs, targets); err != nil {
		return 0, err
	}

	var sum float64
	for i, t := range targets {
		if t > 0 {
			sum -= t * math.Log(outs[i])
		}
	}

	return sum, nil
}

func (c *crossEntropy) derivOf(outs, targets []float64) ([]float64, error) {
	if err := checkTargets(outs, targets); err != nil {
		return nil, err
	}

	ds := make([]float64, len(outs))
	for i, t := range targets {
		if t > 0 {
			ds[i] = -t / outs[i]
		}
	}

	return ds, nil
}
