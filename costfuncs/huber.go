package costfuncs

import (
	"math"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type huber struct {
	summed
	δ float64
}

// HuberError returns the sum over every instance and output of the Huber loss: half the squared
// error where it is at most δ, and linear in the error beyond that. δ must be positive.
func HuberError(net *nn.Network, data nn.Dataset, δ float64) *huber {
	h := &huber{δ: δ}
	h.summed = summed{
		dataTerm:  dataTerm{net, data},
		name:      "huber-error",
		errorOf:   h.errorOf,
		derivOf:   h.derivOf,
		checkMore: h.checkDelta,
	}

	return h
}

func (h *huber) checkDelta() error {
	if !(h.δ > 0) {
		return nn.ConfigErrorf("Huber δ must be > 0 (%v)", h.δ)
	}

	return nil
}

func (h *huber) errorOf(outs, targets []float64) (float64, error) {
	var sum float64
	for i := range outs {
		d := math.Abs(outs[i] - targets[i])
		if d <= h.δ {
			sum += 0.5 * d * d
		} else {
			sum += h.δ*d - 0.5*h.δ*h.δ
		}
	}

	return sum, nil
}

func (h *huber) derivOf(outs, targets []float64) ([]float64, error) {
	ds := make([]float64, len(outs))
	for i := range outs {
		d := outs[i] - targets[i]
		if !(d < -h.δ || d > h.δ) { // d >= -h.δ && d <= h.δ
			ds[i] = d
		} else {
			ds[i] = h.δ * math.Copysign(1, d)
		}
	}

	return ds, nil
}
