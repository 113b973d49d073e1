package costfuncs

import (
	"math"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// DefaultMinkowskiExponent is the exponent given to new Minkowski errors
const DefaultMinkowskiExponent float64 = 1.5

type minkowski struct {
	summed
	p float64
}

// MinkowskiError returns the sum over every instance and output of |output - target|^p. With p
// below 2, it is less sensitive to outliers than the squared errors. p starts at
// DefaultMinkowskiExponent.
func MinkowskiError(net *nn.Network, data nn.Dataset) *minkowski {
	m := &minkowski{p: DefaultMinkowskiExponent}
	m.summed = summed{
		dataTerm:  dataTerm{net, data},
		name:      "minkowski-error",
		errorOf:   m.errorOf,
		derivOf:   m.derivOf,
		checkMore: m.checkExponent,
	}

	return m
}

// Exponent sets the exponent p, which must be at least 1, returning the term.
func (m *minkowski) Exponent(p float64) *minkowski {
	m.p = p
	return m
}

func (m *minkowski) checkExponent() error {
	if m.p < 1 || math.IsNaN(m.p) {
		return nn.ConfigErrorf("Minkowski exponent must be >= 1 (%v)", m.p)
	}

	return nil
}

func (m *minkowski) errorOf(outs, targets []float64) (float64, error) {
	var s float64
	for i := range outs {
		s += math.Pow(math.Abs(outs[i]-targets[i]), m.p)
	}

	return s, nil
}

func (m *minkowski) derivOf(outs, targets []float64) ([]float64, error) {
	ds := make([]float64, len(outs))
	for i := range outs {
		e := outs[i] - targets[i]
		if e == 0 {
			continue
		}

		ds[i] = m.p * math.Pow(math.Abs(e), m.p-1) * math.Copysign(1, e)
	}

	return ds, nil
}
