package neuralnet

// BoundingLayer clamps each output of the Network into a configured interval.
type BoundingLayer struct {
	lower, upper []float64
}

// NewBoundingLayer returns a BoundingLayer clamping variable i into [lower[i], upper[i]].
func NewBoundingLayer(lower, upper []float64) (*BoundingLayer, error) {
	if len(lower) != len(upper) {
		return nil, ConfigErrorf("Can't make bounding layer, len(lower) != len(upper) (%d != %d)", len(lower), len(upper))
	}

	for i := range lower {
		if lower[i] > upper[i] {
			return nil, ConfigErrorf("Can't make bounding layer, lower bound %d is above the upper bound (%v > %v)", i, lower[i], upper[i])
		}
	}

	b := &BoundingLayer{
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
	}
	return b, nil
}

// Count returns the number of variables the layer bounds.
func (b *BoundingLayer) Count() int {
	return len(b.lower)
}

// Lower returns a copy of the lower bounds.
func (b *BoundingLayer) Lower() []float64 {
	return append([]float64(nil), b.lower...)
}

// Upper returns a copy of the upper bounds.
func (b *BoundingLayer) Upper() []float64 {
	return append([]float64(nil), b.upper...)
}

// Outputs returns x with every value clamped into its interval.
func (b *BoundingLayer) Outputs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v <= b.lower[i]:
			out[i] = b.lower[i]
		case v >= b.upper[i]:
			out[i] = b.upper[i]
		default:
			out[i] = v
		}
	}

	return out
}

// Derivatives returns the derivative of each output with respect to its input: 1 strictly
// inside the interval and 0 at or outside of its ends.
func (b *BoundingLayer) Derivatives(x []float64) []float64 {
	ds := make([]float64, len(x))
	for i, v := range x {
		if v > b.lower[i] && v < b.upper[i] {
			ds[i] = 1
		}
	}

	return ds
}

func (b *BoundingLayer) clone() *BoundingLayer {
	c, _ := NewBoundingLayer(b.lower, b.upper)
	return c
}
