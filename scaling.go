package neuralnet

// ScalingMethod selects how a ScalingLayer remaps each variable.
type ScalingMethod int8

const (
	// NoScaling leaves values unchanged
	NoScaling ScalingMethod = iota
	// MinimumMaximum maps [minimum, maximum] onto [-1, 1]
	MinimumMaximum
	// MeanStandardDeviation maps values to zero mean and unit standard deviation
	MeanStandardDeviation
)

func (m ScalingMethod) String() string {
	switch m {
	case NoScaling:
		return "no-scaling"
	case MinimumMaximum:
		return "minimum-maximum"
	case MeanStandardDeviation:
		return "mean-standard-deviation"
	}

	return "unknown"
}

// Statistics are the descriptive statistics of a single variable, as used by scaling layers.
type Statistics struct {
	Minimum, Maximum        float64
	Mean, StandardDeviation float64
}

// ScalingLayer holds per-variable statistics and applies an affine remap based on them. The
// same type serves both as the input scaling layer of a Network, where Scale is applied, and as
// the output unscaling layer, where the inverse Unscale is applied.
//
// Variables with degenerate statistics (maximum equal to minimum, or zero standard deviation)
// are passed through unchanged.
type ScalingLayer struct {
	method ScalingMethod
	stats  []Statistics
}

// NewScalingLayer returns a ScalingLayer for len(stats) variables. The statistics are copied.
func NewScalingLayer(method ScalingMethod, stats []Statistics) *ScalingLayer {
	s := &ScalingLayer{method: method, stats: make([]Statistics, len(stats))}
	copy(s.stats, stats)
	return s
}

// Count returns the number of variables that the layer scales.
func (s *ScalingLayer) Count() int {
	return len(s.stats)
}

// Method returns the scaling method of the layer.
func (s *ScalingLayer) Method() ScalingMethod {
	return s.method
}

// SetMethod changes the scaling method of the layer, returning the layer.
func (s *ScalingLayer) SetMethod(m ScalingMethod) *ScalingLayer {
	s.method = m
	return s
}

// Statistics returns a copy of the statistics of every variable.
func (s *ScalingLayer) Statistics() []Statistics {
	st := make([]Statistics, len(s.stats))
	copy(st, s.stats)
	return st
}

// slope and intercept of the scaling map for variable i, such that scaled = a*x + b
func (s *ScalingLayer) affine(i int) (a, b float64) {
	st := s.stats[i]
	switch s.method {
	case MinimumMaximum:
		if st.Maximum == st.Minimum {
			return 1, 0
		}
		a = 2 / (st.Maximum - st.Minimum)
		return a, -1 - a*st.Minimum
	case MeanStandardDeviation:
		if st.StandardDeviation == 0 {
			return 1, 0
		}
		a = 1 / st.StandardDeviation
		return a, -a * st.Mean
	}

	return 1, 0
}

// Scale returns the scaled values of x.
func (s *ScalingLayer) Scale(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		a, b := s.affine(i)
		out[i] = a*x[i] + b
	}

	return out
}

// Unscale is the inverse of Scale.
func (s *ScalingLayer) Unscale(y []float64) []float64 {
	out := make([]float64, len(y))
	for i := range y {
		st := s.stats[i]
		switch {
		case s.method == MinimumMaximum && st.Maximum != st.Minimum:
			out[i] = 0.5*(y[i]+1)*(st.Maximum-st.Minimum) + st.Minimum
		case s.method == MeanStandardDeviation && st.StandardDeviation != 0:
			out[i] = y[i]*st.StandardDeviation + st.Mean
		default:
			out[i] = y[i]
		}
	}

	return out
}

// scaleDerivatives returns d(scaled)/dx for every variable
func (s *ScalingLayer) scaleDerivatives() []float64 {
	ds := make([]float64, len(s.stats))
	for i := range ds {
		ds[i], _ = s.affine(i)
	}

	return ds
}

// unscaleDerivatives returns d(unscaled)/dy for every variable
func (s *ScalingLayer) unscaleDerivatives() []float64 {
	ds := s.scaleDerivatives()
	for i := range ds {
		ds[i] = 1 / ds[i]
	}

	return ds
}

func (s *ScalingLayer) clone() *ScalingLayer {
	return NewScalingLayer(s.method, s.stats)
}
