package neuralnet

import (
	"math"

	"github.com/pkg/errors"
)

// IndependentParameters are free scalars stored with a Network but not consumed by any of its
// layers, such as an unknown final time in an optimal control problem. They are appended to the
// end of the parameter vector.
type IndependentParameters struct {
	values       []float64
	lower, upper []float64
}

// NewIndependentParameters returns n parameters, all zero and unbounded.
func NewIndependentParameters(n int) *IndependentParameters {
	p := &IndependentParameters{
		values: make([]float64, n),
		lower:  make([]float64, n),
		upper:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		p.lower[i] = math.Inf(-1)
		p.upper[i] = math.Inf(1)
	}

	return p
}

// Count returns the number of independent parameters.
func (p *IndependentParameters) Count() int {
	if p == nil {
		return 0
	}

	return len(p.values)
}

// Values returns a copy of the values.
func (p *IndependentParameters) Values() []float64 {
	if p == nil {
		return nil
	}

	return append([]float64(nil), p.values...)
}

// Value returns the parameter at index i.
func (p *IndependentParameters) Value(i int) float64 {
	return p.values[i]
}

// SetValues sets every value, clamping each into its bounds.
func (p *IndependentParameters) SetValues(vs []float64) error {
	if len(vs) != len(p.values) {
		return errors.WithStack(SizeMismatchError{len(p.values), len(vs), "independent parameters"})
	}

	for i, v := range vs {
		p.values[i] = math.Max(p.lower[i], math.Min(p.upper[i], v))
	}

	return nil
}

// SetBounds sets the bounds of parameter i, clamping its current value into them.
func (p *IndependentParameters) SetBounds(i int, lower, upper float64) error {
	if lower > upper {
		return ConfigErrorf("Can't set bounds of independent parameter %d, lower > upper (%v > %v)", i, lower, upper)
	}

	p.lower[i], p.upper[i] = lower, upper
	p.values[i] = math.Max(lower, math.Min(upper, p.values[i]))
	return nil
}

// Bounds returns the bounds of parameter i.
func (p *IndependentParameters) Bounds(i int) (lower, upper float64) {
	return p.lower[i], p.upper[i]
}

func (p *IndependentParameters) clone() *IndependentParameters {
	if p == nil {
		return nil
	}

	return &IndependentParameters{
		values: append([]float64(nil), p.values...),
		lower:  append([]float64(nil), p.lower...),
		upper:  append([]float64(nil), p.upper...),
	}
}
