package hyperparams

import (
	"math"
	"sort"
)

type step struct {
	Iter int
	Val  float64
}

type stepper []step

// Step returns a HyperParameter that is base until the first step added to it.
func Step(base float64) *stepper {
	st := stepper([]step{{0, base}})
	return &st
}

// Add adds a step to the HyperParameter: from iteration iter onwards, it will have the given
// value, until the next step. Steps may be added in any order.
func (s *stepper) Add(iter int, value float64) *stepper {
	*s = append(*s, step{iter, value})
	sort.SliceStable(*s, func(i, j int) bool { return (*s)[i].Iter < (*s)[j].Iter })
	return s
}

func (s *stepper) TypeString() string {
	return "step"
}

func (s *stepper) Value(iter int) float64 {
	sl := []step(*s)
	for i := 1; i < len(sl); i++ {
		if sl[i].Iter > iter {
			return sl[i-1].Val
		}
	}

	return sl[len(sl)-1].Val
}

type decay struct {
	base float64
	rate float64
}

// Decay returns a HyperParameter that starts at base and is multiplied by rate at every
// iteration.
func Decay(base, rate float64) *decay {
	return &decay{base, rate}
}

func (d *decay) TypeString() string {
	return "decay"
}

func (d *decay) Value(iter int) float64 {
	return d.base * math.Pow(d.rate, float64(iter))
}
