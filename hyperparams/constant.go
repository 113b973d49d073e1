// Package hyperparams provides schedules of values by training iteration. They implement
// neuralnet.HyperParameter, and are used by the "training" package for the first step of line
// searches and the step length of random search.
package hyperparams

type constant float64

// Constant returns a HyperParameter that is always value.
func Constant(value float64) *constant {
	c := constant(value)
	return &c
}

func (c *constant) TypeString() string {
	return "constant"
}

func (c *constant) Value(iter int) float64 {
	return float64(*c)
}
