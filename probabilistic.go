package neuralnet

import "math"

// ProbabilisticMethod selects how a ProbabilisticLayer turns outputs into probabilities.
type ProbabilisticMethod int8

const (
	NoProbabilistic ProbabilisticMethod = iota
	Softmax
)

func (m ProbabilisticMethod) String() string {
	switch m {
	case NoProbabilistic:
		return "no-probabilistic"
	case Softmax:
		return "softmax"
	}

	return "unknown"
}

// ProbabilisticLayer maps the outputs of the Network onto a probability distribution.
type ProbabilisticLayer struct {
	method ProbabilisticMethod
	count  int
}

// NewProbabilisticLayer returns a ProbabilisticLayer over count outputs.
func NewProbabilisticLayer(method ProbabilisticMethod, count int) *ProbabilisticLayer {
	return &ProbabilisticLayer{method: method, count: count}
}

// Method returns the method of the layer.
func (p *ProbabilisticLayer) Method() ProbabilisticMethod {
	return p.method
}

// Count returns the number of outputs the layer acts on.
func (p *ProbabilisticLayer) Count() int {
	return p.count
}

// Outputs returns the probabilities for the given values.
func (p *ProbabilisticLayer) Outputs(x []float64) []float64 {
	out := make([]float64, len(x))
	if p.method != Softmax {
		copy(out, x)
		return out
	}

	max := math.Inf(-1)
	for _, v := range x {
		max = math.Max(max, v)
	}

	var sum float64
	for i, v := range x {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}

	return out
}

// backward returns Jᵀg, where J is the Jacobian of the layer at the point where it produced
// the probabilities probs. The softmax Jacobian diag(p) - p pᵀ is symmetric, so this is also
// the forward product Jg.
func (p *ProbabilisticLayer) backward(probs, g []float64) []float64 {
	out := make([]float64, len(g))
	if p.method != Softmax {
		copy(out, g)
		return out
	}

	var dot float64
	for j := range g {
		dot += g[j] * probs[j]
	}
	for i := range g {
		out[i] = probs[i] * (g[i] - dot)
	}

	return out
}

func (p *ProbabilisticLayer) clone() *ProbabilisticLayer {
	c := *p
	return &c
}
