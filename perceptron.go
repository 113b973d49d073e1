package neuralnet

import (
	"math/rand"
)

// PerceptronLayer is a fully connected layer of neurons: each output is the activation of the
// weighted sum of the layer's inputs plus a bias.
type PerceptronLayer struct {
	inputs int

	// weights[neuron][input]
	weights [][]float64
	biases  []float64

	activation Activation
}

// NewPerceptronLayer returns a layer with the given number of inputs and neurons, with all
// weights and biases set to zero.
func NewPerceptronLayer(inputs, neurons int, activation Activation) *PerceptronLayer {
	l := &PerceptronLayer{
		inputs:     inputs,
		weights:    make([][]float64, neurons),
		biases:     make([]float64, neurons),
		activation: activation,
	}

	for n := range l.weights {
		l.weights[n] = make([]float64, inputs)
	}

	return l
}

// InputCount returns the number of inputs to the layer.
func (l *PerceptronLayer) InputCount() int {
	return l.inputs
}

// NeuronCount returns the number of neurons, and so the number of outputs, of the layer.
func (l *PerceptronLayer) NeuronCount() int {
	return len(l.biases)
}

// Activation returns the activation function of the layer.
func (l *PerceptronLayer) Activation() Activation {
	return l.activation
}

// SetActivation sets the activation function of the layer, returning the layer.
func (l *PerceptronLayer) SetActivation(a Activation) *PerceptronLayer {
	l.activation = a
	return l
}

// ParameterCount returns the number of biases and weights in the layer.
func (l *PerceptronLayer) ParameterCount() int {
	return len(l.biases) * (l.inputs + 1)
}

// Weight returns the synaptic weight between the given neuron and input.
func (l *PerceptronLayer) Weight(neuron, input int) float64 {
	return l.weights[neuron][input]
}

// SetWeight sets the synaptic weight between the given neuron and input.
func (l *PerceptronLayer) SetWeight(neuron, input int, w float64) {
	l.weights[neuron][input] = w
}

// Bias returns the bias of the given neuron.
func (l *PerceptronLayer) Bias(neuron int) float64 {
	return l.biases[neuron]
}

// SetBias sets the bias of the given neuron.
func (l *PerceptronLayer) SetBias(neuron int, b float64) {
	l.biases[neuron] = b
}

// parameters are laid out as all of the biases, followed by the weights, row by row
func (l *PerceptronLayer) parameters(dst []float64) {
	copy(dst, l.biases)
	p := len(l.biases)
	for n := range l.weights {
		copy(dst[p:], l.weights[n])
		p += l.inputs
	}
}

func (l *PerceptronLayer) setParameters(src []float64) {
	copy(l.biases, src)
	p := len(l.biases)
	for n := range l.weights {
		copy(l.weights[n], src[p:p+l.inputs])
		p += l.inputs
	}
}

// initialize zeroes the biases and draws new weights
func (l *PerceptronLayer) initialize(init Initializer, rng *rand.Rand) {
	ws := make([]float64, len(l.biases)*l.inputs)
	init.Set(rng, l.inputs, len(l.biases), ws)

	for n := range l.weights {
		copy(l.weights[n], ws[n*l.inputs:(n+1)*l.inputs])
		l.biases[n] = 0
	}
}

// Combinations returns the weighted sums of the inputs, before activation.
func (l *PerceptronLayer) Combinations(inputs []float64) []float64 {
	cs := make([]float64, len(l.biases))
	for n := range cs {
		sum := l.biases[n]
		for i, in := range inputs {
			sum += l.weights[n][i] * in
		}
		cs[n] = sum
	}

	return cs
}

// Outputs returns the activations of the layer given its inputs.
func (l *PerceptronLayer) Outputs(inputs []float64) []float64 {
	cs := l.Combinations(inputs)
	for n := range cs {
		cs[n] = l.activation.Activate(cs[n])
	}

	return cs
}

func (l *PerceptronLayer) clone() *PerceptronLayer {
	c := NewPerceptronLayer(l.inputs, len(l.biases), l.activation)
	copy(c.biases, l.biases)
	for n := range l.weights {
		copy(c.weights[n], l.weights[n])
	}

	return c
}

// MultilayerPerceptron is the stack of perceptron layers at the center of a Network. A
// MultilayerPerceptron without layers is the identity map on its inputs.
type MultilayerPerceptron struct {
	inputs int
	layers []*PerceptronLayer
}

// NewMultilayerPerceptron builds the perceptron stack for an architecture: architecture[0] is
// the number of inputs and each following element is the width of one more layer. Hidden
// layers use HyperbolicTangent and the output layer uses Linear. All parameters are zero.
func NewMultilayerPerceptron(architecture []int) (*MultilayerPerceptron, error) {
	if len(architecture) == 0 {
		return nil, ConfigErrorf("Can't build multilayer perceptron, architecture is empty")
	}

	for i, w := range architecture {
		if w < 1 {
			return nil, ConfigErrorf("Can't build multilayer perceptron, layer %d must have width >= 1 (%d)", i, w)
		}
	}

	m := &MultilayerPerceptron{inputs: architecture[0]}
	for i := 1; i < len(architecture); i++ {
		act := HyperbolicTangent
		if i == len(architecture)-1 {
			act = Linear
		}

		m.layers = append(m.layers, NewPerceptronLayer(architecture[i-1], architecture[i], act))
	}

	return m, nil
}

// Architecture returns the number of inputs followed by the width of every layer.
func (m *MultilayerPerceptron) Architecture() []int {
	arch := []int{m.inputs}
	for _, l := range m.layers {
		arch = append(arch, l.NeuronCount())
	}

	return arch
}

// InputCount returns the number of inputs to the stack.
func (m *MultilayerPerceptron) InputCount() int {
	return m.inputs
}

// OutputCount returns the number of outputs of the stack.
func (m *MultilayerPerceptron) OutputCount() int {
	if len(m.layers) == 0 {
		return m.inputs
	}

	return m.layers[len(m.layers)-1].NeuronCount()
}

// LayerCount returns the number of perceptron layers.
func (m *MultilayerPerceptron) LayerCount() int {
	return len(m.layers)
}

// Layer returns the perceptron layer at the given index. The returned layer is NOT a copy.
func (m *MultilayerPerceptron) Layer(i int) *PerceptronLayer {
	return m.layers[i]
}

// ParameterCount returns the sum of the parameter counts of every layer.
func (m *MultilayerPerceptron) ParameterCount() int {
	var n int
	for _, l := range m.layers {
		n += l.ParameterCount()
	}

	return n
}

// offsets returns the index in the parameter vector at which each layer's block begins
func (m *MultilayerPerceptron) offsets() []int {
	offs := make([]int, len(m.layers))
	var p int
	for i, l := range m.layers {
		offs[i] = p
		p += l.ParameterCount()
	}

	return offs
}

// Outputs returns the outputs of the stack given its inputs.
func (m *MultilayerPerceptron) Outputs(inputs []float64) []float64 {
	outs := append([]float64(nil), inputs...)
	for _, l := range m.layers {
		outs = l.Outputs(outs)
	}

	return outs
}

func (m *MultilayerPerceptron) clone() *MultilayerPerceptron {
	c := &MultilayerPerceptron{inputs: m.inputs, layers: make([]*PerceptronLayer, len(m.layers))}
	for i, l := range m.layers {
		c.layers[i] = l.clone()
	}

	return c
}
