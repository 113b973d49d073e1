package neuralnet

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// LayerKind identifies one of the optional, non-perceptron layers of a Network.
type LayerKind int8

const (
	KindScaling LayerKind = iota
	KindUnscaling
	KindProbabilistic
	KindBounding
	KindConditions

	kindCount
)

func (k LayerKind) String() string {
	switch k {
	case KindScaling:
		return "scaling"
	case KindUnscaling:
		return "unscaling"
	case KindProbabilistic:
		return "probabilistic"
	case KindBounding:
		return "bounding"
	case KindConditions:
		return "conditions"
	}

	return "unknown"
}

// Network is a feed-forward neural network: a multilayer perceptron, optionally surrounded by
// a scaling layer on its inputs and, on its outputs, unscaling, probabilistic, bounding and
// conditions layers, applied in that order. Each optional layer can be attached, detached,
// enabled and disabled independently.
//
// A Network may also hold independent parameters, which are appended to the parameter vector
// but are not used by any layer.
//
// Networks are not safe for concurrent use. Evaluating a performance term at a point other than
// the current parameters works on a Clone.
type Network struct {
	rng  *rand.Rand
	init Initializer

	mlp *MultilayerPerceptron

	scaling       *ScalingLayer
	unscaling     *ScalingLayer
	probabilistic *ProbabilisticLayer
	bounding      *BoundingLayer
	conditions    *ConditionsLayer
	enabled       [kindCount]bool

	independent *IndependentParameters
}

// NewNetwork returns a Network with the given architecture (see NewMultilayerPerceptron), with
// zero biases and weights drawn by the default Initializer from rng. If rng is nil, a source
// seeded with DefaultSeed is used.
func NewNetwork(architecture []int, rng *rand.Rand) (*Network, error) {
	mlp, err := NewMultilayerPerceptron(architecture)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to make network\n")
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(DefaultSeed))
	}

	n := &Network{
		rng:         rng,
		init:        smallUniform{},
		mlp:         mlp,
		independent: NewIndependentParameters(0),
	}

	n.InitializeWeights()
	return n, nil
}

// RNG returns the random source of the Network.
func (n *Network) RNG() *rand.Rand {
	return n.rng
}

// SetInitializer sets the Initializer used for new weights, returning the Network. It does not
// change any existing weights; use InitializeWeights for that.
func (n *Network) SetInitializer(init Initializer) *Network {
	if init == nil {
		init = smallUniform{}
	}

	n.init = init
	return n
}

// InitializeWeights sets every bias to zero and draws every weight from the Initializer.
func (n *Network) InitializeWeights() {
	for _, l := range n.mlp.layers {
		l.initialize(n.init, n.rng)
	}
}

// InitializeParameters sets every parameter, including independent parameters, to v.
func (n *Network) InitializeParameters(v float64) {
	p := make([]float64, n.ParameterCount())
	for i := range p {
		p[i] = v
	}

	n.SetParameters(p)
}

// RandomizeParameters sets every parameter, including independent parameters, uniformly at
// random on [min, max).
func (n *Network) RandomizeParameters(min, max float64) {
	p := make([]float64, n.ParameterCount())
	for i := range p {
		p[i] = min + (max-min)*n.rng.Float64()
	}

	n.SetParameters(p)
}

// Architecture returns the number of inputs followed by the width of every perceptron layer.
func (n *Network) Architecture() []int {
	return n.mlp.Architecture()
}

// SetArchitecture rebuilds the perceptron stack. Weights and biases that exist in both the
// old and the new architecture are kept; new biases are zero and new weights are drawn by the
// Initializer. Hidden layers that remain hidden keep their activations, as does the output
// layer. The input and output widths must remain compatible with every attached layer.
func (n *Network) SetArchitecture(architecture []int) error {
	mlp, err := NewMultilayerPerceptron(architecture)
	if err != nil {
		return errors.Wrapf(err, "Failed to set architecture\n")
	}

	if err = n.checkWidths(mlp.InputCount(), mlp.OutputCount()); err != nil {
		return errors.Wrapf(err, "Can't set architecture %v\n", architecture)
	}

	last, oldLast := len(mlp.layers)-1, len(n.mlp.layers)-1
	for i, l := range mlp.layers {
		l.initialize(n.init, n.rng)
		switch {
		case i == last && oldLast >= 0:
			l.activation = n.mlp.layers[oldLast].activation
		case i < oldLast:
			l.activation = n.mlp.layers[i].activation
		}

		if i >= len(n.mlp.layers) {
			continue
		}

		old := n.mlp.layers[i]
		for ne := 0; ne < l.NeuronCount() && ne < old.NeuronCount(); ne++ {
			l.biases[ne] = old.biases[ne]
			for in := 0; in < l.inputs && in < old.inputs; in++ {
				l.weights[ne][in] = old.weights[ne][in]
			}
		}
	}

	n.mlp = mlp
	return nil
}

// Perceptron returns the multilayer perceptron at the center of the Network. The returned
// value is NOT a copy.
func (n *Network) Perceptron() *MultilayerPerceptron {
	return n.mlp
}

// InputCount returns the number of inputs to the Network.
func (n *Network) InputCount() int {
	return n.mlp.InputCount()
}

// OutputCount returns the number of outputs of the Network.
func (n *Network) OutputCount() int {
	return n.mlp.OutputCount()
}

// SetActivation sets the activation function of the perceptron layer at the given index.
func (n *Network) SetActivation(layer int, a Activation) error {
	if layer < 0 || layer >= len(n.mlp.layers) {
		return ConfigErrorf("Can't set activation, layer index %d out of range [0, %d)", layer, len(n.mlp.layers))
	}

	n.mlp.layers[layer].SetActivation(a)
	return nil
}

// Differentiable returns whether or not every perceptron layer has a differentiable activation.
func (n *Network) Differentiable() bool {
	for _, l := range n.mlp.layers {
		if !l.activation.Differentiable() {
			return false
		}
	}

	return true
}

// Independent returns the independent parameters of the Network. The returned value is NOT a
// copy.
func (n *Network) Independent() *IndependentParameters {
	return n.independent
}

// SetIndependentParameterCount replaces the independent parameters with count new ones, all
// zero and unbounded, and returns them.
func (n *Network) SetIndependentParameterCount(count int) *IndependentParameters {
	n.independent = NewIndependentParameters(count)
	return n.independent
}

// ParameterCount returns the length of the parameter vector.
func (n *Network) ParameterCount() int {
	return n.NeuralParameterCount() + n.IndependentParameterCount()
}

// NeuralParameterCount returns the number of biases and weights in the perceptron stack. These
// make up the beginning of the parameter vector.
func (n *Network) NeuralParameterCount() int {
	return n.mlp.ParameterCount()
}

// IndependentParameterCount returns the number of independent parameters. These make up the
// end of the parameter vector.
func (n *Network) IndependentParameterCount() int {
	return n.independent.Count()
}

// Parameters returns a copy of the parameter vector: for each perceptron layer, its biases
// followed by its weights, neuron by neuron, and then the independent parameters.
func (n *Network) Parameters() []float64 {
	p := make([]float64, n.ParameterCount())
	for i, off := range n.mlp.offsets() {
		n.mlp.layers[i].parameters(p[off:])
	}

	copy(p[n.NeuralParameterCount():], n.independent.values)
	return p
}

// SetParameters sets the entire parameter vector, in the order given by Parameters.
// Independent parameters are clamped into their bounds.
func (n *Network) SetParameters(p []float64) error {
	if len(p) != n.ParameterCount() {
		return errors.WithStack(SizeMismatchError{n.ParameterCount(), len(p), "parameters"})
	}

	for i, off := range n.mlp.offsets() {
		n.mlp.layers[i].setParameters(p[off:])
	}

	return n.independent.SetValues(p[n.NeuralParameterCount():])
}

// ParametersNorm returns the euclidean norm of the parameter vector.
func (n *Network) ParametersNorm() float64 {
	return floats.Norm(n.Parameters(), 2)
}

// checkWidths returns an error if any attached layer would not fit a perceptron stack with the
// given widths
func (n *Network) checkWidths(inputs, outputs int) error {
	if n.scaling != nil && n.scaling.Count() != inputs {
		return ConfigErrorf("Scaling layer has width %d, network has %d inputs", n.scaling.Count(), inputs)
	}
	if n.unscaling != nil && n.unscaling.Count() != outputs {
		return ConfigErrorf("Unscaling layer has width %d, network has %d outputs", n.unscaling.Count(), outputs)
	}
	if n.probabilistic != nil && n.probabilistic.Count() != outputs {
		return ConfigErrorf("Probabilistic layer has width %d, network has %d outputs", n.probabilistic.Count(), outputs)
	}
	if n.bounding != nil && n.bounding.Count() != outputs {
		return ConfigErrorf("Bounding layer has width %d, network has %d outputs", n.bounding.Count(), outputs)
	}
	if n.conditions != nil {
		if n.conditions.Count() != outputs {
			return ConfigErrorf("Conditions layer has width %d, network has %d outputs", n.conditions.Count(), outputs)
		} else if n.conditions.InputIndex() < 0 || n.conditions.InputIndex() >= inputs {
			return ConfigErrorf("Conditions layer input index %d out of range [0, %d)", n.conditions.InputIndex(), inputs)
		}
	}

	return nil
}

// Check verifies that every attached layer fits the perceptron stack.
func (n *Network) Check() error {
	return n.checkWidths(n.InputCount(), n.OutputCount())
}

// SetScaling attaches and enables an input scaling layer. A nil layer detaches it.
func (n *Network) SetScaling(s *ScalingLayer) error {
	if s != nil && s.Count() != n.InputCount() {
		return ConfigErrorf("Can't set scaling layer, width %d != %d inputs", s.Count(), n.InputCount())
	}

	n.scaling = s
	n.enabled[KindScaling] = s != nil
	return nil
}

// SetUnscaling attaches and enables an output unscaling layer. A nil layer detaches it.
func (n *Network) SetUnscaling(s *ScalingLayer) error {
	if s != nil && s.Count() != n.OutputCount() {
		return ConfigErrorf("Can't set unscaling layer, width %d != %d outputs", s.Count(), n.OutputCount())
	}

	n.unscaling = s
	n.enabled[KindUnscaling] = s != nil
	return nil
}

// SetProbabilistic attaches and enables a probabilistic layer. A nil layer detaches it.
func (n *Network) SetProbabilistic(p *ProbabilisticLayer) error {
	if p != nil && p.Count() != n.OutputCount() {
		return ConfigErrorf("Can't set probabilistic layer, width %d != %d outputs", p.Count(), n.OutputCount())
	}

	n.probabilistic = p
	n.enabled[KindProbabilistic] = p != nil
	return nil
}

// SetBounding attaches and enables a bounding layer. A nil layer detaches it.
func (n *Network) SetBounding(b *BoundingLayer) error {
	if b != nil && b.Count() != n.OutputCount() {
		return ConfigErrorf("Can't set bounding layer, width %d != %d outputs", b.Count(), n.OutputCount())
	}

	n.bounding = b
	n.enabled[KindBounding] = b != nil
	return nil
}

// SetConditions attaches and enables a conditions layer. A nil layer detaches it.
func (n *Network) SetConditions(c *ConditionsLayer) error {
	if c != nil {
		if c.Count() != n.OutputCount() {
			return ConfigErrorf("Can't set conditions layer, width %d != %d outputs", c.Count(), n.OutputCount())
		} else if c.InputIndex() < 0 || c.InputIndex() >= n.InputCount() {
			return ConfigErrorf("Can't set conditions layer, input index %d out of range [0, %d)", c.InputIndex(), n.InputCount())
		}
	}

	n.conditions = c
	n.enabled[KindConditions] = c != nil
	return nil
}

// Scaling returns the scaling layer, which may be nil. The returned value is NOT a copy.
func (n *Network) Scaling() *ScalingLayer { return n.scaling }

// Unscaling returns the unscaling layer, which may be nil. The returned value is NOT a copy.
func (n *Network) Unscaling() *ScalingLayer { return n.unscaling }

// Probabilistic returns the probabilistic layer, which may be nil. The returned value is NOT a
// copy.
func (n *Network) Probabilistic() *ProbabilisticLayer { return n.probabilistic }

// Bounding returns the bounding layer, which may be nil. The returned value is NOT a copy.
func (n *Network) Bounding() *BoundingLayer { return n.bounding }

// Conditions returns the conditions layer, which may be nil. The returned value is NOT a copy.
func (n *Network) Conditions() *ConditionsLayer { return n.conditions }

func (n *Network) attached(kind LayerKind) bool {
	switch kind {
	case KindScaling:
		return n.scaling != nil
	case KindUnscaling:
		return n.unscaling != nil
	case KindProbabilistic:
		return n.probabilistic != nil
	case KindBounding:
		return n.bounding != nil
	case KindConditions:
		return n.conditions != nil
	}

	return false
}

// Enable enables or disables an attached layer. Disabled layers are kept but skipped by
// every computation. Enabling a layer that is not attached returns ErrNotAttached.
func (n *Network) Enable(kind LayerKind, on bool) error {
	if kind < 0 || kind >= kindCount {
		return errors.Wrapf(ErrUnknownType, "Can't enable layer kind %d\n", kind)
	} else if on && !n.attached(kind) {
		return errors.Wrapf(ErrNotAttached, "Can't enable %s layer\n", kind)
	}

	n.enabled[kind] = on
	return nil
}

// Enabled returns whether the layer of the given kind is attached and enabled.
func (n *Network) Enabled(kind LayerKind) bool {
	return kind >= 0 && kind < kindCount && n.enabled[kind] && n.attached(kind)
}

// Clone returns a deep copy of the Network. The copy shares the random source and the
// Initializer of the original.
func (n *Network) Clone() *Network {
	c := &Network{
		rng:         n.rng,
		init:        n.init,
		mlp:         n.mlp.clone(),
		enabled:     n.enabled,
		independent: n.independent.clone(),
	}

	if n.scaling != nil {
		c.scaling = n.scaling.clone()
	}
	if n.unscaling != nil {
		c.unscaling = n.unscaling.clone()
	}
	if n.probabilistic != nil {
		c.probabilistic = n.probabilistic.clone()
	}
	if n.bounding != nil {
		c.bounding = n.bounding.clone()
	}
	if n.conditions != nil {
		c.conditions = n.conditions.clone()
	}

	return c
}

// WithParameters returns a Clone of the Network with its parameter vector set to p.
func (n *Network) WithParameters(p []float64) (*Network, error) {
	c := n.Clone()
	if err := c.SetParameters(p); err != nil {
		return nil, errors.Wrapf(err, "Failed to set parameters of clone\n")
	}

	return c, nil
}
