package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Propagation holds every intermediate value of a single forward pass through a Network, as
// returned by Forward. It is the input to backpropagation.
//
// Values of layers that were disabled during the pass are equal to the values of the stage
// before them, and their derivatives are nil.
type Propagation struct {
	Inputs []float64

	Scaled             []float64
	ScalingDerivatives []float64

	// per perceptron layer
	LayerInputs           [][]float64
	Combinations          [][]float64
	Activations           [][]float64
	ActivationDerivatives [][]float64

	// Perceptron is the output of the perceptron stack
	Perceptron []float64

	Unscaled             []float64
	UnscalingDerivatives []float64

	Probabilities []float64

	// Raw is the output of the bounding layer, the input to the conditions layer
	Raw                 []float64
	BoundingDerivatives []float64

	Particular  []float64
	Homogeneous float64

	Outputs []float64

	softmax    bool
	conditions bool
}

// Outputs returns the outputs of the Network given its inputs.
func (n *Network) Outputs(inputs []float64) ([]float64, error) {
	prop, err := n.Forward(inputs)
	if err != nil {
		return nil, err
	}

	return prop.Outputs, nil
}

// Forward propagates the inputs through the Network, keeping the values at every layer.
func (n *Network) Forward(inputs []float64) (*Propagation, error) {
	if len(inputs) != n.InputCount() {
		return nil, errors.WithStack(SizeMismatchError{n.InputCount(), len(inputs), "inputs"})
	}

	prop := &Propagation{Inputs: append([]float64(nil), inputs...)}

	prop.Scaled = prop.Inputs
	if n.Enabled(KindScaling) {
		prop.Scaled = n.scaling.Scale(prop.Inputs)
		prop.ScalingDerivatives = n.scaling.scaleDerivatives()
	}

	ins := prop.Scaled
	for _, l := range n.mlp.layers {
		cs := l.Combinations(ins)
		as := make([]float64, len(cs))
		ds := make([]float64, len(cs))
		for i, c := range cs {
			as[i] = l.activation.Activate(c)
			ds[i] = l.activation.Derivative(c)
		}

		prop.LayerInputs = append(prop.LayerInputs, ins)
		prop.Combinations = append(prop.Combinations, cs)
		prop.Activations = append(prop.Activations, as)
		prop.ActivationDerivatives = append(prop.ActivationDerivatives, ds)
		ins = as
	}
	prop.Perceptron = ins

	prop.Unscaled = prop.Perceptron
	if n.Enabled(KindUnscaling) {
		prop.Unscaled = n.unscaling.Unscale(prop.Perceptron)
		prop.UnscalingDerivatives = n.unscaling.unscaleDerivatives()
	}

	prop.Probabilities = prop.Unscaled
	if n.Enabled(KindProbabilistic) && n.probabilistic.Method() == Softmax {
		prop.Probabilities = n.probabilistic.Outputs(prop.Unscaled)
		prop.softmax = true
	}

	prop.Raw = prop.Probabilities
	if n.Enabled(KindBounding) {
		prop.BoundingDerivatives = n.bounding.Derivatives(prop.Probabilities)
		prop.Raw = n.bounding.Outputs(prop.Probabilities)
	}

	prop.Outputs = prop.Raw
	prop.Homogeneous = 1
	if n.Enabled(KindConditions) && n.conditions.Method() != NoConditions {
		x := prop.Inputs[n.conditions.InputIndex()]
		prop.Particular = n.conditions.Particular(x)
		prop.Homogeneous = n.conditions.Homogeneous(x)
		prop.Outputs = n.conditions.Outputs(x, prop.Raw)
		prop.conditions = true
	}

	return prop, nil
}

// ParametersGradient returns the gradient, with respect to the full parameter vector, of a
// function of the outputs of the Network, given the forward pass and the gradient of that
// function with respect to the outputs. The entries for independent parameters are zero.
func (n *Network) ParametersGradient(prop *Propagation, outputGradient []float64) ([]float64, error) {
	if len(outputGradient) != n.OutputCount() {
		return nil, errors.WithStack(SizeMismatchError{n.OutputCount(), len(outputGradient), "output gradient"})
	} else if len(prop.LayerInputs) != len(n.mlp.layers) {
		return nil, errors.Errorf("Can't backpropagate, propagation has %d layers but network has %d", len(prop.LayerInputs), len(n.mlp.layers))
	}

	grad := make([]float64, n.ParameterCount())
	n.backpropagate(prop, outputGradient, grad)
	return grad, nil
}

// backpropagate adds the parameter gradient into grad
func (n *Network) backpropagate(prop *Propagation, outputGradient, grad []float64) {
	g := append([]float64(nil), outputGradient...)

	if prop.conditions {
		for i := range g {
			g[i] *= prop.Homogeneous
		}
	}

	if prop.BoundingDerivatives != nil {
		for i := range g {
			g[i] *= prop.BoundingDerivatives[i]
		}
	}

	if prop.softmax {
		g = n.probabilistic.backward(prop.Probabilities, g)
	}

	if prop.UnscalingDerivatives != nil {
		for i := range g {
			g[i] *= prop.UnscalingDerivatives[i]
		}
	}

	offsets := n.mlp.offsets()
	for li := len(n.mlp.layers) - 1; li >= 0; li-- {
		l := n.mlp.layers[li]
		ds := prop.ActivationDerivatives[li]
		ins := prop.LayerInputs[li]

		delta := make([]float64, len(ds))
		for ne := range delta {
			delta[ne] = ds[ne] * g[ne]
		}

		off := offsets[li]
		ws := off + len(l.biases)
		for ne, d := range delta {
			grad[off+ne] += d
			for in, x := range ins {
				grad[ws+ne*l.inputs+in] += d * x
			}
		}

		if li == 0 {
			break
		}

		g = make([]float64, l.inputs)
		for ne, d := range delta {
			for in := range g {
				g[in] += l.weights[ne][in] * d
			}
		}
	}
}

// ParametersJacobian returns the Jacobian of the outputs of the Network with respect to the
// full parameter vector, with one row per output.
func (n *Network) ParametersJacobian(prop *Propagation) (*mat.Dense, error) {
	m, p := n.OutputCount(), n.ParameterCount()
	if p == 0 {
		return nil, ConfigErrorf("Can't get parameters jacobian, network has no parameters")
	}

	jac := mat.NewDense(m, p, nil)

	e := make([]float64, m)
	for k := 0; k < m; k++ {
		e[k] = 1
		row, err := n.ParametersGradient(prop, e)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to get row %d of parameters jacobian\n", k)
		}

		jac.SetRow(k, row)
		e[k] = 0
	}

	return jac, nil
}

// rows of d are scaled by the matching elements of scale
func scaleRows(d *mat.Dense, scale []float64) {
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, d.At(i, j)*scale[i])
		}
	}
}

// InputsJacobian returns the Jacobian of the outputs of the Network with respect to its
// inputs, with one row per output. It includes the dependence of the conditions layer on its
// input.
func (n *Network) InputsJacobian(inputs []float64) (*mat.Dense, error) {
	prop, err := n.Forward(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get inputs jacobian\n")
	}

	in := n.InputCount()
	jac := mat.NewDense(in, in, nil)
	for i := 0; i < in; i++ {
		jac.Set(i, i, 1)
	}

	if prop.ScalingDerivatives != nil {
		scaleRows(jac, prop.ScalingDerivatives)
	}

	for li, l := range n.mlp.layers {
		w := mat.NewDense(l.NeuronCount(), l.inputs, nil)
		for ne := range l.weights {
			w.SetRow(ne, l.weights[ne])
		}

		var next mat.Dense
		next.Mul(w, jac)
		scaleRows(&next, prop.ActivationDerivatives[li])
		jac = &next
	}

	if prop.UnscalingDerivatives != nil {
		scaleRows(jac, prop.UnscalingDerivatives)
	}

	if prop.softmax {
		_, c := jac.Dims()
		col := make([]float64, n.OutputCount())
		for j := 0; j < c; j++ {
			mat.Col(col, j, jac)
			jac.SetCol(j, n.probabilistic.backward(prop.Probabilities, col))
		}
	}

	if prop.BoundingDerivatives != nil {
		scaleRows(jac, prop.BoundingDerivatives)
	}

	if prop.conditions {
		jac.Scale(prop.Homogeneous, jac)

		x := prop.Inputs[n.conditions.InputIndex()]
		dp := n.conditions.particularDerivatives()
		dh := n.conditions.homogeneousDerivative(x)
		idx := n.conditions.InputIndex()
		for k := range dp {
			jac.Set(k, idx, jac.At(k, idx)+dp[k]+dh*prop.Raw[k])
		}
	}

	return jac, nil
}
