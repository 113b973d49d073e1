package neuralnet

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// ToDot returns a Graphviz rendering of the topology of the Network, with one node per enabled
// layer, in the order that values flow through them.
func (n *Network) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)
	g.AddAttr("G", "rankdir", "LR")

	var names []string
	add := func(name, label string) {
		attrs := map[string]string{
			"shape": "box",
			"label": fmt.Sprintf("%q", label),
		}
		g.AddNode("G", name, attrs)
		names = append(names, name)
	}

	add("inputs", fmt.Sprintf("inputs (%d)", n.InputCount()))

	if n.Enabled(KindScaling) {
		add("scaling", fmt.Sprintf("scaling: %s", n.scaling.Method()))
	}

	for i, l := range n.mlp.layers {
		add(fmt.Sprintf("perceptron%d", i), fmt.Sprintf("perceptron %d: %d -> %d, %s", i, l.inputs, l.NeuronCount(), l.activation))
	}

	if n.Enabled(KindUnscaling) {
		add("unscaling", fmt.Sprintf("unscaling: %s", n.unscaling.Method()))
	}
	if n.Enabled(KindProbabilistic) {
		add("probabilistic", fmt.Sprintf("probabilistic: %s", n.probabilistic.Method()))
	}
	if n.Enabled(KindBounding) {
		add("bounding", "bounding")
	}
	if n.Enabled(KindConditions) {
		add("conditions", fmt.Sprintf("conditions: %s on input %d", n.conditions.Method(), n.conditions.InputIndex()))
	}

	add("outputs", fmt.Sprintf("outputs (%d)", n.OutputCount()))

	for i := 1; i < len(names); i++ {
		g.AddEdge(names[i-1], names[i], true, nil)
	}

	if n.IndependentParameterCount() != 0 {
		add("independent", fmt.Sprintf("independent parameters (%d)", n.IndependentParameterCount()))
	}

	return g.String()
}
