package neuralnet

// ConditionsMethod selects how many boundary conditions a ConditionsLayer enforces.
type ConditionsMethod int8

const (
	NoConditions ConditionsMethod = iota
	OneCondition
	TwoConditions
)

func (m ConditionsMethod) String() string {
	switch m {
	case NoConditions:
		return "no-conditions"
	case OneCondition:
		return "one-condition"
	case TwoConditions:
		return "two-conditions"
	}

	return "unknown"
}

// ConditionsLayer forces the outputs of a Network to take exact values at one or two boundary
// values of one of its inputs. The output is
//	particular(x) + homogeneous(x) * raw
// where x is the raw network input at InputIndex and raw is the output of the preceding layers.
//
// With a single condition, the particular solution is the constant yA and the homogeneous
// solution is x - xA. With two conditions, the particular solution linearly interpolates from
// yA to yB and the homogeneous solution is (x - xA)(xB - x).
type ConditionsLayer struct {
	method     ConditionsMethod
	inputIndex int

	xA, xB float64
	yA, yB []float64
}

// OneConditionLayer returns a layer enforcing outputs of yA where input number index is xA.
func OneConditionLayer(index int, xA float64, yA []float64) *ConditionsLayer {
	return &ConditionsLayer{
		method:     OneCondition,
		inputIndex: index,
		xA:         xA,
		yA:         append([]float64(nil), yA...),
		yB:         make([]float64, len(yA)),
	}
}

// TwoConditionsLayer returns a layer enforcing outputs of yA where input number index is xA and
// of yB where it is xB.
func TwoConditionsLayer(index int, xA, xB float64, yA, yB []float64) (*ConditionsLayer, error) {
	if len(yA) != len(yB) {
		return nil, ConfigErrorf("Can't make conditions layer, len(yA) != len(yB) (%d != %d)", len(yA), len(yB))
	} else if xA == xB {
		return nil, ConfigErrorf("Can't make conditions layer, boundary inputs are equal (%v)", xA)
	}

	c := &ConditionsLayer{
		method:     TwoConditions,
		inputIndex: index,
		xA:         xA,
		xB:         xB,
		yA:         append([]float64(nil), yA...),
		yB:         append([]float64(nil), yB...),
	}
	return c, nil
}

// Method returns the number of conditions that the layer enforces.
func (c *ConditionsLayer) Method() ConditionsMethod {
	return c.method
}

// InputIndex returns the index of the network input that the conditions are imposed on.
func (c *ConditionsLayer) InputIndex() int {
	return c.inputIndex
}

// Count returns the number of outputs the layer acts on.
func (c *ConditionsLayer) Count() int {
	return len(c.yA)
}

// Boundaries returns the boundary input values. xB is meaningless with a single condition.
func (c *ConditionsLayer) Boundaries() (xA, xB float64) {
	return c.xA, c.xB
}

// Particular returns the particular solution at x, for every output.
func (c *ConditionsLayer) Particular(x float64) []float64 {
	ps := append([]float64(nil), c.yA...)
	if c.method != TwoConditions {
		return ps
	}

	t := (x - c.xA) / (c.xB - c.xA)
	for i := range ps {
		switch x {
		// exact at the boundaries, regardless of rounding in t
		case c.xA:
			ps[i] = c.yA[i]
		case c.xB:
			ps[i] = c.yB[i]
		default:
			ps[i] = c.yA[i] + (c.yB[i]-c.yA[i])*t
		}
	}

	return ps
}

// Homogeneous returns the homogeneous solution at x, which is shared by every output.
func (c *ConditionsLayer) Homogeneous(x float64) float64 {
	switch c.method {
	case OneCondition:
		return x - c.xA
	case TwoConditions:
		return (x - c.xA) * (c.xB - x)
	}

	return 1
}

// particularDerivatives returns d(particular)/dx for every output
func (c *ConditionsLayer) particularDerivatives() []float64 {
	ds := make([]float64, len(c.yA))
	if c.method == TwoConditions {
		for i := range ds {
			ds[i] = (c.yB[i] - c.yA[i]) / (c.xB - c.xA)
		}
	}

	return ds
}

// homogeneousDerivative returns d(homogeneous)/dx
func (c *ConditionsLayer) homogeneousDerivative(x float64) float64 {
	switch c.method {
	case OneCondition:
		return 1
	case TwoConditions:
		return c.xA + c.xB - 2*x
	}

	return 0
}

// Outputs returns particular + homogeneous * raw, given x
func (c *ConditionsLayer) Outputs(x float64, raw []float64) []float64 {
	if c.method == NoConditions {
		return append([]float64(nil), raw...)
	}

	out := c.Particular(x)
	h := c.Homogeneous(x)
	for i := range out {
		out[i] += h * raw[i]
	}

	return out
}

func (c *ConditionsLayer) clone() *ConditionsLayer {
	d := *c
	d.yA = append([]float64(nil), c.yA...)
	d.yB = append([]float64(nil), c.yB...)
	return &d
}
