package penalties

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// Integrand selects the function of the output that OutputIntegrals integrates.
type Integrand int8

const (
	Output Integrand = iota
	SquaredOutput
)

// Rule selects the quadrature rule of OutputIntegrals.
type Rule int8

const (
	Simpson Rule = iota
	Trapezoid
)

type outputIntegrals struct {
	net *nn.Network

	a, b      float64
	points    int
	integrand Integrand
	rule      Rule
	weight    float64
}

// OutputIntegrals returns w∫g(y(x))dx over [a, b], where x is the single input and y the
// single output of the Network, and g is either y or y². It needs no Dataset.
//
// The integral starts over [0, 1] with 101 points, g = y, Simpson's rule and a weight of 1.
func OutputIntegrals(net *nn.Network) *outputIntegrals {
	return &outputIntegrals{
		net:       net,
		a:         0,
		b:         1,
		points:    101,
		integrand: Output,
		rule:      Simpson,
		weight:    1,
	}
}

// Domain sets the bounds of the integral, returning the term.
func (p *outputIntegrals) Domain(a, b float64) *outputIntegrals {
	p.a, p.b = a, b
	return p
}

// Points sets the number of evenly spaced points that the integral is evaluated at, returning
// the term.
func (p *outputIntegrals) Points(n int) *outputIntegrals {
	p.points = n
	return p
}

// Integrand sets the function of the output that is integrated, returning the term.
func (p *outputIntegrals) Integrand(g Integrand) *outputIntegrals {
	p.integrand = g
	return p
}

// Rule sets the quadrature rule, returning the term.
func (p *outputIntegrals) Rule(r Rule) *outputIntegrals {
	p.rule = r
	return p
}

// Weight sets the weight that the integral is multiplied by, returning the term.
func (p *outputIntegrals) Weight(w float64) *outputIntegrals {
	p.weight = w
	return p
}

func (p *outputIntegrals) TypeString() string {
	return "output-integrals"
}

func (p *outputIntegrals) Check() error {
	if err := nn.CheckNetwork(p.net); err != nil {
		return errors.Wrapf(err, "Check failed for %s\n", p.TypeString())
	} else if p.net.InputCount() != 1 || p.net.OutputCount() != 1 {
		return nn.ConfigErrorf("Check failed for %s, network must have 1 input and 1 output (has %d and %d)", p.TypeString(), p.net.InputCount(), p.net.OutputCount())
	} else if !(p.a < p.b) {
		return nn.ConfigErrorf("Check failed for %s, domain is empty ([%v, %v])", p.TypeString(), p.a, p.b)
	}

	min := 3
	if p.rule == Trapezoid {
		min = 2
	}
	if p.points < min {
		return nn.ConfigErrorf("Check failed for %s, needs at least %d points (%d)", p.TypeString(), min, p.points)
	}

	return nil
}

func (p *outputIntegrals) grid() []float64 {
	xs := make([]float64, p.points)
	h := (p.b - p.a) / float64(p.points-1)
	for i := range xs {
		xs[i] = p.a + float64(i)*h
	}
	xs[len(xs)-1] = p.b

	return xs
}

func (p *outputIntegrals) integrate(xs, fs []float64) float64 {
	if p.rule == Trapezoid {
		return p.weight * integrate.Trapezoidal(xs, fs)
	}

	return p.weight * integrate.Simpsons(xs, fs)
}

func (p *outputIntegrals) evaluate(net *nn.Network) (float64, error) {
	xs := p.grid()
	fs := make([]float64, len(xs))
	for i, x := range xs {
		out, err := net.Outputs([]float64{x})
		if err != nil {
			return 0, errors.Wrapf(err, "Failed to get output at %v\n", x)
		}

		fs[i] = out[0]
		if p.integrand == SquaredOutput {
			fs[i] *= out[0]
		}
	}

	return p.integrate(xs, fs), nil
}

func (p *outputIntegrals) Evaluate() (float64, error) {
	if err := p.Check(); err != nil {
		return 0, err
	}

	return p.evaluate(p.net)
}

func (p *outputIntegrals) EvaluateAt(params []float64) (float64, error) {
	if err := p.Check(); err != nil {
		return 0, err
	}

	return nn.EvaluateAt(p.net, params, p.evaluate)
}

// gradient integrates the gradient of the integrand at each point with the same rule, one
// parameter at a time
func (p *outputIntegrals) gradient(net *nn.Network) ([]float64, error) {
	xs := p.grid()
	grads := make([][]float64, len(xs))
	for i, x := range xs {
		prop, err := net.Forward([]float64{x})
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to propagate %v\n", x)
		}

		d := 1.0
		if p.integrand == SquaredOutput {
			d = 2 * prop.Outputs[0]
		}

		if grads[i], err = net.ParametersGradient(prop, []float64{d}); err != nil {
			return nil, errors.Wrapf(err, "Failed to backpropagate %v\n", x)
		}
	}

	grad := make([]float64, net.ParameterCount())
	col := make([]float64, len(xs))
	for k := range grad {
		for i := range col {
			col[i] = grads[i][k]
		}
		grad[k] = p.integrate(xs, col)
	}

	return grad, nil
}

func (p *outputIntegrals) Gradient() ([]float64, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	return p.gradient(p.net)
}

func (p *outputIntegrals) Hessian() (*mat.SymDense, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	return nn.NumericalHessian(p.net, p.gradient)
}
