// Package penalties provides regularization terms. The norms act on the neural parameters of a
// Network, its biases and weights, and never on its independent parameters.
package penalties

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

type elasticNet struct {
	net  *nn.Network
	name string

	α float64
	λ float64
}

// ElasticNet returns λ((1 - α)Σθ² + αΣ|θ|) over the neural parameters θ of the Network.
//
// λ is a small value close to 0 where λ > 0,
// α is a value that controls the ratio between L1 and L2
// Regularization, where 0 ≤ α ≤ 1. α = 1 is functionally identical to L1 and α = 0 is equivalent
// to L2.
func ElasticNet(net *nn.Network, α, λ float64) *elasticNet {
	return &elasticNet{net, "elastic-net", α, λ}
}

func (p *elasticNet) TypeString() string {
	return p.name
}

func (p *elasticNet) Check() error {
	if err := nn.CheckNetwork(p.net); err != nil {
		return errors.Wrapf(err, "Check failed for %s\n", p.name)
	} else if p.λ < 0 || math.IsNaN(p.λ) {
		return nn.ConfigErrorf("Check failed for %s, λ must be >= 0 (%v)", p.name, p.λ)
	} else if !(p.α >= 0 && p.α <= 1) {
		return nn.ConfigErrorf("Check failed for %s, α must be within [0, 1] (%v)", p.name, p.α)
	}

	return nil
}

func (p *elasticNet) value(params []float64) float64 {
	var sq, abs float64
	for _, θ := range params[:p.net.NeuralParameterCount()] {
		sq += θ * θ
		abs += math.Abs(θ)
	}

	return p.λ * ((1-p.α)*sq + p.α*abs)
}

func (p *elasticNet) Evaluate() (float64, error) {
	if err := p.Check(); err != nil {
		return 0, err
	}

	return p.value(p.net.Parameters()), nil
}

// EvaluateAt does not need to copy the Network, as the term only depends on the parameters.
func (p *elasticNet) EvaluateAt(params []float64) (float64, error) {
	if err := p.Check(); err != nil {
		return 0, err
	} else if len(params) != p.net.ParameterCount() {
		return 0, errors.WithStack(nn.SizeMismatchError{Expected: p.net.ParameterCount(), Got: len(params), What: "parameters"})
	}

	return p.value(params), nil
}

func (p *elasticNet) Gradient() ([]float64, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	params := p.net.Parameters()
	grad := make([]float64, len(params))
	for i, θ := range params[:p.net.NeuralParameterCount()] {
		grad[i] = 2 * p.λ * (1 - p.α) * θ
		if θ != 0 {
			grad[i] += p.λ * p.α * math.Copysign(1, θ)
		}
	}

	return grad, nil
}

// Hessian is 2λ(1 - α) on the diagonal of the neural parameters and zero elsewhere.
func (p *elasticNet) Hessian() (*mat.SymDense, error) {
	if err := p.Check(); err != nil {
		return nil, err
	} else if p.net.ParameterCount() == 0 {
		return nil, nn.ConfigErrorf("Can't get hessian of %s, network has no parameters", p.name)
	}

	hess := mat.NewSymDense(p.net.ParameterCount(), nil)
	for i := 0; i < p.net.NeuralParameterCount(); i++ {
		hess.SetSym(i, i, 2*p.λ*(1-p.α))
	}

	return hess, nil
}
