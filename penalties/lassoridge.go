package penalties

import (
	"math"

	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// **********************************************
// L1 (Lasso)
// **********************************************

// L1 returns λΣ|θ| over the neural parameters θ of the Network.
//
// λ is a small value close to 0 where λ > 0
func L1(net *nn.Network, λ float64) *elasticNet {
	return &elasticNet{net, "l1-norm", 1, λ}
}

// Lasso is a proxy for L1
func Lasso(net *nn.Network, λ float64) *elasticNet {
	return L1(net, λ)
}

// **********************************************
// L2 (Ridge)
// **********************************************

type neuralParametersNorm struct {
	elasticNet
}

// NeuralParametersNorm returns λ‖θ‖², the squared euclidean norm of the neural parameters θ of
// the Network. It is a least squares term, with one term √λθ for each neural parameter.
// Independent parameters are not penalized.
//
// λ is a small value close to 0 where λ > 0
func NeuralParametersNorm(net *nn.Network, λ float64) *neuralParametersNorm {
	return &neuralParametersNorm{elasticNet{net, "neural-parameters-norm", 0, λ}}
}

// L2 is a proxy for NeuralParametersNorm
func L2(net *nn.Network, λ float64) *neuralParametersNorm {
	return NeuralParametersNorm(net, λ)
}

// Ridge is a proxy for NeuralParametersNorm
func Ridge(net *nn.Network, λ float64) *neuralParametersNorm {
	return NeuralParametersNorm(net, λ)
}

func (p *neuralParametersNorm) Terms() ([]float64, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	terms := p.net.Parameters()[:p.net.NeuralParameterCount()]
	for i := range terms {
		terms[i] *= math.Sqrt(p.λ)
	}

	return terms, nil
}

func (p *neuralParametersNorm) TermsJacobian() (*mat.Dense, error) {
	if err := p.Check(); err != nil {
		return nil, err
	} else if p.net.NeuralParameterCount() == 0 {
		return nil, nn.ConfigErrorf("Can't get terms jacobian of %s, network has no neural parameters", p.name)
	}

	jac := mat.NewDense(p.net.NeuralParameterCount(), p.net.ParameterCount(), nil)
	for i := 0; i < p.net.NeuralParameterCount(); i++ {
		jac.Set(i, i, math.Sqrt(p.λ))
	}

	return jac, nil
}
