package penalties

import nn "github.com/JackieXie168/libNeuralNet-sub003"

// DefaultLambda is the coefficient of the norms built through the registry
const DefaultLambda float64 = 1e-3

func init() {
	list := map[string]func(nn.TermConfig) nn.PerformanceTerm{
		"neural-parameters-norm": func(c nn.TermConfig) nn.PerformanceTerm { return NeuralParametersNorm(c.Network, DefaultLambda) },
		"l1-norm":                func(c nn.TermConfig) nn.PerformanceTerm { return L1(c.Network, DefaultLambda) },
		"elastic-net":            func(c nn.TermConfig) nn.PerformanceTerm { return ElasticNet(c.Network, 0.5, DefaultLambda) },
		"output-integrals":       func(c nn.TermConfig) nn.PerformanceTerm { return OutputIntegrals(c.Network) },
	}

	for s, f := range list {
		f := f
		err := nn.RegisterTerm(s, func(c nn.TermConfig) (nn.PerformanceTerm, error) {
			t := f(c)
			return t, t.Check()
		})
		if err != nil {
			panic(err)
		}
	}
}
