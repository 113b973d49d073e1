package costfuncs

import (
	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

func init() {
	list := map[string]func(nn.TermConfig) nn.PerformanceTerm{
		"sum-squared-error":        func(c nn.TermConfig) nn.PerformanceTerm { return SumSquaredError(c.Network, c.Dataset) },
		"mean-squared-error":       func(c nn.TermConfig) nn.PerformanceTerm { return MeanSquaredError(c.Network, c.Dataset) },
		"normalized-squared-error": func(c nn.TermConfig) nn.PerformanceTerm { return NormalizedSquaredError(c.Network, c.Dataset) },
		"root-mean-squared-error":  func(c nn.TermConfig) nn.PerformanceTerm { return RootMeanSquaredError(c.Network, c.Dataset) },
		"minkowski-error":          func(c nn.TermConfig) nn.PerformanceTerm { return MinkowskiError(c.Network, c.Dataset) },
		"cross-entropy-error":      func(c nn.TermConfig) nn.PerformanceTerm { return CrossEntropyError(c.Network, c.Dataset) },
		"huber-error":              func(c nn.TermConfig) nn.PerformanceTerm { return HuberError(c.Network, c.Dataset, 1) },
	}

	for s, f := range list {
		f := f
		err := nn.RegisterTerm(s, func(c nn.TermConfig) (nn.PerformanceTerm, error) {
			t := f(c)
			return t, t.Check()
		})
		if err != nil {
			panic(err.Error())
		}
	}
}
