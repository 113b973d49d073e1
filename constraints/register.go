package constraints

import (
	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// The registered terms have all of their targets at zero. Use the constructors to set them.
func init() {
	list := map[string]func(nn.TermConfig) nn.PerformanceTerm{
		"final-solutions-error": func(c nn.TermConfig) nn.PerformanceTerm {
			var targets []float64
			if c.Model != nil {
				targets = make([]float64, c.Model.DependentCount())
			}
			return FinalSolutionsError(c.Network, c.Model, targets)
		},
		"independent-parameters-error": func(c nn.TermConfig) nn.PerformanceTerm {
			var targets []float64
			if c.Network != nil {
				targets = make([]float64, c.Network.IndependentParameterCount())
			}
			return IndependentParametersError(c.Network, targets)
		},
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
