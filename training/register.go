package training

import (
	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

func init() {
	list := map[string]nn.AlgorithmFactory{
		"gradient-descent":    func(f *nn.PerformanceFunctional) nn.TrainingAlgorithm { return GradientDescent(f) },
		"quasi-newton":        func(f *nn.PerformanceFunctional) nn.TrainingAlgorithm { return QuasiNewton(f) },
		"random-search":       func(f *nn.PerformanceFunctional) nn.TrainingAlgorithm { return RandomSearch(f, nil) },
		"levenberg-marquardt": func(f *nn.PerformanceFunctional) nn.TrainingAlgorithm { return LevenbergMarquardt(f) },
	}

	for s, f := range list {
		err := nn.RegisterAlgorithm(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
