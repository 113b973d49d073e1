package hyperparams

import (
	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

func init() {
	list := map[string]func() nn.HyperParameter{
		Constant(0).TypeString(): func() nn.HyperParameter { return Constant(1) },
		Step(0).TypeString():     func() nn.HyperParameter { return Step(1) },
		Decay(0, 0).TypeString(): func() nn.HyperParameter { return Decay(1, 0.99) },
	}

	for s, f := range list {
		err := nn.RegisterHyperParameter(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
