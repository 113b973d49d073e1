package neuralnet

import "math/rand"

// Initializer dictates how the synaptic weights of a perceptron layer will be set, given the
// random source of the Network, the number of inputs and neurons of the layer, and a blank slice
// to hold the weights. Biases are always initialized to zero.
//
// Implementations can be found in the subpackage "initializers".
type Initializer interface {
	Set(rng *rand.Rand, fanIn, fanOut int, ws []float64)
}

// DefaultSeed is the seed of the random source used by networks that are not given one.
const DefaultSeed int64 = 1

// smallUniform is the Initializer used when none is given: weights are uniform on
// (-1/fanIn, 1/fanIn).
type smallUniform struct{}

func (smallUniform) Set(rng *rand.Rand, fanIn, fanOut int, ws []float64) {
	for i := range ws {
		ws[i] = (2*rng.Float64() - 1) / float64(fanIn)
	}
}
