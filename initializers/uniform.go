package initializers

import "math/rand"

type uniform struct {
	lower, upper float64
}

// Uniform returns an Initializer that draws from a uniform random sample within a range, which
// can be set by Range. The defaults ("uniform-lower" and "uniform-upper") can be set by
// SetDefault.
//
// Zero is never drawn, so that no neuron starts disconnected from one of its inputs.
func Uniform() *uniform {
	return &uniform{defaultValue["uniform-lower"], defaultValue["uniform-upper"]}
}

// Range sets the Range of a Uniform Initializer, returning the same Initializer
func (u *uniform) Range(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

func (u *uniform) Set(rng *rand.Rand, fanIn, fanOut int, ws []float64) {
	lower, upper := u.lower, u.upper
	if lower > upper {
		lower, upper = upper, lower
	}

	for i := 0; i < len(ws); i++ {
		w := rng.Float64()*(upper-lower) + lower
		if w == 0 && lower != upper {
			// discard and try again
			i--
			continue
		}
		ws[i] = w
	}
}

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the weights. There is no
// scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

func (r random) Set(rng *rand.Rand, fanIn, fanOut int, ws []float64) {
	for i := range ws {
		ws[i] = r.Gen(rng)
	}
}
