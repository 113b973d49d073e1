package initializers

import "math/rand"

// RNG draws single values from a distribution, using the random source it is given.
type RNG interface {
	Gen(rng *rand.Rand) float64
}

type uniformRNG struct {
	lower, upper float64
}

// UniformRNG returns an RNG that gives values uniformly spread between its bounds, which can be
// set by Bounds. The default bounds can be set by SetDefault for "uniform-lower" and
// "uniform-upper".
func UniformRNG() *uniformRNG {
	return &uniformRNG{defaultValue["uniform-lower"], defaultValue["uniform-upper"]}
}

// Bounds sets the range of a UniformRNG, returning it.
func (u *uniformRNG) Bounds(lower, upper float64) *uniformRNG {
	u.lower = lower
	u.upper = upper
	return u
}

func (u *uniformRNG) Gen(rng *rand.Rand) float64 {
	return rng.Float64()*(u.upper-u.lower) + u.lower
}

type normal struct {
	µ, σ float64
}

// Normal returns an RNG that gives values within a normal distribution. The center and standard
// deviation can be set by Mean and SD, respectively.
//
// Default centers and standard deviations can be set by SetDefault for "normal-mean" and
// "normal-sd".
func Normal() *normal {
	return &normal{defaultValue["normal-mean"], defaultValue["normal-sd"]}
}

// SD sets the value of the standard deviation of the normal distribution.
func (n *normal) SD(sd float64) *normal {
	n.σ = sd
	return n
}

// Mean sets the center of the normal distribution.
func (n *normal) Mean(mean float64) *normal {
	n.µ = mean
	return n
}

func (n *normal) Gen(rng *rand.Rand) float64 {
	return rng.NormFloat64()*n.σ + n.µ
}

type truncNormal struct {
	*normal
	trunc float64
}

// TruncNormal returns an RNG that gives values within a truncated normal distribution. The
// distribution is truncated at "trunc-sds" standard deviations, 2 by default. The center and
// standard deviation can be set by Mean and SD, as with Normal.
//
// Additionally, the number of standard deviations to truncate at can be set by Trunc.
func TruncNormal() *truncNormal {
	return &truncNormal{Normal(), defaultValue["trunc-sds"]}
}

// Trunc sets the number of standard deviations to keep on either side. Trunc will panic if
// given sds <= 0.
func (t *truncNormal) Trunc(sds float64) *truncNormal {
	if sds <= 0 {
		panic("given number of standard deviations to truncate after is <= 0")
	}

	t.trunc = sds
	return t
}

// SD sets the standard deviation of the distribution before truncation.
func (t *truncNormal) SD(sd float64) *truncNormal {
	t.normal.SD(sd)
	return t
}

// Mean sets the center of the distribution.
func (t *truncNormal) Mean(mean float64) *truncNormal {
	t.normal.Mean(mean)
	return t
}

func (t *truncNormal) Gen(rng *rand.Rand) float64 {
	for {
		v := rng.NormFloat64()
		if v < -t.trunc || v > t.trunc {
			continue
		}

		return v*t.σ + t.µ
	}
}
