package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// derivs gives dz/dx, setting it into dz
type derivs func(x float64, z, dz []float64) error

// rk4 takes one classic fourth order Runge-Kutta step of length h from (x, z), returning the
// new state
func rk4(f derivs, x float64, z []float64, h float64) ([]float64, error) {
	n := len(z)
	k1, k2, k3, k4 := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	tmp := make([]float64, n)

	if err := f(x, z, k1); err != nil {
		return nil, err
	}

	floats.AddScaledTo(tmp, z, h/2, k1)
	if err := f(x+h/2, tmp, k2); err != nil {
		return nil, err
	}

	floats.AddScaledTo(tmp, z, h/2, k2)
	if err := f(x+h/2, tmp, k3); err != nil {
		return nil, err
	}

	floats.AddScaledTo(tmp, z, h, k3)
	if err := f(x+h, tmp, k4); err != nil {
		return nil, err
	}

	next := make([]float64, n)
	for i := range next {
		next[i] = z[i] + h/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return next, nil
}

// Runge-Kutta-Fehlberg tableau
var (
	fehlbergC = [6]float64{0, 1.0 / 4, 3.0 / 8, 12.0 / 13, 1, 1.0 / 2}
	fehlbergA = [6][5]float64{
		{},
		{1.0 / 4},
		{3.0 / 32, 9.0 / 32},
		{1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197},
		{439.0 / 216, -8, 3680.0 / 513, -845.0 / 4104},
		{-8.0 / 27, 2, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40},
	}
	fehlberg4 = [6]float64{25.0 / 216, 0, 1408.0 / 2565, 2197.0 / 4104, -1.0 / 5, 0}
	fehlberg5 = [6]float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55}
)

// rkf45 takes one Runge-Kutta-Fehlberg step of length h from (x, z), returning the fourth order
// solution and the largest difference between it and the fifth order solution
func rkf45(f derivs, x float64, z []float64, h float64) ([]float64, float64, error) {
	n := len(z)
	var k [6][]float64
	tmp := make([]float64, n)

	for s := range k {
		copy(tmp, z)
		for j := 0; j < s; j++ {
			floats.AddScaled(tmp, h*fehlbergA[s][j], k[j])
		}

		k[s] = make([]float64, n)
		if err := f(x+fehlbergC[s]*h, tmp, k[s]); err != nil {
			return nil, 0, err
		}
	}

	next := append([]float64(nil), z...)
	var diff float64
	for i := range next {
		var d4, d5 float64
		for s := range k {
			d4 += fehlberg4[s] * k[s][i]
			d5 += fehlberg5[s] * k[s][i]
		}

		next[i] += h * d4
		diff = math.Max(diff, math.Abs(h*(d5-d4)))
	}

	return next, diff, nil
}
