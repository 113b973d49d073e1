package training

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	nn "github.com/JackieXie168/libNeuralNet-sub003"
)

// InverseHessianMethod is the update of the inverse Hessian approximation of QuasiNewton.
type InverseHessianMethod int8

const (
	BFGS InverseHessianMethod = iota
	DFP
)

func (m InverseHessianMethod) String() string {
	switch m {
	case BFGS:
		return "bfgs"
	case DFP:
		return "dfp"
	}

	return "unknown"
}

type quasiNewton struct {
	f *nn.PerformanceFunctional

	Common
	LineSearch LineSearch
	Method     InverseHessianMethod

	// from the last step
	h        *mat.SymDense
	params   []float64
	gradient []float64
}

// QuasiNewton returns the quasi-Newton algorithm over f, with the BFGS update. Steps follow
// -Hg, where H approximates the inverse Hessian of f from the changes in its gradient; when
// that is not a descent direction, H is reset to the identity.
func QuasiNewton(f *nn.PerformanceFunctional) *quasiNewton {
	return &quasiNewton{
		f:          f,
		Common:     defaultCommon(),
		LineSearch: DefaultLineSearch(),
		Method:     BFGS,
	}
}

func (q *quasiNewton) TypeString() string {
	return "quasi-newton"
}

// SetFirstStep sets the first step of the line search.
func (q *quasiNewton) SetFirstStep(hp nn.HyperParameter) {
	q.LineSearch.FirstStep = hp
}

func (q *quasiNewton) reset(n int) {
	q.h = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		q.h.SetSym(i, i, 1)
	}
}

// updateInverse updates the inverse Hessian approximation with the change in parameters and
// gradient since the last step. Updates with no curvature are skipped.
func (q *quasiNewton) updateInverse(s *state) {
	n := len(s.params)
	dp := make([]float64, n)
	dg := make([]float64, n)
	floats.SubTo(dp, s.params, q.params)
	floats.SubTo(dg, s.gradient, q.gradient)

	sy := floats.Dot(dp, dg)
	if !(sy > 1e-12*floats.Norm(dp, 2)*floats.Norm(dg, 2)) {
		return
	}

	vp, vg := mat.NewVecDense(n, dp), mat.NewVecDense(n, dg)
	var hy mat.VecDense
	hy.MulVec(q.h, vg)
	yhy := mat.Dot(vg, &hy)
	ρ := 1 / sy

	switch q.Method {
	case BFGS:
		// H + (ρ + ρ²yᵀHy) ssᵀ - ρ(s(Hy)ᵀ + (Hy)sᵀ)
		q.h.SymRankOne(q.h, ρ+ρ*ρ*yhy, vp)
		q.h.RankTwo(q.h, -ρ, vp, &hy)
	case DFP:
		// H + ρ ssᵀ - (Hy)(Hy)ᵀ/yᵀHy
		q.h.SymRankOne(q.h, ρ, vp)
		if yhy > 0 {
			q.h.SymRankOne(q.h, -1/yhy, &hy)
		}
	}
}

func (q *quasiNewton) direction(g []float64) []float64 {
	n := len(g)
	var d mat.VecDense
	d.MulVec(q.h, mat.NewVecDense(n, g))
	d.ScaleVec(-1, &d)
	return d.RawVector().Data
}

func (q *quasiNewton) step(iter int, s *state) (*update, error) {
	n := len(s.params)
	u := &update{params: s.params}
	if s.gradientNorm == 0 {
		return u, nil
	}

	if q.h == nil || iter == 0 {
		q.reset(n)
	} else {
		q.updateInverse(s)
	}
	q.params, q.gradient = s.params, s.gradient

	d := q.direction(s.gradient)
	slope := floats.Dot(d, s.gradient)
	if !(slope < 0) {
		q.reset(n)
		d = q.direction(s.gradient)
		slope = -s.gradientNorm * s.gradientNorm
	}

	t, _, err := q.LineSearch.search(q.f, iter, d, s.performance, slope)
	if err != nil {
		return nil, err
	}

	// retry along the gradient before giving up on the step
	if t == 0 && !isIdentity(q.h) {
		q.reset(n)
		d = q.direction(s.gradient)
		slope = -s.gradientNorm * s.gradientNorm
		if t, _, err = q.LineSearch.search(q.f, iter, d, s.performance, slope); err != nil {
			return nil, err
		}
	}

	u.direction, u.step = d, t
	if t > 0 {
		u.params = append([]float64(nil), s.params...)
		floats.AddScaled(u.params, t, d)
	}

	return u, nil
}

func isIdentity(h *mat.SymDense) bool {
	n := h.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if h.At(i, j) != want {
				return false
			}
		}
	}

	return true
}

func (q *quasiNewton) Train() (*nn.Results, error) {
	if err := checkDifferentiable(q.f, q.TypeString()); err != nil {
		return nil, err
	} else if err := q.LineSearch.check(); err != nil {
		return nil, errors.Wrapf(err, "Can't train with %s\n", q.TypeString())
	} else if q.Method != BFGS && q.Method != DFP {
		return nil, errors.Wrapf(nn.ErrUnknownType, "Can't train with %s, inverse hessian method %d\n", q.TypeString(), q.Method)
	}

	q.h = nil
	r := &run{name: q.TypeString(), f: q.f, c: &q.Common, gradient: true, step: q.step}
	return r.train()
}
