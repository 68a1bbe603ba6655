package risk

import (
	"reflect"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curverisk/curve"
)

// bpScale rescales per-unit second-order terms to the basis-point convention.
const bpScale = 10000.0

// Curve is any term structure that decomposes into per-node vectors.
type Curve interface {
	VarCollection() curve.VarCollection
}

// Sensitivities supplies first-order price sensitivities per node:
// dz to the zero rates of c, ds to the spreads of disc.
type Sensitivities interface {
	RiskFwdZeroRates(c, disc Curve) (dz, ds *mat.VecDense, err error)
}

// Result holds the three n×n second-order sensitivity matrices.
type Result struct {
	// SpreadSpread is dP/ds ds. Symmetric.
	SpreadSpread *mat.Dense
	// SpreadZero is dP/ds dz. Not symmetric.
	SpreadZero *mat.Dense
	// ZeroZero is dP/dz dz. Not modelled, always the zero matrix.
	ZeroZero *mat.Dense
}

// Parallel sums each matrix, giving the second-order response to parallel shifts.
func (r Result) Parallel() (ss, sz, zz float64) {
	return mat.Sum(r.SpreadSpread), mat.Sum(r.SpreadZero), mat.Sum(r.ZeroZero)
}

// Gamma computes cross-gamma from first-order sensitivities.
type Gamma struct {
	Risk Sensitivities
}

// NewGamma returns a Gamma backed by risk.
func NewGamma(risk Sensitivities) *Gamma {
	return &Gamma{Risk: risk}
}

// CrossGamma returns (dP/ds ds, dP/ds dz, dP/dz dz) for c discounted on disc.
// A nil disc means c discounts itself.
//
// With w = dsds ⊙ d taken from disc's var collection, U[i,j] = w[j]·ds[j] for
// j >= i and zero below the diagonal:
//
//	dP/ds ds = -(U + Uᵀ) / 10000
//	dP/ds dz = -U' / 10000, U' built with dz in place of ds
//	dP/dz dz = 0
//
// Inputs are not validated. A length mismatch between dsds, d, ds, dz and n
// is returned as the gonum error (mat.ErrShape, mat.ErrZeroLength, ...).
func (g *Gamma) CrossGamma(c, disc Curve) (res Result, err error) {
	if isNilInterface(disc) {
		disc = c
	}
	vc := disc.VarCollection()

	dz, ds, err := g.Risk.RiskFwdZeroRates(c, disc)
	if err != nil {
		return Result{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(mat.Error)
			if !ok {
				panic(r)
			}
			res, err = Result{}, e
		}
	}()

	n := vc.N
	upper := upperBroadcast(vc.DSDS, vc.D, n)

	u := mat.NewDense(n, n, nil)
	u.Mul(upper, diagonal(n, ds))
	ss := mat.NewDense(n, n, nil)
	ss.Add(u, u.T())
	ss.Scale(-1/bpScale, ss)

	sz := mat.NewDense(n, n, nil)
	sz.Mul(upper, diagonal(n, dz))
	sz.Scale(-1/bpScale, sz)

	return Result{
		SpreadSpread: ss,
		SpreadZero:   sz,
		ZeroZero:     mat.NewDense(n, n, nil),
	}, nil
}

// upperBroadcast returns M with M[i,j] = dsds[j]·d[j] for j >= i, else 0.
func upperBroadcast(dsds, d mat.Vector, n int) *mat.Dense {
	w := mat.NewVecDense(n, nil)
	w.MulElemVec(dsds, d)

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	m := mat.NewDense(n, n, nil)
	m.Outer(1, mat.NewVecDense(n, ones), w)
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			m.Set(i, j, 0)
		}
	}
	return m
}

func diagonal(n int, v mat.Vector) *mat.DiagDense {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return mat.NewDiagDense(n, data)
}

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
