package curve

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// VarCollection is the per-node decomposition consumed by second-order risk.
//
// V holds the node zero rates (decimal) and is not used by cross-gamma.
// DSDS[j] is -d ln DF_j / d s_j, which for a continuously compounded spread
// is the node time t_j. D holds the node discount factors. N is the node count.
type VarCollection struct {
	V    *mat.VecDense
	DSDS *mat.VecDense
	D    *mat.VecDense
	N    int
}

// VarCollection decomposes the curve into node vectors.
func (c *Curve) VarCollection() VarCollection {
	n := len(c.dates)
	v := make([]float64, n)
	dsds := make([]float64, n)
	d := make([]float64, n)
	for j := range c.dates {
		v[j] = c.zeros[j]
		dsds[j] = c.times[j]
		d[j] = math.Exp(-(c.zeros[j] + c.spreads[j]) * c.times[j])
	}
	return VarCollection{
		V:    mat.NewVecDense(n, v),
		DSDS: mat.NewVecDense(n, dsds),
		D:    mat.NewVecDense(n, d),
		N:    n,
	}
}
