package risk

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curverisk/curve"
	"github.com/meenmo/curverisk/risk/config"
)

var (
	// ErrUnsupportedCurve is returned when a bump provider is handed a curve it cannot shift.
	ErrUnsupportedCurve = errors.New("risk: unsupported curve type")
	// ErrNilInstrument is returned when no instrument is attached to the provider.
	ErrNilInstrument = errors.New("risk: nil instrument")
)

// Instrument is anything priced off a projection and a discount curve.
type Instrument interface {
	PV(proj, disc *curve.Curve) float64
}

// BumpRisker computes first-order node sensitivities by central differences.
type BumpRisker struct {
	Instrument Instrument
	// BumpBP overrides the configured bump size when positive.
	BumpBP float64
}

func (b BumpRisker) bump() float64 {
	if b.BumpBP > 0 {
		return b.BumpBP
	}
	return config.GetConfig().BumpSizeBP
}

// RiskFwdZeroRates returns PV change per 1bp for each node:
//
//	dz[j] = (PV(z_j + h) - PV(z_j - h)) / 2h   on the zero rates of c
//	ds[j] = (PV(s_j + h) - PV(s_j - h)) / 2h   on the spreads of disc
//
// When c and disc are the same curve the bumped copy is used for both legs of the pricing.
func (b BumpRisker) RiskFwdZeroRates(c, disc Curve) (dz, ds *mat.VecDense, err error) {
	if isNilInterface(b.Instrument) {
		return nil, nil, ErrNilInstrument
	}
	if isNilInterface(disc) {
		disc = c
	}
	proj, ok := c.(*curve.Curve)
	if !ok || proj == nil {
		return nil, nil, fmt.Errorf("RiskFwdZeroRates: projection %T: %w", c, ErrUnsupportedCurve)
	}
	dc, ok := disc.(*curve.Curve)
	if !ok || dc == nil {
		return nil, nil, fmt.Errorf("RiskFwdZeroRates: discount %T: %w", disc, ErrUnsupportedCurve)
	}

	h := b.bump()
	self := proj == dc
	pv := b.Instrument.PV

	dz = mat.NewVecDense(proj.Len(), nil)
	for j := 0; j < proj.Len(); j++ {
		up, dn := proj.ShiftZero(j, h), proj.ShiftZero(j, -h)
		discUp, discDn := dc, dc
		if self {
			discUp, discDn = up, dn
		}
		dz.SetVec(j, (pv(up, discUp)-pv(dn, discDn))/(2*h))
	}

	ds = mat.NewVecDense(dc.Len(), nil)
	for j := 0; j < dc.Len(); j++ {
		up, dn := dc.ShiftSpread(j, h), dc.ShiftSpread(j, -h)
		projUp, projDn := proj, proj
		if self {
			projUp, projDn = up, dn
		}
		ds.SetVec(j, (pv(projUp, up)-pv(projDn, dn))/(2*h))
	}
	return dz, ds, nil
}
