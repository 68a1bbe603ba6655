package risk_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curverisk/bond"
	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/curve"
	"github.com/meenmo/curverisk/risk"
	"github.com/meenmo/curverisk/utils"
)

var settlement = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func threeNodeCurve(t *testing.T, shift float64) *curve.Curve {
	t.Helper()
	crv, err := curve.New(settlement, []curve.Node{
		{Date: settlement.AddDate(0, 0, 365), Zero: 2.8 + shift, Spread: 0.40},
		{Date: settlement.AddDate(0, 0, 730), Zero: 3.0 + shift, Spread: 0.55},
		{Date: settlement.AddDate(0, 0, 1825), Zero: 3.3 + shift, Spread: 0.80},
	}, utils.Act365F)
	require.NoError(t, err)
	return crv
}

func TestBumpRisker_SingleCashflowMatchesAnalytic(t *testing.T) {
	t.Parallel()

	crv := threeNodeCurve(t, 0)
	pay := settlement.AddDate(0, 0, 730)
	const amount = 1_000_000.0
	inst := bond.FixedCashflows{{Date: pay, Principal: amount}}

	dz, ds, err := risk.BumpRisker{Instrument: inst}.RiskFwdZeroRates(crv, nil)
	require.NoError(t, err)
	require.Equal(t, 3, dz.Len())
	require.Equal(t, 3, ds.Len())

	// dPV/dz_1 per bp for a flow sitting on node 1
	want := -amount * 2.0 * crv.DF(pay) * 1e-4
	require.InEpsilon(t, want, dz.AtVec(1), 1e-7)
	require.InDelta(t, 0.0, dz.AtVec(0), 1e-9)
	require.InDelta(t, 0.0, dz.AtVec(2), 1e-9)

	// Fixed flows on a self-discounting curve see zero and spread alike.
	require.True(t, mat.EqualApprox(dz, ds, 1e-9))
}

func TestBumpRisker_SeparateDiscount(t *testing.T) {
	t.Parallel()

	proj := threeNodeCurve(t, 0.25)
	disc := threeNodeCurve(t, 0)

	cfs, err := bond.FixedBond(100, 3.0, settlement, settlement.AddDate(4, 0, 0), 12, calendar.NONE, utils.Act365F)
	require.NoError(t, err)

	dz, ds, err := risk.BumpRisker{Instrument: cfs}.RiskFwdZeroRates(proj, disc)
	require.NoError(t, err)
	for j := 0; j < dz.Len(); j++ {
		require.Zero(t, dz.AtVec(j), "fixed flows carry no projection risk")
		require.Less(t, ds.AtVec(j), 0.0)
	}

	periods, err := bond.GenerateSchedule(settlement, settlement.AddDate(4, 0, 0), 3, calendar.NONE, utils.Act365F)
	require.NoError(t, err)
	note := bond.FloatingNote{Notional: 100, DayCount: utils.Act365F, Periods: periods}

	dz, _, err = risk.BumpRisker{Instrument: note}.RiskFwdZeroRates(proj, disc)
	require.NoError(t, err)
	// Higher forwards raise receiver coupons.
	require.Greater(t, mat.Sum(dz), 0.0)
}

func TestBumpRisker_BumpSize(t *testing.T) {
	t.Parallel()

	crv := threeNodeCurve(t, 0)
	inst := bond.FixedCashflows{
		{Date: settlement.AddDate(0, 0, 500), Coupon: 5},
		{Date: settlement.AddDate(0, 0, 1500), Coupon: 5, Principal: 100},
	}

	small, _, err := risk.BumpRisker{Instrument: inst}.RiskFwdZeroRates(crv, crv)
	require.NoError(t, err)
	large, _, err := risk.BumpRisker{Instrument: inst, BumpBP: 10}.RiskFwdZeroRates(crv, crv)
	require.NoError(t, err)

	// Central differences agree to second order in the bump size.
	require.True(t, mat.EqualApprox(small, large, 1e-5))
}

func TestBumpRisker_Errors(t *testing.T) {
	t.Parallel()

	crv := threeNodeCurve(t, 0)

	_, _, err := risk.BumpRisker{}.RiskFwdZeroRates(crv, nil)
	require.ErrorIs(t, err, risk.ErrNilInstrument)

	inst := bond.FixedCashflows{{Date: settlement.AddDate(1, 0, 0), Principal: 1}}
	stub := newStubCurve([]float64{1}, []float64{1}, 1)

	_, _, err = risk.BumpRisker{Instrument: inst}.RiskFwdZeroRates(stub, crv)
	require.ErrorIs(t, err, risk.ErrUnsupportedCurve)
	_, _, err = risk.BumpRisker{Instrument: inst}.RiskFwdZeroRates(crv, stub)
	require.ErrorIs(t, err, risk.ErrUnsupportedCurve)

	var nilCurve *curve.Curve
	_, _, err = risk.BumpRisker{Instrument: inst}.RiskFwdZeroRates(nilCurve, nil)
	require.ErrorIs(t, err, risk.ErrUnsupportedCurve)
}

func TestCrossGamma_BondPipeline(t *testing.T) {
	t.Parallel()

	crv := threeNodeCurve(t, 0)
	cfs, err := bond.FixedBond(1_000_000, 3.5, settlement, settlement.AddDate(5, 0, 0), 6, calendar.NONE, utils.Act365F)
	require.NoError(t, err)

	br := risk.BumpRisker{Instrument: cfs}
	res, err := risk.NewGamma(br).CrossGamma(crv, nil)
	require.NoError(t, err)

	require.True(t, mat.EqualApprox(res.SpreadSpread, res.SpreadSpread.T(), 1e-12))
	requireZero(t, res.ZeroZero, 3)

	dz, ds, err := br.RiskFwdZeroRates(crv, crv)
	require.NoError(t, err)
	vc := crv.VarCollection()

	// Last column of the spread-spread matrix only has the U[i,n-1] term off the diagonal.
	w := vc.DSDS.AtVec(2) * vc.D.AtVec(2)
	require.InDelta(t, -w*ds.AtVec(2)/10000, res.SpreadSpread.At(0, 2), 1e-9)
	require.InDelta(t, -2*w*ds.AtVec(2)/10000, res.SpreadSpread.At(2, 2), 1e-9)
	require.InDelta(t, -w*dz.AtVec(2)/10000, res.SpreadZero.At(1, 2), 1e-9)
	require.Zero(t, res.SpreadZero.At(2, 1))

	// Long bond, negative first-order spread risk, so dP/ds ds is positive on the diagonal.
	for i := 0; i < 3; i++ {
		require.Greater(t, res.SpreadSpread.At(i, i), 0.0)
	}
	require.False(t, math.IsNaN(mat.Sum(res.SpreadZero)))
}
