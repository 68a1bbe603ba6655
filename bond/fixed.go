package bond

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/curve"
)

// FixedCashflows is a stream of known cashflows.
type FixedCashflows []Cashflow

// PV discounts every cashflow paid after the discount curve's settlement on disc.
// The projection curve is unused; fixed flows carry no forward exposure.
func (f FixedCashflows) PV(_, disc *curve.Curve) float64 {
	settlement := disc.Settlement()
	amounts := make([]float64, 0, len(f))
	dfs := make([]float64, 0, len(f))
	for _, cf := range f {
		if !cf.Date.After(settlement) {
			continue
		}
		amounts = append(amounts, cf.Amount())
		dfs = append(dfs, disc.DF(cf.Date))
	}
	if len(amounts) == 0 {
		return 0
	}
	return floats.Dot(amounts, dfs)
}

// FixedBond builds the cashflows of a bullet bond paying couponPct on notional.
func FixedBond(notional, couponPct float64, effective, maturity time.Time, freqMonths int, cal calendar.CalendarID, dayCount string) (FixedCashflows, error) {
	periods, err := GenerateSchedule(effective, maturity, freqMonths, cal, dayCount)
	if err != nil {
		return nil, err
	}
	out := make(FixedCashflows, 0, len(periods))
	for i, p := range periods {
		cf := Cashflow{Date: p.PayDate, Coupon: notional * couponPct / 100.0 * p.Accrual}
		if i == len(periods)-1 {
			cf.Principal = notional
		}
		out = append(out, cf)
	}
	return out, nil
}
