package bond

import (
	"github.com/meenmo/curverisk/curve"
)

// FloatingNote pays the projected forward plus a margin on each period.
type FloatingNote struct {
	Notional float64
	MarginBP float64
	DayCount string
	Periods  []Period
	// ExchangePrincipal adds the notional on the last pay date.
	ExchangePrincipal bool
}

// PV projects coupons off proj and discounts them on disc.
// Periods paying on or before settlement are ignored.
func (n FloatingNote) PV(proj, disc *curve.Curve) float64 {
	settlement := disc.Settlement()
	pv := 0.0
	for _, p := range n.Periods {
		if !p.PayDate.After(settlement) {
			continue
		}
		fwd := proj.ForwardRate(p.StartDate, p.EndDate, n.DayCount)
		coupon := (fwd + n.MarginBP/10000.0) * p.Accrual * n.Notional
		pv += coupon * disc.DF(p.PayDate)
	}
	if n.ExchangePrincipal && len(n.Periods) > 0 {
		last := n.Periods[len(n.Periods)-1].PayDate
		if last.After(settlement) {
			pv += n.Notional * disc.DF(last)
		}
	}
	return pv
}
