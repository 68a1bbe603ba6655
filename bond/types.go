package bond

import "time"

// Cashflow is a single dated cash payment.
//
// Amounts are in currency units, not price-per-100.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Period is one accrual period of a schedule, business-day adjusted.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
	Accrual   float64
}
