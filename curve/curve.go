package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/curverisk/utils"
)

var (
	// ErrNoNodes is returned when a curve is built without any node after settlement.
	ErrNoNodes = errors.New("curve: no nodes")
	// ErrDuplicateNode is returned when two nodes share a date.
	ErrDuplicateNode = errors.New("curve: duplicate node date")
)

// Node is a single curve pillar. Zero and Spread are continuously compounded, in percent.
type Node struct {
	Date   time.Time
	Zero   float64
	Spread float64
}

// Curve is a zero-rate term structure with an additive discount spread.
//
// Discounting uses DF(t) = exp(-(z(t)+s(t))*t). Both z(t)*t and s(t)*t are
// linearly interpolated in curve time (log-linear on the discount factor)
// and extrapolated at a flat rate outside the node range. Forward rates for
// projection ignore the spread component.
type Curve struct {
	settlement time.Time
	dayCount   string
	dates      []time.Time
	times      []float64
	zeros      []float64 // decimal
	spreads    []float64 // decimal
}

// New builds a curve from nodes. Nodes are sorted by date; each must fall after settlement.
func New(settlement time.Time, nodes []Node, dayCount string) (*Curve, error) {
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	if dayCount == "" {
		dayCount = utils.Act365F
	}

	sorted := make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	c := &Curve{
		settlement: settlement,
		dayCount:   dayCount,
		dates:      make([]time.Time, 0, len(sorted)),
		times:      make([]float64, 0, len(sorted)),
		zeros:      make([]float64, 0, len(sorted)),
		spreads:    make([]float64, 0, len(sorted)),
	}
	for i, n := range sorted {
		if i > 0 && n.Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("curve.New: %s: %w", n.Date.Format(utils.DateLayout), ErrDuplicateNode)
		}
		tau := utils.YearFraction(settlement, n.Date, dayCount)
		if tau <= 0 {
			return nil, fmt.Errorf("curve.New: node %s not after settlement %s",
				n.Date.Format(utils.DateLayout), settlement.Format(utils.DateLayout))
		}
		c.dates = append(c.dates, n.Date)
		c.times = append(c.times, tau)
		c.zeros = append(c.zeros, n.Zero/100.0)
		c.spreads = append(c.spreads, n.Spread/100.0)
	}
	return c, nil
}

// clone returns a deep copy so bumps never touch the receiver.
func (c *Curve) clone() *Curve {
	out := &Curve{settlement: c.settlement, dayCount: c.dayCount}
	out.dates = append([]time.Time(nil), c.dates...)
	out.times = append([]float64(nil), c.times...)
	out.zeros = append([]float64(nil), c.zeros...)
	out.spreads = append([]float64(nil), c.spreads...)
	return out
}

// integrated returns r(tau)*tau for the node rates in rates.
func (c *Curve) integrated(rates []float64, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	n := len(c.times)
	if tau <= c.times[0] {
		return rates[0] * tau
	}
	if tau >= c.times[n-1] {
		return rates[n-1] * tau
	}
	i := sort.SearchFloat64s(c.times, tau)
	if c.times[i] == tau {
		return rates[i] * tau
	}
	t1, t2 := c.times[i-1], c.times[i]
	y1, y2 := rates[i-1]*t1, rates[i]*t2
	return y1 + (y2-y1)*(tau-t1)/(t2-t1)
}

func (c *Curve) tau(t time.Time) float64 {
	return utils.YearFraction(c.settlement, t, c.dayCount)
}

// DF returns the spread-inclusive discount factor at t.
func (c *Curve) DF(t time.Time) float64 {
	tau := c.tau(t)
	return math.Exp(-(c.integrated(c.zeros, tau) + c.integrated(c.spreads, tau)))
}

// ProjectionDF returns the discount factor of the zero component alone.
func (c *Curve) ProjectionDF(t time.Time) float64 {
	return math.Exp(-c.integrated(c.zeros, c.tau(t)))
}

// ZeroRateAt returns the interpolated zero rate at t in percent.
func (c *Curve) ZeroRateAt(t time.Time) float64 {
	return c.rateAt(c.zeros, t)
}

// SpreadAt returns the interpolated discount spread at t in percent.
func (c *Curve) SpreadAt(t time.Time) float64 {
	return c.rateAt(c.spreads, t)
}

func (c *Curve) rateAt(rates []float64, t time.Time) float64 {
	tau := c.tau(t)
	if tau <= 0 {
		return rates[0] * 100
	}
	return c.integrated(rates, tau) / tau * 100
}

// ForwardRate returns the simple forward rate (decimal) between start and end
// accrued on dayCount, off the zero component.
func (c *Curve) ForwardRate(start, end time.Time, dayCount string) float64 {
	alpha := utils.YearFraction(start, end, dayCount)
	if alpha == 0 {
		return 0
	}
	return (c.ProjectionDF(start)/c.ProjectionDF(end) - 1.0) / alpha
}

// ShiftZero returns a copy with the zero rate of node i moved by bp basis points.
// i == -1 shifts every node.
func (c *Curve) ShiftZero(i int, bp float64) *Curve {
	out := c.clone()
	shift(out.zeros, i, bp, "ShiftZero")
	return out
}

// ShiftSpread returns a copy with the spread of node i moved by bp basis points.
// i == -1 shifts every node.
func (c *Curve) ShiftSpread(i int, bp float64) *Curve {
	out := c.clone()
	shift(out.spreads, i, bp, "ShiftSpread")
	return out
}

func shift(rates []float64, i int, bp float64, op string) {
	if i == -1 {
		for k := range rates {
			rates[k] += bp / 10000.0
		}
		return
	}
	if i < 0 || i >= len(rates) {
		panic(fmt.Sprintf("%s: node %d out of range [0,%d)", op, i, len(rates)))
	}
	rates[i] += bp / 10000.0
}

// Settlement returns the curve's settlement date.
func (c *Curve) Settlement() time.Time {
	return c.settlement
}

// DayCount returns the curve time basis.
func (c *Curve) DayCount() string {
	return c.dayCount
}

// Len returns the number of nodes.
func (c *Curve) Len() int {
	return len(c.dates)
}

// Nodes returns the curve pillars with rates in percent.
func (c *Curve) Nodes() []Node {
	out := make([]Node, len(c.dates))
	for i, d := range c.dates {
		out[i] = Node{Date: d, Zero: c.zeros[i] * 100, Spread: c.spreads[i] * 100}
	}
	return out
}

// Times returns node times in years from settlement.
func (c *Curve) Times() []float64 {
	return append([]float64(nil), c.times...)
}
