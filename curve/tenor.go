package curve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/utils"
)

// TenorDate rolls settlement forward by a tenor string like "2D", "1W", "3M", "10Y"
// and applies Modified Following on cal.
func TenorDate(settlement time.Time, tenor string, cal calendar.CalendarID) (time.Time, error) {
	s := strings.TrimSpace(strings.ToUpper(tenor))
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("TenorDate: invalid tenor %q", tenor)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("TenorDate: invalid tenor %q", tenor)
	}

	var d time.Time
	switch s[len(s)-1] {
	case 'D':
		d = settlement.AddDate(0, 0, n)
	case 'W':
		d = settlement.AddDate(0, 0, 7*n)
	case 'M':
		d = utils.AddMonth(settlement, n)
	case 'Y':
		d = utils.AddMonth(settlement, 12*n)
	default:
		return time.Time{}, fmt.Errorf("TenorDate: invalid tenor unit in %q", tenor)
	}
	return calendar.Adjust(cal, d), nil
}

// FromTenors builds a curve from tenor-keyed zero rates and spreads (percent).
// A tenor missing from spreads carries a zero spread; a spread tenor missing
// from zeros is an error.
func FromTenors(settlement time.Time, cal calendar.CalendarID, zeros, spreads map[string]float64, dayCount string) (*Curve, error) {
	if len(zeros) == 0 {
		return nil, ErrNoNodes
	}
	for tenor := range spreads {
		if _, ok := zeros[tenor]; !ok {
			return nil, fmt.Errorf("FromTenors: spread tenor %q has no zero rate", tenor)
		}
	}

	nodes := make([]Node, 0, len(zeros))
	for tenor, z := range zeros {
		d, err := TenorDate(settlement, tenor, cal)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{Date: d, Zero: z, Spread: spreads[tenor]})
	}
	return New(settlement, nodes, dayCount)
}
