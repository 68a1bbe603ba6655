package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/curverisk/calendar"
	"github.com/meenmo/curverisk/utils"
)

// GenerateSchedule rolls backward from maturity in steps of freqMonths,
// leaving any stub at the front, and adjusts every date Modified Following on cal.
func GenerateSchedule(effective, maturity time.Time, freqMonths int, cal calendar.CalendarID, dayCount string) ([]Period, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("GenerateSchedule: maturity %s not after effective %s",
			maturity.Format(utils.DateLayout), effective.Format(utils.DateLayout))
	}
	if freqMonths <= 0 {
		return nil, fmt.Errorf("GenerateSchedule: unsupported frequency %d", freqMonths)
	}

	unadjusted := []time.Time{maturity}
	for k := 1; ; k++ {
		d := utils.AddMonth(maturity, -freqMonths*k)
		if !d.After(effective) {
			break
		}
		unadjusted = append(unadjusted, d)
	}
	unadjusted = append(unadjusted, effective)

	periods := make([]Period, 0, len(unadjusted)-1)
	for i := len(unadjusted) - 1; i > 0; i-- {
		start := calendar.Adjust(cal, unadjusted[i])
		end := calendar.Adjust(cal, unadjusted[i-1])
		periods = append(periods, Period{
			StartDate: start,
			EndDate:   end,
			PayDate:   end,
			Accrual:   utils.YearFraction(start, end, dayCount),
		})
	}
	return periods, nil
}
