package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/curverisk/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonth_EndOfMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2025, 3, 31), -1, date(2025, 2, 28)},
		{date(2025, 1, 15), 12, date(2026, 1, 15)},
		{date(2025, 5, 31), 6, date(2025, 11, 30)},
	}
	for _, tc := range cases {
		got := utils.AddMonth(tc.in, tc.months)
		require.Truef(t, got.Equal(tc.want), "AddMonth(%s, %d) = %s, want %s",
			tc.in.Format(utils.DateLayout), tc.months, got.Format(utils.DateLayout), tc.want.Format(utils.DateLayout))
	}
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start := date(2025, 1, 1)
	end := date(2026, 1, 1)

	require.InDelta(t, 1.0, utils.YearFraction(start, end, utils.Act365F), 1e-15)
	require.InDelta(t, 365.0/360.0, utils.YearFraction(start, end, utils.Act360), 1e-15)
	require.InDelta(t, 1.0, utils.YearFraction(start, end, utils.Thirty360), 1e-15)
	require.InDelta(t, 1.0, utils.YearFraction(start, end, "unknown"), 1e-15)

	// 30E/360 caps the 31st
	require.InDelta(t, 31.0/360.0, utils.YearFraction(date(2025, 1, 31), date(2025, 3, 1), utils.ThirtyE360), 1e-15)
}

func TestParseDateAndRound(t *testing.T) {
	t.Parallel()

	d, err := utils.ParseDate("2025-11-21")
	require.NoError(t, err)
	require.True(t, d.Equal(date(2025, 11, 21)))

	_, err = utils.ParseDate("21/11/2025")
	require.Error(t, err)

	require.Equal(t, 1.2346, utils.RoundTo(1.23456, 4))

	dates := []time.Time{date(2026, 1, 1), date(2025, 1, 1)}
	utils.SortDates(dates)
	require.True(t, dates[0].Before(dates[1]))
}
