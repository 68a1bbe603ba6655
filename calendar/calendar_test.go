package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/curverisk/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdjust_ModifiedFollowing(t *testing.T) {
	t.Parallel()

	// 2025-05-31 is a Saturday; following would cross into June.
	got := calendar.Adjust(calendar.TARGET, date(2025, 5, 31))
	require.True(t, got.Equal(date(2025, 5, 30)), "got %s", got)

	// 2025-05-01 is a TARGET holiday (Thursday).
	got = calendar.Adjust(calendar.TARGET, date(2025, 5, 1))
	require.True(t, got.Equal(date(2025, 5, 2)), "got %s", got)

	got = calendar.AdjustFollowing(calendar.USD, date(2025, 5, 31))
	require.True(t, got.Equal(date(2025, 6, 2)), "got %s", got)
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// Friday + 1 business day = Monday
	got := calendar.AddBusinessDays(calendar.NONE, date(2025, 11, 21), 1)
	require.True(t, got.Equal(date(2025, 11, 24)), "got %s", got)

	got = calendar.AddBusinessDays(calendar.NONE, date(2025, 11, 24), -1)
	require.True(t, got.Equal(date(2025, 11, 21)), "got %s", got)
}

func TestParse(t *testing.T) {
	t.Parallel()

	id, err := calendar.Parse(" krw ")
	require.NoError(t, err)
	require.Equal(t, calendar.KRW, id)

	id, err = calendar.Parse("")
	require.NoError(t, err)
	require.Equal(t, calendar.NONE, id)

	_, err = calendar.Parse("XYZ")
	require.Error(t, err)
}
