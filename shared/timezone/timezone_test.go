package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travel/shared/timezone"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.GetLocation(), now.Location())
}

func TestParseDate(t *testing.T) {
	date, err := timezone.ParseDate("2024-03-10")

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, "2024-03-10", timezone.FormatDate(date))

	_, err = timezone.ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{name: "three nights", start: "2024-01-10", end: "2024-01-13", expected: 3},
		{name: "same day", start: "2024-01-10", end: "2024-01-10", expected: 0},
		{name: "reversed", start: "2024-01-13", end: "2024-01-10", expected: -3},
		{name: "across month end", start: "2024-01-30", end: "2024-02-02", expected: 3},
		{name: "across dst change", start: "2024-03-30", end: "2024-04-01", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := timezone.ParseDate(tt.start)
			assert.NoError(t, err)

			end, err := timezone.ParseDate(tt.end)
			assert.NoError(t, err)

			assert.Equal(t, tt.expected, timezone.DaysBetween(start, end))
		})
	}
}
