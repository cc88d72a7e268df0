package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"wednesday",
			time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday stays put",
			time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, weekStart(tt.in))
		})
	}
}

func TestGrowthPercent(t *testing.T) {
	growth, ok := growthPercent(150, 100)
	assert.True(t, ok)
	assert.InDelta(t, 50, growth, 0.001)

	growth, ok = growthPercent(80, 100)
	assert.True(t, ok)
	assert.InDelta(t, -20, growth, 0.001)

	_, ok = growthPercent(100, 0)
	assert.False(t, ok, "no growth figure without a previous week")
}
