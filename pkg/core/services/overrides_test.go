package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/model"
)

func TestOverrideMatches(t *testing.T) {
	tests := []struct {
		name  string
		rrule string
		date  time.Time
		want  bool
	}{
		{"weekend rule on saturday", "FREQ=WEEKLY;BYDAY=SA,SU", saturday, true},
		{"weekend rule on monday", "FREQ=WEEKLY;BYDAY=SA,SU", monday, false},
		{"daily rule", "FREQ=DAILY", monday, true},
		{"first monday of month", "FREQ=MONTHLY;BYDAY=1MO", monday, true},
		{"second monday of month", "FREQ=MONTHLY;BYDAY=2MO", monday, false},
		{"christmas", "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC), true},
		{"explicit dtstart before date", "DTSTART=20251201T000000Z;FREQ=DAILY;COUNT=3", monday, false},
		{"explicit dtstart covering date", "DTSTART=20260105T000000Z;FREQ=DAILY;COUNT=1", monday, true},
		{"every other day on an odd day from anchor", "FREQ=DAILY;INTERVAL=2", monday, false},
		{"every other day on an even day from anchor", "FREQ=DAILY;INTERVAL=2", monday.AddDate(0, 0, 1), true},
		{"fortnightly monday off week", "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO", monday, false},
		{"fortnightly monday on week", "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO", monday.AddDate(0, 0, 7), true},
		{"before anchor", "FREQ=DAILY", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := overrideMatches(config.RouteOverride{RRule: tt.rrule}, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverrideMatches_IntervalAcrossConsecutiveDays(t *testing.T) {
	tests := []struct {
		rrule string
		step  int
		want  int
	}{
		{"FREQ=DAILY;INTERVAL=2", 2, 30},
		{"FREQ=DAILY;INTERVAL=3", 3, 20},
		{"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO", 14, 4},
	}

	for _, tt := range tests {
		t.Run(tt.rrule, func(t *testing.T) {
			var matched []time.Time
			for day := range 60 {
				date := monday.AddDate(0, 0, day)
				ok, err := overrideMatches(config.RouteOverride{RRule: tt.rrule}, date)
				require.NoError(t, err)
				if ok {
					matched = append(matched, date)
				}
			}

			require.Len(t, matched, tt.want)
			for i := 1; i < len(matched); i++ {
				assert.Equal(t, tt.step, int(matched[i].Sub(matched[i-1]).Hours()/24))
			}
		})
	}
}

func TestOverrideMatches_InvalidRRule(t *testing.T) {
	_, err := overrideMatches(config.RouteOverride{RRule: "NOT_A_RULE"}, monday)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	locations := testLocations()
	overrides := []config.RouteOverride{
		{
			RRule:   "FREQ=WEEKLY;BYDAY=SA",
			Exclude: []string{"DUL"},
			Weights: map[string]model.Weight{"MAC": model.NewWeight(9)},
		},
		{
			RRule:      "FREQ=WEEKLY;BYDAY=MO",
			LastResort: []string{"MAC"},
		},
		{
			RRule:   "FREQ=DAILY",
			Weights: map[string]model.Weight{"MIN": 0, "UNKNOWN": model.NewWeight(1)},
		},
	}

	result, applied, err := applyOverrides(locations, overrides, saturday, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"FREQ=WEEKLY;BYDAY=SA", "FREQ=DAILY"}, applied)
	assert.Equal(t, []string{"MIN", "MAC", "STP", "MOR"}, model.Codes(result))
	assert.Equal(t, model.Weight(0), result[0].Weight)
	assert.Equal(t, model.NewWeight(9), result[1].Weight)
	assert.False(t, result[1].IsLastResort)

	// The caller's slice is untouched
	assert.Equal(t, testLocations(), locations)
}

func TestApplyOverrides_NoOverrides(t *testing.T) {
	result, applied, err := applyOverrides(testLocations(), nil, monday, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, testLocations(), result)
	assert.Empty(t, applied)
}
