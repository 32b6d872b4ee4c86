package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/model"
)

// overrideAnchor is the DTSTART given to rules that do not set one.
// It is a Monday so INTERVAL counts weeks and days from a fixed point.
var overrideAnchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// overrideMatches reports whether the override's RRule has an occurrence on the day of date.
// Rules without an explicit DTSTART are anchored to overrideAnchor, so they never match
// dates before it.
func overrideMatches(override config.RouteOverride, date time.Time) (bool, error) {
	rule, err := rrule.StrToRRule(override.RRule)
	if err != nil {
		return false, fmt.Errorf("failed to parse rrule %q: %w", override.RRule, err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)

	if rule.OrigOptions.Dtstart.IsZero() {
		rule.DTStart(overrideAnchor)
	}

	return len(rule.Between(dayStart, dayEnd, true)) > 0, nil
}

// applyOverrides returns a copy of locations with every override matching date applied
// in config order, plus the rrules of the overrides that matched
func applyOverrides(locations []model.Location, overrides []config.RouteOverride, date time.Time, logger *zap.Logger) ([]model.Location, []string, error) {
	result := slices.Clone(locations)
	applied := []string{}

	for i, override := range overrides {
		matches, err := overrideMatches(override, date)
		if err != nil {
			return nil, nil, fmt.Errorf("override %d: %w", i, err)
		}
		if !matches {
			continue
		}

		result = slices.DeleteFunc(result, func(loc model.Location) bool {
			return slices.Contains(override.Exclude, loc.Code)
		})

		for j := range result {
			loc := &result[j]
			if slices.Contains(override.LastResort, loc.Code) {
				loc.IsLastResort = true
			}
			if w, ok := override.Weights[loc.Code]; ok {
				loc.Weight = w
			}
		}

		applied = append(applied, override.RRule)

		logger.Debug("Applied override",
			zap.Int("index", i),
			zap.String("rrule", override.RRule),
			zap.Strings("exclude", override.Exclude),
			zap.Strings("last_resort", override.LastResort),
			zap.Int("weight_count", len(override.Weights)))
	}

	return result, applied, nil
}
