package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WeightScale is the number of Weight units in one whole weight.
// Weights carry four decimal places.
const WeightScale = 10000

// MaxWeight bounds a single weight so that summing a large location list cannot overflow
const MaxWeight Weight = 1_000_000_000 * WeightScale

// Weight is a non-negative fixed-point decimal stored as a count of 1/10000 units.
// Integer arithmetic keeps cumulative sums exact across any number of draws.
type Weight int64

// NewWeight creates a weight from a whole number
func NewWeight(whole int64) Weight {
	return Weight(whole * WeightScale)
}

// ParseWeight parses a decimal string such as "7", "1.2" or "0.0001".
// Digits beyond the fourth decimal place are rounded.
func ParseWeight(s string) (Weight, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("weight is empty")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q: %w", s, err)
	}

	return WeightFromFloat(f)
}

// WeightFromFloat converts a float to a weight, rejecting negative and non-finite values
func WeightFromFloat(f float64) (Weight, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("weight must be a finite number, got %v", f)
	}
	if f < 0 {
		return 0, fmt.Errorf("weight must not be negative, got %v", f)
	}

	units := math.Round(f * WeightScale)
	if units > float64(MaxWeight) {
		return 0, fmt.Errorf("weight %v exceeds maximum of %s", f, MaxWeight)
	}

	return Weight(units), nil
}

// Float64 returns the weight as a float (for display and metrics only)
func (w Weight) Float64() float64 {
	return float64(w) / WeightScale
}

// String formats the weight as a decimal with trailing zeros removed
func (w Weight) String() string {
	sign := ""
	v := int64(w)
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := v / WeightScale
	frac := v % WeightScale
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%04d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

// MarshalJSON encodes the weight as a JSON number
func (w Weight) MarshalJSON() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string
func (w *Weight) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}

	parsed, err := ParseWeight(s)
	if err != nil {
		return err
	}

	*w = parsed
	return nil
}

// MarshalYAML encodes the weight as a YAML number
func (w Weight) MarshalYAML() (interface{}, error) {
	return w.Float64(), nil
}

// UnmarshalYAML accepts integer, float or string scalars
func (w *Weight) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: weight must be a scalar", value.Line)
	}

	parsed, err := ParseWeight(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*w = parsed
	return nil
}
