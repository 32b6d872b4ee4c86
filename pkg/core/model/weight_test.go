package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseWeight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Weight
	}{
		{"whole number", "7", 70000},
		{"one decimal", "1.2", 12000},
		{"four decimals", "0.0001", 1},
		{"zero", "0", 0},
		{"surrounding whitespace", " 9.9 ", 99000},
		{"rounds fifth decimal", "0.00005", 1},
		{"rounds fifth decimal down", "0.00004", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWeight(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, w)
		})
	}
}

func TestParseWeight_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"negative", "-1"},
		{"not a number", "heavy"},
		{"infinite", "Inf"},
		{"NaN", "NaN"},
		{"too large", "1e12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeight(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestWeightFromFloat_RejectsNaN(t *testing.T) {
	_, err := WeightFromFloat(math.NaN())
	assert.Error(t, err)
}

func TestWeightString(t *testing.T) {
	assert.Equal(t, "7", NewWeight(7).String())
	assert.Equal(t, "1.2", Weight(12000).String())
	assert.Equal(t, "0.0001", Weight(1).String())
	assert.Equal(t, "3.85", Weight(38500).String())
	assert.Equal(t, "0", Weight(0).String())
}

func TestWeightFloat64(t *testing.T) {
	assert.InDelta(t, 6.6, Weight(66000).Float64(), 1e-9)
}

func TestWeightJSON(t *testing.T) {
	loc := Location{Code: "aaa", Weight: Weight(12000)}

	data, err := json.Marshal(loc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"weight":1.2`)

	var decoded Location
	require.NoError(t, json.Unmarshal([]byte(`{"code":"bbb","weight":"3.8"}`), &decoded))
	assert.Equal(t, Weight(38000), decoded.Weight)

	require.NoError(t, json.Unmarshal([]byte(`{"code":"ccc","weight":10}`), &decoded))
	assert.Equal(t, NewWeight(10), decoded.Weight)

	assert.Error(t, json.Unmarshal([]byte(`{"code":"ddd","weight":-2}`), &decoded))
}

func TestWeightYAML(t *testing.T) {
	input := `
- code: aaa
  weight: 1.2
- code: bbb
  weight: 7
  isLastResort: true
- code: ccc
  weight: "2.5"
`
	var locations []Location
	require.NoError(t, yaml.Unmarshal([]byte(input), &locations))
	require.Len(t, locations, 3)

	assert.Equal(t, Weight(12000), locations[0].Weight)
	assert.Equal(t, NewWeight(7), locations[1].Weight)
	assert.True(t, locations[1].IsLastResort)
	assert.Equal(t, Weight(25000), locations[2].Weight)

	out, err := yaml.Marshal(locations[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), "weight: 1.2")
}

func TestWeightYAML_Negative(t *testing.T) {
	var loc Location
	err := yaml.Unmarshal([]byte("code: aaa\nweight: -3\n"), &loc)
	assert.Error(t, err)
}

func TestCodes(t *testing.T) {
	locations := []Location{{Code: "aaa"}, {Code: "bbb"}}
	assert.Equal(t, []string{"aaa", "bbb"}, Codes(locations))

	prioritized := []PrioritizedLocation{{Location: locations[1], Priority: 0}, {Location: locations[0], Priority: LastResortPriority}}
	assert.Equal(t, []string{"bbb", "aaa"}, PrioritizedCodes(prioritized))
	assert.False(t, prioritized[0].IsLastResort())
	assert.True(t, prioritized[1].IsLastResort())
}
