package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aljab017/ill-router/pkg/core/model"
)

type mockValuesReader struct {
	values [][]interface{}
	err    error

	gotSpreadsheetID string
	gotRange         string
}

func (m *mockValuesReader) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	m.gotSpreadsheetID = spreadsheetID
	m.gotRange = sheetRange
	return m.values, m.err
}

func TestParseLocations(t *testing.T) {
	raw := [][]interface{}{
		{"Code", "Report code", "Name", "Weight", "Last resort"},
		{"MIN", "1", "Minneapolis", "1.2", "FALSE"},
		{"MAC", "4", "Macalester", "7", "TRUE"},
		{"", "", "", "", ""},
		{"STP", float64(2), "St Paul", float64(0.5)},
	}

	locations, err := parseLocations(raw)
	require.NoError(t, err)

	expected := []model.Location{
		{Code: "MIN", ReportCode: 1, Name: "Minneapolis", Weight: model.Weight(12000)},
		{Code: "MAC", ReportCode: 4, Name: "Macalester", Weight: model.NewWeight(7), IsLastResort: true},
		{Code: "STP", ReportCode: 2, Name: "St Paul", Weight: model.Weight(5000)},
	}
	assert.Equal(t, expected, locations)
}

func TestParseLocations_HeaderOrderAndCase(t *testing.T) {
	raw := [][]interface{}{
		{"weight", " code "},
		{"3", "AAA"},
	}

	locations, err := parseLocations(raw)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "AAA", locations[0].Code)
	assert.Equal(t, model.NewWeight(3), locations[0].Weight)
	assert.False(t, locations[0].IsLastResort)
}

func TestParseLocations_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    [][]interface{}
		errMsg string
	}{
		{
			name:   "no header",
			raw:    [][]interface{}{},
			errMsg: "no header row found",
		},
		{
			name:   "missing weight column",
			raw:    [][]interface{}{{"Code", "Name"}},
			errMsg: "missing required field in header: Weight",
		},
		{
			name:   "negative weight",
			raw:    [][]interface{}{{"Code", "Weight"}, {"MIN", "-1"}},
			errMsg: "invalid weight for location MIN in row 2",
		},
		{
			name:   "bad report code",
			raw:    [][]interface{}{{"Code", "Weight", "Report code"}, {"MIN", "1", "abc"}},
			errMsg: "invalid report code for location MIN in row 2",
		},
		{
			name:   "bad last resort flag",
			raw:    [][]interface{}{{"Code", "Weight", "Last resort"}, {"MIN", "1", "maybe"}},
			errMsg: "invalid last resort flag for location MIN in row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLocations(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLocationSheet_GetLocations(t *testing.T) {
	reader := &mockValuesReader{
		values: [][]interface{}{
			{"Code", "Weight"},
			{"MIN", "2"},
		},
	}

	sheet := NewLocationSheet(reader, "sheet-id", "Locations")
	locations, err := sheet.GetLocations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sheet-id", reader.gotSpreadsheetID)
	assert.Equal(t, "Locations", reader.gotRange)
	assert.Equal(t, []string{"MIN"}, model.Codes(locations))
}

func TestLocationSheet_GetLocations_Errors(t *testing.T) {
	t.Run("reader error", func(t *testing.T) {
		sheet := NewLocationSheet(&mockValuesReader{err: errors.New("quota exceeded")}, "id", "tab")
		_, err := sheet.GetLocations(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get location data")
	})

	t.Run("empty sheet", func(t *testing.T) {
		sheet := NewLocationSheet(&mockValuesReader{}, "id", "tab")
		_, err := sheet.GetLocations(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "spreadsheet is empty")
	})
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"", "false", "FALSE", "No", "n", "0"} {
		v, err := parseFlag(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"true", "TRUE", "Yes", "y", "1", "x"} {
		v, err := parseFlag(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
}
