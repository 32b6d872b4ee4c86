package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aljab017/ill-router/pkg/core/model"
)

// Column names in the locations tab
const (
	fieldCode       = "Code"
	fieldReportCode = "Report code"
	fieldName       = "Name"
	fieldWeight     = "Weight"
	fieldLastResort = "Last resort"
)

var requiredLocationFields = []string{fieldCode, fieldWeight}

var optionalLocationFields = []string{fieldReportCode, fieldName, fieldLastResort}

// ValuesReader reads a range of cells from a spreadsheet
type ValuesReader interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// LocationSheet reads lending locations from one tab of a spreadsheet
type LocationSheet struct {
	reader        ValuesReader
	spreadsheetID string
	tab           string
}

// NewLocationSheet creates a location source for the given spreadsheet tab
func NewLocationSheet(reader ValuesReader, spreadsheetID, tab string) *LocationSheet {
	return &LocationSheet{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		tab:           tab,
	}
}

// GetLocations retrieves and parses locations from the tab
func (s *LocationSheet) GetLocations(ctx context.Context) ([]model.Location, error) {
	values, err := s.reader.GetValues(ctx, s.spreadsheetID, s.tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get location data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	locations, err := parseLocations(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locations: %w", err)
	}

	return locations, nil
}

// parseLocations converts raw spreadsheet data into locations.
// Rows without a code are skipped.
func parseLocations(raw [][]interface{}) ([]model.Location, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	findField := func(field string) int {
		for i, cell := range headerRow {
			if strings.EqualFold(strings.TrimSpace(cellString(cell)), field) {
				return i
			}
		}
		return -1
	}

	for _, field := range requiredLocationFields {
		index := findField(field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalLocationFields {
		if index := findField(field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(cellString(row[index]))
	}

	locations := make([]model.Location, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		code := getField(fieldCode, row)
		if code == "" {
			continue
		}

		weight, err := model.ParseWeight(getField(fieldWeight, row))
		if err != nil {
			return nil, fmt.Errorf("invalid weight for location %s in row %d: %w", code, i+1, err)
		}

		var reportCode int
		if s := getField(fieldReportCode, row); s != "" {
			reportCode, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid report code for location %s in row %d: %w", code, i+1, err)
			}
		}

		lastResort, err := parseFlag(getField(fieldLastResort, row))
		if err != nil {
			return nil, fmt.Errorf("invalid last resort flag for location %s in row %d: %w", code, i+1, err)
		}

		locations = append(locations, model.Location{
			Code:         code,
			ReportCode:   reportCode,
			Name:         getField(fieldName, row),
			Weight:       weight,
			IsLastResort: lastResort,
		})
	}

	return locations, nil
}

// parseFlag accepts checkbox values (TRUE/FALSE) and common yes/no spellings
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1", "x":
		return true, nil
	}
	return false, fmt.Errorf("unrecognised value %q", s)
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
