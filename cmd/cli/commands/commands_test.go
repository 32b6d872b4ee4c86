package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/model"
	"github.com/aljab017/ill-router/pkg/db"
	"github.com/aljab017/ill-router/pkg/metrics"
)

const locationsYAML = `locations:
  - code: MIN
    reportCode: 1
    name: Minneapolis
    weight: 5
  - code: MAC
    reportCode: 4
    weight: 3
  - code: STP
    reportCode: 2
    weight: 2
    isLastResort: true
`

type mockMigrator struct {
	applied []string
	err     error
}

func (m *mockMigrator) RunMigrations(ctx context.Context) ([]string, error) {
	return m.applied, m.err
}

func newTestApp(t *testing.T) *AppContext {
	t.Helper()

	path := filepath.Join(t.TempDir(), "locations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(locationsYAML), 0o644))

	store := db.NewFileStore(path)
	return &AppContext{
		Cfg: &config.Config{
			Group1Size:     1,
			LocationSource: config.SourceFile,
			LocationsFile:  path,
		},
		Env:      "test",
		Source:   store,
		Store:    store,
		Recorder: metrics.NewNop(),
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRouteCmd(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, RouteCmd(app), "--seed", "abc", "--date", "2026-01-05")
	require.NoError(t, err)

	require.NotNil(t, app.LastRoute)
	assert.Contains(t, out, "Route ID:    "+app.LastRoute.ID())
	assert.Contains(t, out, "Date:        2026-01-05")
	assert.Contains(t, out, "Seed:        abc")
	assert.Contains(t, out, "999. STP")

	result := app.LastRoute.Result()
	assert.Len(t, result.Group1, 1)
	assert.Len(t, result.Group2, 1)
}

func TestRouteCmd_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"bad date", []string{"--date", "tomorrow"}, "date must be YYYY-MM-DD"},
		{"negative group size", []string{"--group1-size", "-1"}, "group size must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			_, err := run(t, RouteCmd(app), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, app.LastRoute)
		})
	}
}

func TestReshuffleAndAddLocation_RequireRoute(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, ReshuffleCmd(app))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route planned yet")

	_, err = run(t, AddLocationCmd(app), "DUL", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route planned yet")
}

func TestAddLocationCmd(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, RouteCmd(app))
	require.NoError(t, err)

	out, err := run(t, AddLocationCmd(app), "DUL", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Added DUL (report code 3)")
	assert.Equal(t, []model.AddedLocation{{LocationCode: "DUL", ReportCode: 3}}, app.LastRoute.Result().AddedLocations)

	_, err = run(t, AddLocationCmd(app), "DUL", "three")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report_code must be a number")
}

func TestReshuffleCmd(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, RouteCmd(app), "--seed", "abc")
	require.NoError(t, err)
	id := app.LastRoute.ID()

	out, err := run(t, ReshuffleCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Route reshuffled")
	assert.Contains(t, out, "Route ID:    "+id)
}

func TestListLocationsCmd(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, ListLocationsCmd(app))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 locations")
	assert.Contains(t, out, "- MIN (1) Minneapolis - weight 5\n")
	assert.Contains(t, out, "- STP (2)  - weight 2 [last resort]\n")
}

func TestImportLocationsCmd(t *testing.T) {
	app := newTestApp(t)

	importPath := filepath.Join(t.TempDir(), "import.yaml")
	require.NoError(t, os.WriteFile(importPath, []byte(`locations:
  - code: DUL
    reportCode: 3
    weight: 1.5
  - code: MIN
    reportCode: 1
    weight: 6
`), 0o644))

	out, err := run(t, ImportLocationsCmd(app), importPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 locations")

	locations, err := app.Source.GetLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MIN", "MAC", "STP", "DUL"}, model.Codes(locations))
	assert.Equal(t, model.NewWeight(6), locations[0].Weight)
}

func TestImportLocationsCmd_ReadOnlySource(t *testing.T) {
	app := newTestApp(t)
	app.Store = nil
	app.Cfg.LocationSource = config.SourceSheet

	_, err := run(t, ImportLocationsCmd(app), "whatever.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `location source "sheet" is read-only`)
}

func TestMigrateCmd(t *testing.T) {
	tests := []struct {
		name     string
		migrator Migrator
		want     string
		errMsg   string
	}{
		{
			name:     "applies migrations",
			migrator: &mockMigrator{applied: []string{"001_create_location.sql"}},
			want:     "- 001_create_location.sql",
		},
		{
			name:     "up to date",
			migrator: &mockMigrator{},
			want:     "Database is up to date.",
		},
		{
			name:     "migration fails",
			migrator: &mockMigrator{err: errors.New("syntax error")},
			errMsg:   "syntax error",
		},
		{
			name:   "not postgres",
			errMsg: `migrate requires locationSource "postgres"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.Migrator = tt.migrator

			out, err := run(t, MigrateCmd(app))
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestInteractiveSession(t *testing.T) {
	app := newTestApp(t)

	root := &cobra.Command{Use: "ill-router"}
	root.AddCommand(RouteCmd(app), ListLocationsCmd(app), InteractiveCmd(app))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(strings.Join([]string{
		"help",
		"route --seed abc",
		"addLocation DUL 3",
		"reshuffle",
		"route",
		"bogus",
		`addLocation "unclosed`,
		"exit",
		"listLocations",
	}, "\n")))
	root.SetArgs([]string{"interactive"})

	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "Available commands:")
	assert.Contains(t, text, "reshuffle")
	assert.Contains(t, text, "addLocation <code> <report_code>")
	assert.Contains(t, text, "Route planned!")
	assert.Contains(t, text, "Added DUL (report code 3)")
	assert.Contains(t, text, "Route reshuffled!")
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Contains(t, text, "unclosed quote")
	assert.Contains(t, text, "Goodbye!")
	assert.NotContains(t, text, "Found 3 locations")

	// flags are reset between lines, so the second route is unseeded
	assert.Equal(t, "", app.LastRoute.Result().Seed)
	assert.Empty(t, app.LastRoute.Result().AddedLocations)
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"route --seed abc", []string{"route", "--seed", "abc"}, false},
		{`addLocation "St Paul" 2`, []string{"addLocation", "St Paul", "2"}, false},
		{`addLocation 'MIN 1' 1`, []string{"addLocation", "MIN 1", "1"}, false},
		{"   ", nil, false},
		{`route "abc`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
