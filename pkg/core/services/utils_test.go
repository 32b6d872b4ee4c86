package services

import (
	"context"
	"sync"
	"time"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/model"
)

// mockLocationSource implements db.LocationSource
type mockLocationSource struct {
	locations []model.Location
	err       error
	calls     int
}

func (m *mockLocationSource) GetLocations(ctx context.Context) ([]model.Location, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.locations, nil
}

// mockLocationWriter implements db.LocationWriter
type mockLocationWriter struct {
	saved []model.Location
	err   error
}

func (m *mockLocationWriter) UpsertLocations(ctx context.Context, locations []model.Location) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, locations...)
	return nil
}

// mockRecorder implements metrics.Recorder
type mockRecorder struct {
	mu         sync.Mutex
	planned    int
	failed     map[string]int
	reshuffles int
	added      int
	lastResort int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{failed: make(map[string]int)}
}

func (m *mockRecorder) RoutePlanned(source string, group1, group2, lastResort int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planned++
	m.lastResort += lastResort
}

func (m *mockRecorder) RouteFailed(source, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[reason]++
}

func (m *mockRecorder) Reshuffled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reshuffles++
}

func (m *mockRecorder) LocationAdded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added++
}

func testLocations() []model.Location {
	return []model.Location{
		{Code: "MIN", ReportCode: 1, Weight: model.NewWeight(5)},
		{Code: "MAC", ReportCode: 4, Weight: model.NewWeight(3)},
		{Code: "STP", ReportCode: 2, Weight: model.NewWeight(2), IsLastResort: true},
		{Code: "DUL", ReportCode: 3, Weight: model.NewWeight(1)},
		{Code: "MOR", ReportCode: 5, Weight: model.NewWeight(1)},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Group1Size:     2,
		LocationSource: config.SourceFile,
		LocationsFile:  "locations.yaml",
	}
}

// saturday is 2026-01-03, a Saturday
var saturday = time.Date(2026, 1, 3, 15, 30, 0, 0, time.UTC)

// monday is 2026-01-05, a Monday
var monday = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
