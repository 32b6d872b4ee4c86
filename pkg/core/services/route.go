package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/model"
	"github.com/aljab017/ill-router/pkg/core/partitioner"
	"github.com/aljab017/ill-router/pkg/db"
	"github.com/aljab017/ill-router/pkg/metrics"
)

const dateLayout = "2006-01-02"

var timeNow = time.Now

// RouteOptions adjusts a single routing decision
type RouteOptions struct {
	// Group1Size replaces the configured group size when non-zero
	Group1Size int
	// Seed makes the draw reproducible; falls back to the configured seed
	Seed string
	// Date selects which calendar overrides apply; defaults to today
	Date time.Time
}

// RouteResult is one planned route
type RouteResult struct {
	RouteID          string   `json:"routeId"`
	Date             string   `json:"date"`
	Seed             string   `json:"seed,omitempty"`
	AppliedOverrides []string `json:"appliedOverrides"`
	partitioner.Result
}

// RouteSession holds a planned route so it can be reshuffled or extended.
// It is safe for concurrent use.
type RouteSession struct {
	mu sync.Mutex

	id               string
	date             time.Time
	seed             string
	sourceName       string
	appliedOverrides []string
	partitioner      *partitioner.WeightedPartitioner

	recorder metrics.Recorder
	logger   *zap.Logger
}

// PlanRoute loads locations, applies calendar overrides and partitions them into a route
func PlanRoute(
	ctx context.Context,
	source db.LocationSource,
	cfg *config.Config,
	logger *zap.Logger,
	recorder metrics.Recorder,
	opts RouteOptions,
) (*RouteResult, error) {
	session, err := NewRouteSession(ctx, source, cfg, logger, recorder, opts)
	if err != nil {
		return nil, err
	}
	return session.Result(), nil
}

// NewRouteSession plans a route and keeps it for later reshuffles and additions
func NewRouteSession(
	ctx context.Context,
	source db.LocationSource,
	cfg *config.Config,
	logger *zap.Logger,
	recorder metrics.Recorder,
	opts RouteOptions,
) (*RouteSession, error) {
	start := timeNow()
	sourceName := cfg.LocationSource

	group1Size := cfg.Group1Size
	if opts.Group1Size != 0 {
		group1Size = opts.Group1Size
	}

	seed := opts.Seed
	if seed == "" {
		seed = cfg.Seed
	}

	date := opts.Date
	if date.IsZero() {
		date = start
	}

	logger.Debug("Starting planRoute",
		zap.String("source", sourceName),
		zap.Int("group1_size", group1Size),
		zap.String("date", date.Format(dateLayout)),
		zap.Bool("seeded", seed != ""))

	// Step 1: Fetch locations
	locations, err := source.GetLocations(ctx)
	if err != nil {
		recorder.RouteFailed(sourceName, metrics.ReasonSource)
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	logger.Debug("Found locations", zap.Int("count", len(locations)))

	// Step 2: Apply calendar overrides for the date
	locations, applied, err := applyOverrides(locations, cfg.Overrides, date, logger)
	if err != nil {
		recorder.RouteFailed(sourceName, metrics.ReasonInvalidArgument)
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	// Step 3: Weighted partition
	var partOpts []partitioner.Option
	if seed != "" {
		partOpts = append(partOpts, partitioner.WithSeed(seed))
	}

	p, err := partitioner.New(group1Size, locations, partOpts...)
	if err != nil {
		recorder.RouteFailed(sourceName, metrics.ReasonInvalidArgument)
		return nil, fmt.Errorf("failed to plan route: %w", err)
	}

	session := &RouteSession{
		id:               uuid.New().String(),
		date:             date,
		seed:             seed,
		sourceName:       sourceName,
		appliedOverrides: applied,
		partitioner:      p,
		recorder:         recorder,
		logger:           logger,
	}

	session.logPlanned("Route planned")
	recorder.RoutePlanned(sourceName, len(p.Group1()), len(p.Group2()), len(p.LastResortLocations()), timeNow().Sub(start))

	return session, nil
}

// ID returns the route ID
func (s *RouteSession) ID() string {
	return s.id
}

// Result returns a snapshot of the current route
func (s *RouteSession) Result() *RouteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resultLocked()
}

// Reshuffle redraws the weighted order of the route and returns the new route.
// Last resort and added locations are unchanged.
func (s *RouteSession) Reshuffle() *RouteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.partitioner.Shuffle()
	s.recorder.Reshuffled()
	s.logPlanned("Route reshuffled")

	return s.resultLocked()
}

// AddLocation records an ad-hoc location against the route
func (s *RouteSession) AddLocation(code string, reportCode int) (model.AddedLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.partitioner.AddLocation(code, reportCode)
	if err != nil {
		return model.AddedLocation{}, fmt.Errorf("failed to add location: %w", err)
	}

	s.recorder.LocationAdded()
	s.logger.Info("Location added",
		zap.String("route_id", s.id),
		zap.String("code", added.LocationCode),
		zap.Int("report_code", added.ReportCode))

	return added, nil
}

func (s *RouteSession) resultLocked() *RouteResult {
	return &RouteResult{
		RouteID:          s.id,
		Date:             s.date.Format(dateLayout),
		Seed:             s.seed,
		AppliedOverrides: s.appliedOverrides,
		Result:           s.partitioner.Result(),
	}
}

func (s *RouteSession) logPlanned(msg string) {
	s.logger.Info(msg,
		zap.String("route_id", s.id),
		zap.String("source", s.sourceName),
		zap.Int("group1", len(s.partitioner.Group1())),
		zap.Int("group2", len(s.partitioner.Group2())),
		zap.Int("last_resort", len(s.partitioner.LastResortLocations())))

	s.logger.Debug("Route order",
		zap.String("route_id", s.id),
		zap.Strings("prioritized", model.PrioritizedCodes(s.partitioner.PrioritizedLocations())))
}
