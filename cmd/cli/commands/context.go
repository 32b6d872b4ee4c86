package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/core/services"
	"github.com/aljab017/ill-router/pkg/db"
	"github.com/aljab017/ill-router/pkg/metrics"
)

// Migrator applies pending schema migrations
type Migrator interface {
	RunMigrations(ctx context.Context) ([]string, error)
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Env      string
	Source   db.LocationSource
	Store    db.LocationWriter // nil when the configured source is read-only
	Migrator Migrator          // nil unless the source is postgres
	Recorder metrics.Recorder
	Logger   *zap.Logger
	Ctx      context.Context

	// LastRoute is the most recent route planned in this process
	LastRoute *services.RouteSession
}

func (app *AppContext) lastRoute() (*services.RouteSession, error) {
	if app.LastRoute == nil {
		return nil, fmt.Errorf("no route planned yet (run 'route' first)")
	}
	return app.LastRoute, nil
}
