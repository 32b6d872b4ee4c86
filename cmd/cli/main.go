package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/cmd/cli/commands"
	"github.com/aljab017/ill-router/internal/config"
	"github.com/aljab017/ill-router/pkg/clients/sheetsclient"
	"github.com/aljab017/ill-router/pkg/db"
	"github.com/aljab017/ill-router/pkg/metrics"
	"github.com/aljab017/ill-router/pkg/postgres"
	"github.com/aljab017/ill-router/pkg/utils/logging"
)

var (
	env     string
	app     = &commands.AppContext{}
	closers []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ill-router",
		Short:        "ILL Router - Plan interlibrary loan lending routes",
		Long:         `A CLI tool for ordering lending locations for interlibrary loan requests by weighted draw.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.RouteCmd(app))
	rootCmd.AddCommand(commands.ListLocationsCmd(app))
	rootCmd.AddCommand(commands.ImportLocationsCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, sets up the logger and metrics, and opens the configured location source
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("location_source", app.Cfg.LocationSource))

	app.Recorder = metrics.NewPrometheus(prometheus.DefaultRegisterer, "")

	switch app.Cfg.LocationSource {
	case config.SourceFile:
		store := db.NewFileStore(app.Cfg.LocationsFile)
		app.Source = store
		app.Store = store
		app.Logger.Debug("Using location file", zap.String("path", store.Path()))

	case config.SourcePostgres:
		app.Logger.Info("Connecting to database")
		pg, err := postgres.Connect(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, pg.Close)
		app.Source = pg
		app.Store = pg
		app.Migrator = pg
		app.Logger.Info("Database connected")

	case config.SourceSheet:
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.Logger.Info("Initializing sheets client")
		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Source = sheetsclient.NewLocationSheet(client, app.Cfg.LocationSheetID, app.Cfg.LocationsTab)
		app.Logger.Debug("Sheets client initialized successfully")

	default:
		return fmt.Errorf("unknown location source %q", app.Cfg.LocationSource)
	}

	return nil
}
