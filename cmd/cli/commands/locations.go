package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aljab017/ill-router/pkg/core/services"
	"github.com/aljab017/ill-router/pkg/db"
)

// ListLocationsCmd creates the listLocations command
func ListLocationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listLocations",
		Short: "List all lending locations from the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := services.ListLocations(app.Ctx, app.Source, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d locations:\n\n", len(locations))
			for _, loc := range locations {
				lastResort := ""
				if loc.IsLastResort {
					lastResort = " [last resort]"
				}
				fmt.Fprintf(out, "- %s (%d) %s - weight %s%s\n",
					loc.Code,
					loc.ReportCode,
					loc.Name,
					loc.Weight,
					lastResort,
				)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}

// ImportLocationsCmd creates the importLocations command
func ImportLocationsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importLocations <file>",
		Short: "Import locations from a YAML file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("location source %q is read-only", app.Cfg.LocationSource)
			}

			count, err := services.ImportLocations(app.Ctx, app.Store, db.NewFileStore(args[0]), app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Imported %d locations from %s\n\n", count, args[0])
			return nil
		},
	}
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Migrator == nil {
				return fmt.Errorf("migrate requires locationSource %q, got %q", "postgres", app.Cfg.LocationSource)
			}

			applied, err := app.Migrator.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date.")
				return nil
			}

			fmt.Fprintf(out, "\n✓ Applied %d migrations:\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
