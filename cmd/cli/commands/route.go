package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aljab017/ill-router/pkg/core/services"
)

// RouteCmd creates the route command
func RouteCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan a lending route from the configured locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			group1Size, _ := cmd.Flags().GetInt("group1-size")
			dateStr, _ := cmd.Flags().GetString("date")

			opts := services.RouteOptions{
				Group1Size: group1Size,
				Seed:       seed,
			}
			if dateStr != "" {
				date, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				opts.Date = date
			}

			session, err := services.NewRouteSession(app.Ctx, app.Source, app.Cfg, app.Logger, app.Recorder, opts)
			if err != nil {
				return err
			}
			app.LastRoute = session

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Route planned!\n\n")
			printRoute(out, session.Result())

			return nil
		},
	}

	cmd.Flags().String("seed", "", "Seed for a reproducible draw")
	cmd.Flags().Int("group1-size", 0, "Number of locations in group 1 (defaults to config)")
	cmd.Flags().String("date", "", "Date used to select overrides (YYYY-MM-DD, defaults to today)")

	return cmd
}

// ReshuffleCmd creates the reshuffle command
func ReshuffleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reshuffle",
		Short: "Redraw the order of the last planned route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.lastRoute()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Route reshuffled!\n\n")
			printRoute(out, session.Reshuffle())

			return nil
		},
	}
}

// AddLocationCmd creates the addLocation command
func AddLocationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addLocation <code> <report_code>",
		Short: "Record an extra location against the last planned route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportCode, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("report_code must be a number: %w", err)
			}

			session, err := app.lastRoute()
			if err != nil {
				return err
			}

			added, err := session.AddLocation(args[0], reportCode)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Added %s (report code %d) to route %s\n\n",
				added.LocationCode, added.ReportCode, session.ID())

			return nil
		},
	}
}

func printRoute(out io.Writer, route *services.RouteResult) {
	fmt.Fprintf(out, "Route ID:    %s\n", route.RouteID)
	fmt.Fprintf(out, "Date:        %s\n", route.Date)
	if route.Seed != "" {
		fmt.Fprintf(out, "Seed:        %s\n", route.Seed)
	}
	for _, o := range route.AppliedOverrides {
		fmt.Fprintf(out, "Override:    %s\n", o)
	}

	fmt.Fprintf(out, "\nGroup 1:\n")
	for _, loc := range route.Group1 {
		fmt.Fprintf(out, "  %3d. %-8s %s\n", loc.Priority, loc.Location.Code, loc.Location.Name)
	}

	fmt.Fprintf(out, "\nGroup 2:\n")
	for _, loc := range route.Group2 {
		fmt.Fprintf(out, "  %3d. %-8s %s\n", loc.Priority, loc.Location.Code, loc.Location.Name)
	}

	if len(route.LastResortLocations) > 0 {
		fmt.Fprintf(out, "\nLast resort:\n")
		for _, loc := range route.LastResortLocations {
			fmt.Fprintf(out, "  %3d. %-8s %s\n", loc.Priority, loc.Location.Code, loc.Location.Name)
		}
	}

	if len(route.AddedLocations) > 0 {
		fmt.Fprintf(out, "\nAdded:\n")
		for _, added := range route.AddedLocations {
			fmt.Fprintf(out, "       %-8s report code %d\n", added.LocationCode, added.ReportCode)
		}
	}
	fmt.Fprintln(out)
}
