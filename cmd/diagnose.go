package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opevents/internal/bootstrap"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check connectivity and schema of the remote list store",
}

var diagnoseConnectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Verify credentials and list reachability",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		message, err := svc.Repo.TestConnection(ctx)
		if err != nil {
			logging.Error(ctx, "connection check failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "check connection")
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), message); err != nil {
			return errs.Wrap(err, "write connection output")
		}
		return nil
	}),
}

var diagnoseColumnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Show the list columns visible to the integration",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		columns, err := svc.Repo.DescribeSchema(ctx)
		if err != nil {
			logging.Error(ctx, "schema check failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "describe schema")
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tTYPE\tDESCRIPTION")
		for _, col := range columns {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", col.Name, col.DisplayName, col.Type, col.Description)
		}
		if err := tw.Flush(); err != nil {
			return errs.Wrap(err, "write columns table")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.AddCommand(diagnoseConnectionCmd)
	diagnoseCmd.AddCommand(diagnoseColumnsCmd)
}
