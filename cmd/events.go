package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opevents/internal/bootstrap"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
	reportsuc "opevents/internal/usecase/reports"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect and export captured events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all events from the remote store",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		events, err := svc.Events.List(ctx)
		if err != nil {
			logging.Error(ctx, "list events failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list events")
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFECHA\tIMPACTO\tCAUSA\tPROYECTO\tRESPONSABLE\tSTATUS")
		for _, e := range events {
			detected := ""
			if !e.DetectedAt.IsZero() {
				detected = e.DetectedAt.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, detected, e.Category, e.Cause, e.ProjectNumber, e.Assignee, e.Status)
		}
		if err := tw.Flush(); err != nil {
			return errs.Wrap(err, "write events table")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", len(events)); err != nil {
			return errs.Wrap(err, "write events output")
		}
		return nil
	}),
}

var eventsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all events to an xlsx workbook",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		out, _ := cmd.Flags().GetString("out")
		data, err := svc.Reports.Export(ctx, reportsuc.Filter{})
		if err != nil {
			logging.Error(ctx, "export events failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export events")
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errs.Wrapf(err, "write export file %q", out)
		}

		logging.Info(ctx, "events exported", slog.String("file", out), slog.Int("bytes", len(data)))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "events exported: %s\n", out); err != nil {
			return errs.Wrap(err, "write export output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsExportCmd)

	eventsExportCmd.Flags().String("out", "eventos.xlsx", "Output xlsx path")
}
