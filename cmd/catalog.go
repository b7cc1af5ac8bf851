package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"opevents/internal/bootstrap"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the impact/cause catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog tree",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cat, err := svc.Catalog.Get(ctx)
		if err != nil {
			logging.Error(ctx, "load catalog failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load catalog")
		}

		out := cmd.OutOrStdout()
		for _, category := range cat.Categories() {
			if _, err := fmt.Fprintf(out, "%s\n", category); err != nil {
				return errs.Wrap(err, "write catalog output")
			}
			for _, cause := range cat.Causes(category) {
				if _, err := fmt.Fprintf(out, "  - %s\n", cause); err != nil {
					return errs.Wrap(err, "write catalog output")
				}
			}
		}
		return nil
	}),
}

var catalogAddCategoryCmd = &cobra.Command{
	Use:   "add-category <name>",
	Short: "Add an impact category",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := svc.Catalog.AddCategory(ctx, cmd.Flags().Args()[0]); err != nil {
			logging.Error(ctx, "add category failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add category")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "category added: %s\n", cmd.Flags().Args()[0]); err != nil {
			return errs.Wrap(err, "write add-category output")
		}
		return nil
	}),
}

var catalogRenameCategoryCmd = &cobra.Command{
	Use:   "rename-category <old> <new>",
	Short: "Rename an impact category keeping its causes",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		if err := svc.Catalog.RenameCategory(ctx, args[0], args[1]); err != nil {
			logging.Error(ctx, "rename category failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "rename category")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "category renamed: %s -> %s\n", args[0], args[1]); err != nil {
			return errs.Wrap(err, "write rename-category output")
		}
		return nil
	}),
}

var catalogRemoveCategoryCmd = &cobra.Command{
	Use:   "remove-category <name>",
	Short: "Remove an impact category and its causes",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := svc.Catalog.RemoveCategory(ctx, cmd.Flags().Args()[0]); err != nil {
			logging.Error(ctx, "remove category failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "remove category")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "category removed: %s\n", cmd.Flags().Args()[0]); err != nil {
			return errs.Wrap(err, "write remove-category output")
		}
		return nil
	}),
}

var catalogAddCauseCmd = &cobra.Command{
	Use:   "add-cause <category> <cause>",
	Short: "Add a cause to a category",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		if err := svc.Catalog.AddCause(ctx, args[0], args[1]); err != nil {
			logging.Error(ctx, "add cause failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add cause")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "cause added to %s: %s\n", args[0], args[1]); err != nil {
			return errs.Wrap(err, "write add-cause output")
		}
		return nil
	}),
}

var catalogRemoveCauseCmd = &cobra.Command{
	Use:   "remove-cause <category> <cause>",
	Short: "Remove a cause from a category",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		if err := svc.Catalog.RemoveCause(ctx, args[0], args[1]); err != nil {
			logging.Error(ctx, "remove cause failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "remove cause")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "cause removed from %s: %s\n", args[0], args[1]); err != nil {
			return errs.Wrap(err, "write remove-cause output")
		}
		return nil
	}),
}

var catalogRenameCauseCmd = &cobra.Command{
	Use:   "rename-cause <category> <old> <new>",
	Short: "Rename a cause keeping its position",
	Args:  cobra.ExactArgs(3),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		if err := svc.Catalog.RenameCause(ctx, args[0], args[1], args[2]); err != nil {
			logging.Error(ctx, "rename cause failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "rename cause")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "cause renamed in %s: %s -> %s\n", args[0], args[1], args[2]); err != nil {
			return errs.Wrap(err, "write rename-cause output")
		}
		return nil
	}),
}

var catalogResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in default catalog",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := svc.Catalog.Reset(ctx); err != nil {
			logging.Error(ctx, "reset catalog failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "reset catalog")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "catalog restored to defaults"); err != nil {
			return errs.Wrap(err, "write reset output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCategoryCmd)
	catalogCmd.AddCommand(catalogRenameCategoryCmd)
	catalogCmd.AddCommand(catalogRemoveCategoryCmd)
	catalogCmd.AddCommand(catalogAddCauseCmd)
	catalogCmd.AddCommand(catalogRemoveCauseCmd)
	catalogCmd.AddCommand(catalogRenameCauseCmd)
	catalogCmd.AddCommand(catalogResetCmd)
}
