package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose int
}

// NewRootCommand creates the root command for the annocheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "annocheck",
		Short: "Rule-based validation for LabelMe annotation files",
		Long: `annocheck validates LabelMe annotation files against a plain-text rule
file. Each rule is an integer expression over point-shape label counts
("TL == 1", "TL == BL + 1"); a record is valid when every rule holds.

Companion commands reuse the same rule engine to filter NDJSON streams,
and ship small dataset utilities (flag counts, shape stats, NDJSON
packing, duplicate dropping) plus a SQLite-backed run report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Explicit Args keeps unknown-subcommand errors on the usage exit
		// code instead of cobra's default handling.
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		}),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "increase verbosity (repeatable)")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid usage", err)
	})

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewNdjsonCommand(opts))
	cmd.AddCommand(NewDropCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// configureLogging routes diagnostics to stderr, keeping stdout free for
// data. The verbose count maps to the slog level: 0 warns only, 1 adds
// info, 2 and above adds debug.
func configureLogging(verbosity int) {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
