package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	RunID string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <db>",
		Short: "List or inspect recorded validation runs",
		Long: `Report reads a database written by validate --report. Without --run it
lists runs newest first; with --run it prints one run's rules, its
failing files in scan order, and the valid/checked summary line.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show this run instead of listing")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions, path string) error {
	// Open would create an empty database; reporting on a path that does
	// not exist is an error instead.
	if _, err := os.Stat(path); err != nil {
		return WrapExitError(ExitFailure, "opening report database", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitFailure, "opening report database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(cmd, st)
	}
	return showRun(cmd, st, opts.RunID)
}

func listRuns(cmd *cobra.Command, st *store.Store) error {
	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "listing runs", err)
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %s  %d/%d valid\n",
			run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.Root, run.Valid, run.Checked)
	}
	return nil
}

func showRun(cmd *cobra.Command, st *store.Store, runID string) error {
	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s not found", runID))
	}
	if err != nil {
		return WrapExitError(ExitFailure, "reading run", err)
	}
	failures, err := st.RunFailures(ctx, runID)
	if err != nil {
		return WrapExitError(ExitFailure, "reading failures", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", run.ID)
	fmt.Fprintf(out, "root %s\n", run.Root)
	fmt.Fprintf(out, "created %s\n", run.CreatedAt.UTC().Format(time.RFC3339))
	for _, rule := range run.Rules {
		fmt.Fprintf(out, "rule %s\n", rule)
	}
	for _, v := range failures {
		fmt.Fprintf(out, "%s,%s\n", v.Path, v.Detail)
	}
	fmt.Fprintf(out, "%d / %d annotations are valid.\n", run.Valid, run.Checked)
	return nil
}
