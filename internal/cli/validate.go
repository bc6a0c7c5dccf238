package cli

import (
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/check"
	"github.com/roach88/annocheck/internal/labelme"
	"github.com/roach88/annocheck/internal/runner"
	"github.com/roach88/annocheck/internal/store"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Flags       []string
	Ignores     []string
	Additional  []string
	Stats       bool
	Threads     int
	Report      string
	ProfilePath string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [rules] <input>",
		Short: "Check annotation files under a directory against a rule file",
		Long: `Validate checks every .json file under the input directory against the
rules, one rule per line. A failing file prints as "<path>,<error>"; with
-v passing files print too, as "<path>,". Files whose flags miss every
--flag value, or match any --ignore value, are skipped entirely.

The rules argument can be omitted when --profile names a profile that
supplies one. Explicit flags always win over profile settings.`,
		Args:          usageArgs(cobra.RangeArgs(1, 2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Flags, "flag", "f", nil, "only check records with at least one of these flags set (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Ignores, "ignore", "i", nil, "skip records with any of these flags set (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Additional, "additional", "a", nil, "additional rule file (repeatable)")
	cmd.Flags().BoolVarP(&opts.Stats, "stats", "s", false, "print the valid/checked summary line")
	cmd.Flags().IntVarP(&opts.Threads, "threads", "t", 0, "worker count (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.Report, "report", "", "record the run and per-file verdicts in this SQLite database")
	cmd.Flags().StringVar(&opts.ProfilePath, "profile", "", "load validate settings from a YAML profile")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, args []string) error {
	rulesPath, input, err := resolveValidateArgs(cmd, opts, args)
	if err != nil {
		return err
	}

	ruleLines, rules, err := loadRuleSet(rulesPath, opts.Additional)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if _, err := os.Stat(input); err != nil {
		return WrapExitError(ExitFailure, "input not found", err)
	}

	checker := check.New(rules, labelme.NewFlagSet(opts.Flags...), labelme.NewFlagSet(opts.Ignores...))

	runOpts := []runner.Option{
		runner.WithThreads(opts.Threads),
		runner.WithVerbosity(opts.Verbose),
		runner.WithStats(opts.Stats),
	}

	var (
		mu        sync.Mutex
		collected []store.Verdict
	)
	if opts.Report != "" {
		runOpts = append(runOpts, runner.WithObserver(func(v runner.Verdict) {
			mu.Lock()
			defer mu.Unlock()
			collected = append(collected, store.Verdict{
				FileID:  v.ID,
				Path:    v.Path,
				Outcome: string(v.Outcome),
				Detail:  v.Detail,
			})
		}))
	}

	run := runner.New(checker, cmd.OutOrStdout(), runOpts...)
	sum, err := run.Run(input)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	slog.Info("scan complete",
		"files", sum.Files,
		"checked", sum.Checked,
		"valid", sum.Valid)

	if opts.Report != "" {
		if err := writeReport(cmd, opts.Report, input, ruleLines, sum, collected); err != nil {
			return WrapExitError(ExitFailure, "writing report", err)
		}
	}
	return nil
}

// resolveValidateArgs merges profile settings under explicit flags and
// positionals. The command line always wins; the profile only fills what it
// left unset.
func resolveValidateArgs(cmd *cobra.Command, opts *ValidateOptions, args []string) (rulesPath, input string, err error) {
	var profile *Profile
	if opts.ProfilePath != "" {
		profile, err = LoadProfile(opts.ProfilePath)
		if err != nil {
			return "", "", WrapExitError(ExitFailure, "loading profile", err)
		}
	}

	if len(args) == 2 {
		rulesPath, input = args[0], args[1]
	} else {
		input = args[0]
		if profile != nil {
			rulesPath = profile.Rules
		}
		if rulesPath == "" {
			return "", "", NewExitError(ExitCommandError, "a rules file is required: pass it as the first argument or set rules in the profile")
		}
	}

	if profile == nil {
		return rulesPath, input, nil
	}

	flags := cmd.Flags()
	if !flags.Changed("flag") && len(profile.Flags) > 0 {
		opts.Flags = profile.Flags
	}
	if !flags.Changed("ignore") && len(profile.Ignores) > 0 {
		opts.Ignores = profile.Ignores
	}
	if !flags.Changed("additional") && len(profile.Additional) > 0 {
		opts.Additional = profile.Additional
	}
	if !flags.Changed("stats") {
		opts.Stats = profile.Stats
	}
	if !flags.Changed("threads") && profile.Threads != 0 {
		opts.Threads = profile.Threads
	}
	return rulesPath, input, nil
}

// writeReport persists one run. Verdicts arrive in worker-completion order
// and are re-sorted into enumeration order first.
func writeReport(cmd *cobra.Command, path, root string, ruleLines []string, sum runner.Summary, verdicts []store.Verdict) error {
	sort.Slice(verdicts, func(i, j int) bool { return verdicts[i].FileID < verdicts[j].FileID })

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	run := store.Run{
		ID:      st.NewRunID(),
		Root:    root,
		Rules:   ruleLines,
		Checked: sum.Checked,
		Valid:   sum.Valid,
	}
	if err := st.WriteRun(cmd.Context(), run, verdicts); err != nil {
		return err
	}
	slog.Info("report written", "db", path, "run", run.ID)
	return nil
}
