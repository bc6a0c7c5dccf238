package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/check"
	"github.com/roach88/annocheck/internal/labelme"
	"github.com/roach88/annocheck/internal/parser"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Rules  []string
	Invert bool
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <input>",
		Short: "Keep NDJSON lines whose records satisfy every rule",
		Long: `Filter reads NDJSON ({"content": ..., "filename": ...} per line) from a
file or stdin ("-") and reprints the lines whose content satisfies every
rule. --invert keeps the failing lines instead. Flag gates do not apply:
every line is evaluated.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Rules, "rules", "r", nil, "rule file (repeatable)")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "keep lines that break at least one rule")

	return cmd
}

func runFilter(cmd *cobra.Command, opts *FilterOptions, input string) error {
	var lines []string
	for _, path := range opts.Rules {
		more, err := loadRuleLines(path)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("reading rule file %s", path), err)
		}
		lines = append(lines, more...)
	}
	if len(lines) == 0 {
		return NewExitError(ExitCommandError, "No rule is found.")
	}
	rules, err := parser.ParseRules(lines)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	in, err := openInput(cmd, input)
	if err != nil {
		return WrapExitError(ExitFailure, "opening input", err)
	}
	defer in.Close()

	out := cmd.OutOrStdout()
	scanner := lineScanner(in)
	for scanner.Scan() {
		text := scanner.Text()
		entry, err := labelme.DecodeLine(scanner.Bytes())
		if err != nil {
			return WrapExitError(ExitFailure, "Processing line:"+text, err)
		}
		failures := check.EvaluateRules(rules, check.BindLabels(entry.Content.Shapes))
		if (len(failures) == 0) != opts.Invert {
			fmt.Fprintln(out, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "reading input", err)
	}
	return nil
}
