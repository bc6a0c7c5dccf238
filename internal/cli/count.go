package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/labelme"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <input>",
		Short: "Count asserted flags across annotations",
		Long: `Count tallies how many records assert each flag, reading a directory of
.json files (non-recursive), a single .json file, an NDJSON file
(.ndjson or .jsonl), or stdin ("-"). Flags print in first-seen order.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args[0])
		},
	}
	return cmd
}

func runCount(cmd *cobra.Command, input string) error {
	tally := labelme.NewTally()
	err := scanRecords(cmd, input, func(rec labelme.Record) {
		for _, name := range rec.Flags.Names() {
			if rec.Flags.IsTrue(name) {
				tally.Add(name)
			}
		}
	})
	if err != nil {
		return err
	}

	payload := struct {
		Flags *labelme.Tally `json:"flags"`
	}{Flags: tally}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return WrapExitError(ExitFailure, "writing counts", err)
	}
	return nil
}
