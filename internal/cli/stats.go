package cli

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/labelme"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <input>",
		Short: "Tally shapes per shape type and label",
		Long: `Stats prints a {"<shape_type>": {"<label>": <count>}} tally. A .json
input prints one compact tally for the whole file; any other input is
read as NDJSON (stdin with "-") and prints one
{"content": <tally>, "filename": <name>} line per record.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0])
		},
	}
	return cmd
}

func runStats(cmd *cobra.Command, input string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)

	if filepath.Ext(input) == ".json" {
		rec, err := labelme.Load(input)
		if err != nil {
			return WrapExitError(ExitFailure, "reading input", err)
		}
		if err := enc.Encode(labelme.TallyShapes(rec.Shapes)); err != nil {
			return WrapExitError(ExitFailure, "writing stats", err)
		}
		return nil
	}

	in, err := openInput(cmd, input)
	if err != nil {
		return WrapExitError(ExitFailure, "opening input", err)
	}
	defer in.Close()

	type statsLine struct {
		Content  *labelme.ShapeTally `json:"content"`
		Filename string              `json:"filename"`
	}

	scanner := lineScanner(in)
	for scanner.Scan() {
		line, err := labelme.DecodeLine(scanner.Bytes())
		if err != nil {
			return WrapExitError(ExitFailure, "Processing line:"+scanner.Text(), err)
		}
		entry := statsLine{
			Content:  labelme.TallyShapes(line.Content.Shapes),
			Filename: line.Filename,
		}
		if err := enc.Encode(entry); err != nil {
			return WrapExitError(ExitFailure, "writing stats", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "reading input", err)
	}
	return nil
}
