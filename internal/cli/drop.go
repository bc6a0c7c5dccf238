package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

// DropOptions holds flags for the drop command.
type DropOptions struct {
	*RootOptions
	Key string
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DropOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "drop <input>",
		Short: "Drop NDJSON lines with duplicate key values",
		Long: `Drop reads NDJSON from a file or stdin ("-") and reprints each line
whose --key value has not been seen before; later duplicates are
dropped. Values compare NFC-normalized, so a filename in decomposed and
precomposed Unicode counts as one.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "filename", "JSON key whose value identifies duplicates")

	return cmd
}

func runDrop(cmd *cobra.Command, opts *DropOptions, input string) error {
	in, err := openInput(cmd, input)
	if err != nil {
		return WrapExitError(ExitFailure, "opening input", err)
	}
	defer in.Close()

	out := cmd.OutOrStdout()
	seen := make(map[string]struct{})

	scanner := lineScanner(in)
	for scanner.Scan() {
		text := scanner.Text()
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return WrapExitError(ExitFailure, "Processing line:"+text, err)
		}
		value, ok := entry[opts.Key]
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("key %q not found", opts.Key))
		}
		name, ok := value.(string)
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("value for key %q is not a string", opts.Key))
		}

		name = norm.NFC.String(name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		fmt.Fprintln(out, text)
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "reading input", err)
	}
	return nil
}
