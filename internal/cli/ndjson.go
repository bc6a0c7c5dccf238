package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NdjsonOptions holds flags for the ndjson command.
type NdjsonOptions struct {
	*RootOptions
	Key string
}

// NewNdjsonCommand creates the ndjson command.
func NewNdjsonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NdjsonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ndjson <input>...",
		Short: "Pack annotation files into an NDJSON stream",
		Long: `Ndjson wraps each .json file as {"content": <object>, "<key>": <basename>}
on a single line. Directories contribute their .json entries in name
order without recursing; .ndjson and .jsonl inputs pass through
verbatim. Inputs print in argument order.`,
		Args:          usageArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNdjson(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "filename", "filename", "JSON key for the source filename")

	return cmd
}

func runNdjson(cmd *cobra.Command, opts *NdjsonOptions, inputs []string) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return NewExitError(ExitFailure, fmt.Sprintf("input %s does not exist", input))
		}
		switch {
		case info.IsDir():
			files, err := listJSONFiles(input)
			if err != nil {
				return WrapExitError(ExitFailure, "reading input", err)
			}
			for _, path := range files {
				if err := packLine(enc, path, opts.Key); err != nil {
					return WrapExitError(ExitFailure, "packing "+path, err)
				}
			}
		case isNdjsonPath(input):
			if err := copyLines(out, input); err != nil {
				return WrapExitError(ExitFailure, "reading input", err)
			}
		case filepath.Ext(input) == ".json":
			if err := packLine(enc, input, opts.Key); err != nil {
				return WrapExitError(ExitFailure, "packing "+input, err)
			}
		default:
			return NewExitError(ExitFailure, fmt.Sprintf("%s is not a directory, json, or ndjson/jsonl", input))
		}
	}
	return nil
}

// packLine wraps one annotation file as a single NDJSON line. The content
// keeps its original key order and number formatting; only whitespace is
// dropped.
func packLine(enc *json.Encoder, path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	if b := compact.Bytes(); len(b) == 0 || b[0] != '{' {
		return errors.New("top-level JSON value is not an object")
	}

	return enc.Encode(map[string]any{
		"content": json.RawMessage(compact.Bytes()),
		key:       filepath.Base(path),
	})
}

func copyLines(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := lineScanner(f)
	for scanner.Scan() {
		fmt.Fprintln(out, scanner.Text())
	}
	return scanner.Err()
}
