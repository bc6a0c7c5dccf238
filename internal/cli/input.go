package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/annocheck/internal/labelme"
)

// openInput resolves an input argument to a reader. "-" means the command's
// stdin, which tests can substitute via cmd.SetIn.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// lineScanner builds a Scanner sized for annotation NDJSON: an embedded
// imageData payload can push a single line into the megabytes.
func lineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	return scanner
}

// isNdjsonPath reports whether the input argument names an NDJSON stream:
// stdin, .ndjson, or .jsonl.
func isNdjsonPath(path string) bool {
	if path == "-" {
		return true
	}
	ext := filepath.Ext(path)
	return ext == ".ndjson" || ext == ".jsonl"
}

// listJSONFiles returns a directory's .json entries in name order, without
// descending into subdirectories.
func listJSONFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// scanRecords feeds every record from the input to fn. A directory yields
// its .json entries in name order without recursing; a .json file yields one
// record; an NDJSON file or stdin yields each line's content.
func scanRecords(cmd *cobra.Command, input string, fn func(labelme.Record)) error {
	if input != "-" {
		if info, err := os.Stat(input); err == nil && info.IsDir() {
			files, err := listJSONFiles(input)
			if err != nil {
				return WrapExitError(ExitFailure, "reading input", err)
			}
			for _, path := range files {
				rec, err := labelme.Load(path)
				if err != nil {
					return WrapExitError(ExitFailure, "reading input", err)
				}
				fn(rec)
			}
			return nil
		}
	}

	switch {
	case filepath.Ext(input) == ".json":
		rec, err := labelme.Load(input)
		if err != nil {
			return WrapExitError(ExitFailure, "reading input", err)
		}
		fn(rec)
		return nil
	case isNdjsonPath(input):
		in, err := openInput(cmd, input)
		if err != nil {
			return WrapExitError(ExitFailure, "opening input", err)
		}
		defer in.Close()

		scanner := lineScanner(in)
		for scanner.Scan() {
			line, err := labelme.DecodeLine(scanner.Bytes())
			if err != nil {
				return WrapExitError(ExitFailure, "Processing line:"+scanner.Text(), err)
			}
			fn(line.Content)
		}
		if err := scanner.Err(); err != nil {
			return WrapExitError(ExitFailure, "reading input", err)
		}
		return nil
	default:
		return NewExitError(ExitFailure, fmt.Sprintf("unknown input type: %s", input))
	}
}
