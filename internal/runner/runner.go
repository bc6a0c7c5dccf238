// Package runner fans a rule check out over every annotation file under a
// directory. Workers check files concurrently; verdict lines still come out
// in enumeration order, so two runs over the same tree produce byte-identical
// output regardless of thread count.
package runner

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/roach88/annocheck/internal/check"
)

// Outcome classifies one file's verdict.
type Outcome string

const (
	// OutcomePassed means the file cleared the gate and satisfied every rule.
	OutcomePassed Outcome = "passed"
	// OutcomeSkipped means the flag gate excluded the file from checking.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the file was unreadable, undecodable, or broke at
	// least one rule.
	OutcomeFailed Outcome = "failed"
)

// Verdict is one file's result as seen by an observer. ID is the file's slot
// in enumeration order; Path is relative to the scanned root. Detail carries
// the error message for failed files and is empty otherwise.
type Verdict struct {
	ID      int
	Path    string
	Outcome Outcome
	Detail  string
}

// Summary aggregates one scan. Files counts every enumerated annotation;
// Checked and Valid count only files the gate admitted, so skipped files
// appear in neither.
type Summary struct {
	Files   int
	Checked int64
	Valid   int64
}

// Option configures a Runner.
type Option func(*Runner)

// WithThreads sets the worker count. Zero or negative means one worker per
// CPU.
func WithThreads(n int) Option {
	return func(r *Runner) { r.threads = n }
}

// WithVerbosity sets the output level. At 0 only failing files print; at 1
// and above passing files print too, as a bare relative path followed by a
// comma.
func WithVerbosity(v int) Option {
	return func(r *Runner) { r.verbosity = v }
}

// WithStats appends the "N / M annotations are valid." line after the scan.
func WithStats(enabled bool) Option {
	return func(r *Runner) { r.stats = enabled }
}

// WithObserver registers a callback that receives every file's Verdict,
// including skipped ones. It is called from worker goroutines and must be
// safe for concurrent use.
func WithObserver(fn func(Verdict)) Option {
	return func(r *Runner) { r.observer = fn }
}

// Runner drives one scan: enumerate, check concurrently, print in order.
type Runner struct {
	checker   *check.Checker
	out       io.Writer
	threads   int
	verbosity int
	stats     bool
	observer  func(Verdict)
}

// New builds a Runner that writes verdict lines (and the optional stats
// line) to out.
func New(checker *check.Checker, out io.Writer, opts ...Option) *Runner {
	r := &Runner{checker: checker, out: out}
	for _, opt := range opts {
		opt(r)
	}
	if r.threads <= 0 {
		r.threads = runtime.NumCPU()
	}
	return r
}

// Run checks every .json file under root. The returned Summary is valid even
// when err is non-nil only for write errors; an unreadable root returns
// before any file is checked.
func (r *Runner) Run(root string) (Summary, error) {
	files, err := listAnnotations(root)
	if err != nil {
		return Summary{}, err
	}

	var checked, valid atomic.Int64
	sink := NewOrderedSink(r.out)

	type job struct {
		id   int
		path string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < r.threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rel, relErr := filepath.Rel(root, j.path)
				if relErr != nil {
					rel = j.path
				}
				res, checkErr := r.checker.CheckFile(j.path)
				switch {
				case checkErr != nil:
					checked.Add(1)
					sink.Emit(j.id, rel+","+checkErr.Error())
					r.observe(Verdict{ID: j.id, Path: rel, Outcome: OutcomeFailed, Detail: checkErr.Error()})
				case res == check.Passed:
					checked.Add(1)
					valid.Add(1)
					if r.verbosity > 0 {
						sink.Emit(j.id, rel+",")
					} else {
						sink.Skip(j.id)
					}
					r.observe(Verdict{ID: j.id, Path: rel, Outcome: OutcomePassed})
				default:
					sink.Skip(j.id)
					r.observe(Verdict{ID: j.id, Path: rel, Outcome: OutcomeSkipped})
				}
			}
		}()
	}

	for i, path := range files {
		jobs <- job{id: i, path: path}
	}
	close(jobs)
	wg.Wait()

	if err := sink.FlushAll(); err != nil {
		return Summary{}, fmt.Errorf("write verdicts: %w", err)
	}

	sum := Summary{Files: len(files), Checked: checked.Load(), Valid: valid.Load()}
	if r.stats {
		fmt.Fprintf(r.out, "%d / %d annotations are valid.\n", sum.Valid, sum.Checked)
	}
	return sum, nil
}

func (r *Runner) observe(v Verdict) {
	if r.observer != nil {
		r.observer(v)
	}
}

// listAnnotations collects every .json file under root, recursively. WalkDir
// visits each directory's entries in lexical order, so the list is already
// deterministic: siblings sort by name and a directory's whole subtree
// precedes its later siblings.
func listAnnotations(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
