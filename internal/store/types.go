package store

import (
	"strings"
	"time"
)

// Run is one recorded validation scan.
type Run struct {
	ID        string
	Root      string
	Rules     []string
	CreatedAt time.Time
	Checked   int64
	Valid     int64
}

// Verdict is one file's outcome within a run. FileID is the file's slot in
// enumeration order; Detail carries the error message for failed files and
// is empty otherwise.
type Verdict struct {
	FileID  int
	Path    string
	Outcome string
	Detail  string
}

// Verdict outcomes as stored. The schema enforces this set with a CHECK
// constraint.
const (
	OutcomePassed  = "passed"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// joinRules flattens a rule list into the single TEXT column. Rule text
// never contains newlines (the parser works line by line), so a newline
// join round-trips exactly.
func joinRules(rules []string) string {
	return strings.Join(rules, "\n")
}

func splitRules(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
