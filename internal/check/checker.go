// Package check decides whether a single annotation satisfies a rule set.
// It glues the flag gate, the label binder, and the expression evaluator
// into one per-record verdict; running that verdict across a directory is
// the runner package's job.
package check

import (
	"errors"
	"os"

	"github.com/roach88/annocheck/internal/ast"
	"github.com/roach88/annocheck/internal/eval"
	"github.com/roach88/annocheck/internal/labelme"
)

// CheckResult distinguishes records the gate excluded from records that were
// actually evaluated. A record that was evaluated and failed is reported
// through the error return instead.
type CheckResult int

const (
	// Skipped means the flag gate excluded the record before any rule ran.
	Skipped CheckResult = iota
	// Passed means every rule held.
	Passed
)

func (r CheckResult) String() string {
	switch r {
	case Skipped:
		return "skipped"
	case Passed:
		return "passed"
	default:
		return "unknown"
	}
}

// Checker evaluates one rule set against annotation records. It is immutable
// after construction and safe for concurrent use.
type Checker struct {
	rules    []ast.Rule
	required labelme.FlagSet
	ignored  labelme.FlagSet
}

// New builds a Checker. A record is evaluated only when it clears both flag
// filters: required non-empty means at least one required flag must be true
// on the record, and any true ignored flag excludes the record outright.
func New(rules []ast.Rule, required, ignored labelme.FlagSet) *Checker {
	return &Checker{rules: rules, required: required, ignored: ignored}
}

func (c *Checker) shouldSkip(trueFlags labelme.FlagSet) bool {
	if len(c.required) > 0 && !trueFlags.Intersects(c.required) {
		return true
	}
	return trueFlags.Intersects(c.ignored)
}

// CheckRecord runs the rule set against one decoded record. The result is
// meaningful only when the error is nil; a failing record comes back as an
// *UnsatisfiedRuleError or *UnsatisfiedRulesError.
func (c *Checker) CheckRecord(rec labelme.Record) (CheckResult, error) {
	if c.shouldSkip(rec.TrueFlags()) {
		return Skipped, nil
	}

	failures := EvaluateRules(c.rules, BindLabels(rec.Shapes))
	switch len(failures) {
	case 0:
		return Passed, nil
	case 1:
		f := failures[0]
		return Skipped, &UnsatisfiedRuleError{Rule: f.Rule, Lhs: f.Lhs, Rhs: f.Rhs}
	default:
		return Skipped, &UnsatisfiedRulesError{Failures: failures}
	}
}

// CheckBytes decodes raw annotation JSON and checks it. Decode failures come
// back as *InvalidJSONError.
func (c *Checker) CheckBytes(data []byte) (CheckResult, error) {
	rec, err := labelme.Decode(data)
	if err != nil {
		return Skipped, &InvalidJSONError{Detail: err.Error()}
	}
	return c.CheckRecord(rec)
}

// CheckFile reads and checks one annotation file. Any open or read failure
// maps to ErrFileNotFound, matching the path already having been enumerated
// by the caller.
func (c *Checker) CheckFile(path string) (CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Skipped, ErrFileNotFound
	}
	return c.CheckBytes(data)
}

// BindLabels builds the evaluation environment from a record's shapes. Only
// point shapes count: labels are tallied in first-seen order and any other
// shape type is invisible to rules, so a record holding nothing but
// rectangles yields empty bindings.
func BindLabels(shapes []labelme.Shape) eval.Bindings {
	counts := make(map[string]int64, len(shapes))
	order := make([]string, 0, len(shapes))
	for _, s := range shapes {
		if s.ShapeType != labelme.ShapeTypePoint {
			continue
		}
		if _, seen := counts[s.Label]; !seen {
			order = append(order, s.Label)
		}
		counts[s.Label]++
	}

	binds := make(eval.Bindings, 0, len(order))
	for _, label := range order {
		binds.Add(label, counts[label])
	}
	return binds
}

// EvaluateRules runs every rule in declared order and collects the ones that
// evaluate false. It applies no flag gate; callers that filter records by
// flags do so before calling.
func EvaluateRules(rules []ast.Rule, binds eval.Bindings) []RuleFailure {
	var failures []RuleFailure
	for _, rule := range rules {
		_, err := eval.Eval(rule.Expr, binds)
		if err == nil {
			continue
		}
		var m *eval.Mismatch
		if errors.As(err, &m) {
			failures = append(failures, RuleFailure{Rule: rule.Source, Lhs: m.Lhs, Rhs: m.Rhs})
		}
	}
	return failures
}
