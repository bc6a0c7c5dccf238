package check

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound reports an annotation path that could not be opened. The
// text is part of the CLI output contract.
var ErrFileNotFound = errors.New("File not found")

// InvalidJSONError reports an annotation file that could not be decoded.
type InvalidJSONError struct {
	Detail string
}

func (e *InvalidJSONError) Error() string {
	return "Invalid JSON: " + e.Detail
}

// RuleFailure records one rule that evaluated false, with the two operand
// values of the failing comparison.
type RuleFailure struct {
	Rule string
	Lhs  int64
	Rhs  int64
}

// UnsatisfiedRuleError is the verdict for a record that fails exactly one
// rule.
type UnsatisfiedRuleError struct {
	Rule string
	Lhs  int64
	Rhs  int64
}

func (e *UnsatisfiedRuleError) Error() string {
	return fmt.Sprintf("Unsatisfied rule; %q: %d vs. %d", e.Rule, e.Lhs, e.Rhs)
}

// UnsatisfiedRulesError is the verdict for a record that fails two or more
// rules. Failures keep declared rule order.
type UnsatisfiedRulesError struct {
	Failures []RuleFailure
}

func (e *UnsatisfiedRulesError) Error() string {
	var b strings.Builder
	b.WriteString("Unsatisfied rules;")
	// Every entry carries a leading space, so from the second entry on the
	// separator renders as a comma followed by two spaces.
	for i, f := range e.Failures {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, " %q: %d vs. %d", f.Rule, f.Lhs, f.Rhs)
	}
	return b.String()
}
