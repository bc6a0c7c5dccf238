package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/roach88/annocheck/internal/ast"
	"github.com/roach88/annocheck/internal/parser"
)

// loadRuleLines reads one rule file, one rule per line. Lines are returned
// verbatim: there is no comment syntax and no blank-line skipping, so a
// stray empty line will fail to parse later with its own error. A trailing
// final newline yields no empty rule.
func loadRuleLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// loadRuleSet concatenates the main rule file and any additional rule files
// in argument order, then parses the combined set. Parse failures across all
// rules are aggregated into a single error.
func loadRuleSet(path string, additional []string) ([]string, []ast.Rule, error) {
	lines, err := loadRuleLines(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	for _, extra := range additional {
		more, err := loadRuleLines(extra)
		if err != nil {
			return nil, nil, fmt.Errorf("reading rule file %s: %w", extra, err)
		}
		lines = append(lines, more...)
	}

	rules, err := parser.ParseRules(lines)
	if err != nil {
		return nil, nil, err
	}
	return lines, rules, nil
}
