// Package parser turns rule text into expression trees.
//
// One rule per line. Precedence, loosest to tightest: comparison, additive
// (+ -), multiplicative (*), unary minus, atoms (integer literal, label,
// parenthesized expression). Binary operators fold left; comparison chains
// fold left too, so "a == b == c" parses as "(a == b) == c".
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/annocheck/internal/ast"
)

// SyntaxError describes why one rule failed to parse.
type SyntaxError struct {
	Rule   string // verbatim rule text
	Offset int    // byte offset of the failure
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("rule %q: %s at column %d", e.Rule, e.Msg, e.Offset+1)
}

// Parse parses a single rule line.
func Parse(line string) (ast.Expr, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &parser{rule: line, toks: toks}
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorf(tok, "unexpected %s after expression", tok.describe())
	}
	return expr, nil
}

// ParseRules parses every line of a rule set. All failing lines are
// reported, not just the first: the returned error joins one
// "Parse error: ..." message per bad rule with newlines. Callers treat any
// error as fatal and abort before scanning files.
func ParseRules(lines []string) ([]ast.Rule, error) {
	rules := make([]ast.Rule, 0, len(lines))
	var errs []error
	for _, line := range lines {
		expr, err := Parse(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("Parse error: %w", err))
			continue
		}
		rules = append(rules, ast.Rule{Source: line, Expr: expr})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

type parser struct {
	rule string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Rule: p.rule, Offset: tok.offset, Msg: fmt.Sprintf(format, args...)}
}

// comparison = additive (cmpOp additive)*
func (p *parser) comparison() (ast.Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenCmp {
		op := p.next()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = ast.Cmp{Left: left, Op: ast.CmpOp(op.text), Right: right}
	}
	return left, nil
}

// additive = multiplicative (("+" | "-") multiplicative)*
func (p *parser) additive() (ast.Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenPlus:
			p.next()
			right, err := p.multiplicative()
			if err != nil {
				return nil, err
			}
			left = ast.Add{Left: left, Right: right}
		case tokenMinus:
			p.next()
			right, err := p.multiplicative()
			if err != nil {
				return nil, err
			}
			left = ast.Sub{Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// multiplicative = unary ("*" unary)*
func (p *parser) multiplicative() (ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenStar {
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = ast.Mul{Left: left, Right: right}
	}
	return left, nil
}

// unary = "-"* atom; the prefix minus stacks.
func (p *parser) unary() (ast.Expr, error) {
	if p.peek().kind == tokenMinus {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Neg{Operand: operand}, nil
	}
	return p.atom()
}

// atom = integer | label | "(" comparison ")"
func (p *parser) atom() (ast.Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokenInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer %s out of range", tok.text)
		}
		return ast.Num{Value: n}, nil

	case tokenIdent:
		return ast.Var{Name: tok.text}, nil

	case tokenLParen:
		// Parentheses admit a full expression, comparisons included, so
		// "(a == b) + 1" is grammatical.
		expr, err := p.comparison()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, p.errorf(closing, `expected ")", found %s`, closing.describe())
		}
		return expr, nil

	default:
		return nil, p.errorf(tok, `expected a number, label, or "(", found %s`, tok.describe())
	}
}
