package parser

import "fmt"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenInt
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenLParen
	tokenRParen
	tokenCmp // one of == != <= < >= >
)

// token is one lexeme with its byte offset into the rule text.
type token struct {
	kind   tokenKind
	text   string
	offset int
}

// describe renders a token for error messages.
func (t token) describe() string {
	if t.kind == tokenEOF {
		return "end of rule"
	}
	return fmt.Sprintf("%q", t.text)
}

// lex splits one rule line into tokens. Whitespace between tokens is
// insignificant. A single "=" is not an operator and fails here, before
// the parser ever sees it.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '+':
			toks = append(toks, token{tokenPlus, "+", i})
			i++
		case c == '*':
			toks = append(toks, token{tokenStar, "*", i})
			i++
		case c == '(':
			toks = append(toks, token{tokenLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokenRParen, ")", i})
			i++

		case c == '-':
			// Always unary-or-binary minus; the parser decides which.
			toks = append(toks, token{tokenMinus, "-", i})
			i++

		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokenCmp, "==", i})
				i += 2
				break
			}
			return nil, &SyntaxError{Rule: input, Offset: i, Msg: `unexpected "=" (comparison is "==")`}
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokenCmp, "!=", i})
				i += 2
				break
			}
			return nil, &SyntaxError{Rule: input, Offset: i, Msg: `unexpected "!" (comparison is "!=")`}
		case c == '<':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokenCmp, "<=", i})
				i += 2
				break
			}
			toks = append(toks, token{tokenCmp, "<", i})
			i++
		case c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokenCmp, ">=", i})
				i += 2
				break
			}
			toks = append(toks, token{tokenCmp, ">", i})
			i++

		case isDigit(c):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			toks = append(toks, token{tokenInt, input[start:i], start})

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			toks = append(toks, token{tokenIdent, input[start:i], start})

		default:
			return nil, &SyntaxError{Rule: input, Offset: i, Msg: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}

	toks = append(toks, token{kind: tokenEOF, offset: len(input)})
	return toks, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Identifiers are labels: ASCII letters, digits, and underscores, not
// starting with a digit.
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
