// Package eval computes integer values of parsed rule expressions against a
// set of label bindings. It imports only the ast package; everything it needs
// from an annotation arrives as Bindings.
package eval

import (
	"fmt"

	"github.com/roach88/annocheck/internal/ast"
)

// Mismatch reports a comparison that evaluated false. Both operand values are
// kept so diagnostics can show what was actually compared.
type Mismatch struct {
	Lhs int64
	Rhs int64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("comparison failed: %d vs. %d", m.Lhs, m.Rhs)
}

// Eval computes the value of an expression under the given bindings.
//
// A comparison contributes 1 when it holds. When it does not, Eval returns a
// *Mismatch carrying both operand values, and the mismatch propagates through
// any enclosing arithmetic, so a false comparison anywhere in the tree fails
// the whole rule. The returned value is meaningless when the error is
// non-nil.
func Eval(e ast.Expr, binds Bindings) (int64, error) {
	switch n := e.(type) {
	case ast.Num:
		return n.Value, nil
	case ast.Var:
		return binds.Lookup(n.Name), nil
	case ast.Neg:
		v, err := Eval(n.Operand, binds)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case ast.Add:
		l, r, err := evalPair(n.Left, n.Right, binds)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	case ast.Sub:
		l, r, err := evalPair(n.Left, n.Right, binds)
		if err != nil {
			return 0, err
		}
		return l - r, nil
	case ast.Mul:
		l, r, err := evalPair(n.Left, n.Right, binds)
		if err != nil {
			return 0, err
		}
		return l * r, nil
	case ast.Cmp:
		l, r, err := evalPair(n.Left, n.Right, binds)
		if err != nil {
			return 0, err
		}
		if holds(n.Op, l, r) {
			return 1, nil
		}
		return 0, &Mismatch{Lhs: l, Rhs: r}
	default:
		return 0, fmt.Errorf("unknown expression node: %T", e)
	}
}

func evalPair(left, right ast.Expr, binds Bindings) (int64, int64, error) {
	l, err := Eval(left, binds)
	if err != nil {
		return 0, 0, err
	}
	r, err := Eval(right, binds)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

func holds(op ast.CmpOp, l, r int64) bool {
	switch op {
	case ast.LE:
		return l <= r
	case ast.LT:
		return l < r
	case ast.GE:
		return l >= r
	case ast.GT:
		return l > r
	case ast.Eq:
		return l == r
	case ast.NotEq:
		return l != r
	default:
		return false
	}
}
