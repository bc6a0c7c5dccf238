package ast

// Expr is a sealed interface over rule-expression nodes.
// Only Num, Var, Neg, Add, Sub, Mul, and Cmp implement it.
type Expr interface {
	exprNode() // Sealed - only these types implement it
}

// Num is an integer literal. Always int64, never float.
type Num struct {
	Value int64
}

func (Num) exprNode() {}

// Var references a label by name. It resolves against per-record bindings
// at evaluation time; a name the record does not bind reads as zero.
type Var struct {
	Name string
}

func (Var) exprNode() {}

// Neg is unary negation. The prefix minus may stack, so Neg can wrap Neg.
type Neg struct {
	Operand Expr
}

func (Neg) exprNode() {}

// Add is integer addition.
type Add struct {
	Left  Expr
	Right Expr
}

func (Add) exprNode() {}

// Sub is integer subtraction.
type Sub struct {
	Left  Expr
	Right Expr
}

func (Sub) exprNode() {}

// Mul is integer multiplication.
type Mul struct {
	Left  Expr
	Right Expr
}

func (Mul) exprNode() {}

// Cmp compares two integer subexpressions. Comparison folds left, so a
// chained "a == b == c" parses as "(a == b) == c".
type Cmp struct {
	Left  Expr
	Op    CmpOp
	Right Expr
}

func (Cmp) exprNode() {}

// CmpOp is a comparison operator, spelled exactly as it appears in rule
// text.
type CmpOp string

// Comparison operators.
const (
	LE    CmpOp = "<="
	LT    CmpOp = "<"
	GE    CmpOp = ">="
	GT    CmpOp = ">"
	Eq    CmpOp = "=="
	NotEq CmpOp = "!="
)

// Rule pairs a rule's verbatim source line with its parsed expression.
// The source is kept for diagnostics; failure reports quote it back to the
// user unchanged.
type Rule struct {
	Source string
	Expr   Expr
}
