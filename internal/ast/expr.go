package ast

import "github.com/kolkov/sawk/internal/token"

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// NumLit represents a numeric literal.
// Examples: 42, 3.14, 1e10
type NumLit struct {
	Value float64 // Parsed numeric value
}

// StrLit represents a string literal.
// Examples: "hello", "world\n"
type StrLit struct {
	Value string // Unescaped string value
}

// RegexLit represents a regex literal.
// As a stand-alone expression it matches against the current record,
// evaluating to 1 or 0.
// Example: /[a-z]+/
type RegexLit struct {
	Pattern string // Regex pattern without delimiters
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// Ident represents a scalar variable reference.
// Examples: x, NF, FILENAME
type Ident struct {
	Name string
}

// FieldExpr represents a field reference.
// Examples: $0, $1, $NF, $(i+1)
type FieldExpr struct {
	Index Expr // Field index expression
}

// IndexExpr represents an array subscript expression.
// Multiple subscripts are joined with SUBSEP to form the storage key.
// Examples: arr[key], arr[i,j]
type IndexExpr struct {
	Name  string // Array name
	Index []Expr // Subscript expressions (at least one)
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// BinaryExpr represents a binary operation.
// Examples: a + b, x == y, p && q
type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr represents a unary operation.
// Examples: -x, !flag, +s
type UnaryExpr struct {
	Op   token.Token // NOT, SUB, or ADD
	Expr Expr
}

// IncrExpr represents a pre- or post-increment/decrement.
// Examples: ++i, i++, --arr[k], $3--
type IncrExpr struct {
	Op     token.Token // INCR or DECR
	Post   bool        // true for postfix (i++), false for prefix (++i)
	Target Expr        // Must be an lvalue
}

// TernaryExpr represents a conditional expression.
// Example: cond ? a : b
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// AssignExpr represents a plain or compound assignment.
// Examples: x = 1, arr[k] += v, $1 = "new"
type AssignExpr struct {
	Left  Expr        // Target (must be lvalue: Ident, IndexExpr, or FieldExpr)
	Op    token.Token // ASSIGN, ADD_ASSIGN, SUB_ASSIGN, ...
	Right Expr
}

// ConcatExpr represents implicit string concatenation.
// Example: a b c (adjacent expressions concatenate)
type ConcatExpr struct {
	Exprs []Expr // Expressions to concatenate (at least 2)
}

// TupleExpr represents a parenthesized comma expression.
// Every element is evaluated in order for its side effects; the value
// of the whole expression is the value of the last element.
// Example: (i = 1, j = 2)
type TupleExpr struct {
	Exprs []Expr
}

// -----------------------------------------------------------------------------
// Calls and tests
// -----------------------------------------------------------------------------

// CallExpr represents a function call, built-in or user-defined.
// Built-ins are resolved by name first; an unknown name evaluates to "".
// Examples: length($0), my_func(a, b)
type CallExpr struct {
	Name string
	Args []Expr
}

// GetlineExpr represents a getline expression.
// Forms:
//   - getline              -> read next record into $0
//   - getline var          -> read next record into var
//   - getline < file       -> read from file into $0
//   - getline var < file   -> read from file into var
type GetlineExpr struct {
	Target Expr // Variable to read into (nil means $0)
	File   Expr // File to read from (nil means the main input cursor)
}

// InExpr represents an array membership test.
// Examples: key in arr, (i,j) in arr
type InExpr struct {
	Index []Expr // Key expression(s)
	Array string // Array name
}

// MatchExpr represents a regex match expression.
// Examples: str ~ /re/, str !~ pat
type MatchExpr struct {
	Expr    Expr        // String expression to match
	Op      token.Token // MATCH (~) or NOT_MATCH (!~)
	Pattern Expr        // RegexLit or dynamic expression coerced to a pattern
}

// -----------------------------------------------------------------------------
// Marker methods and compile-time checks
// -----------------------------------------------------------------------------

func (*NumLit) exprNode()      {}
func (*StrLit) exprNode()      {}
func (*RegexLit) exprNode()    {}
func (*Ident) exprNode()       {}
func (*FieldExpr) exprNode()   {}
func (*IndexExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*UnaryExpr) exprNode()   {}
func (*IncrExpr) exprNode()    {}
func (*TernaryExpr) exprNode() {}
func (*AssignExpr) exprNode()  {}
func (*ConcatExpr) exprNode()  {}
func (*TupleExpr) exprNode()   {}
func (*CallExpr) exprNode()    {}
func (*GetlineExpr) exprNode() {}
func (*InExpr) exprNode()      {}
func (*MatchExpr) exprNode()   {}

var (
	_ Expr = (*NumLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*RegexLit)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*FieldExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*IncrExpr)(nil)
	_ Expr = (*TernaryExpr)(nil)
	_ Expr = (*AssignExpr)(nil)
	_ Expr = (*ConcatExpr)(nil)
	_ Expr = (*TupleExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*GetlineExpr)(nil)
	_ Expr = (*InExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
)
