package ast

// -----------------------------------------------------------------------------
// Basic statements
// -----------------------------------------------------------------------------

// ExprStmt represents an expression used as a statement.
// Examples: count++, f(x)
type ExprStmt struct {
	Expr Expr
}

// PrintStmt represents a print or printf statement.
// Output always goes to the run's output buffer; there is no
// redirection surface in this dialect.
// Examples:
//   - print
//   - print $1, $2
//   - printf "%d\n", count
type PrintStmt struct {
	Printf bool   // true for printf, false for print
	Args   []Expr // Arguments (empty print means print $0)
}

// BlockStmt represents a block of statements.
// Example: { stmt1; stmt2 }
type BlockStmt struct {
	Stmts []Stmt
}

// -----------------------------------------------------------------------------
// Conditional and loop statements
// -----------------------------------------------------------------------------

// IfStmt represents an if or if-else statement.
type IfStmt struct {
	Cond Expr
	Then Stmt // usually *BlockStmt
	Else Stmt // nil if no else, or another *IfStmt for else-if
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// DoWhileStmt represents a do-while loop.
type DoWhileStmt struct {
	Body Stmt
	Cond Expr // evaluated after each iteration
}

// ForStmt represents a C-style for loop.
type ForStmt struct {
	Init Stmt // may be nil
	Cond Expr // may be nil, means true
	Post Stmt // may be nil
	Body Stmt
}

// ForInStmt represents a for-in loop over array keys.
// Example: for (key in arr) { print key }
type ForInStmt struct {
	Var   *Ident // Loop variable (receives each key)
	Array string // Array name
	Body  Stmt
}

// -----------------------------------------------------------------------------
// Control flow statements
// -----------------------------------------------------------------------------

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct{}

// ContinueStmt jumps to the next iteration of the innermost enclosing loop.
type ContinueStmt struct{}

// NextStmt skips to the next input record.
type NextStmt struct{}

// NextFileStmt skips to the next input file.
type NextFileStmt struct{}

// ReturnStmt returns from the current function, optionally with a value.
type ReturnStmt struct {
	Value Expr // nil for bare return
}

// ExitStmt terminates processing, optionally with an exit code.
// END rules still run after an exit from a main rule.
type ExitStmt struct {
	Code Expr // nil defaults to 0
}

// DeleteStmt removes an array element or clears a whole array.
// Examples: delete arr[key], delete arr[i,j], delete arr
type DeleteStmt struct {
	Array string
	Index []Expr // nil or empty to delete the entire array
}

// -----------------------------------------------------------------------------
// Marker methods and compile-time checks
// -----------------------------------------------------------------------------

func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()      {}
func (*ForInStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*NextStmt) stmtNode()     {}
func (*NextFileStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*ExitStmt) stmtNode()     {}
func (*DeleteStmt) stmtNode()   {}

var (
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*PrintStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*DoWhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ForInStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*NextStmt)(nil)
	_ Stmt = (*NextFileStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*ExitStmt)(nil)
	_ Stmt = (*DeleteStmt)(nil)
)
