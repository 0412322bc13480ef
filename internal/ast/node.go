// Package ast defines the rule/statement/expression tree for sawk programs.
//
// The tree is the input type of the interpreter: hosts may obtain it from
// the bundled parser or construct it programmatically. Nodes carry no
// source positions; the parser reports positions in its own errors.
//
// Node hierarchy:
//
//	Expr (interface) - expressions that produce values
//	├── NumLit, StrLit, RegexLit - literals
//	├── Ident, FieldExpr, IndexExpr - references
//	├── BinaryExpr, UnaryExpr, TernaryExpr, IncrExpr - operations
//	├── AssignExpr, ConcatExpr, TupleExpr - special
//	└── CallExpr, GetlineExpr, InExpr, MatchExpr - calls and tests
//	Stmt (interface) - statements that perform actions
//	├── ExprStmt, PrintStmt, IfStmt - basic
//	├── WhileStmt, DoWhileStmt, ForStmt, ForInStmt - loops
//	├── BreakStmt, ContinueStmt, NextStmt, NextFileStmt - control
//	├── ReturnStmt, ExitStmt, DeleteStmt - other
//	└── BlockStmt - compound
//	Program, Rule, FuncDecl - top-level structures
package ast

// Expr is the interface for all expression nodes.
type Expr interface {
	exprNode() // marker method to prevent external implementations
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	stmtNode() // marker method to prevent external implementations
}

// IsLValue returns true if the expression can be used as an lvalue
// (left-hand side of assignment, target of ++/--, third arg to sub/gsub).
func IsLValue(e Expr) bool {
	switch e.(type) {
	case *Ident, *FieldExpr, *IndexExpr:
		return true
	default:
		return false
	}
}
