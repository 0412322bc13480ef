package ast

// Program represents a complete sawk program.
// A program consists of:
//   - Optional BEGIN blocks (executed before processing input)
//   - Pattern-action rules (executed for each input record)
//   - Optional END blocks (executed after all input is processed)
//   - User-defined functions
type Program struct {
	// BEGIN blocks, executed in order before any input processing.
	Begin []*BlockStmt

	// Pattern-action rules, executed in order for each input record.
	Rules []*Rule

	// EndBlocks are executed in order after all input is processed.
	EndBlocks []*BlockStmt

	// User-defined function declarations.
	Functions []*FuncDecl
}

// Rule represents a pattern-action rule.
// Examples:
//   - { print }                    -> Pattern is nil (matches all records)
//   - /regex/ { print }            -> Pattern is *RegexLit
//   - $1 > 100 { print $2 }        -> Pattern is *BinaryExpr
//   - /start/,/end/ { print }      -> range pattern: Pattern + RangeEnd
type Rule struct {
	// Pattern expression controlling whether the action runs.
	// nil means the rule matches every record.
	Pattern Expr

	// RangeEnd, when non-nil, makes this a range pattern: Pattern is the
	// start condition and RangeEnd the end condition. Both boundaries are
	// inclusive; the per-rule active state lives in the driver.
	RangeEnd Expr

	// Action to execute when the pattern matches.
	// nil means the default action: { print $0 }
	Action *BlockStmt
}

// FuncDecl represents a user-defined function declaration.
// Example: function add(a, b) { return a + b }
//
// Parameters double as local variables by the usual AWK convention:
// extra parameters not supplied by the caller start out empty.
// Array parameters alias the caller's array when a bare array name is
// passed as the argument.
type FuncDecl struct {
	Name   string
	Params []string
	Body   *BlockStmt
}
