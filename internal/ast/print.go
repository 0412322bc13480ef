package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes a human-readable representation of AST nodes,
// suitable for debugging parsed programs.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram writes a pretty-printed representation of the program.
func (p *Printer) PrintProgram(prog *Program) error {
	for _, fn := range prog.Functions {
		p.line("function %s(%s)", fn.Name, strings.Join(fn.Params, ", "))
		p.printBlock(fn.Body)
	}
	for _, b := range prog.Begin {
		p.line("BEGIN")
		p.printBlock(b)
	}
	for _, r := range prog.Rules {
		switch {
		case r.Pattern == nil:
			p.line("rule <always>")
		case r.RangeEnd != nil:
			p.line("rule range %s , %s", ExprString(r.Pattern), ExprString(r.RangeEnd))
		default:
			p.line("rule %s", ExprString(r.Pattern))
		}
		if r.Action != nil {
			p.printBlock(r.Action)
		}
	}
	for _, b := range prog.EndBlocks {
		p.line("END")
		p.printBlock(b)
	}
	return p.err
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("    ", p.indent), fmt.Sprintf(format, args...))
}

func (p *Printer) printBlock(b *BlockStmt) {
	p.indent++
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printStmt(s Stmt) {
	switch st := s.(type) {
	case *ExprStmt:
		p.line("%s", ExprString(st.Expr))
	case *PrintStmt:
		name := "print"
		if st.Printf {
			name = "printf"
		}
		p.line("%s %s", name, exprListString(st.Args))
	case *BlockStmt:
		p.line("{")
		p.printBlock(st)
		p.line("}")
	case *IfStmt:
		p.line("if %s", ExprString(st.Cond))
		p.printStmtIndented(st.Then)
		if st.Else != nil {
			p.line("else")
			p.printStmtIndented(st.Else)
		}
	case *WhileStmt:
		p.line("while %s", ExprString(st.Cond))
		p.printStmtIndented(st.Body)
	case *DoWhileStmt:
		p.line("do")
		p.printStmtIndented(st.Body)
		p.line("while %s", ExprString(st.Cond))
	case *ForStmt:
		p.line("for")
		p.printStmtIndented(st.Body)
	case *ForInStmt:
		p.line("for %s in %s", st.Var.Name, st.Array)
		p.printStmtIndented(st.Body)
	case *BreakStmt:
		p.line("break")
	case *ContinueStmt:
		p.line("continue")
	case *NextStmt:
		p.line("next")
	case *NextFileStmt:
		p.line("nextfile")
	case *ReturnStmt:
		if st.Value != nil {
			p.line("return %s", ExprString(st.Value))
		} else {
			p.line("return")
		}
	case *ExitStmt:
		if st.Code != nil {
			p.line("exit %s", ExprString(st.Code))
		} else {
			p.line("exit")
		}
	case *DeleteStmt:
		if len(st.Index) > 0 {
			p.line("delete %s[%s]", st.Array, exprListString(st.Index))
		} else {
			p.line("delete %s", st.Array)
		}
	default:
		p.line("<unknown stmt %T>", s)
	}
}

func (p *Printer) printStmtIndented(s Stmt) {
	p.indent++
	p.printStmt(s)
	p.indent--
}

// ExprString returns a single-line source-like form of an expression.
func ExprString(e Expr) string {
	switch ex := e.(type) {
	case nil:
		return ""
	case *NumLit:
		return fmt.Sprintf("%g", ex.Value)
	case *StrLit:
		return fmt.Sprintf("%q", ex.Value)
	case *RegexLit:
		return "/" + ex.Pattern + "/"
	case *Ident:
		return ex.Name
	case *FieldExpr:
		return "$" + ExprString(ex.Index)
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", ex.Name, exprListString(ex.Index))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", ExprString(ex.Left), ex.Op, ExprString(ex.Right))
	case *UnaryExpr:
		return fmt.Sprintf("%s%s", ex.Op, ExprString(ex.Expr))
	case *IncrExpr:
		if ex.Post {
			return ExprString(ex.Target) + ex.Op.String()
		}
		return ex.Op.String() + ExprString(ex.Target)
	case *TernaryExpr:
		return fmt.Sprintf("(%s ? %s : %s)", ExprString(ex.Cond), ExprString(ex.Then), ExprString(ex.Else))
	case *AssignExpr:
		return fmt.Sprintf("%s %s %s", ExprString(ex.Left), ex.Op, ExprString(ex.Right))
	case *ConcatExpr:
		parts := make([]string, len(ex.Exprs))
		for i, sub := range ex.Exprs {
			parts[i] = ExprString(sub)
		}
		return strings.Join(parts, " ")
	case *TupleExpr:
		return "(" + exprListString(ex.Exprs) + ")"
	case *CallExpr:
		return fmt.Sprintf("%s(%s)", ex.Name, exprListString(ex.Args))
	case *GetlineExpr:
		s := "getline"
		if ex.Target != nil {
			s += " " + ExprString(ex.Target)
		}
		if ex.File != nil {
			s += " < " + ExprString(ex.File)
		}
		return s
	case *InExpr:
		return fmt.Sprintf("(%s) in %s", exprListString(ex.Index), ex.Array)
	case *MatchExpr:
		return fmt.Sprintf("%s %s %s", ExprString(ex.Expr), ex.Op, ExprString(ex.Pattern))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func exprListString(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, ", ")
}
