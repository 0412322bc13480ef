package interp

import (
	"strings"

	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/types"
)

// Executor walks statement trees. It implements Runner; its expression
// work is delegated to the injected ExprEvaluator.
type Executor struct {
	eval ExprEvaluator
}

// NewExecutor creates an executor that evaluates expressions through ev.
func NewExecutor(ev ExprEvaluator) *Executor {
	return &Executor{eval: ev}
}

// Execute runs a statement sequence until it ends or a control-flow flag
// (break, continue, return, next, nextfile, exit) unwinds it.
func (x *Executor) Execute(ctx *Context, stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := x.execStmt(ctx, stmt); err != nil {
			return err
		}
		if ctx.unwinding() {
			return nil
		}
	}
	return nil
}

// unwinding reports whether a control-flow flag is propagating upward.
func (ctx *Context) unwinding() bool {
	return ctx.breakFlag || ctx.continueFlag || ctx.hasReturn ||
		ctx.shouldExit || ctx.shouldNext || ctx.shouldNextFile
}

func (x *Executor) execStmt(ctx *Context, stmt ast.Stmt) error {
	// Every statement charges the step limit; loop back-edges charge
	// again below, so a tight empty loop still runs out.
	if err := ctx.countStep(); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := x.eval.Eval(ctx, s.Expr)
		return err

	case *ast.PrintStmt:
		return x.execPrint(ctx, s)

	case *ast.BlockStmt:
		return x.Execute(ctx, s.Stmts)

	case *ast.IfStmt:
		cond, err := x.eval.Eval(ctx, s.Cond)
		if err != nil {
			return err
		}
		if cond.AsBool() {
			return x.execStmt(ctx, s.Then)
		}
		if s.Else != nil {
			return x.execStmt(ctx, s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := x.eval.Eval(ctx, s.Cond)
			if err != nil {
				return err
			}
			if !cond.AsBool() {
				return nil
			}
			if done, err := x.loopBody(ctx, s.Body); done || err != nil {
				return err
			}
		}

	case *ast.DoWhileStmt:
		for {
			if done, err := x.loopBody(ctx, s.Body); done || err != nil {
				return err
			}
			cond, err := x.eval.Eval(ctx, s.Cond)
			if err != nil {
				return err
			}
			if !cond.AsBool() {
				return nil
			}
		}

	case *ast.ForStmt:
		if s.Init != nil {
			if err := x.execStmt(ctx, s.Init); err != nil {
				return err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := x.eval.Eval(ctx, s.Cond)
				if err != nil {
					return err
				}
				if !cond.AsBool() {
					return nil
				}
			}
			if done, err := x.loopBody(ctx, s.Body); done || err != nil {
				return err
			}
			if s.Post != nil {
				if err := x.execStmt(ctx, s.Post); err != nil {
					return err
				}
			}
		}

	case *ast.ForInStmt:
		// Key order is unspecified, matching map iteration. Keys are
		// snapshotted so the body may delete from the array it walks.
		arr, ok := ctx.arrays[s.Array]
		if !ok {
			return nil
		}
		keys := make([]string, 0, len(arr))
		for k := range arr {
			keys = append(keys, k)
		}
		for _, k := range keys {
			ctx.SetVar(s.Var.Name, types.Str(k))
			if done, err := x.loopBody(ctx, s.Body); done || err != nil {
				return err
			}
		}
		return nil

	case *ast.BreakStmt:
		ctx.breakFlag = true
		return nil

	case *ast.ContinueStmt:
		ctx.continueFlag = true
		return nil

	case *ast.NextStmt:
		ctx.shouldNext = true
		return nil

	case *ast.NextFileStmt:
		ctx.shouldNextFile = true
		return nil

	case *ast.ReturnStmt:
		if s.Value != nil {
			v, err := x.eval.Eval(ctx, s.Value)
			if err != nil {
				return err
			}
			ctx.returnValue = v
		} else {
			ctx.returnValue = types.Str("")
		}
		ctx.hasReturn = true
		return nil

	case *ast.ExitStmt:
		if s.Code != nil {
			v, err := x.eval.Eval(ctx, s.Code)
			if err != nil {
				return err
			}
			ctx.exitCode = int(v.AsNum())
		}
		ctx.shouldExit = true
		return nil

	case *ast.DeleteStmt:
		if len(s.Index) == 0 {
			ctx.DeleteArray(s.Array)
			return nil
		}
		ev, ok := x.eval.(*Evaluator)
		if !ok {
			return runtimeErrorf("delete requires the standard evaluator")
		}
		key, err := ev.evalIndex(ctx, s.Index)
		if err != nil {
			return err
		}
		ctx.DeleteArrayElem(s.Array, key)
		return nil

	default:
		return runtimeErrorf("cannot execute %T", stmt)
	}
}

// loopBody runs one loop iteration, consuming break and continue.
// done means the loop should stop (break, or an outer unwind).
func (x *Executor) loopBody(ctx *Context, body ast.Stmt) (bool, error) {
	// The back-edge charge: each iteration costs a step beyond its
	// body's statements.
	if err := ctx.countStep(); err != nil {
		return true, err
	}
	if err := x.execStmt(ctx, body); err != nil {
		return true, err
	}
	if ctx.continueFlag {
		ctx.continueFlag = false
	}
	if ctx.breakFlag {
		ctx.breakFlag = false
		return true, nil
	}
	if ctx.unwinding() {
		return true, nil
	}
	return false, nil
}

func (x *Executor) execPrint(ctx *Context, s *ast.PrintStmt) error {
	if s.Printf {
		vals := make([]types.Value, len(s.Args))
		for i, arg := range s.Args {
			v, err := x.eval.Eval(ctx, arg)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		out, err := sprintfValues(ctx, ctx.toStr(vals[0]), vals[1:])
		if err != nil {
			return err
		}
		ctx.write(out)
		return nil
	}

	if len(s.Args) == 0 {
		ctx.write(ctx.line)
		ctx.write(ctx.ors)
		return nil
	}
	parts := make([]string, len(s.Args))
	for i, arg := range s.Args {
		v, err := x.eval.Eval(ctx, arg)
		if err != nil {
			return err
		}
		parts[i] = ctx.toStr(v)
	}
	ctx.write(strings.Join(parts, ctx.ofs))
	ctx.write(ctx.ors)
	return nil
}
