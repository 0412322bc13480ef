package interp

import (
	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/runtime"
	"github.com/kolkov/sawk/internal/types"
)

// evalGetline dispatches the four getline forms. Each one yields the
// status value 1 (record read), 0 (end of input), or -1 (source
// unavailable or unreadable).
//
//	getline             next main record into $0, bumps NR and FNR
//	getline var         next main record into var, bumps NR and FNR
//	getline < file      next file record into $0, NR untouched
//	getline var < file  next file record into var, NR untouched
func (e *Evaluator) evalGetline(ctx *Context, ex *ast.GetlineExpr) (types.Value, error) {
	if ex.File != nil {
		fv, err := e.Eval(ctx, ex.File)
		if err != nil {
			return types.Value{}, err
		}
		line, status := ctx.files.Next(ctx.fsys, ctx.dir, ctx.toStr(fv))
		if status != runtime.GetlineOK {
			return types.Num(float64(status)), nil
		}
		if ex.Target != nil {
			if err := e.assign(ctx, ex.Target, types.Str(line)); err != nil {
				return types.Value{}, err
			}
		} else {
			ctx.SetLine(line)
		}
		return types.Num(runtime.GetlineOK), nil
	}

	// Main-input form. The cursor is shared with the driver's record
	// loop, so records consumed here never reach the rule pass.
	if !ctx.haveInput {
		return types.Num(runtime.GetlineError), nil
	}
	if ctx.inputPos >= len(ctx.inputLines) {
		return types.Num(runtime.GetlineEOF), nil
	}
	line := ctx.inputLines[ctx.inputPos]
	ctx.inputPos++
	ctx.nr++
	ctx.fnr++
	if ex.Target != nil {
		if err := e.assign(ctx, ex.Target, types.Str(line)); err != nil {
			return types.Value{}, err
		}
	} else {
		ctx.SetLine(line)
	}
	return types.Num(runtime.GetlineOK), nil
}
