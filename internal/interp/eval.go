package interp

import (
	"math"
	"strings"

	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/token"
	"github.com/kolkov/sawk/internal/types"
)

// Runner executes a statement sequence against a context. The default
// implementation is Executor; the indirection exists because the
// evaluator needs to run user-function bodies while the executor needs
// to evaluate expressions. The driver wires the two together at
// startup instead of creating an import cycle between them.
type Runner interface {
	Execute(ctx *Context, stmts []ast.Stmt) error
}

// ExprEvaluator evaluates a single expression against a context.
// It is the half of the interface pair consumed by the executor.
type ExprEvaluator interface {
	Eval(ctx *Context, expr ast.Expr) (types.Value, error)
}

// Evaluator is the recursive-descent expression evaluator.
type Evaluator struct {
	runner Runner
}

// NewEvaluator creates an evaluator with no runner; user-function calls
// fail until SetRunner is called.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// SetRunner injects the statement executor used for user-function bodies.
func (e *Evaluator) SetRunner(r Runner) {
	e.runner = r
}

// Eval evaluates an expression tree node to a value.
func (e *Evaluator) Eval(ctx *Context, expr ast.Expr) (types.Value, error) {
	switch ex := expr.(type) {
	case *ast.NumLit:
		return types.Num(ex.Value), nil

	case *ast.StrLit:
		return types.Str(ex.Value), nil

	case *ast.RegexLit:
		// A bare regex matches against the current record.
		re, err := ctx.regexCache.Get(ex.Pattern)
		if err != nil {
			return types.Bool(false), nil
		}
		return types.Bool(re.MatchString(ctx.line)), nil

	case *ast.Ident:
		return ctx.GetVar(ex.Name), nil

	case *ast.FieldExpr:
		idx, err := e.Eval(ctx, ex.Index)
		if err != nil {
			return types.Value{}, err
		}
		return ctx.GetField(int(idx.AsNum())), nil

	case *ast.IndexExpr:
		key, err := e.evalIndex(ctx, ex.Index)
		if err != nil {
			return types.Value{}, err
		}
		return ctx.GetArrayElem(ex.Name, key), nil

	case *ast.BinaryExpr:
		return e.evalBinary(ctx, ex)

	case *ast.UnaryExpr:
		return e.evalUnary(ctx, ex)

	case *ast.IncrExpr:
		delta := float64(1)
		if ex.Op == token.DECR {
			delta = -1
		}
		return e.incrDecr(ctx, ex.Target, delta, ex.Post)

	case *ast.TernaryExpr:
		cond, err := e.Eval(ctx, ex.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if cond.AsBool() {
			return e.Eval(ctx, ex.Then)
		}
		return e.Eval(ctx, ex.Else)

	case *ast.AssignExpr:
		return e.evalAssign(ctx, ex)

	case *ast.ConcatExpr:
		var sb strings.Builder
		for _, sub := range ex.Exprs {
			v, err := e.Eval(ctx, sub)
			if err != nil {
				return types.Value{}, err
			}
			sb.WriteString(ctx.toStr(v))
		}
		return types.Str(sb.String()), nil

	case *ast.TupleExpr:
		// Every element runs for its side effects; the last one wins.
		var last types.Value
		for _, sub := range ex.Exprs {
			v, err := e.Eval(ctx, sub)
			if err != nil {
				return types.Value{}, err
			}
			last = v
		}
		return last, nil

	case *ast.CallExpr:
		if fn, ok := builtins[ex.Name]; ok {
			return fn(ctx, ex.Args, e)
		}
		if fn, ok := ctx.funcs[ex.Name]; ok {
			return e.callUser(ctx, fn, ex.Args)
		}
		// Unknown names degrade to the empty string.
		return types.Str(""), nil

	case *ast.GetlineExpr:
		return e.evalGetline(ctx, ex)

	case *ast.InExpr:
		key, err := e.evalIndex(ctx, ex.Index)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(ctx.HasArrayElem(ex.Array, key)), nil

	case *ast.MatchExpr:
		return e.evalMatch(ctx, ex)

	default:
		return types.Value{}, runtimeErrorf("cannot evaluate %T", expr)
	}
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

func (e *Evaluator) evalBinary(ctx *Context, ex *ast.BinaryExpr) (types.Value, error) {
	// Short-circuit logic first: the right side must not run once the
	// left side decides.
	switch ex.Op {
	case token.AND:
		left, err := e.Eval(ctx, ex.Left)
		if err != nil {
			return types.Value{}, err
		}
		if !left.AsBool() {
			return types.Bool(false), nil
		}
		right, err := e.Eval(ctx, ex.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(right.AsBool()), nil

	case token.OR:
		left, err := e.Eval(ctx, ex.Left)
		if err != nil {
			return types.Value{}, err
		}
		if left.AsBool() {
			return types.Bool(true), nil
		}
		right, err := e.Eval(ctx, ex.Right)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(right.AsBool()), nil
	}

	left, err := e.Eval(ctx, ex.Left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := e.Eval(ctx, ex.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch ex.Op {
	case token.LESS:
		return types.Bool(types.Compare(left, right, ctx.convfmt) < 0), nil
	case token.LTE:
		return types.Bool(types.Compare(left, right, ctx.convfmt) <= 0), nil
	case token.GREATER:
		return types.Bool(types.Compare(left, right, ctx.convfmt) > 0), nil
	case token.GTE:
		return types.Bool(types.Compare(left, right, ctx.convfmt) >= 0), nil
	case token.EQUALS:
		return types.Bool(types.Compare(left, right, ctx.convfmt) == 0), nil
	case token.NOT_EQUALS:
		return types.Bool(types.Compare(left, right, ctx.convfmt) != 0), nil
	}

	return arith(ex.Op, left.AsNum(), right.AsNum())
}

// arith applies an arithmetic operator. Division and modulo by zero are
// fatal here; compound assignment goes through arithCompound instead,
// where they yield 0.
func arith(op token.Token, l, r float64) (types.Value, error) {
	switch op {
	case token.ADD:
		return types.Num(l + r), nil
	case token.SUB:
		return types.Num(l - r), nil
	case token.MUL:
		return types.Num(l * r), nil
	case token.DIV:
		if r == 0 {
			return types.Value{}, runtimeErrorf("division by zero")
		}
		return types.Num(l / r), nil
	case token.MOD:
		if r == 0 {
			return types.Value{}, runtimeErrorf("division by zero in %%")
		}
		return types.Num(math.Mod(l, r)), nil
	case token.POW:
		return types.Num(math.Pow(l, r)), nil
	default:
		return types.Value{}, runtimeErrorf("unknown arithmetic operator %s", op)
	}
}

// arithCompound is arith for compound assignment: division and modulo
// by zero resolve to 0 instead of aborting. The asymmetry with the
// plain operators is intentional and load-bearing.
func arithCompound(op token.Token, l, r float64) types.Value {
	switch op {
	case token.ADD_ASSIGN:
		return types.Num(l + r)
	case token.SUB_ASSIGN:
		return types.Num(l - r)
	case token.MUL_ASSIGN:
		return types.Num(l * r)
	case token.DIV_ASSIGN:
		if r == 0 {
			return types.Num(0)
		}
		return types.Num(l / r)
	case token.MOD_ASSIGN:
		if r == 0 {
			return types.Num(0)
		}
		return types.Num(math.Mod(l, r))
	case token.POW_ASSIGN:
		return types.Num(math.Pow(l, r))
	default:
		return types.Num(0)
	}
}

func (e *Evaluator) evalUnary(ctx *Context, ex *ast.UnaryExpr) (types.Value, error) {
	v, err := e.Eval(ctx, ex.Expr)
	if err != nil {
		return types.Value{}, err
	}
	switch ex.Op {
	case token.NOT:
		return types.Bool(!v.AsBool()), nil
	case token.SUB:
		return types.Num(-v.AsNum()), nil
	case token.ADD:
		return types.Num(v.AsNum()), nil
	default:
		return types.Value{}, runtimeErrorf("unknown unary operator %s", ex.Op)
	}
}

func (e *Evaluator) evalMatch(ctx *Context, ex *ast.MatchExpr) (types.Value, error) {
	s, err := e.Eval(ctx, ex.Expr)
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := e.patternString(ctx, ex.Pattern)
	if err != nil {
		return types.Value{}, err
	}
	negate := ex.Op == token.NOT_MATCH

	re, compileErr := ctx.regexCache.Get(pattern)
	if compileErr != nil {
		// Fails soft: a bad pattern is "no match" for ~, "match" for !~.
		return types.Bool(negate), nil
	}
	matched := re.MatchString(ctx.toStr(s))
	if negate {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// patternString resolves a match pattern: literal patterns are used
// directly, anything else is evaluated and coerced to a string.
func (e *Evaluator) patternString(ctx *Context, expr ast.Expr) (string, error) {
	if lit, ok := expr.(*ast.RegexLit); ok {
		return lit.Pattern, nil
	}
	v, err := e.Eval(ctx, expr)
	if err != nil {
		return "", err
	}
	return ctx.toStr(v), nil
}

// -----------------------------------------------------------------------------
// Assignment targets
// -----------------------------------------------------------------------------

func (e *Evaluator) evalAssign(ctx *Context, ex *ast.AssignExpr) (types.Value, error) {
	if ex.Op == token.ASSIGN {
		v, err := e.Eval(ctx, ex.Right)
		if err != nil {
			return types.Value{}, err
		}
		if err := e.assign(ctx, ex.Left, v); err != nil {
			return types.Value{}, err
		}
		return v, nil
	}

	// Compound form: read target, coerce both to numbers, write back
	// through the same target dispatch as plain assignment.
	cur, err := e.readTarget(ctx, ex.Left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := e.Eval(ctx, ex.Right)
	if err != nil {
		return types.Value{}, err
	}
	v := arithCompound(ex.Op, cur.AsNum(), right.AsNum())
	if err := e.assign(ctx, ex.Left, v); err != nil {
		return types.Value{}, err
	}
	return v, nil
}

// assign writes a value through an lvalue: field, scalar, or array
// element (tuple subscripts joined with SUBSEP).
func (e *Evaluator) assign(ctx *Context, target ast.Expr, v types.Value) error {
	switch t := target.(type) {
	case *ast.Ident:
		ctx.SetVar(t.Name, v)
		return nil
	case *ast.FieldExpr:
		idx, err := e.Eval(ctx, t.Index)
		if err != nil {
			return err
		}
		ctx.SetField(int(idx.AsNum()), v)
		return nil
	case *ast.IndexExpr:
		key, err := e.evalIndex(ctx, t.Index)
		if err != nil {
			return err
		}
		ctx.SetArrayElem(t.Name, key, v)
		return nil
	default:
		return runtimeErrorf("cannot assign to %T", target)
	}
}

// readTarget reads the current value of an lvalue.
func (e *Evaluator) readTarget(ctx *Context, target ast.Expr) (types.Value, error) {
	switch t := target.(type) {
	case *ast.Ident:
		return ctx.GetVar(t.Name), nil
	case *ast.FieldExpr:
		idx, err := e.Eval(ctx, t.Index)
		if err != nil {
			return types.Value{}, err
		}
		return ctx.GetField(int(idx.AsNum())), nil
	case *ast.IndexExpr:
		key, err := e.evalIndex(ctx, t.Index)
		if err != nil {
			return types.Value{}, err
		}
		return ctx.GetArrayElem(t.Name, key), nil
	default:
		return types.Value{}, runtimeErrorf("cannot read %T as an assignment target", target)
	}
}

// incrDecr is the unified pre/post increment and decrement routine:
// read the old numeric value, write old+delta, return old (post) or
// old+delta (pre).
func (e *Evaluator) incrDecr(ctx *Context, target ast.Expr, delta float64, returnOld bool) (types.Value, error) {
	cur, err := e.readTarget(ctx, target)
	if err != nil {
		return types.Value{}, err
	}
	old := cur.AsNum()
	if err := e.assign(ctx, target, types.Num(old+delta)); err != nil {
		return types.Value{}, err
	}
	if returnOld {
		return types.Num(old), nil
	}
	return types.Num(old + delta), nil
}

// evalIndex evaluates array subscripts left-to-right and joins multiple
// subscripts with SUBSEP to form the composite key.
func (e *Evaluator) evalIndex(ctx *Context, index []ast.Expr) (string, error) {
	if len(index) == 1 {
		v, err := e.Eval(ctx, index[0])
		if err != nil {
			return "", err
		}
		return ctx.toStr(v), nil
	}
	parts := make([]string, len(index))
	for i, sub := range index {
		v, err := e.Eval(ctx, sub)
		if err != nil {
			return "", err
		}
		parts[i] = ctx.toStr(v)
	}
	return strings.Join(parts, ctx.subsep), nil
}

// -----------------------------------------------------------------------------
// User function calls
// -----------------------------------------------------------------------------

// savedParam records a parameter's pre-call global state for restore.
type savedParam struct {
	name      string
	value     types.Value
	hadValue  bool
	array     map[string]types.Value
	hadArray  bool
}

// callUser implements the user-function call protocol: parameters
// shadow globals for the duration of the call. For each parameter the
// current global scalar and array are saved and the array is removed,
// so the callee starts with a fresh empty array unless the caller
// passed one. Arrays pass by aliasing the caller's map, never by copy.
func (e *Evaluator) callUser(ctx *Context, fn *ast.FuncDecl, args []ast.Expr) (types.Value, error) {
	if e.runner == nil {
		return types.Value{}, runtimeErrorf("no statement runner installed")
	}
	if err := ctx.enterCall(); err != nil {
		return types.Value{}, err
	}
	defer ctx.leaveCall()

	if len(args) > len(fn.Params) {
		return types.Value{}, runtimeErrorf("%s called with %d args but declares %d parameters",
			fn.Name, len(args), len(fn.Params))
	}

	// Evaluate every argument against the caller's scope before any
	// parameter is shadowed: a later argument may name an earlier
	// parameter and must see the caller's binding. A bare name that
	// refers to an array (or to nothing at all) resolves to the caller's
	// array object itself, so callee mutations are visible to the caller.
	values := make([]types.Value, len(args))
	arrays := make([]map[string]types.Value, len(args))
	for i, arg := range args {
		if name, isArr := e.arrayArgument(ctx, arg); isArr {
			arrays[i] = e.lookupArgArray(ctx, name)
			continue
		}
		v, err := e.Eval(ctx, arg)
		if err != nil {
			return types.Value{}, err
		}
		values[i] = v
	}

	// Save every parameter's global state and detach it.
	saves := make([]savedParam, len(fn.Params))
	for i, name := range fn.Params {
		sp := savedParam{name: name}
		sp.value, sp.hadValue = ctx.globals[name]
		sp.array, sp.hadArray = ctx.arrays[name]
		delete(ctx.globals, name)
		delete(ctx.arrays, name)
		saves[i] = sp
	}

	restore := func() {
		for _, sp := range saves {
			if sp.hadValue {
				ctx.globals[sp.name] = sp.value
			} else {
				delete(ctx.globals, sp.name)
			}
			if sp.hadArray {
				ctx.arrays[sp.name] = sp.array
			} else {
				delete(ctx.arrays, sp.name)
			}
		}
	}

	// Bind the pre-evaluated arguments; arrays alias, never copy.
	for i := range args {
		param := fn.Params[i]
		if arrays[i] != nil {
			ctx.arrays[param] = arrays[i]
			continue
		}
		ctx.globals[param] = values[i]
	}
	// Unsupplied trailing parameters start out empty.
	for i := len(args); i < len(fn.Params); i++ {
		ctx.globals[fn.Params[i]] = types.Str("")
	}

	ctx.hasReturn = false
	ctx.returnValue = types.Value{}
	err := e.runner.Execute(ctx, fn.Body.Stmts)

	ret := types.Str("")
	if ctx.hasReturn {
		ret = ctx.returnValue
	}
	ctx.hasReturn = false
	ctx.returnValue = types.Value{}

	restore()
	if err != nil {
		return types.Value{}, err
	}
	return ret, nil
}

// arrayArgument reports whether arg should bind by array aliasing:
// a bare name that currently holds an array, or holds nothing at all
// (the callee may populate it and the caller observes the result).
// Resolution happens before the callee's parameters shadow anything,
// so the current global maps are the caller's scope.
func (e *Evaluator) arrayArgument(ctx *Context, arg ast.Expr) (string, bool) {
	id, ok := arg.(*ast.Ident)
	if !ok {
		return "", false
	}
	if _, isArr := ctx.arrays[id.Name]; isArr {
		return id.Name, true
	}
	if _, isScalar := ctx.globals[id.Name]; !isScalar && !isSpecialVar(id.Name) {
		return id.Name, true
	}
	return "", false
}

// lookupArgArray resolves the caller's array object for an aliased
// argument, creating it in the caller's scope when absent so that
// callee writes survive the call.
func (e *Evaluator) lookupArgArray(ctx *Context, name string) map[string]types.Value {
	arr, ok := ctx.arrays[name]
	if !ok {
		arr = make(map[string]types.Value)
		ctx.arrays[name] = arr
	}
	return arr
}

func isSpecialVar(name string) bool {
	switch name {
	case "NR", "FNR", "NF", "FS", "OFS", "ORS", "SUBSEP", "CONVFMT",
		"RSTART", "RLENGTH", "FILENAME":
		return true
	}
	return false
}
