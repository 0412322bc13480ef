package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/types"
)

// builtinFunc receives unevaluated arguments: some builtins need the
// expression shape (array names for split and length, lvalues for sub
// and gsub), not just values.
type builtinFunc func(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error)

// builtins is the name dispatch table. Resolution happens at call time:
// a name here wins over a user function of the same name.
var builtins map[string]builtinFunc

func init() {
	// Assigned in init so the table can reference functions that call
	// back into the evaluator without an initialization cycle.
	builtins = map[string]builtinFunc{
		"length":  builtinLength,
		"substr":  builtinSubstr,
		"index":   builtinIndex,
		"split":   builtinSplit,
		"sub":     builtinSub,
		"gsub":    builtinGsub,
		"match":   builtinMatch,
		"sprintf": builtinSprintf,
		"sin":     mathBuiltin(math.Sin),
		"cos":     mathBuiltin(math.Cos),
		"exp":     mathBuiltin(math.Exp),
		"log":     mathBuiltin(math.Log),
		"sqrt":    mathBuiltin(math.Sqrt),
		"int":     mathBuiltin(math.Trunc),
		"atan2":   builtinAtan2,
		"rand":    builtinRand,
		"srand":   builtinSrand,
		"tolower": stringBuiltin(strings.ToLower),
		"toupper": stringBuiltin(strings.ToUpper),
	}
}

func evalArgs(ctx *Context, args []ast.Expr, ev *Evaluator) ([]types.Value, error) {
	vals := make([]types.Value, len(args))
	for i, arg := range args {
		v, err := ev.Eval(ctx, arg)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func mathBuiltin(f func(float64) float64) builtinFunc {
	return func(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
		if len(args) == 0 {
			return types.Num(f(0)), nil
		}
		v, err := ev.Eval(ctx, args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(f(v.AsNum())), nil
	}
}

func stringBuiltin(f func(string) string) builtinFunc {
	return func(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
		if len(args) == 0 {
			return types.Str(""), nil
		}
		v, err := ev.Eval(ctx, args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Str(f(ctx.toStr(v))), nil
	}
}

// builtinLength returns the element count for an array argument, the
// string length otherwise, and length($0) with no argument.
func builtinLength(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	if len(args) == 0 {
		return types.Num(float64(len(ctx.line))), nil
	}
	if id, ok := args[0].(*ast.Ident); ok {
		if arr, isArr := ctx.arrays[id.Name]; isArr {
			return types.Num(float64(len(arr))), nil
		}
	}
	v, err := ev.Eval(ctx, args[0])
	if err != nil {
		return types.Value{}, err
	}
	return types.Num(float64(len(ctx.toStr(v)))), nil
}

// builtinSubstr is 1-based substr(s, start[, length]). A start before
// the beginning clamps to 1; a span past the end clamps to the end.
func builtinSubstr(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	vals, err := evalArgs(ctx, args, ev)
	if err != nil {
		return types.Value{}, err
	}
	if len(vals) < 2 {
		return types.Str(""), nil
	}
	s := ctx.toStr(vals[0])
	start := int(vals[1].AsNum())
	length := len(s)
	if len(vals) >= 3 {
		length = int(vals[2].AsNum())
	}
	if start < 1 {
		start = 1
	}
	start--
	if start >= len(s) || length <= 0 {
		return types.Str(""), nil
	}
	end := start + length
	if end > len(s) {
		end = len(s)
	}
	return types.Str(s[start:end]), nil
}

// builtinIndex returns the 1-based position of t in s, 0 when absent.
func builtinIndex(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	vals, err := evalArgs(ctx, args, ev)
	if err != nil {
		return types.Value{}, err
	}
	if len(vals) < 2 {
		return types.Num(0), nil
	}
	s := ctx.toStr(vals[0])
	t := ctx.toStr(vals[1])
	return types.Num(float64(strings.Index(s, t) + 1)), nil
}

// builtinSplit fills the named array with the pieces of a string, keyed
// "1".."n", and returns n. The array is cleared in place so aliases held
// by function parameters keep observing it.
func builtinSplit(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	if len(args) < 2 {
		return types.Num(0), nil
	}
	id, ok := args[1].(*ast.Ident)
	if !ok {
		return types.Value{}, runtimeErrorf("split: second argument must be an array name")
	}
	sv, err := ev.Eval(ctx, args[0])
	if err != nil {
		return types.Value{}, err
	}
	s := ctx.toStr(sv)

	sep := ctx.fs
	if len(args) >= 3 {
		sep, err = ev.patternString(ctx, args[2])
		if err != nil {
			return types.Value{}, err
		}
	}

	arr := ctx.Array(id.Name)
	for k := range arr {
		delete(arr, k)
	}
	if s == "" {
		return types.Num(0), nil
	}

	var parts []string
	switch {
	case sep == " ":
		parts = strings.Fields(s)
	case sep == "":
		parts = make([]string, 0, len(s))
		for _, r := range s {
			parts = append(parts, string(r))
		}
	case len(sep) == 1:
		parts = strings.Split(s, sep)
	default:
		re, err := ctx.regexCache.Get(sep)
		if err != nil {
			parts = []string{s}
		} else {
			parts = re.Split(s, -1)
		}
	}
	for i, part := range parts {
		arr[strconv.Itoa(i+1)] = types.Str(part)
	}
	return types.Num(float64(len(parts))), nil
}

// builtinSub replaces the first match of the pattern in the target
// lvalue ($0 when omitted) and returns the replacement count (0 or 1).
func builtinSub(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	return substitute(ctx, args, ev, false)
}

// builtinGsub is sub over every non-overlapping match.
func builtinGsub(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	return substitute(ctx, args, ev, true)
}

func substitute(ctx *Context, args []ast.Expr, ev *Evaluator, global bool) (types.Value, error) {
	if len(args) < 2 {
		return types.Num(0), nil
	}
	pattern, err := ev.patternString(ctx, args[0])
	if err != nil {
		return types.Value{}, err
	}
	rv, err := ev.Eval(ctx, args[1])
	if err != nil {
		return types.Value{}, err
	}
	replacement := ctx.toStr(rv)

	var target ast.Expr = &ast.FieldExpr{Index: &ast.NumLit{Value: 0}}
	if len(args) >= 3 {
		if !ast.IsLValue(args[2]) {
			return types.Value{}, runtimeErrorf("sub: third argument is not assignable")
		}
		target = args[2]
	}
	cur, err := ev.readTarget(ctx, target)
	if err != nil {
		return types.Value{}, err
	}
	s := ctx.toStr(cur)

	re, err := ctx.regexCache.Get(pattern)
	if err != nil {
		return types.Num(0), nil
	}

	count := 0
	var out string
	if global {
		out = re.ReplaceAllStringFunc(s, func(matched string) string {
			count++
			return expandReplacement(replacement, matched)
		})
	} else {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return types.Num(0), nil
		}
		count = 1
		out = s[:loc[0]] + expandReplacement(replacement, s[loc[0]:loc[1]]) + s[loc[1]:]
	}
	if count > 0 {
		if err := ev.assign(ctx, target, types.Str(out)); err != nil {
			return types.Value{}, err
		}
	}
	return types.Num(float64(count)), nil
}

// expandReplacement applies replacement-string semantics: & stands for
// the matched text, \& is a literal ampersand, \\ a literal backslash.
func expandReplacement(replacement, matched string) string {
	var sb strings.Builder
	i := 0
	for i < len(replacement) {
		if replacement[i] == '\\' && i+1 < len(replacement) {
			switch replacement[i+1] {
			case '&':
				sb.WriteByte('&')
				i += 2
				continue
			case '\\':
				sb.WriteByte('\\')
				i += 2
				continue
			}
		}
		if replacement[i] == '&' {
			sb.WriteString(matched)
		} else {
			sb.WriteByte(replacement[i])
		}
		i++
	}
	return sb.String()
}

// builtinMatch sets RSTART and RLENGTH and returns RSTART (1-based, or
// 0 with RLENGTH -1 when the pattern does not match or fails to compile).
func builtinMatch(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	if len(args) < 2 {
		return types.Num(0), nil
	}
	sv, err := ev.Eval(ctx, args[0])
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := ev.patternString(ctx, args[1])
	if err != nil {
		return types.Value{}, err
	}
	s := ctx.toStr(sv)

	ctx.rstart = 0
	ctx.rlength = -1
	re, compileErr := ctx.regexCache.Get(pattern)
	if compileErr != nil {
		return types.Num(0), nil
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return types.Num(0), nil
	}
	ctx.rstart = float64(loc[0] + 1)
	ctx.rlength = float64(loc[1] - loc[0])
	return types.Num(ctx.rstart), nil
}

func builtinSprintf(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	vals, err := evalArgs(ctx, args, ev)
	if err != nil {
		return types.Value{}, err
	}
	if len(vals) == 0 {
		return types.Str(""), nil
	}
	out, err := sprintfValues(ctx, ctx.toStr(vals[0]), vals[1:])
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(out), nil
}

func builtinAtan2(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	vals, err := evalArgs(ctx, args, ev)
	if err != nil {
		return types.Value{}, err
	}
	var y, x float64
	if len(vals) >= 1 {
		y = vals[0].AsNum()
	}
	if len(vals) >= 2 {
		x = vals[1].AsNum()
	}
	return types.Num(math.Atan2(y, x)), nil
}

func builtinRand(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	return types.Num(ctx.rng.Float64()), nil
}

// builtinSrand reseeds the generator and returns the previous seed.
// Without an argument it seeds from the wall clock.
func builtinSrand(ctx *Context, args []ast.Expr, ev *Evaluator) (types.Value, error) {
	prev := ctx.randSeed
	var seed float64
	if len(args) > 0 {
		v, err := ev.Eval(ctx, args[0])
		if err != nil {
			return types.Value{}, err
		}
		seed = v.AsNum()
	} else {
		seed = float64(time.Now().UnixNano())
	}
	ctx.randSeed = seed
	ctx.rng.Seed(int64(seed))
	return types.Num(prev), nil
}

func fmtAppend(sb *strings.Builder, format string, arg any) {
	sb.WriteString(fmt.Sprintf(format, arg))
}

// sprintfValues formats values with printf-style conversions: flags,
// width and precision (including *), and the d i o x X u c s e E f F g G
// specifiers. Missing arguments format as empty values; extra arguments
// are ignored.
func sprintfValues(ctx *Context, format string, values []types.Value) (string, error) {
	var result strings.Builder
	valueIdx := 0

	nextValue := func() types.Value {
		if valueIdx < len(values) {
			v := values[valueIdx]
			valueIdx++
			return v
		}
		return types.Value{}
	}

	i := 0
	for i < len(format) {
		if format[i] != '%' {
			result.WriteByte(format[i])
			i++
			continue
		}
		i++
		if i >= len(format) {
			result.WriteByte('%')
			break
		}
		if format[i] == '%' {
			result.WriteByte('%')
			i++
			continue
		}

		var flags strings.Builder
		for i < len(format) && strings.ContainsAny(string(format[i]), "-+ #0") {
			flags.WriteByte(format[i])
			i++
		}

		var width string
		if i < len(format) && format[i] == '*' {
			w := int(nextValue().AsNum())
			if w < 0 {
				flags.WriteByte('-')
				w = -w
			}
			width = strconv.Itoa(w)
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				width += string(format[i])
				i++
			}
		}

		var precision string
		if i < len(format) && format[i] == '.' {
			precision = "."
			i++
			if i < len(format) && format[i] == '*' {
				p := int(nextValue().AsNum())
				if p < 0 {
					precision = "" // negative precision is ignored
				} else {
					precision += strconv.Itoa(p)
				}
				i++
			} else {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					precision += string(format[i])
					i++
				}
			}
		}

		if i >= len(format) {
			result.WriteString("%" + flags.String() + width + precision)
			break
		}
		specifier := format[i]
		i++
		value := nextValue()
		spec := flags.String() + width + precision

		switch specifier {
		case 'd', 'i':
			fmtAppend(&result, "%"+spec+"d", int64(value.AsNum()))
		case 'o':
			fmtAppend(&result, "%"+spec+"o", uint64(value.AsNum()))
		case 'x':
			fmtAppend(&result, "%"+spec+"x", uint64(value.AsNum()))
		case 'X':
			fmtAppend(&result, "%"+spec+"X", uint64(value.AsNum()))
		case 'u':
			fmtAppend(&result, "%"+spec+"d", uint64(value.AsNum()))
		case 'c':
			// A numeric value is a byte code; a string contributes its
			// first byte.
			if value.IsNum() {
				n := int(value.AsNum())
				if n >= 0 && n <= 255 {
					result.WriteByte(byte(n))
				}
			} else if s := ctx.toStr(value); len(s) > 0 {
				result.WriteByte(s[0])
			}
		case 's':
			fmtAppend(&result, "%"+spec+"s", ctx.toStr(value))
		case 'e':
			fmtAppend(&result, "%"+spec+"e", value.AsNum())
		case 'E':
			fmtAppend(&result, "%"+spec+"E", value.AsNum())
		case 'f', 'F':
			fmtAppend(&result, "%"+spec+"f", value.AsNum())
		case 'g':
			fmtAppend(&result, "%"+spec+"g", value.AsNum())
		case 'G':
			fmtAppend(&result, "%"+spec+"G", value.AsNum())
		default:
			result.WriteByte('%')
			result.WriteByte(specifier)
		}
	}
	return result.String(), nil
}
