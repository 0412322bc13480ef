package interp

import (
	"strings"

	"github.com/kolkov/sawk/internal/types"
)

// Field store: $0, $1..$NF, and NF bookkeeping. Fields are split
// eagerly when the record changes; assigning a field rebuilds $0 with
// OFS; assigning $0 re-splits.

// SetLine replaces the current record and re-splits fields.
func (ctx *Context) SetLine(text string) {
	ctx.line = text
	ctx.fields = ctx.splitRecord(text, ctx.fs)
	ctx.nf = len(ctx.fields)
}

// Line returns the current record ($0).
func (ctx *Context) Line() string {
	return ctx.line
}

// NF returns the current field count.
func (ctx *Context) NF() int {
	return ctx.nf
}

// GetField returns $i. $0 is the whole record; out-of-range fields are "".
func (ctx *Context) GetField(i int) types.Value {
	switch {
	case i < 0:
		return types.Str("")
	case i == 0:
		return types.Str(ctx.line)
	case i <= ctx.nf:
		return types.Str(ctx.fields[i-1])
	default:
		return types.Str("")
	}
}

// SetField assigns $i. Assigning $0 re-splits; assigning past NF extends
// with empty fields; any field assignment rebuilds $0 with OFS.
func (ctx *Context) SetField(i int, v types.Value) {
	s := ctx.toStr(v)
	if i <= 0 {
		ctx.SetLine(s)
		return
	}
	for i > ctx.nf {
		ctx.fields = append(ctx.fields, "")
		ctx.nf++
	}
	ctx.fields[i-1] = s
	ctx.rebuildLine()
}

// setNF truncates or extends the field set, rebuilding $0.
func (ctx *Context) setNF(n int) {
	if n < 0 {
		n = 0
	}
	for n > ctx.nf {
		ctx.fields = append(ctx.fields, "")
		ctx.nf++
	}
	ctx.fields = ctx.fields[:n]
	ctx.nf = n
	ctx.rebuildLine()
}

func (ctx *Context) rebuildLine() {
	ctx.line = strings.Join(ctx.fields, ctx.ofs)
}

// splitRecord splits a record by the given separator:
// a single space means runs of whitespace (with leading/trailing runs
// ignored), a single character splits literally, anything longer is a
// regular expression. An uncompilable regex separator degrades to
// whitespace splitting.
func (ctx *Context) splitRecord(s, fs string) []string {
	switch {
	case s == "":
		return nil
	case fs == " ":
		return strings.Fields(s)
	case len(fs) == 1:
		return strings.Split(s, fs)
	default:
		re, err := ctx.regexCache.Get(fs)
		if err != nil {
			return strings.Fields(s)
		}
		return re.Split(s, -1)
	}
}
