package interp

import (
	"github.com/kolkov/sawk/internal/types"
)

// Scope accessors. Special variables are routed to dedicated fields;
// everything else lives in the global scalar map. Only the parameters of
// the currently-executing user function are ever local, and those are
// implemented by the save/shadow/restore protocol in eval.go, so every
// name here resolves against the same global store regardless of call
// depth.

// GetVar returns the value of a scalar variable. Unset names yield "".
func (ctx *Context) GetVar(name string) types.Value {
	switch name {
	case "NR":
		return types.Num(ctx.nr)
	case "FNR":
		return types.Num(ctx.fnr)
	case "NF":
		return types.Num(float64(ctx.nf))
	case "FS":
		return types.Str(ctx.fs)
	case "OFS":
		return types.Str(ctx.ofs)
	case "ORS":
		return types.Str(ctx.ors)
	case "SUBSEP":
		return types.Str(ctx.subsep)
	case "CONVFMT":
		return types.Str(ctx.convfmt)
	case "RSTART":
		return types.Num(ctx.rstart)
	case "RLENGTH":
		return types.Num(ctx.rlength)
	case "FILENAME":
		return types.Str(ctx.filename)
	default:
		return ctx.globals[name]
	}
}

// SetVar assigns a scalar variable, routing special names to their fields.
func (ctx *Context) SetVar(name string, v types.Value) {
	switch name {
	case "NR":
		ctx.nr = v.AsNum()
	case "FNR":
		ctx.fnr = v.AsNum()
	case "NF":
		ctx.setNF(int(v.AsNum()))
	case "FS":
		ctx.fs = ctx.toStr(v)
	case "OFS":
		ctx.ofs = ctx.toStr(v)
	case "ORS":
		ctx.ors = ctx.toStr(v)
	case "SUBSEP":
		ctx.subsep = ctx.toStr(v)
	case "CONVFMT":
		ctx.convfmt = ctx.toStr(v)
	case "RSTART":
		ctx.rstart = v.AsNum()
	case "RLENGTH":
		ctx.rlength = v.AsNum()
	case "FILENAME":
		ctx.filename = ctx.toStr(v)
	default:
		ctx.globals[name] = v
	}
}

// Array returns the named array, creating it if needed. Arrays and
// scalars are separate storage: the same name never aliases both.
func (ctx *Context) Array(name string) map[string]types.Value {
	arr, ok := ctx.arrays[name]
	if !ok {
		arr = make(map[string]types.Value)
		ctx.arrays[name] = arr
	}
	return arr
}

// GetArrayElem returns arr[key], creating neither the array nor the key.
func (ctx *Context) GetArrayElem(name, key string) types.Value {
	if arr, ok := ctx.arrays[name]; ok {
		return arr[key]
	}
	return types.Str("")
}

// SetArrayElem assigns arr[key] = v.
func (ctx *Context) SetArrayElem(name, key string, v types.Value) {
	ctx.Array(name)[key] = v
}

// HasArrayElem reports whether key is present in the named array.
func (ctx *Context) HasArrayElem(name, key string) bool {
	arr, ok := ctx.arrays[name]
	if !ok {
		return false
	}
	_, ok = arr[key]
	return ok
}

// DeleteArrayElem removes one element; missing array or key is a no-op.
func (ctx *Context) DeleteArrayElem(name, key string) {
	if arr, ok := ctx.arrays[name]; ok {
		delete(arr, key)
	}
}

// DeleteArray clears the whole array in place, preserving aliases held
// by function parameters.
func (ctx *Context) DeleteArray(name string) {
	if arr, ok := ctx.arrays[name]; ok {
		for k := range arr {
			delete(arr, k)
		}
	}
}
