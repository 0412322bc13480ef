// Package interp implements the sawk execution core: the runtime context,
// the expression evaluator, the statement executor, and the program driver
// with its rule-dispatch and execution-limit machinery.
package interp

import (
	"bytes"
	mrand "math/rand"

	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/runtime"
	"github.com/kolkov/sawk/internal/types"
)

// Default execution limits. Zero in Options means "use the default";
// a negative value disables the corresponding limit.
const (
	DefaultMaxRecursionDepth = 250
	DefaultMaxSteps          = 1_000_000
)

// Options configures a Context. The zero value gives AWK-conventional
// separators, default limits, and no filesystem (file getline returns -1).
type Options struct {
	FS     string // input field separator (default " ")
	OFS    string // output field separator (default " ")
	ORS    string // output record separator (default "\n")
	SubSep string // array subscript separator (default "\x1c")

	MaxRecursionDepth int // user-function call depth limit
	MaxSteps          int // statement execution limit

	Vars map[string]string // pre-set global variables

	Filesystem runtime.Filesystem // nil disables file getline
	Dir        string             // working directory for file getline

	POSIXRegex bool // leftmost-longest matching (default true via Default())
}

// Default returns the default options.
func Default() Options {
	return Options{POSIXRegex: true}
}

// Context is the single mutable object threaded through every evaluation
// call of one program run. It is not safe for concurrent use; concurrent
// runs get independent contexts.
type Context struct {
	// Record state
	line   string
	fields []string
	nf     int

	nr  float64 // NR
	fnr float64 // FNR

	// Special variables
	fs       string
	ofs      string
	ors      string
	subsep   string
	convfmt  string
	rstart   float64
	rlength  float64
	filename string

	// Scope store
	globals map[string]types.Value
	arrays  map[string]map[string]types.Value
	funcs   map[string]*ast.FuncDecl

	// Control-flow flags
	shouldExit     bool
	shouldNext     bool
	shouldNextFile bool
	exitFromEnd    bool

	// Function-return flags
	hasReturn   bool
	returnValue types.Value

	// Loop flags (statement executor's concern)
	breakFlag    bool
	continueFlag bool

	// Execution-limit guard state
	depth    int
	maxDepth int
	steps    int
	maxSteps int

	// Accumulated output and exit code
	out      bytes.Buffer
	exitCode int

	// rand/srand state. Seeded with a constant so unseeded runs are
	// reproducible; srand() without an argument switches to wall clock.
	rng      *mrand.Rand
	randSeed float64

	// Per-context caches and collaborators
	regexCache *runtime.RegexCache
	files      *runtime.FileCache
	fsys       runtime.Filesystem
	dir        string

	// Main input cursor for plain getline. A nil slice with haveInput
	// false means the source is unavailable (getline returns -1).
	inputLines []string
	inputPos   int
	haveInput  bool
}

// NewContext creates a fresh context from opts.
func NewContext(opts Options) *Context {
	fs := opts.FS
	if fs == "" {
		fs = " "
	}
	ofs := opts.OFS
	if ofs == "" {
		ofs = " "
	}
	ors := opts.ORS
	if ors == "" {
		ors = "\n"
	}
	subsep := opts.SubSep
	if subsep == "" {
		subsep = "\x1c"
	}
	maxDepth := opts.MaxRecursionDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	maxSteps := opts.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}

	regexConfig := runtime.FastConfig()
	if opts.POSIXRegex {
		regexConfig = runtime.DefaultConfig()
	}

	ctx := &Context{
		fs:         fs,
		ofs:        ofs,
		ors:        ors,
		subsep:     subsep,
		convfmt:    "%.6g",
		rng:        mrand.New(mrand.NewSource(0)),
		globals:    make(map[string]types.Value),
		arrays:     make(map[string]map[string]types.Value),
		funcs:      make(map[string]*ast.FuncDecl),
		maxDepth:   maxDepth,
		maxSteps:   maxSteps,
		regexCache: runtime.NewRegexCacheWithConfig(100, regexConfig),
		files:      runtime.NewFileCache(),
		fsys:       opts.Filesystem,
		dir:        opts.Dir,
	}
	for name, val := range opts.Vars {
		ctx.SetVar(name, types.Str(val))
	}
	return ctx
}

// SetInput installs the main input cursor used by plain getline.
// The driver shares this cursor with its own record loop.
func (ctx *Context) SetInput(lines []string) {
	ctx.inputLines = lines
	ctx.inputPos = 0
	ctx.haveInput = true
}

// Output returns the output accumulated so far.
func (ctx *Context) Output() string {
	return ctx.out.String()
}

// ExitCode returns the exit code set by the exit statement (0 by default).
func (ctx *Context) ExitCode() int {
	return ctx.exitCode
}

// write appends s to the accumulated output.
func (ctx *Context) write(s string) {
	ctx.out.WriteString(s)
}

// toStr converts a value to its string form using the context's CONVFMT.
func (ctx *Context) toStr(v types.Value) string {
	return v.AsStr(ctx.convfmt)
}
