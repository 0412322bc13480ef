package interp

import (
	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/types"
)

// Interp drives one program run: BEGIN blocks, per-record rule dispatch
// with range-pattern state, then END blocks. One Interp owns one Context
// and is single-use; concurrent runs get independent instances.
type Interp struct {
	program *ast.Program
	ctx     *Context
	eval    *Evaluator
	exec    *Executor

	// rangeActive holds the two-state range-pattern machine, one slot
	// per rule. Only range rules ever flip theirs.
	rangeActive []bool
}

// New creates an interpreter for program, registers its functions, and
// wires the evaluator and the statement executor together.
func New(program *ast.Program, opts Options) *Interp {
	ctx := NewContext(opts)
	for _, fn := range program.Functions {
		ctx.funcs[fn.Name] = fn
	}

	eval := NewEvaluator()
	exec := NewExecutor(eval)
	eval.SetRunner(exec)

	return &Interp{
		program:     program,
		ctx:         ctx,
		eval:        eval,
		exec:        exec,
		rangeActive: make([]bool, len(program.Rules)),
	}
}

// Context returns the run's context. Hosts use it to install input and
// inspect state; it must not be shared across runs.
func (p *Interp) Context() *Context {
	return p.ctx
}

// SetInput installs the main input cursor shared by the record loop and
// plain getline.
func (p *Interp) SetInput(lines []string) {
	p.ctx.SetInput(lines)
}

// NextRecord pulls the next record from the shared input cursor, so
// records consumed by plain getline are never fed to the rule pass twice.
func (p *Interp) NextRecord() (string, bool) {
	if !p.ctx.haveInput || p.ctx.inputPos >= len(p.ctx.inputLines) {
		return "", false
	}
	line := p.ctx.inputLines[p.ctx.inputPos]
	p.ctx.inputPos++
	return line, true
}

// ExecuteBegin runs every BEGIN block in order, stopping early on exit.
func (p *Interp) ExecuteBegin() error {
	for _, block := range p.program.Begin {
		if err := p.exec.Execute(p.ctx, block.Stmts); err != nil {
			return err
		}
		if p.ctx.shouldExit {
			return nil
		}
	}
	return nil
}

// ExecuteLine feeds one record through the main rule pass: sets the
// record, bumps NR and FNR, and scans non-BEGIN/END rules in declaration
// order. After exit the call is a no-op.
func (p *Interp) ExecuteLine(text string) error {
	if p.ctx.shouldExit {
		return nil
	}
	p.ctx.SetLine(text)
	p.ctx.nr++
	p.ctx.fnr++
	p.ctx.shouldNext = false

	for i, rule := range p.program.Rules {
		matched, err := p.ruleMatches(i, rule)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}
		if rule.Action == nil {
			// A pattern with no action prints the record.
			p.ctx.write(p.ctx.line)
			p.ctx.write(p.ctx.ors)
		} else if err := p.exec.Execute(p.ctx, rule.Action.Stmts); err != nil {
			return err
		}
		if p.ctx.shouldExit || p.ctx.shouldNext || p.ctx.shouldNextFile {
			break
		}
	}
	return nil
}

// ruleMatches decides whether rule i fires for the current record.
func (p *Interp) ruleMatches(i int, rule *ast.Rule) (bool, error) {
	if rule.Pattern == nil {
		return true, nil
	}
	if rule.RangeEnd == nil {
		return p.patternTrue(rule.Pattern)
	}

	// Range pattern. Both boundaries are inclusive; the end pattern is
	// tested on the start record too, so a range that opens and closes
	// on the same record matches exactly once.
	if !p.rangeActive[i] {
		start, err := p.patternTrue(rule.Pattern)
		if err != nil || !start {
			return false, err
		}
		end, err := p.patternTrue(rule.RangeEnd)
		if err != nil {
			return false, err
		}
		p.rangeActive[i] = !end
		return true, nil
	}
	end, err := p.patternTrue(rule.RangeEnd)
	if err != nil {
		return false, err
	}
	if end {
		p.rangeActive[i] = false
	}
	return true, nil
}

func (p *Interp) patternTrue(pattern ast.Expr) (bool, error) {
	v, err := p.eval.Eval(p.ctx, pattern)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// ExecuteEnd runs the END blocks. An exit from BEGIN or a main rule does
// not suppress them; an exit from inside an END block stops the
// remaining ones and sets the sticky end-exit flag.
func (p *Interp) ExecuteEnd() error {
	if p.ctx.exitFromEnd {
		return nil
	}
	p.ctx.shouldExit = false
	for _, block := range p.program.EndBlocks {
		if err := p.exec.Execute(p.ctx, block.Stmts); err != nil {
			return err
		}
		if p.ctx.shouldExit {
			p.ctx.exitFromEnd = true
			return nil
		}
	}
	return nil
}

// Output returns the output accumulated so far. Valid after a limit
// abort too, though LimitError carries its own copy.
func (p *Interp) Output() string {
	return p.ctx.Output()
}

// ExitCode returns the code given to exit (0 when exit never ran).
func (p *Interp) ExitCode() int {
	return p.ctx.ExitCode()
}

// ExitRequested reports whether exit has ended the main record pass.
func (p *Interp) ExitRequested() bool {
	return p.ctx.shouldExit || p.ctx.exitFromEnd
}

// NextFileRequested reports whether the last record executed a nextfile.
func (p *Interp) NextFileRequested() bool {
	return p.ctx.shouldNextFile
}

// ClearNextFile acknowledges a nextfile before the host resumes with the
// next input file.
func (p *Interp) ClearNextFile() {
	p.ctx.shouldNextFile = false
}

// SetFilename sets FILENAME and resets FNR for a new input file.
func (p *Interp) SetFilename(name string) {
	p.ctx.filename = name
	p.ctx.fnr = 0
}

// Globals returns a snapshot of the global scalar variables.
func (p *Interp) Globals() map[string]types.Value {
	out := make(map[string]types.Value, len(p.ctx.globals))
	for name, v := range p.ctx.globals {
		out[name] = v
	}
	return out
}
