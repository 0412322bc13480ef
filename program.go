package sawk

import (
	"io"
	"strings"

	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/interp"
)

// Program represents a parsed program ready for execution.
// It is safe for concurrent use; each call to Run and each NewInterp
// creates an independent execution context.
type Program struct {
	tree   *ast.Program
	source string // Original source for debugging
}

// Source returns the original program source code.
func (p *Program) Source() string {
	return p.source
}

// Tree returns the parsed rule/function tree.
func (p *Program) Tree() *ast.Program {
	return p.tree
}

// Run executes the program over input and returns its output.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty.
//
// A non-zero exit status is reported as *ExitError; an exceeded
// execution limit as *LimitError together with the output produced
// before the abort.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	it := p.NewInterp(config)

	if input != nil {
		data, err := io.ReadAll(input)
		if err != nil {
			return "", &RuntimeError{Message: err.Error()}
		}
		it.SetInput(splitLines(string(data)))
	}

	if err := it.ExecuteBegin(); err != nil {
		return it.flush(), err
	}
	for {
		if it.inner.ExitRequested() || it.inner.NextFileRequested() {
			break
		}
		record, ok := it.inner.NextRecord()
		if !ok {
			break
		}
		if err := it.ExecuteLine(record); err != nil {
			return it.flush(), err
		}
	}
	if err := it.ExecuteEnd(); err != nil {
		return it.flush(), err
	}

	out := it.flush()
	if code := it.ExitCode(); code != 0 {
		return out, &ExitError{Code: code}
	}
	return out, nil
}

// Interp executes one program run a record at a time. Hosts that
// produce records incrementally use it instead of Program.Run: call
// ExecuteBegin once, ExecuteLine per record, ExecuteEnd once, then read
// Output and ExitCode.
type Interp struct {
	inner  *interp.Interp
	config *Config
}

// NewInterp creates an interpreter for one record-at-a-time run.
// If config is nil, default configuration is used.
func (p *Program) NewInterp(config *Config) *Interp {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	posix := true
	if config.POSIXRegex != nil {
		posix = *config.POSIXRegex
	}
	opts := interp.Options{
		FS:                config.FS,
		OFS:               config.OFS,
		ORS:               config.ORS,
		SubSep:            config.SubSep,
		MaxRecursionDepth: config.MaxRecursionDepth,
		MaxSteps:          config.MaxSteps,
		Vars:              config.Variables,
		Filesystem:        config.Filesystem,
		Dir:               config.Dir,
		POSIXRegex:        posix,
	}
	return &Interp{inner: interp.New(p.tree, opts), config: config}
}

// SetInput installs the main input records used by plain getline and by
// Program.Run's record loop. Interps driven purely through ExecuteLine
// may skip this; plain getline then reports the source unavailable.
func (it *Interp) SetInput(records []string) {
	it.inner.SetInput(records)
}

// ExecuteBegin runs the BEGIN blocks.
func (it *Interp) ExecuteBegin() error {
	return convertErr(it.inner.ExecuteBegin())
}

// ExecuteLine feeds one record through the main rule pass.
// After the program calls exit it is a no-op.
func (it *Interp) ExecuteLine(record string) error {
	return convertErr(it.inner.ExecuteLine(record))
}

// ExecuteEnd runs the END blocks. END runs even when a main rule called
// exit; an exit inside END stops the remaining END blocks.
func (it *Interp) ExecuteEnd() error {
	return convertErr(it.inner.ExecuteEnd())
}

// Output returns the output accumulated so far.
func (it *Interp) Output() string {
	return it.inner.Output()
}

// ExitCode returns the status given to exit (0 when exit never ran).
func (it *Interp) ExitCode() int {
	return it.inner.ExitCode()
}

// ExitRequested reports whether exit has ended the main record pass.
func (it *Interp) ExitRequested() bool {
	return it.inner.ExitRequested()
}

// NextRecord pulls the next record from the input installed with
// SetInput, sharing the cursor with plain getline. Multi-file hosts use
// it with ExecuteLine instead of Program.Run.
func (it *Interp) NextRecord() (string, bool) {
	return it.inner.NextRecord()
}

// NextFileRequested reports whether the last record executed a nextfile.
func (it *Interp) NextFileRequested() bool {
	return it.inner.NextFileRequested()
}

// ClearNextFile acknowledges a nextfile before the host resumes with
// the next input file.
func (it *Interp) ClearNextFile() {
	it.inner.ClearNextFile()
}

// SetFilename sets FILENAME and resets FNR for a new input file.
func (it *Interp) SetFilename(name string) {
	it.inner.SetFilename(name)
}

// Globals returns a snapshot of the global scalar variables in their
// string form.
func (it *Interp) Globals() map[string]string {
	vars := it.inner.Globals()
	out := make(map[string]string, len(vars))
	for name, v := range vars {
		out[name] = v.AsStr("%.6g")
	}
	return out
}

// flush returns the accumulated output, diverting it to the configured
// writer when one is set.
func (it *Interp) flush() string {
	out := it.inner.Output()
	if it.config.Output != nil {
		io.WriteString(it.config.Output, out)
		return ""
	}
	return out
}

// convertErr maps internal error types onto the public ones.
func convertErr(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *interp.LimitError:
		return &LimitError{Kind: string(e.Kind), PartialOutput: e.PartialOutput}
	case *interp.RuntimeError:
		return &RuntimeError{Message: e.Message}
	default:
		return &RuntimeError{Message: err.Error()}
	}
}

// splitLines splits input into records, dropping the single trailing
// empty record produced by a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
