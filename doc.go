// Package sawk provides a sandboxed AWK-dialect interpreter for
// embedding in text-processing hosts.
//
// sawk runs pattern/action programs over line records the way AWK does,
// but is built to execute attacker-controllable scripts safely:
//   - no shell escape, no output redirection, no pipes
//   - file reads only through an explicit, host-supplied filesystem
//   - counted limits on recursion depth and executed statements, with
//     partial output preserved when a limit aborts the run
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := sawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//
// With configuration:
//
//	output, err := sawk.Run(program, input, &sawk.Config{
//	    FS:       ":",
//	    MaxSteps: 100_000,
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Compiled Programs
//
// For repeated execution of the same program:
//
//	prog, err := sawk.Compile(`$1 > threshold { print $2 }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, file := range files {
//	    output, err := prog.Run(file, &sawk.Config{
//	        Variables: map[string]string{"threshold": "100"},
//	    })
//	    // ...
//	}
//
// # Record-at-a-Time Execution
//
// Hosts that produce records incrementally drive an [Interp] directly:
//
//	it := prog.NewInterp(nil)
//	it.ExecuteBegin()
//	for _, rec := range records {
//	    it.ExecuteLine(rec)
//	}
//	it.ExecuteEnd()
//	fmt.Print(it.Output())
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in program source
//   - [RuntimeError]: fatal errors during execution
//   - [LimitError]: an execution limit was exceeded; carries the output
//     produced before the abort
//   - [ExitError]: the program called exit with a non-zero status
//
// # Thread Safety
//
// Compiled [Program] objects are safe for concurrent use. Each call to
// [Program.Run] and each [Interp] has an independent execution context.
package sawk
