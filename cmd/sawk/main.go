// sawk - sandboxed AWK-dialect interpreter
//
// Uses manual argument parsing for POSIX compatibility (supports -F:
// style flags).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kolkov/sawk"
	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/parser"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: sawk [-F fs] [-v var=value] [-f progfile | 'prog'] [file ...]"
	longUsage  = `Standard AWK arguments:
  -F separator      field separator (default " ")
  -f progfile       load program source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

Sandbox options:
  --max-steps N     statement execution limit (default 1000000, -1 = off)
  --max-depth N     function recursion limit (default 250, -1 = off)
  --no-files        disable getline file access
  --config file     load YAML configuration file

Performance options:
  --posix           use POSIX leftmost-longest regex matching (default)
  --no-posix        use faster leftmost-first regex matching (Perl-like)

Other:
  -d                print parsed syntax tree to stderr and exit
  -i                interactive mode: evaluate the program per typed line
  -h, --help        show this help message
  -version          show sawk version and exit
`
)

//nolint:gocyclo,funlen // CLI argument parsing is inherently complex
func main() {
	// Parse command line arguments manually rather than using the
	// "flag" package, so we can support flags with no space between
	// flag and argument, like '-F:' (allowed by POSIX)
	var progFiles []string
	var vars []string
	fieldSep := " "
	configFile := ""
	maxSteps := 0
	maxDepth := 0
	noFiles := false
	debug := false
	interactive := false
	var posixRegex *bool // nil = default (true), explicit true/false from flags

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			fieldSep = nextArg(&i, "-F")
		case "-f":
			progFiles = append(progFiles, nextArg(&i, "-f"))
		case "-v":
			vars = append(vars, nextArg(&i, "-v"))
		case "--config":
			configFile = nextArg(&i, "--config")
		case "--max-steps":
			maxSteps = intArg(nextArg(&i, "--max-steps"), "--max-steps")
		case "--max-depth":
			maxDepth = intArg(nextArg(&i, "--max-depth"), "--max-depth")
		case "--no-files":
			noFiles = true
		case "-d":
			debug = true
		case "-i":
			interactive = true
		case "--posix":
			t := true
			posixRegex = &t
		case "--no-posix":
			f := false
			posixRegex = &f
		case "-h", "--help":
			fmt.Printf("sawk %s - sandboxed AWK interpreter\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("sawk version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Println("  regex:  coregex")
			os.Exit(0)
		default:
			// Handle flags with no space: -F:, -ffile, -vvar=val, etc.
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				vars = append(vars, arg[2:])
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	// Remaining args are program and input files
	args := os.Args[i:]

	var program string
	var inputFiles []string

	if len(progFiles) > 0 {
		var sb strings.Builder
		for _, f := range progFiles {
			content, err := os.ReadFile(f)
			if err != nil {
				errorExitf("cannot read program file %s: %v", f, err)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		program = sb.String()
		inputFiles = args
	} else if len(args) > 0 {
		program = args[0]
		inputFiles = args[1:]
	} else {
		errorExitf(shortUsage)
	}

	prog, err := sawk.Compile(program)
	if err != nil {
		errorExit(err)
	}

	if debug {
		tree, err := parser.Parse(program)
		if err != nil {
			errorExit(err)
		}
		p := ast.NewPrinter(os.Stderr)
		if err := p.PrintProgram(tree); err != nil {
			errorExit(err)
		}
		os.Exit(0)
	}

	config := &sawk.Config{}
	if configFile != "" {
		config, err = sawk.LoadConfig(configFile)
		if err != nil {
			errorExit(err)
		}
	}
	if fieldSep != " " {
		config.FS = fieldSep
	}
	if maxSteps != 0 {
		config.MaxSteps = maxSteps
	}
	if maxDepth != 0 {
		config.MaxRecursionDepth = maxDepth
	}
	if posixRegex != nil {
		config.POSIXRegex = posixRegex
	}
	if !noFiles {
		config.Filesystem = sawk.OSFilesystem()
		if config.Dir == "" {
			if wd, err := os.Getwd(); err == nil {
				config.Dir = wd
			}
		}
	}
	if len(vars) > 0 {
		if config.Variables == nil {
			config.Variables = make(map[string]string)
		}
		for _, v := range vars {
			parts := strings.SplitN(v, "=", 2)
			if len(parts) != 2 {
				errorExitf("invalid variable assignment: %s (expected var=value)", v)
			}
			config.Variables[parts[0]] = parts[1]
		}
	}

	if interactive {
		if err := runREPL(prog, config); err != nil {
			errorExit(err)
		}
		return
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	if err := runFiles(prog, config, inputFiles, stdout); err != nil {
		if code, ok := sawk.IsExitError(err); ok {
			stdout.Flush()
			os.Exit(code)
		}
		if le, ok := sawk.IsLimitError(err); ok {
			stdout.WriteString(le.PartialOutput)
			stdout.Flush()
			errorExit(err)
		}
		errorExit(err)
	}
}

// runFiles drives the program over the input files (stdin when none),
// honoring nextfile by abandoning the rest of the current file.
func runFiles(prog *sawk.Program, config *sawk.Config, files []string, out io.Writer) error {
	it := prog.NewInterp(config)
	if err := it.ExecuteBegin(); err != nil {
		return err
	}

	sources := files
	if len(sources) == 0 {
		sources = []string{"-"}
	}
	for _, name := range sources {
		if it.ExitRequested() {
			break
		}
		var data []byte
		var err error
		if name == "-" {
			data, err = io.ReadAll(os.Stdin)
			it.SetFilename("")
		} else {
			data, err = os.ReadFile(name)
			it.SetFilename(name)
		}
		if err != nil {
			return fmt.Errorf("cannot read input file %s: %w", name, err)
		}
		it.SetInput(splitRecords(string(data)))
		for {
			record, ok := it.NextRecord()
			if !ok {
				break
			}
			if err := it.ExecuteLine(record); err != nil {
				return err
			}
			if it.ExitRequested() {
				break
			}
			if it.NextFileRequested() {
				it.ClearNextFile()
				break
			}
		}
	}

	if err := it.ExecuteEnd(); err != nil {
		return err
	}
	io.WriteString(out, it.Output())
	if code := it.ExitCode(); code != 0 {
		return &sawk.ExitError{Code: code}
	}
	return nil
}

func splitRecords(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func nextArg(i *int, flag string) string {
	if *i+1 >= len(os.Args) {
		errorExitf("flag needs an argument: %s", flag)
	}
	*i++
	return os.Args[*i]
}

func intArg(s, flag string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		errorExitf("invalid value for %s: %s", flag, s)
	}
	return n
}

// errorExitf prints formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sawk: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "sawk: %v\n", err)
	os.Exit(1)
}
