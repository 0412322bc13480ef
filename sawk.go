package sawk

import (
	"io"

	"github.com/kolkov/sawk/internal/parser"
)

// Version is the sawk version string.
const Version = "0.1.0"

// Run executes a program with the given input.
// This is a convenience function for one-off execution.
// For repeated execution of the same program, use Compile followed by
// Program.Run.
//
// Example:
//
//	output, err := sawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//	// output: "hello\n"
func Run(program string, input io.Reader, config *Config) (string, error) {
	prog, err := Compile(program)
	if err != nil {
		return "", err
	}
	return prog.Run(input, config)
}

// Compile parses a program for execution.
// The returned Program can be executed multiple times with different
// inputs and configurations.
//
// Example:
//
//	prog, err := sawk.Compile(`{ sum += $1 } END { print sum }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	output1, _ := prog.Run(file1, nil)
//	output2, _ := prog.Run(file2, nil)
func Compile(program string) (*Program, error) {
	tree, err := parser.Parse(program)
	if err != nil {
		if pe, ok := err.(*parser.ParseError); ok {
			return nil, &ParseError{
				Line:    pe.Pos.Line,
				Column:  pe.Pos.Column,
				Message: pe.Message,
			}
		}
		return nil, &ParseError{Message: err.Error()}
	}
	return &Program{tree: tree, source: program}, nil
}

// Exec runs a program, reading from input and writing to output.
// Useful for integration with I/O pipelines where the caller controls
// the output writer.
//
// Example:
//
//	err := sawk.Exec(`{ print toupper($0) }`, os.Stdin, os.Stdout, nil)
func Exec(program string, input io.Reader, output io.Writer, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}
	if config == nil {
		config = &Config{}
	}
	config.Output = output
	_, err = prog.Run(input, config)
	return err
}

// MustCompile is like Compile but panics if the program cannot be parsed.
// It simplifies initialization of global program variables.
//
// Example:
//
//	var sumProgram = sawk.MustCompile(`{ sum += $1 } END { print sum }`)
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}
