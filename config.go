package sawk

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kolkov/sawk/internal/runtime"
)

// Filesystem grants a program read access to external files through
// `getline < file`. A nil Filesystem in Config keeps the sandbox closed:
// every file getline returns -1.
type Filesystem interface {
	// ResolvePath resolves name against the working directory dir.
	ResolvePath(dir, name string) string
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) (string, error)
}

// OSFilesystem returns a Filesystem backed by the operating system.
// Only hand this to programs you trust to read arbitrary files.
func OSFilesystem() Filesystem {
	return runtime.OS()
}

// Config holds configuration options for program execution.
// The zero value gives AWK-conventional separators, default execution
// limits, and no filesystem access.
type Config struct {
	// FS is the input field separator (default: " ").
	// When set to a single space, runs of whitespace are treated as
	// separators. A single character splits literally; anything longer
	// is a regular expression pattern.
	FS string `yaml:"fs"`

	// OFS is the output field separator (default: " ").
	// Used when printing multiple values with the print statement.
	OFS string `yaml:"ofs"`

	// ORS is the output record separator (default: "\n").
	// Appended after each print statement.
	ORS string `yaml:"ors"`

	// SubSep separates the parts of a multi-dimensional array key
	// (default: "\x1c").
	SubSep string `yaml:"subsep"`

	// Variables contains pre-defined variables.
	// These are set before BEGIN block execution.
	Variables map[string]string `yaml:"variables"`

	// MaxRecursionDepth caps user-function call depth (default: 250).
	// Exceeding it aborts the run with a recursion LimitError.
	// A negative value disables the limit.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`

	// MaxSteps caps the number of executed statements (default: 1000000).
	// Exceeding it aborts the run with an iterations LimitError.
	// A negative value disables the limit.
	MaxSteps int `yaml:"max_steps"`

	// Dir is the working directory for resolving getline file names.
	Dir string `yaml:"dir"`

	// POSIXRegex enables POSIX leftmost-longest regex matching.
	// When true (default), uses AWK/POSIX ERE semantics.
	// When false, uses leftmost-first matching (faster, Perl-like).
	POSIXRegex *bool `yaml:"posix_regex"`

	// Filesystem enables `getline < file`. Nil keeps file access off.
	Filesystem Filesystem `yaml:"-"`

	// Output is the writer for accumulated program output.
	// If nil, output is captured and returned from Run.
	Output io.Writer `yaml:"-"`
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.FS == "" {
		c.FS = " "
	}
	if c.OFS == "" {
		c.OFS = " "
	}
	if c.ORS == "" {
		c.ORS = "\n"
	}
	if c.SubSep == "" {
		c.SubSep = "\x1c"
	}
}

// LoadConfig reads a YAML configuration file.
// Missing fields keep their defaults; unknown fields are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
