// Package runtime provides interpreter runtime support: regex compilation
// and caching, and the filesystem collaborator used by file getline.
package runtime

import (
	"github.com/coregx/coregex"
)

// dotallPrefix is prepended to patterns so that dot matches newline,
// matching traditional AWK record semantics.
const dotallPrefix = "(?s)"

// RegexConfig controls regex behavior.
type RegexConfig struct {
	// POSIX enables leftmost-longest matching (POSIX ERE semantics).
	// When false, uses leftmost-first matching (faster, Perl-like).
	POSIX bool
}

// DefaultConfig returns the default POSIX-compliant configuration.
func DefaultConfig() RegexConfig {
	return RegexConfig{POSIX: true}
}

// FastConfig returns a configuration with leftmost-first matching.
func FastConfig() RegexConfig {
	return RegexConfig{POSIX: false}
}

// Regex wraps coregex for pattern operations.
type Regex struct {
	pattern string
	re      *coregex.Regexp
	posix   bool
}

// Compile creates a new Regex from pattern with default POSIX config.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig creates a new Regex with the specified configuration.
func CompileWithConfig(pattern string, config RegexConfig) (*Regex, error) {
	re, err := coregex.Compile(dotallPrefix + pattern)
	if err != nil {
		return nil, err
	}
	if config.POSIX {
		re.Longest()
	}
	return &Regex{pattern: pattern, re: re, posix: config.POSIX}, nil
}

// MustCompile creates a Regex, panicking on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the original pattern string.
func (r *Regex) Pattern() string {
	return r.pattern
}

// IsPOSIX returns true if this regex uses leftmost-longest matching.
func (r *Regex) IsPOSIX() bool {
	return r.posix
}

// MatchString reports whether s contains any match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringIndex returns the start and end of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.re.FindStringIndex(s)
}

// FindAllStringIndex returns all non-overlapping matches.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.re.FindAllStringIndex(s, n)
}

// ReplaceAllString replaces all matches with repl.
func (r *Regex) ReplaceAllString(s, repl string) string {
	return r.re.ReplaceAllString(s, repl)
}

// ReplaceAllStringFunc replaces all matches using the function.
func (r *Regex) ReplaceAllStringFunc(s string, f func(string) string) string {
	return r.re.ReplaceAllStringFunc(s, f)
}

// Split slices s into substrings separated by matches.
func (r *Regex) Split(s string, n int) []string {
	return r.re.Split(s, n)
}

// RegexCache memoizes compiled regexes with FIFO eviction.
// One cache belongs to one execution context; contexts are never shared
// between concurrent runs, so no locking is needed.
type RegexCache struct {
	cache   map[string]*Regex
	order   []string // FIFO order for eviction
	maxSize int
	config  RegexConfig
}

// NewRegexCache creates a cache with the specified max size and default
// POSIX config.
func NewRegexCache(maxSize int) *RegexCache {
	return NewRegexCacheWithConfig(maxSize, DefaultConfig())
}

// NewRegexCacheWithConfig creates a cache with the specified max size and config.
func NewRegexCacheWithConfig(maxSize int, config RegexConfig) *RegexCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &RegexCache{
		cache:   make(map[string]*Regex),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		config:  config,
	}
}

// Get returns a compiled regex, compiling and caching if needed.
func (c *RegexCache) Get(pattern string) (*Regex, error) {
	if re, ok := c.cache[pattern]; ok {
		return re, nil
	}

	re, err := CompileWithConfig(pattern, c.config)
	if err != nil {
		return nil, err
	}

	c.cache[pattern] = re
	c.order = append(c.order, pattern)
	for len(c.cache) > c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
	}
	return re, nil
}

// Len returns the number of cached regexes.
func (c *RegexCache) Len() int {
	return len(c.cache)
}

// Clear removes all cached regexes.
func (c *RegexCache) Clear() {
	c.cache = make(map[string]*Regex)
	c.order = c.order[:0]
}

// Config returns the cache's regex configuration.
func (c *RegexCache) Config() RegexConfig {
	return c.config
}
