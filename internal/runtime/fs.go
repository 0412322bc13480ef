package runtime

import (
	"os"
	"path/filepath"
	"strings"
)

// Filesystem is the collaborator behind `getline < file`. A context
// without one makes every file getline return -1.
type Filesystem interface {
	// ResolvePath resolves name against the working directory dir.
	ResolvePath(dir, name string) string
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) (string, error)
}

// osFS is the operating-system backed Filesystem.
type osFS struct{}

func (osFS) ResolvePath(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func (osFS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// OS returns the operating-system backed Filesystem.
func OS() Filesystem {
	return osFS{}
}

// Getline status codes, following the AWK convention.
const (
	GetlineOK    = 1  // a record was read
	GetlineEOF   = 0  // no more records
	GetlineError = -1 // source unavailable or read failure
)

// fileCursor holds a cached file's lines and its independent read position.
// A failed read is cached too: the failure is sticky for the whole run.
type fileCursor struct {
	lines  []string
	pos    int
	failed bool
}

// FileCache is the per-run getline file cache. Each file path gets its
// own cursor, advanced independently of the main input and of other files.
type FileCache struct {
	files map[string]*fileCursor
}

// NewFileCache creates an empty file cache.
func NewFileCache() *FileCache {
	return &FileCache{files: make(map[string]*fileCursor)}
}

// Next reads the next line of the named file, resolving name against dir
// through fs and caching content on first access. Returns the line and a
// getline status code. A nil fs yields GetlineError for every call.
func (c *FileCache) Next(fs Filesystem, dir, name string) (string, int) {
	if fs == nil {
		return "", GetlineError
	}

	path := fs.ResolvePath(dir, name)
	cur, ok := c.files[path]
	if !ok {
		content, err := fs.ReadFile(path)
		if err != nil {
			// Never retried: the failure holds for the rest of the run.
			c.files[path] = &fileCursor{failed: true}
			return "", GetlineError
		}
		lines := strings.Split(content, "\n")
		// A final newline produces one trailing empty element; drop it.
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		cur = &fileCursor{lines: lines}
		c.files[path] = cur
	}

	if cur.failed {
		return "", GetlineError
	}
	if cur.pos >= len(cur.lines) {
		return "", GetlineEOF
	}
	line := cur.lines[cur.pos]
	cur.pos++
	return line, GetlineOK
}

// Len returns the number of cached files (including failed entries).
func (c *FileCache) Len() int {
	return len(c.files)
}
