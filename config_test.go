package sawk

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
fs: ":"
ofs: "-"
ors: "\r\n"
subsep: "|"
variables:
  debug: "1"
  name: test
max_recursion_depth: 100
max_steps: 5000
dir: /tmp
posix_regex: false
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.FS != ":" {
		t.Errorf("FS = %q, want %q", cfg.FS, ":")
	}
	if cfg.OFS != "-" {
		t.Errorf("OFS = %q, want %q", cfg.OFS, "-")
	}
	if cfg.ORS != "\r\n" {
		t.Errorf("ORS = %q, want %q", cfg.ORS, "\r\n")
	}
	if cfg.SubSep != "|" {
		t.Errorf("SubSep = %q, want %q", cfg.SubSep, "|")
	}
	if cfg.Variables["debug"] != "1" || cfg.Variables["name"] != "test" {
		t.Errorf("Variables = %v", cfg.Variables)
	}
	if cfg.MaxRecursionDepth != 100 {
		t.Errorf("MaxRecursionDepth = %d, want 100", cfg.MaxRecursionDepth)
	}
	if cfg.MaxSteps != 5000 {
		t.Errorf("MaxSteps = %d, want 5000", cfg.MaxSteps)
	}
	if cfg.Dir != "/tmp" {
		t.Errorf("Dir = %q, want /tmp", cfg.Dir)
	}
	if cfg.POSIXRegex == nil || *cfg.POSIXRegex {
		t.Errorf("POSIXRegex = %v, want false", cfg.POSIXRegex)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("ParseConfig() returned nil config")
	}
	if cfg.FS != "" || cfg.POSIXRegex != nil {
		t.Errorf("empty data should give a zero config, got %+v", cfg)
	}
}

func TestParseConfigUnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("record_separator: \"\\n\"\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseConfigInvalidYAML(t *testing.T) {
	_, err := ParseConfig([]byte("fs: [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fs: \",\"\nmax_steps: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.FS != "," {
		t.Errorf("FS = %q, want %q", cfg.FS, ",")
	}
	if cfg.MaxSteps != 10 {
		t.Errorf("MaxSteps = %d, want 10", cfg.MaxSteps)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	if cfg.FS != " " {
		t.Errorf("FS = %q, want %q", cfg.FS, " ")
	}
	if cfg.OFS != " " {
		t.Errorf("OFS = %q, want %q", cfg.OFS, " ")
	}
	if cfg.ORS != "\n" {
		t.Errorf("ORS = %q, want %q", cfg.ORS, "\n")
	}
	if cfg.SubSep != "\x1c" {
		t.Errorf("SubSep = %q, want %q", cfg.SubSep, "\x1c")
	}

	cfg = Config{FS: ":", ORS: "|"}
	cfg.applyDefaults()
	if cfg.FS != ":" || cfg.ORS != "|" {
		t.Errorf("set fields must survive defaults: %+v", cfg)
	}
}
