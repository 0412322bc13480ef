package runtime

import "testing"

func TestCompile(t *testing.T) {
	re, err := Compile("a+b")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Pattern() != "a+b" {
		t.Errorf("Pattern() = %q, want %q", re.Pattern(), "a+b")
	}
	if !re.IsPOSIX() {
		t.Error("default config should be POSIX")
	}
}

func TestCompileInvalid(t *testing.T) {
	if _, err := Compile("["); err == nil {
		t.Fatal("expected error for unclosed class")
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on a bad pattern")
		}
	}()
	MustCompile("(")
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"abc", "xabcy", true},
		{"abc", "xy", false},
		{"^a", "abc", true},
		{"^a", "bac", false},
		{"c$", "abc", true},
		{"[0-9]+", "id 42", true},
		{"", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDotMatchesNewline(t *testing.T) {
	re := MustCompile("a.b")
	if !re.MatchString("a\nb") {
		t.Error("dot should match newline inside a record")
	}
}

func TestPOSIXLongestMatch(t *testing.T) {
	re := MustCompile("a|ab")
	loc := re.FindStringIndex("ab")
	if loc == nil {
		t.Fatal("expected a match")
	}
	if loc[1]-loc[0] != 2 {
		t.Errorf("POSIX match length = %d, want 2 (leftmost-longest)", loc[1]-loc[0])
	}
}

func TestFastConfigLeftmostFirst(t *testing.T) {
	re, err := CompileWithConfig("a|ab", FastConfig())
	if err != nil {
		t.Fatal(err)
	}
	if re.IsPOSIX() {
		t.Error("FastConfig regex should not report POSIX")
	}
	loc := re.FindStringIndex("ab")
	if loc == nil {
		t.Fatal("expected a match")
	}
	if loc[1]-loc[0] != 1 {
		t.Errorf("leftmost-first match length = %d, want 1", loc[1]-loc[0])
	}
}

func TestFindAllStringIndex(t *testing.T) {
	re := MustCompile("[0-9]+")
	locs := re.FindAllStringIndex("a1b22c333", -1)
	if len(locs) != 3 {
		t.Fatalf("matches = %d, want 3", len(locs))
	}
	if locs[2][0] != 6 || locs[2][1] != 9 {
		t.Errorf("third match = %v, want [6 9]", locs[2])
	}
}

func TestReplaceAllString(t *testing.T) {
	re := MustCompile("o+")
	if got := re.ReplaceAllString("foo boo", "0"); got != "f0 b0" {
		t.Errorf("ReplaceAllString() = %q, want %q", got, "f0 b0")
	}
}

func TestReplaceAllStringFunc(t *testing.T) {
	re := MustCompile("[a-z]+")
	got := re.ReplaceAllStringFunc("ab 12 cd", func(m string) string {
		return "<" + m + ">"
	})
	if got != "<ab> 12 <cd>" {
		t.Errorf("ReplaceAllStringFunc() = %q, want %q", got, "<ab> 12 <cd>")
	}
}

func TestSplit(t *testing.T) {
	re := MustCompile(",[ ]*")
	got := re.Split("a, b,c", -1)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Split() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Split()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegexCacheGet(t *testing.T) {
	c := NewRegexCache(10)
	re1, err := c.Get("x+")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	re2, err := c.Get("x+")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if re1 != re2 {
		t.Error("repeated Get should return the cached regex")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestRegexCacheError(t *testing.T) {
	c := NewRegexCache(10)
	if _, err := c.Get("("); err == nil {
		t.Fatal("expected compile error")
	}
	if c.Len() != 0 {
		t.Errorf("failed compiles must not be cached, Len() = %d", c.Len())
	}
}

func TestRegexCacheEviction(t *testing.T) {
	c := NewRegexCache(2)
	patterns := []string{"a", "b", "c"}
	for _, p := range patterns {
		if _, err := c.Get(p); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	// FIFO: "a" went in first and is evicted.
	if _, ok := c.cache["a"]; ok {
		t.Error("oldest pattern should be evicted")
	}
	if _, ok := c.cache["c"]; !ok {
		t.Error("newest pattern should remain")
	}
}

func TestRegexCacheClear(t *testing.T) {
	c := NewRegexCache(10)
	if _, err := c.Get("a"); err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestRegexCacheConfig(t *testing.T) {
	c := NewRegexCacheWithConfig(10, FastConfig())
	if c.Config().POSIX {
		t.Error("Config().POSIX = true, want false")
	}
	re, err := c.Get("a|ab")
	if err != nil {
		t.Fatal(err)
	}
	if re.IsPOSIX() {
		t.Error("cached regex should inherit the cache config")
	}
}
