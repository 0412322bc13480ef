package interp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/sawk/internal/parser"
)

// run executes src over the input records and returns the output.
func run(t *testing.T, src string, input []string, opts Options) (string, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "parse error")

	it := New(prog, opts)
	if input != nil {
		it.SetInput(input)
	}
	if err := it.ExecuteBegin(); err != nil {
		return it.Output(), err
	}
	for !it.ExitRequested() && !it.NextFileRequested() {
		record, ok := it.NextRecord()
		if !ok {
			break
		}
		if err := it.ExecuteLine(record); err != nil {
			return it.Output(), err
		}
	}
	if err := it.ExecuteEnd(); err != nil {
		return it.Output(), err
	}
	return it.Output(), nil
}

func mustRun(t *testing.T, src string, input []string, opts Options) string {
	t.Helper()
	out, err := run(t, src, input, opts)
	require.NoError(t, err)
	return out
}

func TestPrintRecord(t *testing.T) {
	out := mustRun(t, "{ print }", []string{"a b", "c d"}, Default())
	assert.Equal(t, "a b\nc d\n", out)
}

func TestFieldAccess(t *testing.T) {
	out := mustRun(t, "{ print $2, $1 }", []string{"one two"}, Default())
	assert.Equal(t, "two one\n", out)
}

func TestBeginEndOrder(t *testing.T) {
	out := mustRun(t, `BEGIN { print "b" } { print } END { print "e" }`,
		[]string{"m"}, Default())
	assert.Equal(t, "b\nm\ne\n", out)
}

func TestComparisonDuality(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		// Both numeric-looking: numeric comparison.
		{`"10" < "9"`, "0"},
		{`10 < "9"`, "0"},
		{`"3.5" == "3.50"`, "1"},
		// One side not numeric-looking: string comparison.
		{`"10" < "9a"`, "1"},
		{`10 < "abc"`, "1"},
		{`"3abc" == "3"`, "0"},
		{`"abc" < "abd"`, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			out := mustRun(t, fmt.Sprintf("BEGIN { print (%s) ? 1 : 0 }", tt.expr), nil, Default())
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestIncrementDecrement(t *testing.T) {
	out := mustRun(t, `BEGIN {
		x = 5
		print x++
		print x
		print ++x
		print x--
		print --x
	}`, nil, Default())
	assert.Equal(t, "5\n6\n7\n7\n5\n", out)
}

func TestCompoundAssignment(t *testing.T) {
	out := mustRun(t, `BEGIN {
		x = 10
		x += 5; print x
		x -= 3; print x
		x *= 2; print x
		x /= 4; print x
		x %= 4; print x
		x ^= 3; print x
	}`, nil, Default())
	assert.Equal(t, "15\n12\n24\n6\n2\n8\n", out)
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	_, err := run(t, "BEGIN { print 1 / 0 }", nil, Default())
	var re *RuntimeError
	require.ErrorAs(t, err, &re)

	_, err = run(t, "BEGIN { print 1 % 0 }", nil, Default())
	require.ErrorAs(t, err, &re)
}

func TestCompoundDivisionByZeroYieldsZero(t *testing.T) {
	// The compound forms resolve to 0 instead of aborting.
	out := mustRun(t, `BEGIN { x = 5; x /= 0; print x; y = 7; y %= 0; print y }`,
		nil, Default())
	assert.Equal(t, "0\n0\n", out)
}

func TestShortCircuit(t *testing.T) {
	out := mustRun(t, `BEGIN {
		0 && side()
		1 || side()
		print n
		1 && side()
		print n
	}
	function side() { n++; return 1 }`, nil, Default())
	assert.Equal(t, "\n1\n", out)
}

func TestConcatenation(t *testing.T) {
	out := mustRun(t, `BEGIN { x = "a" "b" 3; print x }`, nil, Default())
	assert.Equal(t, "ab3\n", out)
}

func TestTernaryAndUnary(t *testing.T) {
	out := mustRun(t, `BEGIN { print 1 ? "y" : "n"; print !0, !1, -3, +"4x" }`, nil, Default())
	assert.Equal(t, "y\n1 0 -3 4\n", out)
}

func TestMultiDimSubscripts(t *testing.T) {
	out := mustRun(t, `BEGIN {
		a[1, 2] = "x"
		print a[1, 2]
		print ((1, 2) in a) ? 1 : 0
		print ((2, 1) in a) ? 1 : 0
		k = 1 SUBSEP 2
		print (k in a) ? 1 : 0
	}`, nil, Default())
	assert.Equal(t, "x\n1\n0\n1\n", out)
}

func TestDeleteStatement(t *testing.T) {
	out := mustRun(t, `BEGIN {
		a["x"] = 1; a["y"] = 2
		delete a["x"]
		print ("x" in a) ? 1 : 0, ("y" in a) ? 1 : 0
		delete a
		print ("y" in a) ? 1 : 0
	}`, nil, Default())
	assert.Equal(t, "0 1\n0\n", out)
}

func TestMatchSoftFailure(t *testing.T) {
	// A pattern that fails to compile is "no match" for ~, "match" for !~.
	out := mustRun(t, `BEGIN {
		print ("x" ~ "[") ? 1 : 0
		print ("x" !~ "[") ? 1 : 0
	}`, nil, Default())
	assert.Equal(t, "0\n1\n", out)
}

func TestUnknownFunctionYieldsEmpty(t *testing.T) {
	out := mustRun(t, `BEGIN { x = nosuch(1, 2); print "[" x "]" }`, nil, Default())
	assert.Equal(t, "[]\n", out)
}

func TestRulePatterns(t *testing.T) {
	out := mustRun(t, `/b/ { print "re", $0 }
$1 == "x" { print "expr", $0 }`,
		[]string{"abc", "x 1", "zzz"}, Default())
	assert.Equal(t, "re abc\nexpr x 1\n", out)
}

func TestRangePattern(t *testing.T) {
	src := "/A/,/B/ { print }"
	input := []string{"x", "A", "y", "B", "z"}
	out := mustRun(t, src, input, Default())
	assert.Equal(t, "A\ny\nB\n", out)

	// State is per-run: a fresh interpreter starts inactive.
	out = mustRun(t, src, input, Default())
	assert.Equal(t, "A\ny\nB\n", out)
}

func TestRangePatternSingleRecord(t *testing.T) {
	out := mustRun(t, "/A/,/A/ { print }", []string{"x", "A", "y", "A", "z"}, Default())
	assert.Equal(t, "A\nA\n", out)
}

func TestRangePatternUnclosed(t *testing.T) {
	out := mustRun(t, "/A/,/B/ { print }", []string{"x", "A", "y"}, Default())
	assert.Equal(t, "A\ny\n", out)
}

func TestNextStatement(t *testing.T) {
	out := mustRun(t, `/skip/ { next } { print }`,
		[]string{"a", "skip me", "b"}, Default())
	assert.Equal(t, "a\nb\n", out)
}

func TestExitRunsEnd(t *testing.T) {
	out := mustRun(t, `{ print; exit 3 } END { print "end" }`,
		[]string{"a", "b"}, Default())
	assert.Equal(t, "a\nend\n", out)
}

func TestExitFromEndStopsRemainingEndBlocks(t *testing.T) {
	out := mustRun(t, `{ exit }
END { print "e1"; exit }
END { print "e2" }`,
		[]string{"a"}, Default())
	assert.Equal(t, "e1\n", out)
}

func TestExitCode(t *testing.T) {
	prog, err := parser.Parse("BEGIN { exit 7 }")
	require.NoError(t, err)
	it := New(prog, Default())
	require.NoError(t, it.ExecuteBegin())
	require.NoError(t, it.ExecuteEnd())
	assert.Equal(t, 7, it.ExitCode())
}

func TestUserFunctions(t *testing.T) {
	out := mustRun(t, `function add(a, b) { return a + b }
function greet(name) { return "hi " name }
BEGIN { print add(2, 3); print greet("bob") }`, nil, Default())
	assert.Equal(t, "5\nhi bob\n", out)
}

func TestFunctionParamsShadowGlobals(t *testing.T) {
	out := mustRun(t, `function f(x) { x = 99; return x }
BEGIN { x = 1; f(5); print x }`, nil, Default())
	assert.Equal(t, "1\n", out)
}

func TestUnsuppliedParamsAreEmpty(t *testing.T) {
	out := mustRun(t, `function f(a, b) { return "[" b "]" }
BEGIN { print f(1) }`, nil, Default())
	assert.Equal(t, "[]\n", out)
}

func TestCallArgumentsEvaluateInCallerScope(t *testing.T) {
	// A later argument naming an earlier parameter must see the
	// caller's binding, not the fresh binding being set up for the call.
	out := mustRun(t, `function f(a, b) { return b }
BEGIN { a = 10; print f(5, a) }`, nil, Default())
	assert.Equal(t, "10\n", out)
}

func TestCallArrayElementArgumentSharesParamName(t *testing.T) {
	out := mustRun(t, `function f(x) { return x }
BEGIN { x[1] = "v"; print f(x[1]) }`, nil, Default())
	assert.Equal(t, "v\n", out)
}

func TestArrayAliasing(t *testing.T) {
	// Arrays pass by reference: callee mutations are caller-visible.
	out := mustRun(t, `function fill(arr) { arr["k"] = "v" }
BEGIN { fill(a); print a["k"] }`, nil, Default())
	assert.Equal(t, "v\n", out)
}

func TestArrayAliasingThroughChain(t *testing.T) {
	out := mustRun(t, `function outer(x) { inner(x) }
function inner(y) { y[1] = "deep" }
BEGIN { outer(a); print a[1] }`, nil, Default())
	assert.Equal(t, "deep\n", out)
}

func TestLocalArrayParameter(t *testing.T) {
	// A parameter with no matching argument is a fresh array per call.
	out := mustRun(t, `function f(n, seen) { seen[n] = 1; return length(seen) }
BEGIN { print f(1); print f(2) }`, nil, Default())
	assert.Equal(t, "1\n1\n", out)
}

func TestRecursion(t *testing.T) {
	out := mustRun(t, `function fib(n) { return n < 2 ? n : fib(n-1) + fib(n-2) }
BEGIN { print fib(10) }`, nil, Default())
	assert.Equal(t, "55\n", out)
}

func TestRecursionLimit(t *testing.T) {
	_, err := run(t, `function f(n) { print n; return f(n + 1) }
BEGIN { f(1) }`, nil, Options{MaxRecursionDepth: 10, POSIXRegex: true})

	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LimitRecursion, le.Kind)
	// Partial output holds everything printed before the abort.
	assert.Equal(t, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n", le.PartialOutput)
}

func TestIterationLimit(t *testing.T) {
	_, err := run(t, `BEGIN { while (1) n++ }`, nil,
		Options{MaxSteps: 1000, POSIXRegex: true})

	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LimitIterations, le.Kind)
}

func TestIterationLimitPreservesOutput(t *testing.T) {
	_, err := run(t, `BEGIN { for (i = 0; ; i++) print i }`, nil,
		Options{MaxSteps: 100, POSIXRegex: true})

	var le *LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LimitIterations, le.Kind)
	assert.Contains(t, le.PartialOutput, "0\n1\n2\n")
}

func TestLimitsDisabled(t *testing.T) {
	out, err := run(t, `function f(n) { return n == 0 ? 0 : f(n - 1) }
BEGIN { print f(500) }`, nil,
		Options{MaxRecursionDepth: -1, POSIXRegex: true})
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestPlainGetline(t *testing.T) {
	// Records consumed by getline advance NR and skip the rule pass.
	out := mustRun(t, `NR == 1 {
		status = (getline line)
		print "got", status, line, NR
	}
	{ print "rule", $0 }`,
		[]string{"r1", "r2", "r3"}, Default())
	assert.Equal(t, "got 1 r2 2\nrule r1\nrule r3\n", out)
}

func TestPlainGetlineEOF(t *testing.T) {
	out := mustRun(t, `{
		print (getline a)
		print (getline b)
		print NR
	}`, []string{"r1", "r2"}, Default())
	assert.Equal(t, "1\n0\n2\n", out)
}

func TestGetlineIntoRecord(t *testing.T) {
	out := mustRun(t, `NR == 1 { getline; print $1 }`,
		[]string{"a b", "c d"}, Default())
	assert.Equal(t, "c\n", out)
}

func TestGetlineWithoutInput(t *testing.T) {
	// No installed input source: plain getline reports -1.
	prog, err := parser.Parse(`BEGIN { print (getline x) }`)
	require.NoError(t, err)
	it := New(prog, Default())
	require.NoError(t, it.ExecuteBegin())
	assert.Equal(t, "-1\n", it.Output())
}

// fakeFS serves getline files from memory.
type fakeFS struct {
	files map[string]string
	reads int
}

func (f *fakeFS) ResolvePath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func (f *fakeFS) ReadFile(path string) (string, error) {
	f.reads++
	content, ok := f.files[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func TestFileGetline(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"data.txt": "l1\nl2\n"}}
	opts := Default()
	opts.Filesystem = fs
	out := mustRun(t, `BEGIN {
		print (getline x < "data.txt"), x
		print (getline x < "data.txt"), x
		print (getline x < "data.txt"), x
	}`, nil, opts)
	assert.Equal(t, "1 l1\n1 l2\n0 l2\n", out)
	assert.Equal(t, 1, fs.reads, "file content is cached after first access")
}

func TestFileGetlineDoesNotTouchNR(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"f": "x\n"}}
	opts := Default()
	opts.Filesystem = fs
	out := mustRun(t, `{ getline v < "f"; print NR, v }`,
		[]string{"r1", "r2"}, opts)
	assert.Equal(t, "1 x\n2 x\n", out)
}

func TestFileGetlineFailureIsSticky(t *testing.T) {
	fs := &fakeFS{files: map[string]string{}}
	opts := Default()
	opts.Filesystem = fs
	out := mustRun(t, `BEGIN {
		print (getline x < "missing")
		print (getline x < "missing")
	}`, nil, opts)
	assert.Equal(t, "-1\n-1\n", out)
	assert.Equal(t, 1, fs.reads, "failed read is never retried")
}

func TestFileGetlineWithoutFilesystem(t *testing.T) {
	out := mustRun(t, `BEGIN { print (getline x < "f") }`, nil, Default())
	assert.Equal(t, "-1\n", out)
}

func TestFileGetlineIndependentCursors(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"a": "a1\na2\n", "b": "b1\n"}}
	opts := Default()
	opts.Filesystem = fs
	out := mustRun(t, `BEGIN {
		getline x < "a"
		getline y < "b"
		getline z < "a"
		print x, y, z
	}`, nil, opts)
	assert.Equal(t, "a1 b1 a2\n", out)
}

func TestSpecialVariables(t *testing.T) {
	out := mustRun(t, `{ print NR, NF, $0 }`,
		[]string{"a b c", "d"}, Default())
	assert.Equal(t, "1 3 a b c\n2 1 d\n", out)
}

func TestFieldAssignmentRebuildsRecord(t *testing.T) {
	out := mustRun(t, `{ $2 = "X"; print }`, []string{"a b c"}, Default())
	assert.Equal(t, "a X c\n", out)
}

func TestFieldAssignmentPastNF(t *testing.T) {
	out := mustRun(t, `{ $5 = "z"; print; print NF }`, []string{"a b"}, Default())
	assert.Equal(t, "a b   z\n5\n", out)
}

func TestAssignRecordResplits(t *testing.T) {
	out := mustRun(t, `{ $0 = "x y z"; print NF, $2 }`, []string{"whatever"}, Default())
	assert.Equal(t, "3 y\n", out)
}

func TestNFAssignmentTruncates(t *testing.T) {
	out := mustRun(t, `{ NF = 2; print }`, []string{"a b c d"}, Default())
	assert.Equal(t, "a b\n", out)
}

func TestOFSAndORS(t *testing.T) {
	opts := Default()
	opts.OFS = "-"
	opts.ORS = "|"
	out := mustRun(t, `{ print $1, $2 }`, []string{"a b"}, opts)
	assert.Equal(t, "a-b|", out)
}

func TestCustomFS(t *testing.T) {
	opts := Default()
	opts.FS = ":"
	out := mustRun(t, `{ print $2 }`, []string{"a:b:c"}, opts)
	assert.Equal(t, "b\n", out)
}

func TestRegexFS(t *testing.T) {
	opts := Default()
	opts.FS = "[,;]"
	out := mustRun(t, `{ print $2, $3 }`, []string{"a,b;c"}, opts)
	assert.Equal(t, "b c\n", out)
}

func TestPresetVariables(t *testing.T) {
	opts := Default()
	opts.Vars = map[string]string{"threshold": "10"}
	out := mustRun(t, `$1 > threshold { print $1 }`,
		[]string{"5", "15", "8", "20"}, opts)
	assert.Equal(t, "15\n20\n", out)
}

func TestForInLoop(t *testing.T) {
	out := mustRun(t, `BEGIN {
		a["x"] = 1; a["y"] = 2
		for (k in a) n += a[k]
		print n
	}`, nil, Default())
	assert.Equal(t, "3\n", out)
}

func TestLoopControl(t *testing.T) {
	out := mustRun(t, `BEGIN {
		for (i = 0; i < 10; i++) {
			if (i == 2) continue
			if (i == 5) break
			print i
		}
	}`, nil, Default())
	assert.Equal(t, "0\n1\n3\n4\n", out)
}

func TestDoWhile(t *testing.T) {
	out := mustRun(t, `BEGIN { i = 0; do { print i; i++ } while (i < 3) }`,
		nil, Default())
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestBuiltinStrings(t *testing.T) {
	out := mustRun(t, `BEGIN {
		print length("hello")
		print substr("hello", 2, 3)
		print substr("hello", 4)
		print index("hello", "ll")
		print toupper("abc"), tolower("XYZ")
	}`, nil, Default())
	assert.Equal(t, "5\nell\nlo\n3\nABC xyz\n", out)
}

func TestBuiltinSplit(t *testing.T) {
	out := mustRun(t, `BEGIN {
		n = split("a:b:c", parts, ":")
		print n, parts[1], parts[3]
		n = split("one two", w)
		print n, w[2]
	}`, nil, Default())
	assert.Equal(t, "3 a c\n2 two\n", out)
}

func TestBuiltinSubGsub(t *testing.T) {
	out := mustRun(t, `{
		n = sub(/o/, "0")
		print n, $0
		m = gsub(/l/, "L")
		print m, $0
	}`, []string{"hello world"}, Default())
	assert.Equal(t, "1 hell0 world\n3 heLL0 worLd\n", out)
}

func TestSubReplacementAmpersand(t *testing.T) {
	out := mustRun(t, `BEGIN {
		s = "cat"
		sub(/a/, "[&]", s)
		print s
		s2 = "cat"
		sub(/a/, "[\\&]", s2)
		print s2
	}`, nil, Default())
	assert.Equal(t, "c[a]t\nc[&]t\n", out)
}

func TestBuiltinMatch(t *testing.T) {
	out := mustRun(t, `BEGIN {
		print match("foobar", /o+/), RSTART, RLENGTH
		print match("foobar", /z/), RSTART, RLENGTH
	}`, nil, Default())
	assert.Equal(t, "2 2 2\n0 0 -1\n", out)
}

func TestBuiltinSprintfAndPrintf(t *testing.T) {
	out := mustRun(t, `BEGIN {
		print sprintf("%d-%s", 42, "x")
		printf "%05.1f|%c|%x\n", 3.14159, 65, 255
	}`, nil, Default())
	assert.Equal(t, "42-x\n003.1|A|ff\n", out)
}

func TestBuiltinMath(t *testing.T) {
	out := mustRun(t, `BEGIN {
		print int(3.9), int(-3.9)
		print sqrt(16), exp(0), log(1)
		print sin(0), cos(0), atan2(0, 1)
	}`, nil, Default())
	assert.Equal(t, "3 -3\n4 1 0\n0 1 0\n", out)
}

func TestBuiltinRand(t *testing.T) {
	out := mustRun(t, `BEGIN {
		srand(1)
		r = rand()
		print (r >= 0 && r < 1) ? "ok" : "bad"
		print srand(2)
	}`, nil, Default())
	assert.Equal(t, "ok\n1\n", out)
}

func TestLengthOfArray(t *testing.T) {
	out := mustRun(t, `BEGIN { a[1]; a[2] = "x"; a[3] = "y"; print length(a) }`,
		nil, Default())
	assert.Equal(t, "2\n", out)
}

func TestRegexPatternAgainstRecord(t *testing.T) {
	out := mustRun(t, `$0 ~ /^a/ { print "m1" } /b$/ { print "m2" }`,
		[]string{"ab", "xa"}, Default())
	assert.Equal(t, "m1\nm2\n", out)
}

func TestUninitializedValues(t *testing.T) {
	out := mustRun(t, `BEGIN { print "[" x "]", x + 0, x ? 1 : 0 }`, nil, Default())
	assert.Equal(t, "[] 0 0\n", out)
}

func TestNestedFunctionCallsRestoreParams(t *testing.T) {
	out := mustRun(t, `function f(x) { return g(x + 1) + x }
function g(x) { return x * 10 }
BEGIN { print f(1) }`, nil, Default())
	assert.Equal(t, "21\n", out)
}

func TestDeleteInsideForIn(t *testing.T) {
	out := mustRun(t, `BEGIN {
		a[1] = "x"; a[2] = "y"; a[3] = "z"
		for (k in a) delete a[k]
		print length(a)
	}`, nil, Default())
	assert.Equal(t, "0\n", out)
}
