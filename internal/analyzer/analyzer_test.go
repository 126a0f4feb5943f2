package analyzer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kr.dev/diff"

	"scriptls/internal/diag"
	"scriptls/internal/observ"
	"scriptls/internal/source"
	"scriptls/internal/trace"
)

func analyze(text string, globals ...string) Result {
	opts := DefaultOptions()
	opts.Globals = globals
	return Analyze(text, opts)
}

func withCode(diags []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func blockDiags(diags []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		switch d.Code {
		case diag.BlkUnexpectedEnd, diag.BlkUnclosedBlock, diag.BlkLoopControlOutside, diag.BlkUnreachableCode:
			out = append(out, d)
		}
	}
	return out
}

func runTracker(text string) (*blockTracker, *diag.Bag) {
	bag := diag.NewBag(0)
	tr := newBlockTracker(diag.BagReporter{Bag: bag})
	for n, line := range scanLines(text) {
		if line.Blank() {
			continue
		}
		tr.step(n, line)
	}
	tr.finish()
	return tr, bag
}

func TestAnalyze_EmptyAndCommentOnlyInputs(t *testing.T) {
	for _, text := range []string{"", "\n", "# only a comment\n# and another", "   \t  "} {
		res := analyze(text)
		assert.Empty(t, res.Diagnostics, "text %q", text)
		assert.Empty(t, res.Symbols, "text %q", text)
	}
}

func TestBlocks_NoBlockKeywords(t *testing.T) {
	tr, bag := runTracker("var a = 1\nvar b = a + 2\nLog(b)\n")
	stack, loops := tr.depth()
	assert.Equal(t, 0, stack)
	assert.Equal(t, 0, loops)
	assert.Equal(t, 0, bag.Len())
}

func TestBlocks_WellFormedNesting(t *testing.T) {
	text := strings.Join([]string{
		"while a do",
		"  if b then",
		"    foreach x in items do",
		"      for i = 1 to 10 by 2 do",
		"        break",
		"      end",
		"    end",
		"  elseif c then",
		"    switch b",
		"      case 1 then",
		"        continue",
		"      default",
		"        Log(b)",
		"    end",
		"  else",
		"    continue",
		"  end",
		"end",
	}, "\n")
	tr, bag := runTracker(text)
	stack, loops := tr.depth()
	assert.Equal(t, 0, stack)
	assert.Equal(t, 0, loops)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())

	res := analyze(text, "a", "b", "c", "items")
	assert.Empty(t, res.Diagnostics)
}

func TestBlocks_UnexpectedEnd(t *testing.T) {
	res := analyze("var a = 1\nend")
	got := withCode(res.Diagnostics, diag.BlkUnexpectedEnd)
	require.Len(t, got, 1)
	assert.Equal(t, diag.SevError, got[0].Severity)
	assert.Equal(t, source.LineRange(1, 0, 3), got[0].Range)
}

func TestBlocks_UnclosedReportsInnermost(t *testing.T) {
	res := analyze("while a do\n  if a then\n    Log(a)\n", "a")
	got := withCode(res.Diagnostics, diag.BlkUnclosedBlock)
	require.Len(t, got, 1)
	assert.Equal(t, "unclosed `if` block – missing `end`", got[0].Message)
	assert.Equal(t, source.LineRange(1, 2, 4), got[0].Range)
}

func TestBlocks_BreakOutsideLoop(t *testing.T) {
	res := analyze("break")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, diag.BlkLoopControlOutside, d.Code)
	assert.Contains(t, d.Message, "break")

	res = analyze("if ok then\n  continue\nend", "ok")
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "continue")
	assert.Equal(t, source.LineRange(1, 2, 10), res.Diagnostics[0].Range)
}

func TestBlocks_BreakInsideOneLineLoop(t *testing.T) {
	res := analyze("while x do break end", "x")
	assert.Empty(t, res.Diagnostics)
}

func TestBlocks_KeywordsInStringsIgnored(t *testing.T) {
	res := analyze(`var s = "if while end break"` + "\n" + `Log('for x in y do')`)
	assert.Empty(t, res.Diagnostics)
}

func TestBlocks_UnreachableAfterReturn(t *testing.T) {
	res := analyze("return 1\nfoo()")
	got := withCode(res.Diagnostics, diag.BlkUnreachableCode)
	require.Len(t, got, 1)
	assert.Equal(t, diag.SevWarning, got[0].Severity)
	assert.Equal(t, source.LineRange(1, 0, 5), got[0].Range)

	res = analyze("return 1\nend")
	assert.Empty(t, withCode(res.Diagnostics, diag.BlkUnreachableCode))
}

func TestBlocks_UnreachablePersistsUntilBoundary(t *testing.T) {
	text := "if a then\n  fail \"x\"\n  Log(1)\n  Log(2)\nelse\n  Log(3)\nend"
	res := analyze(text, "a")
	got := withCode(res.Diagnostics, diag.BlkUnreachableCode)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Range.Start.Line)
	assert.Equal(t, source.LineRange(3, 2, 8), got[1].Range)
}

func TestRules_LoopStep(t *testing.T) {
	for _, step := range []string{"0", "-1", "-0.5"} {
		res := analyze("for i = 1 to 10 by " + step + " do\nend")
		got := withCode(res.Diagnostics, diag.RuleInvalidLoopStep)
		require.Len(t, got, 1, "step %s", step)
		assert.Equal(t, source.LineRange(0, 19, 19+len(step)), got[0].Range)
		assert.Equal(t, "for loop step must be a positive number", got[0].Message)
	}
	for _, step := range []string{"1", "0.5", "10"} {
		res := analyze("for i = 1 to 10 by " + step + " do\nend")
		assert.Empty(t, res.Diagnostics, "step %s", step)
	}
}

func TestRules_Pause(t *testing.T) {
	res := analyze("Sleep(0)")
	got := withCode(res.Diagnostics, diag.RuleInvalidPause)
	require.Len(t, got, 1)
	assert.Equal(t, source.LineRange(0, 6, 7), got[0].Range)

	res = analyze("Sleep( -5 )")
	assert.Len(t, withCode(res.Diagnostics, diag.RuleInvalidPause), 1)

	res = analyze("Sleep(250)\nvar d = 0\nSleep(d)")
	assert.Empty(t, res.Diagnostics)
}

func TestRules_TypeAnnotation(t *testing.T) {
	res := analyze("var x: number")
	assert.Empty(t, res.Diagnostics)

	res = analyze("var x: integer")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, diag.RuleUnknownType, d.Code)
	assert.Contains(t, d.Message, "`integer`")
	assert.Equal(t, source.LineRange(0, 7, 14), d.Range)
}

func TestRules_HostFunctionCalls(t *testing.T) {
	res := analyze("ToUpper(Data.name)", "Data")
	assert.Empty(t, res.Diagnostics)

	res = analyze("FooBar(Data.name)", "Data")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.SevInfo, d.Severity)
	assert.Equal(t, diag.RuleHostFunctionCall, d.Code)
	assert.Contains(t, d.Message, "FooBar")
	assert.Equal(t, source.LineRange(0, 0, 6), d.Range)

	opts := DefaultOptions()
	opts.Globals = []string{"Data"}
	opts.WarnOnHostFunctionCalls = false
	assert.Empty(t, Analyze("FooBar(Data.name)", opts).Diagnostics)

	res = analyze("Data.Save(1)\nvar s = \"Custom(1)\"", "Data")
	assert.Empty(t, res.Diagnostics)

	res = analyze("toupper(1)")
	assert.Empty(t, res.Diagnostics, "lowercase calls are neither host calls nor references")
}

func TestAnalyze_DefaultConfigKnowsData(t *testing.T) {
	res := Analyze("var y = ToUpper(Data.name)", DefaultOptions())
	assert.Empty(t, res.Diagnostics)

	res = Analyze("var y = Other.name", DefaultOptions())
	got := withCode(res.Diagnostics, diag.SemaUndefinedVariable)
	require.Len(t, got, 1)
	assert.Equal(t, source.LineRange(0, 8, 13), got[0].Range)
}

func TestRules_UnclosedString(t *testing.T) {
	res := analyze(`var s = "abc`)
	got := withCode(res.Diagnostics, diag.LexUnclosedString)
	require.Len(t, got, 1)
	assert.Equal(t, source.LineRange(0, 8, 12), got[0].Range)
	assert.Equal(t, "unclosed string literal", got[0].Message)

	res = analyze(`var s = "a\"b"`)
	assert.Empty(t, res.Diagnostics)
}

func TestSemantic_UndefinedVariable(t *testing.T) {
	res := analyze("var a = 1\nvar c = a + b")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, "undefined variable `b`", d.Message)
	assert.Equal(t, source.LineRange(1, 12, 13), d.Range)
}

func TestSemantic_Skips(t *testing.T) {
	text := strings.Join([]string{
		"var o = { name: \"a\", size: 2 }",
		"var n = o.anything.else",
		"var u = TOUPPER(\"x\")",
		"later = 1",
		"var later = 2",
		"Config.retries = 3",
		"Log(Config)",
	}, "\n")
	res := analyze(text)
	assert.Empty(t, res.Diagnostics)
}

func TestSemantic_DoubleColonIsNotAKey(t *testing.T) {
	res := analyze("var a = b::c")
	got := withCode(res.Diagnostics, diag.SemaUndefinedVariable)
	require.Len(t, got, 2)
	assert.Equal(t, "undefined variable `b`", got[0].Message)
	assert.Equal(t, "undefined variable `c`", got[1].Message)
}

func TestAnalyze_MaxDiagnostics(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDiagnostics = 2
	res := Analyze("break\nbreak\nbreak\nbreak", opts)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 0, res.Diagnostics[0].Range.Start.Line)
	assert.Equal(t, 1, res.Diagnostics[1].Range.Start.Line)
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := strings.Join([]string{
		"var total: number = 0",
		"foreach order in Data.orders do",
		"  if order.amount > 0 then",
		"    total = total + order.amount",
		"  end",
		"  Sleep(0)",
		"  Notify(order)",
		"end",
		"Data.summary.total = total",
		"return missing",
		"Log(\"done)",
		"if x then",
	}, "\n")
	first := analyze(text, "Data")
	second := analyze(text, "Data")
	require.NotEmpty(t, first.Diagnostics)
	diff.Test(t, t.Errorf, second, first)
}

func TestAnalyze_RecordsPhases(t *testing.T) {
	opts := DefaultOptions()
	opts.Timer = observ.NewTimer()
	Analyze("var a = 1", opts)
	report := opts.Timer.Report()
	require.Len(t, report.Phases, 4)
	assert.Equal(t, "scan", report.Phases[0].Name)
	assert.Equal(t, "semantic", report.Phases[3].Name)
}

func TestAnalyze_TracesPasses(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Trace = trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	opts.TraceParent = 42
	Analyze("var a = 1", opts)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "→ scan")
	assert.Contains(t, lines[1], "← scan (1 lines)")
	assert.Contains(t, lines[7], "← semantic")
}
