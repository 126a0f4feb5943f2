package analyzer

import (
	"fmt"

	"scriptls/internal/diag"
	"scriptls/internal/lexer"
	"scriptls/internal/source"
)

// Result is the output of one analysis pass. Both slices are fresh copies owned
// by the caller and valid only for the text they were computed from.
type Result struct {
	Diagnostics []diag.Diagnostic
	Symbols     []Symbol
}

// Analyze runs every pass over text and returns diagnostics and symbols.
// It never fails: malformed input is reported, not rejected.
func Analyze(text string, opts Options) Result {
	ph := phases{timer: opts.Timer, tracer: opts.Trace, parent: opts.TraceParent}

	p := ph.begin("scan")
	lines := scanLines(text)
	p.end(fmt.Sprintf("%d lines", len(lines)))

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	reg := opts.registry()

	p = ph.begin("blocks")
	tracker := newBlockTracker(rep)
	rules := lineRules{rep: rep, registry: reg, hostCalls: opts.WarnOnHostFunctionCalls}
	for n, line := range lines {
		checkStrings(rep, n, line)
		if line.Blank() {
			continue
		}
		tracker.step(n, line)
		rules.check(n, line)
	}
	tracker.finish()
	p.end("")

	p = ph.begin("symbols")
	symbols := extractSymbols(lines)
	p.end(fmt.Sprintf("%d symbols", len(symbols)))

	p = ph.begin("semantic")
	checker := newSemanticChecker(rep, reg, symbols, opts.Globals)
	for n, line := range lines {
		if line.Blank() {
			continue
		}
		checker.check(n, line)
	}
	p.end("")

	return Result{
		Diagnostics: bag.Snapshot(),
		Symbols:     symbols,
	}
}

// Symbols extracts the symbol table only.
func Symbols(text string) []Symbol {
	return extractSymbols(scanLines(text))
}

func scanLines(text string) []lexer.Line {
	raw := source.SplitLines(text)
	lines := make([]lexer.Line, len(raw))
	for i, r := range raw {
		lines[i] = lexer.ScanLine(r)
	}
	return lines
}

func checkStrings(rep diag.Reporter, n int, line lexer.Line) {
	if line.Balanced() {
		return
	}
	end := len(trimRight(line.Code))
	diag.ReportError(rep, diag.LexUnclosedString, source.LineRange(n, line.UnclosedCol, end),
		"unclosed string literal").Emit()
}

func trimRight(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[:end]
}

// trimmedSpan returns the columns of s without surrounding blanks.
func trimmedSpan(s string) (int, int) {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	return start, len(trimRight(s))
}
