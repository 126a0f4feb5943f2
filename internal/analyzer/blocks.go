package analyzer

import (
	"fmt"

	"scriptls/internal/diag"
	"scriptls/internal/lexer"
	"scriptls/internal/source"
)

type blockEntry struct {
	kind lexer.BlockKind
	line int
	col  int
}

// blockTracker is the one-pass block structure state machine.
//
// Invariants: len(stack) >= 0 and loopDepth >= 0 at every step; loopDepth is
// the number of loop entries on the stack.
type blockTracker struct {
	rep             diag.Reporter
	stack           []blockEntry
	loopDepth       int
	afterTerminator bool
	terminator      string
}

func newBlockTracker(rep diag.Reporter) *blockTracker {
	return &blockTracker{rep: rep, stack: make([]blockEntry, 0, 8)}
}

func (t *blockTracker) step(n int, line lexer.Line) {
	masked := line.Masked
	first, hasFirst := lexer.FirstWord(masked)

	if hasFirst && lexer.IsBlockBoundary(first.Text) {
		t.afterTerminator = false
	} else if t.afterTerminator {
		start, end := trimmedSpan(line.Code)
		diag.ReportWarning(t.rep, diag.BlkUnreachableCode, source.LineRange(n, start, end),
			fmt.Sprintf("unreachable code after `%s`", t.terminator)).Emit()
	}

	from := 0
	if hasFirst && first.Text == "elseif" {
		from = first.End
	}
	if kind, col := lexer.FindBlockOpener(masked, from); kind != lexer.BlockNone {
		t.stack = append(t.stack, blockEntry{kind: kind, line: n, col: col})
		if kind.IsLoop() {
			t.loopDepth++
		}
	}

	// loop control is checked before `end` so that one-line loops such as
	// `while x do break end` still see their own loop
	for _, kw := range [...]string{"break", "continue"} {
		col := lexer.IndexWord(masked, kw, 0)
		if col < 0 || t.loopDepth > 0 {
			continue
		}
		diag.ReportError(t.rep, diag.BlkLoopControlOutside, source.LineRange(n, col, col+len(kw)),
			fmt.Sprintf("`%s` used outside of a loop", kw)).Emit()
	}

	if col := lexer.IndexWord(masked, "end", 0); col >= 0 {
		t.pop(n, col)
	}

	if hasFirst && lexer.IsTerminator(first.Text) {
		t.afterTerminator = true
		t.terminator = first.Text
	}
}

func (t *blockTracker) pop(n, col int) {
	if len(t.stack) == 0 {
		diag.ReportError(t.rep, diag.BlkUnexpectedEnd, source.LineRange(n, col, col+len("end")),
			"unexpected `end` – no open block to close").Emit()
		return
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if top.kind.IsLoop() {
		t.loopDepth--
	}
}

// finish reports the innermost unclosed block, if any.
func (t *blockTracker) finish() {
	if len(t.stack) == 0 {
		return
	}
	top := t.stack[len(t.stack)-1]
	kw := top.kind.String()
	diag.ReportError(t.rep, diag.BlkUnclosedBlock, source.LineRange(top.line, top.col, top.col+len(kw)),
		fmt.Sprintf("unclosed `%s` block – missing `end`", kw)).Emit()
}

// depth is exposed for tests.
func (t *blockTracker) depth() (int, int) {
	return len(t.stack), t.loopDepth
}
