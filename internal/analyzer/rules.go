package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scriptls/internal/diag"
	"scriptls/internal/lexer"
	"scriptls/internal/source"
	"scriptls/internal/stdlib"
)

// PauseFunction is the library function whose literal argument is validated.
const PauseFunction = "Sleep"

var (
	reLoopStep   = regexp.MustCompile(`\bby\s+(-?\d*\.?\d+)`)
	rePause      = regexp.MustCompile(`\b` + PauseFunction + `\s*\(\s*(-?\d*\.?\d+)\s*\)`)
	reAnnotation = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)\s*:\s*([A-Za-z_]\w*)`)
	reHostCall   = regexp.MustCompile(`\b([A-Z][A-Za-z0-9_]*)\(`)
)

// lineRules holds the independent per-line checks. Every check sees the masked
// line, so literal text and comments never match.
type lineRules struct {
	rep       diag.Reporter
	registry  *stdlib.Registry
	hostCalls bool
}

func (r lineRules) check(n int, line lexer.Line) {
	masked := line.Masked
	r.checkLoopStep(n, masked)
	r.checkPause(n, masked)
	r.checkAnnotations(n, masked)
	if r.hostCalls {
		r.checkHostCalls(n, masked)
	}
}

func (r lineRules) checkLoopStep(n int, masked string) {
	for _, m := range reLoopStep.FindAllStringSubmatchIndex(masked, -1) {
		if positiveLiteral(masked[m[2]:m[3]]) {
			continue
		}
		diag.ReportError(r.rep, diag.RuleInvalidLoopStep, source.LineRange(n, m[2], m[3]),
			"for loop step must be a positive number").Emit()
	}
}

func (r lineRules) checkPause(n int, masked string) {
	for _, m := range rePause.FindAllStringSubmatchIndex(masked, -1) {
		if m[0] > 0 && masked[m[0]-1] == '.' {
			continue
		}
		if positiveLiteral(masked[m[2]:m[3]]) {
			continue
		}
		diag.ReportError(r.rep, diag.RuleInvalidPause, source.LineRange(n, m[2], m[3]),
			PauseFunction+" duration must be a positive number").Emit()
	}
}

func (r lineRules) checkAnnotations(n int, masked string) {
	for _, m := range reAnnotation.FindAllStringSubmatchIndex(masked, -1) {
		typ := masked[m[4]:m[5]]
		if lexer.IsTypeKeyword(typ) {
			continue
		}
		diag.ReportError(r.rep, diag.RuleUnknownType, source.LineRange(n, m[4], m[5]),
			fmt.Sprintf("unknown type `%s`; expected one of %s", typ, strings.Join(lexer.TypeKeywords, ", "))).Emit()
	}
}

func (r lineRules) checkHostCalls(n int, masked string) {
	for _, m := range reHostCall.FindAllStringSubmatchIndex(masked, -1) {
		if m[2] > 0 && masked[m[2]-1] == '.' {
			continue
		}
		name := masked[m[2]:m[3]]
		if lexer.IsKeyword(name) || r.registry.Has(name) {
			continue
		}
		diag.ReportInfo(r.rep, diag.RuleHostFunctionCall, source.LineRange(n, m[2], m[3]),
			fmt.Sprintf("`%s` is not a library function; it will need to be made available at runtime", name)).Emit()
	}
}

// positiveLiteral reports whether lit parses as a number greater than zero.
func positiveLiteral(lit string) bool {
	v, err := strconv.ParseFloat(lit, 64)
	return err == nil && v > 0
}
