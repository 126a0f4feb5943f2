package analyzer

import (
	"fmt"
	"strings"

	"scriptls/internal/diag"
	"scriptls/internal/lexer"
	"scriptls/internal/source"
	"scriptls/internal/stdlib"
)

// semanticChecker flags identifier references that resolve to nothing known.
type semanticChecker struct {
	rep      diag.Reporter
	registry *stdlib.Registry
	known    map[string]struct{}
}

func newSemanticChecker(rep diag.Reporter, reg *stdlib.Registry, symbols []Symbol, globals []string) *semanticChecker {
	known := make(map[string]struct{}, len(symbols)+len(globals)+len(lexer.Keywords)+len(lexer.TypeKeywords))
	for _, kw := range lexer.Keywords {
		known[kw] = struct{}{}
	}
	for _, kw := range lexer.TypeKeywords {
		known[kw] = struct{}{}
	}
	for _, g := range globals {
		known[g] = struct{}{}
	}
	for _, sym := range symbols {
		known[sym.Name] = struct{}{}
		if sym.Type == TypeProperty {
			// the root of a defined path is usable on its own
			root, _, _ := strings.Cut(sym.Name, ".")
			known[root] = struct{}{}
		}
	}
	return &semanticChecker{rep: rep, registry: reg, known: known}
}

func (c *semanticChecker) check(n int, line lexer.Line) {
	masked := line.Masked
	annotations := annotationColumns(masked)
	for _, w := range lexer.Words(masked) {
		if c.skip(masked, w) {
			continue
		}
		if _, ok := annotations[w.Start]; ok {
			continue
		}
		if _, ok := c.known[w.Text]; ok {
			continue
		}
		diag.ReportWarning(c.rep, diag.SemaUndefinedVariable, source.LineRange(n, w.Start, w.End),
			fmt.Sprintf("undefined variable `%s`", w.Text)).Emit()
	}
}

func (c *semanticChecker) skip(masked string, w lexer.Word) bool {
	if w.Start > 0 && masked[w.Start-1] == '.' {
		return true
	}
	if w.End < len(masked) && masked[w.End] == '(' {
		return true
	}
	if isObjectKey(masked, w.End) {
		return true
	}
	return c.registry.Has(w.Text)
}

// isObjectKey reports whether the text after end is `:` but not `::`.
func isObjectKey(s string, end int) bool {
	i := end
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i < len(s) && s[i] == ':' && (i+1 >= len(s) || s[i+1] != ':')
}

// annotationColumns returns the start columns of var type tokens, which the
// annotation rule already validates.
func annotationColumns(masked string) map[int]struct{} {
	matches := reAnnotation.FindAllStringSubmatchIndex(masked, -1)
	if len(matches) == 0 {
		return nil
	}
	cols := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		cols[m[4]] = struct{}{}
	}
	return cols
}
