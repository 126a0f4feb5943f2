package analyzer

import (
	"regexp"
	"strings"

	"scriptls/internal/lexer"
	"scriptls/internal/source"
)

// Symbol type tags assigned by the extractor. A var declaration carries its
// annotation token instead, or nothing.
const (
	TypeIterator    = "iterator"
	TypeLambdaParam = "lambda-param"
	TypeProperty    = "property"
)

// Symbol is a declaration found in the document.
type Symbol struct {
	Name string
	Type string
	// Line and Character are 0-based; Character is a byte column.
	Line      int
	Character int
}

// Range spans the symbol name.
func (s Symbol) Range() source.Range {
	return source.LineRange(s.Line, s.Character, s.Character+len(s.Name))
}

// Kind is a human label for the symbol.
func (s Symbol) Kind() string {
	switch s.Type {
	case TypeIterator:
		return "loop variable"
	case TypeLambdaParam:
		return "lambda parameter"
	case TypeProperty:
		return "property"
	}
	return "variable"
}

var (
	reVarDecl      = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)(?:\s*:\s*([A-Za-z_]\w*))?`)
	reIterator     = regexp.MustCompile(`\b(?:foreach|for)\s+([A-Za-z_]\w*)\s+in\b`)
	reCountedLoop  = regexp.MustCompile(`\bfor\s+([A-Za-z_]\w*)\s*=`)
	reParenLambda  = regexp.MustCompile(`\(([^()]*)\)\s*=>`)
	reBareLambda   = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*=>`)
	rePropertyPath = regexp.MustCompile(`\b([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)+)\s*=`)
)

// extractSymbols scans every line in document order. Only property paths are
// deduplicated: the first assignment wins.
func extractSymbols(lines []lexer.Line) []Symbol {
	var (
		out  []Symbol
		seen = make(map[string]struct{})
	)
	for n, line := range lines {
		if line.Blank() {
			continue
		}
		masked := line.Masked
		out = appendVarDecls(out, n, masked)
		out = appendIterators(out, n, masked)
		out = appendLambdaParams(out, n, masked)
		out = appendProperties(out, n, masked, seen)
	}
	return out
}

func appendVarDecls(out []Symbol, n int, masked string) []Symbol {
	for _, m := range reVarDecl.FindAllStringSubmatchIndex(masked, -1) {
		sym := Symbol{Name: masked[m[2]:m[3]], Line: n, Character: m[2]}
		if m[4] >= 0 {
			sym.Type = masked[m[4]:m[5]]
		}
		out = append(out, sym)
	}
	return out
}

func appendIterators(out []Symbol, n int, masked string) []Symbol {
	for _, m := range reIterator.FindAllStringSubmatchIndex(masked, -1) {
		out = append(out, Symbol{Name: masked[m[2]:m[3]], Type: TypeIterator, Line: n, Character: m[2]})
	}
	for _, m := range reCountedLoop.FindAllStringSubmatchIndex(masked, -1) {
		if m[1] < len(masked) && masked[m[1]] == '=' {
			continue
		}
		out = append(out, Symbol{Name: masked[m[2]:m[3]], Type: TypeIterator, Line: n, Character: m[2]})
	}
	return out
}

func appendLambdaParams(out []Symbol, n int, masked string) []Symbol {
	var fromParens map[string]struct{}
	for _, m := range reParenLambda.FindAllStringSubmatchIndex(masked, -1) {
		offset := m[2]
		for _, part := range strings.Split(masked[m[2]:m[3]], ",") {
			if w, ok := lexer.FirstWord(part); ok && !lexer.IsKeyword(w.Text) {
				if fromParens == nil {
					fromParens = make(map[string]struct{})
				}
				fromParens[w.Text] = struct{}{}
				out = append(out, Symbol{Name: w.Text, Type: TypeLambdaParam, Line: n, Character: offset + w.Start})
			}
			offset += len(part) + 1
		}
	}
	for _, m := range reBareLambda.FindAllStringSubmatchIndex(masked, -1) {
		name := masked[m[2]:m[3]]
		if lexer.IsKeyword(name) {
			continue
		}
		if _, dup := fromParens[name]; dup {
			continue
		}
		out = append(out, Symbol{Name: name, Type: TypeLambdaParam, Line: n, Character: m[2]})
	}
	return out
}

func appendProperties(out []Symbol, n int, masked string, seen map[string]struct{}) []Symbol {
	for _, m := range rePropertyPath.FindAllStringSubmatchIndex(masked, -1) {
		if m[2] > 0 && masked[m[2]-1] == '.' {
			continue
		}
		if m[1] < len(masked) && (masked[m[1]] == '=' || masked[m[1]] == '>') {
			continue
		}
		path := masked[m[2]:m[3]]
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, Symbol{Name: path, Type: TypeProperty, Line: n, Character: m[2]})
	}
	return out
}
