package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"scriptls/internal/analyzer"
	"scriptls/internal/lexer"
	"scriptls/internal/source"
	"scriptls/internal/stdlib"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap := s.snapshotFor(canonicalURI(params.TextDocument.URI))
	if snap == nil {
		return s.sendResponse(msg.ID, nil)
	}
	h := buildHover(snap, s.currentRegistry(), params.Position)
	if h == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, h)
}

func buildHover(snap *docSnapshot, reg *stdlib.Registry, pos position) *hover {
	p := fromLSPPosition(snap.doc, pos)
	line := snap.doc.Line(p.Line)
	word, start := wordAt(line, p.Col)
	if word == "" {
		return nil
	}
	rng := toLSPRange(snap.doc, source.LineRange(p.Line, start, start+len(word)))
	value := hoverText(snap, reg, line, word, start)
	if value == "" {
		return nil
	}
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: value},
		Range:    &rng,
	}
}

func hoverText(snap *docSnapshot, reg *stdlib.Registry, line, word string, start int) string {
	if start > 0 && line[start-1] == '.' {
		path, _ := pathAt(line, start)
		if sym, ok := findProperty(snap.result.Symbols, path); ok {
			return symbolHover(sym)
		}
		return ""
	}
	// declarations shadow library names, which match case-insensitively
	if sym, ok := findSymbol(snap.result.Symbols, word); ok {
		return symbolHover(sym)
	}
	if fn, ok := reg.Lookup(word); ok {
		return functionHover(fn)
	}
	switch {
	case lexer.IsTypeKeyword(word):
		return fmt.Sprintf("```scriptls\n%s\n```\n\nbuilt-in type", word)
	case lexer.IsKeyword(word):
		return fmt.Sprintf("```scriptls\n%s\n```\n\nkeyword", word)
	}
	return ""
}

func functionHover(fn *stdlib.Function) string {
	var b strings.Builder
	b.WriteString("```scriptls\n")
	b.WriteString(fn.Signature())
	b.WriteString("\n```")
	if fn.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(fn.Description)
	}
	for _, p := range fn.Parameters {
		if p.Description == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n`%s` %s", p.Name, p.Description)
	}
	if len(fn.Examples) > 0 {
		b.WriteString("\n\n```scriptls\n")
		b.WriteString(strings.Join(fn.Examples, "\n"))
		b.WriteString("\n```")
	}
	return b.String()
}

func symbolHover(sym analyzer.Symbol) string {
	label := sym.Name
	if sym.Type != "" && sym.Type != analyzer.TypeIterator &&
		sym.Type != analyzer.TypeLambdaParam && sym.Type != analyzer.TypeProperty {
		label += ": " + sym.Type
	}
	return fmt.Sprintf("```scriptls\n(%s) %s\n```\n\ndeclared on line %d", sym.Kind(), label, sym.Line+1)
}

// findSymbol returns the first declaration of name; property paths never match.
func findSymbol(symbols []analyzer.Symbol, name string) (analyzer.Symbol, bool) {
	for _, sym := range symbols {
		if sym.Type != analyzer.TypeProperty && sym.Name == name {
			return sym, true
		}
	}
	return analyzer.Symbol{}, false
}

func findProperty(symbols []analyzer.Symbol, path string) (analyzer.Symbol, bool) {
	for _, sym := range symbols {
		if sym.Type == analyzer.TypeProperty && sym.Name == path {
			return sym, true
		}
	}
	return analyzer.Symbol{}, false
}

func (s *Server) currentRegistry() *stdlib.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry
}
