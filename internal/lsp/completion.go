package lsp

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"scriptls/internal/analyzer"
	"scriptls/internal/lexer"
	"scriptls/internal/stdlib"
)

var (
	reTypeContext   = regexp.MustCompile(`\bvar\s+[A-Za-z_]\w*\s*:\s*(\w*)$`)
	reMemberContext = regexp.MustCompile(`([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\.(\w*)$`)
	rePartialWord   = regexp.MustCompile(`[A-Za-z_]\w*$`)
)

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap := s.snapshotFor(canonicalURI(params.TextDocument.URI))
	if snap == nil {
		return s.sendResponse(msg.ID, completionList{Items: []completionItem{}})
	}
	s.mu.Lock()
	reg, globals := s.registry, s.cfg.Globals
	s.mu.Unlock()
	return s.sendResponse(msg.ID, buildCompletion(snap, reg, globals, params.Position))
}

func buildCompletion(snap *docSnapshot, reg *stdlib.Registry, globals []string, pos position) completionList {
	list := completionList{Items: []completionItem{}}
	p := fromLSPPosition(snap.doc, pos)
	scanned := lexer.ScanLine(snap.doc.Line(p.Line))
	if insideStringOrComment(scanned, p.Col) {
		return list
	}
	prefix := scanned.Masked[:p.Col]

	if m := reTypeContext.FindStringSubmatch(prefix); m != nil {
		for _, name := range lexer.TypeKeywords {
			if strings.HasPrefix(name, m[1]) {
				list.Items = append(list.Items, completionItem{Label: name, Kind: completionKindTypeName})
			}
		}
		return list
	}
	if m := reMemberContext.FindStringSubmatch(prefix); m != nil {
		list.Items = memberItems(snap.result.Symbols, m[1], m[2])
		return list
	}

	partial := rePartialWord.FindString(prefix)
	fold := strings.ToLower(partial)
	seen := make(map[string]struct{})
	add := func(item completionItem) {
		if _, dup := seen[item.Label]; dup {
			return
		}
		if !strings.HasPrefix(strings.ToLower(item.Label), fold) {
			return
		}
		seen[item.Label] = struct{}{}
		list.Items = append(list.Items, item)
	}

	for _, sym := range snap.result.Symbols {
		name := sym.Name
		if sym.Type == analyzer.TypeProperty {
			name, _, _ = strings.Cut(name, ".")
		}
		// the word being typed is itself a match; offer it only if declared elsewhere
		if sym.Line == p.Line && sym.Character+len(sym.Name) == p.Col {
			continue
		}
		add(completionItem{Label: name, Kind: completionKindVariable, Detail: sym.Kind(), SortText: "0" + name})
	}
	for _, name := range globals {
		add(completionItem{Label: name, Kind: completionKindVariable, Detail: "global", SortText: "1" + name})
	}
	for _, fn := range reg.All() {
		item := completionItem{
			Label:      fn.Name,
			Kind:       completionKindFunction,
			Detail:     fn.Signature(),
			SortText:   "2" + fn.Name,
			InsertText: fn.Name,
		}
		if fn.Description != "" {
			item.Documentation = &markupContent{Kind: "markdown", Value: fn.Description}
		}
		add(item)
	}
	for _, kw := range lexer.Keywords {
		add(completionItem{Label: kw, Kind: completionKindKeyword, SortText: "3" + kw})
	}
	return list
}

// memberItems lists the next path segment of every property recorded under
// base, e.g. base "a" yields "b" for `a.b.c = 1`.
func memberItems(symbols []analyzer.Symbol, base, partial string) []completionItem {
	prefix := base + "."
	names := make(map[string]struct{})
	for _, sym := range symbols {
		if sym.Type != analyzer.TypeProperty || !strings.HasPrefix(sym.Name, prefix) {
			continue
		}
		next, _, _ := strings.Cut(sym.Name[len(prefix):], ".")
		if strings.HasPrefix(next, partial) {
			names[next] = struct{}{}
		}
	}
	items := make([]completionItem, 0, len(names))
	for name := range names {
		items = append(items, completionItem{Label: name, Kind: completionKindProperty, Detail: "property"})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// insideStringOrComment reports whether byte column col of the scanned line
// lies in a comment or a string literal.
func insideStringOrComment(l lexer.Line, col int) bool {
	if col > len(l.Masked) {
		return true
	}
	if l.UnclosedCol >= 0 && col > l.UnclosedCol {
		return true
	}
	return strings.Count(l.Masked[:col], `"`)%2 == 1
}
