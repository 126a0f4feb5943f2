package lsp

import (
	"encoding/json"
	"strings"

	"scriptls/internal/analyzer"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params definitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	snap := s.snapshotFor(uri)
	if snap == nil {
		return s.sendResponse(msg.ID, nil)
	}
	loc := buildDefinition(snap, params.Position)
	if loc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, loc)
}

func buildDefinition(snap *docSnapshot, pos position) *location {
	p := fromLSPPosition(snap.doc, pos)
	line := snap.doc.Line(p.Line)
	word, start := wordAt(line, p.Col)
	if word == "" {
		return nil
	}
	var (
		sym analyzer.Symbol
		ok  bool
	)
	if start > 0 && line[start-1] == '.' {
		path, _ := pathAt(line, start)
		sym, ok = findProperty(snap.result.Symbols, path)
	} else {
		sym, ok = findSymbol(snap.result.Symbols, word)
		if !ok {
			sym, ok = findPropertyRoot(snap.result.Symbols, word)
		}
	}
	if !ok {
		return nil
	}
	return &location{URI: snap.uri, Range: toLSPRange(snap.doc, sym.Range())}
}

// findPropertyRoot finds the first property assignment rooted at name and
// narrows it to the root segment.
func findPropertyRoot(symbols []analyzer.Symbol, name string) (analyzer.Symbol, bool) {
	for _, sym := range symbols {
		if sym.Type == analyzer.TypeProperty && strings.HasPrefix(sym.Name, name+".") {
			sym.Name = name
			return sym, true
		}
	}
	return analyzer.Symbol{}, false
}
