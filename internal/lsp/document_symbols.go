package lsp

import (
	"encoding/json"

	"scriptls/internal/analyzer"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap := s.snapshotFor(canonicalURI(params.TextDocument.URI))
	if snap == nil {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	return s.sendResponse(msg.ID, buildDocumentSymbols(snap))
}

func buildDocumentSymbols(snap *docSnapshot) []documentSymbol {
	out := make([]documentSymbol, 0, len(snap.result.Symbols))
	for _, sym := range snap.result.Symbols {
		kind := symbolKindVariable
		if sym.Type == analyzer.TypeProperty {
			kind = symbolKindProperty
		}
		detail := sym.Kind()
		if sym.Type != "" && kind == symbolKindVariable && sym.Kind() == "variable" {
			detail = sym.Type
		}
		rng := toLSPRange(snap.doc, sym.Range())
		out = append(out, documentSymbol{
			Name:           sym.Name,
			Detail:         detail,
			Kind:           kind,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return out
}
