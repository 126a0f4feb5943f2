package lsp

import (
	"encoding/json"

	"scriptls/internal/lexer"
	"scriptls/internal/stdlib"
)

func (s *Server) handleSignatureHelp(msg *rpcMessage) error {
	var params signatureHelpParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap := s.snapshotFor(canonicalURI(params.TextDocument.URI))
	if snap == nil {
		return s.sendResponse(msg.ID, nil)
	}
	help := buildSignatureHelp(snap, s.currentRegistry(), params.Position)
	if help == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, help)
}

func buildSignatureHelp(snap *docSnapshot, reg *stdlib.Registry, pos position) *signatureHelp {
	p := fromLSPPosition(snap.doc, pos)
	scanned := lexer.ScanLine(snap.doc.Line(p.Line))
	if insideStringOrComment(scanned, p.Col) {
		return nil
	}
	name, active, ok := enclosingCall(scanned.Masked[:p.Col])
	if !ok {
		return nil
	}
	fn, ok := reg.Lookup(name)
	if !ok {
		return nil
	}
	info := signatureInformation{Label: fn.Signature()}
	if fn.Description != "" {
		info.Documentation = &markupContent{Kind: "markdown", Value: fn.Description}
	}
	for _, param := range fn.Parameters {
		pi := parameterInformation{Label: param.Label()}
		if param.Description != "" {
			pi.Documentation = &markupContent{Kind: "markdown", Value: param.Description}
		}
		info.Parameters = append(info.Parameters, pi)
	}
	if n := len(info.Parameters); n > 0 && active >= n {
		active = n - 1
	}
	return &signatureHelp{
		Signatures:      []signatureInformation{info},
		ActiveSignature: 0,
		ActiveParameter: active,
	}
}

// enclosingCall walks prefix backwards to the innermost unclosed '(' and
// returns the identifier right before it plus the number of top-level commas
// between the paren and the end of prefix. Literal contents are expected to be
// masked already.
func enclosingCall(prefix string) (string, int, bool) {
	depth, commas := 0, 0
	for i := len(prefix) - 1; i >= 0; i-- {
		switch prefix[i] {
		case ')', ']', '}':
			depth++
		case '[', '{':
			if depth == 0 {
				return "", 0, false
			}
			depth--
		case ',':
			if depth == 0 {
				commas++
			}
		case '(':
			if depth > 0 {
				depth--
				continue
			}
			end := i
			for end > 0 && prefix[end-1] == ' ' {
				end--
			}
			start := end
			for start > 0 && isIdentByte(prefix[start-1]) {
				start--
			}
			name := prefix[start:end]
			if !lexer.IsIdent(name) || lexer.IsKeyword(name) {
				return "", 0, false
			}
			return name, commas, true
		}
	}
	return "", 0, false
}
