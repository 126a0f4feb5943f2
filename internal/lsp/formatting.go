package lsp

import (
	"encoding/json"
	"strings"

	"scriptls/internal/format"
	"scriptls/internal/source"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	text := ""
	if doc != nil {
		text = doc.text
	}
	s.mu.Unlock()
	if doc == nil {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	return s.sendResponse(msg.ID, buildFormattingEdits(text, params.Options))
}

// buildFormattingEdits returns a single whole-document edit, or none when the
// text is already formatted.
func buildFormattingEdits(text string, opts formattingOptions) []textEdit {
	formatted := string(format.Format(text, format.Options{
		IndentWidth: opts.TabSize,
		UseTabs:     !opts.InsertSpaces,
	}))
	if formatted == text {
		return []textEdit{}
	}
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return []textEdit{{
		Range: lspRange{
			Start: position{},
			End:   position{Line: last, Character: source.UTF16Col(lines[last], len(lines[last]))},
		},
		NewText: formatted,
	}}
}
