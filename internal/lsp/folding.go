package lsp

import (
	"encoding/json"
	"sort"
	"strings"

	"scriptls/internal/lexer"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	snap := s.snapshotFor(canonicalURI(params.TextDocument.URI))
	if snap == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(snap.doc.Lines))
}

// buildFoldingRanges folds every block from its opener to the line before its
// `end`, and every run of two or more comment-only lines.
func buildFoldingRanges(lines []string) []foldingRange {
	ranges := make([]foldingRange, 0, 8)
	stack := make([]int, 0, 8)
	commentStart := -1
	flushComments := func(n int) {
		if commentStart >= 0 && n-1 > commentStart {
			ranges = append(ranges, foldingRange{StartLine: commentStart, EndLine: n - 1, Kind: "comment"})
		}
		commentStart = -1
	}
	for n, raw := range lines {
		l := lexer.ScanLine(raw)
		if l.CommentCol >= 0 && l.Blank() && strings.TrimSpace(raw) != "" {
			if commentStart < 0 {
				commentStart = n
			}
			continue
		}
		flushComments(n)
		if l.Blank() {
			continue
		}
		masked := l.Masked
		from := 0
		if first, ok := lexer.FirstWord(masked); ok && first.Text == "elseif" {
			from = first.End
		}
		pushed := false
		if kind, _ := lexer.FindBlockOpener(masked, from); kind != lexer.BlockNone {
			stack = append(stack, n)
			pushed = true
		}
		if lexer.IndexWord(masked, "end", 0) >= 0 && len(stack) > 0 {
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !pushed && n-1 > start {
				ranges = append(ranges, foldingRange{StartLine: start, EndLine: n - 1})
			}
		}
	}
	flushComments(len(lines))
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].StartLine < ranges[j].StartLine })
	return ranges
}
