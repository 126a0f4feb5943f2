package lsp

import (
	"scriptls/internal/lexer"
	"scriptls/internal/source"
)

func toLSPRange(doc *source.Document, rng source.Range) lspRange {
	return lspRange{
		Start: toLSPPosition(doc, rng.Start),
		End:   toLSPPosition(doc, rng.End),
	}
}

func toLSPPosition(doc *source.Document, pos source.Position) position {
	return position{
		Line:      pos.Line,
		Character: source.UTF16Col(doc.Line(pos.Line), pos.Col),
	}
}

func fromLSPPosition(doc *source.Document, pos position) source.Position {
	return source.Position{
		Line: pos.Line,
		Col:  source.ByteCol(doc.Line(pos.Line), pos.Character),
	}
}

// wordAt returns the identifier under (or right before) col together with its
// start column. Strings and comments yield nothing.
func wordAt(line string, col int) (string, int) {
	masked := lexer.ScanLine(line).Masked
	if col > len(masked) {
		return "", -1
	}
	for _, w := range lexer.Words(masked) {
		if col >= w.Start && col <= w.Start+len(w.Text) {
			return w.Text, w.Start
		}
	}
	return "", -1
}

// pathAt extends the word under col to the dotted path it ends, so that the
// cursor on `b` in `a.b.c` yields "a.b".
func pathAt(line string, col int) (string, int) {
	word, start := wordAt(line, col)
	if word == "" {
		return "", -1
	}
	masked := lexer.ScanLine(line).Masked
	end := start + len(word)
	for start > 0 && masked[start-1] == '.' {
		k := start - 1
		for k > 0 && isIdentByte(masked[k-1]) {
			k--
		}
		if k == start-1 || !lexer.IsIdent(masked[k:start-1]) {
			break
		}
		start = k
	}
	return masked[start:end], start
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
