package format

import (
	"bytes"
	"strings"

	"scriptls/internal/lexer"
)

// NormalizeCommas returns the code of line with whitespace around commas
// outside string literals normalized. The trailing comment is kept verbatim.
//
// Rules:
//   - tabs/spaces before ',' are removed;
//   - a single space is inserted after ',' unless the next character is ')',
//     ']', '}', another comma, or the end of the code.
func NormalizeCommas(line lexer.Line) string {
	code, masked := line.Code, line.Masked
	if !strings.Contains(masked, ",") {
		return line.Raw
	}
	buf := make([]byte, 0, len(line.Raw)+8)
	for i := 0; i < len(code); i++ {
		if masked[i] != ',' {
			buf = append(buf, code[i])
			continue
		}
		buf = bytes.TrimRight(buf, " \t")
		buf = append(buf, ',')
		j := i + 1
		for j < len(code) && (code[j] == ' ' || code[j] == '\t') {
			j++
		}
		if j < len(code) && !closesList(code[j]) {
			buf = append(buf, ' ')
		}
		i = j - 1
	}
	buf = bytes.TrimRight(buf, " \t")
	if line.CommentCol >= 0 {
		buf = append(buf, ' ')
		buf = append(buf, line.Raw[line.CommentCol:]...)
	}
	return string(buf)
}

func closesList(b byte) bool {
	return b == ')' || b == ']' || b == '}' || b == ','
}
