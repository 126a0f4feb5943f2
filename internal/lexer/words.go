package lexer

import "strings"

// Word is an identifier occurrence within a line.
type Word struct {
	Text  string
	Start int
	End   int
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// Words returns every identifier in s. Numeric literals (including forms such
// as 1e5 or 0x1F) are skipped as a whole so their letters never surface as
// identifiers.
func Words(s string) []Word {
	var out []Word
	i := 0
	for i < len(s) {
		b := s[i]
		switch {
		case isDec(b):
			for i < len(s) && (isIdentContinueByte(s[i]) || s[i] == '.') {
				i++
			}
		case isIdentStartByte(b):
			start := i
			for i < len(s) && isIdentContinueByte(s[i]) {
				i++
			}
			out = append(out, Word{Text: s[start:i], Start: start, End: i})
		default:
			i++
		}
	}
	return out
}

// IndexWord returns the column of the first whole-word occurrence of word in s
// at or after from, or -1.
func IndexWord(s, word string, from int) int {
	if word == "" || from < 0 {
		return -1
	}
	for from <= len(s)-len(word) {
		idx := strings.Index(s[from:], word)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(word)
		if (idx == 0 || !isIdentContinueByte(s[idx-1])) && (end == len(s) || !isIdentContinueByte(s[end])) {
			return idx
		}
		from = idx + 1
	}
	return -1
}

// HasWord reports whether word occurs in s as a whole word.
func HasWord(s, word string) bool {
	return IndexWord(s, word, 0) >= 0
}

// FirstWord returns the leading identifier of s after indentation, if any.
func FirstWord(s string) (Word, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) || !isIdentStartByte(s[i]) {
		return Word{}, false
	}
	start := i
	for i < len(s) && isIdentContinueByte(s[i]) {
		i++
	}
	return Word{Text: s[start:i], Start: start, End: i}, true
}

// IsIdent reports whether s is a single identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentStartByte(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentContinueByte(s[i]) {
			return false
		}
	}
	return true
}
