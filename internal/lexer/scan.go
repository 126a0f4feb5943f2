package lexer

import "strings"

// Line is the result of scanning one physical line.
type Line struct {
	Raw string
	// Code is Raw with any trailing comment removed.
	Code string
	// Masked is Code with closed string literal contents replaced by spaces.
	Masked string
	// CommentCol is the column of the comment '#', or -1.
	CommentCol int
	// UnclosedCol is the column of the quote opening an unterminated literal, or -1.
	UnclosedCol int
}

// Balanced reports whether all string literals on the line are closed.
func (l Line) Balanced() bool {
	return l.UnclosedCol < 0
}

// Blank reports whether the line has no code (empty, whitespace or comment only).
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Code) == ""
}

// ScanLine scans raw left to right in a single pass.
func ScanLine(raw string) Line {
	var (
		masked  = []byte(raw)
		inQuote byte
		openCol = -1
		comment = -1
	)
scan:
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if inQuote == 0 {
			switch ch {
			case '#':
				if !isEscaped(raw, i) {
					comment = i
					break scan
				}
			case '"', '\'':
				if !isEscaped(raw, i) {
					inQuote = ch
					openCol = i
					masked[i] = '"'
				}
			}
			continue
		}
		if ch == inQuote && !isEscaped(raw, i) {
			masked[i] = '"'
			inQuote = 0
			openCol = -1
			continue
		}
		masked[i] = ' '
	}

	end := len(raw)
	if comment >= 0 {
		end = comment
	}
	if inQuote != 0 {
		// незакрытая строка: хвост копируется как есть
		copy(masked[openCol:end], raw[openCol:end])
	}
	return Line{
		Raw:         raw,
		Code:        raw[:end],
		Masked:      string(masked[:end]),
		CommentCol:  comment,
		UnclosedCol: openCol,
	}
}

// HasBalancedStrings reports whether every quote on line is balanced.
// Comments are not recognised here; callers pass the code part of a line.
func HasBalancedStrings(line string) bool {
	var inQuote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch != '"' && ch != '\'' {
			continue
		}
		if isEscaped(line, i) {
			continue
		}
		switch inQuote {
		case 0:
			inQuote = ch
		case ch:
			inQuote = 0
		}
	}
	return inQuote == 0
}

// Mask returns line with string contents blanked. See ScanLine.
func Mask(line string) string {
	return ScanLine(line).Masked
}

// isEscaped reports whether the byte at i is preceded by an odd number of
// consecutive backslashes.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
