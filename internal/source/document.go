package source

import (
	"crypto/sha256"
	"os"
	"strings"
)

// Document is an immutable snapshot of a script's text split into physical lines.
type Document struct {
	Path  string
	Text  string
	Lines []string
	Hash  [32]byte
	Flags DocFlags
}

// NewDocument normalizes content (BOM, CRLF) and splits it into lines.
func NewDocument(path string, content []byte, flags DocFlags) *Document {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= DocHadBOM
	}
	if hadCRLF {
		flags |= DocNormalizedCRLF
	}
	text := string(content)
	return &Document{
		Path:  normalizePath(path),
		Text:  text,
		Lines: SplitLines(text),
		Hash:  sha256.Sum256(content),
		Flags: flags,
	}
}

// NewVirtual wraps in-memory text (editor buffer, stdin, test input).
func NewVirtual(name, text string) *Document {
	return NewDocument(name, []byte(text), DocVirtual)
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewDocument(path, content, 0), nil
}

// Line returns the zero-based line n, or "" when out of range.
func (d *Document) Line(n int) string {
	if d == nil || n < 0 || n >= len(d.Lines) {
		return ""
	}
	return d.Lines[n]
}

// SplitLines splits text on '\n'. A trailing newline does not produce an extra
// empty line, but an empty text still yields one empty line so that every
// document has at least one addressable position.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
