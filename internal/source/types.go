package source

type (
	// DocFlags encodes metadata about how a document was normalized.
	DocFlags uint8 // метаданные
)

const (
	// DocVirtual marks a document that did not come from disk (editor buffer, stdin, test).
	DocVirtual DocFlags = 1 << iota
	DocHadBOM
	DocNormalizedCRLF
)

// Position is a zero-based line plus a zero-based byte column within that line.
type Position struct {
	Line int
	Col  int
}

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Human converts a zero-based position into the 1-based form used in CLI output.
func (p Position) Human() LineCol {
	return LineCol{Line: clampUint32(p.Line + 1), Col: clampUint32(p.Col + 1)}
}
