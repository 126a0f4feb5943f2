package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Range is a half-open region of a document: Start inclusive, End exclusive.
type Range struct {
	Start Position
	End   Position
}

// LineRange builds a single-line range from byte columns.
func LineRange(line, startCol, endCol int) Range {
	if endCol < startCol {
		endCol = startCol
	}
	return Range{
		Start: Position{Line: line, Col: startCol},
		End:   Position{Line: line, Col: endCol},
	}
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
}

// Contains reports whether pos falls inside r. The end position is included so
// that a cursor sitting right after a token still resolves to it.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Col < r.Start.Col {
		return false
	}
	if pos.Line == r.End.Line && pos.Col > r.End.Col {
		return false
	}
	return true
}

// Cover returns the smallest range containing both r and other.
func (r Range) Cover(other Range) Range {
	if before(other.Start, r.Start) {
		r.Start = other.Start
	}
	if before(r.End, other.End) {
		r.End = other.End
	}
	return r
}

func before(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

func clampUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}
