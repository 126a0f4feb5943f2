package diag

import (
	"math"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics in discovery order up to a fixed cap.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics. A non-positive max
// means "as many as fit in the cap type".
func NewBag(max int) *Bag {
	limit := uint16(math.MaxUint16)
	if max > 0 {
		if v, err := safecast.Conv[uint16](max); err == nil {
			limit = v
		}
	}
	capacity := int(limit)
	if capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capacity),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Snapshot returns a copy of the collected diagnostics that callers may keep.
func (b *Bag) Snapshot() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Sort orders diagnostics by start, end, severity (desc), code (asc).
// The analyzer reports in discovery order; Sort is for CLI rendering only.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Range.Start.Line != dj.Range.Start.Line {
			return di.Range.Start.Line < dj.Range.Start.Line
		}
		if di.Range.Start.Col != dj.Range.Start.Col {
			return di.Range.Start.Col < dj.Range.Start.Col
		}
		if di.Range.End.Line != dj.Range.End.Line {
			return di.Range.End.Line < dj.Range.End.Line
		}
		if di.Range.End.Col != dj.Range.End.Col {
			return di.Range.End.Col < dj.Range.End.Col
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
