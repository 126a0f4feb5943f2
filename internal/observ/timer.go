package observ

import (
	"fmt"
	"strings"
	"time"
)

type span struct {
	name    string
	started time.Time
	spent   time.Duration
	note    string
}

// Timer measures analysis passes. A nil *Timer is valid and records nothing,
// so callers can pass it through unconditionally.
type Timer struct {
	spans []span
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{spans: make([]span, 0, 4)} }

// Begin starts a pass and returns its handle for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.spans = append(t.spans, span{name: name, started: time.Now()})
	return len(t.spans) - 1
}

// End stops the pass started by Begin and attaches a note to it.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.spans) {
		return
	}
	s := &t.spans[idx]
	s.spent = time.Since(s.started)
	s.note = note
}

// PhaseReport представляет сжатую информацию о фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the recorded passes in start order.
func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	for _, s := range t.spans {
		ms := float64(s.spent) / float64(time.Millisecond)
		r.TotalMS += ms
		r.Phases = append(r.Phases, PhaseReport{Name: s.name, DurationMS: ms, Note: s.note})
	}
	return r
}

// Folded merges phases sharing a name, keeping first-seen order. Notes of
// merged phases are dropped.
func (r Report) Folded() Report {
	out := Report{TotalMS: r.TotalMS}
	index := make(map[string]int, len(r.Phases))
	for _, p := range r.Phases {
		if i, ok := index[p.Name]; ok {
			out.Phases[i].DurationMS += p.DurationMS
			out.Phases[i].Note = ""
			continue
		}
		index[p.Name] = len(out.Phases)
		out.Phases = append(out.Phases, p)
	}
	return out
}

// Combine concatenates reports (one per document) and folds them.
func Combine(reports ...Report) Report {
	var all Report
	for _, r := range reports {
		all.TotalMS += r.TotalMS
		all.Phases = append(all.Phases, r.Phases...)
	}
	return all.Folded()
}

// String renders one line per phase followed by the total.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}
