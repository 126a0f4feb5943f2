package analyzer

import (
	"scriptls/internal/observ"
	"scriptls/internal/trace"
)

// phases feeds both the timer and the tracer; either may be absent.
type phases struct {
	timer  *observ.Timer
	tracer trace.Tracer
	parent uint64
}

type phase struct {
	timer *observ.Timer
	idx   int
	span  *trace.Span
}

func (ph phases) begin(name string) phase {
	return phase{
		timer: ph.timer,
		idx:   ph.timer.Begin(name),
		span:  trace.Begin(ph.tracer, trace.ScopePass, name, ph.parent),
	}
}

func (p phase) end(note string) {
	p.timer.End(p.idx, note)
	p.span.End(note)
}
