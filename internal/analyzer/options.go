package analyzer

import (
	"scriptls/internal/config"
	"scriptls/internal/observ"
	"scriptls/internal/stdlib"
	"scriptls/internal/trace"
)

// Options carries the host configuration for one analysis request.
type Options struct {
	// MaxDiagnostics keeps the first N diagnostics; non-positive means no cap.
	MaxDiagnostics int
	// WarnOnHostFunctionCalls enables the informational host-call note.
	WarnOnHostFunctionCalls bool
	// Globals are host-provided names treated as declared.
	Globals []string
	// Registry is the library function oracle; nil means stdlib.Default().
	Registry *stdlib.Registry
	// Timer, when set, records per-phase durations.
	Timer *observ.Timer
	// Trace receives one ScopePass span per pass under TraceParent.
	Trace       trace.Tracer
	TraceParent uint64
}

// DefaultOptions mirrors config.Default with the built-in registry.
func DefaultOptions() Options {
	return OptionsFrom(config.Default(), nil)
}

// OptionsFrom builds analysis options from host configuration.
func OptionsFrom(cfg config.Config, reg *stdlib.Registry) Options {
	return Options{
		MaxDiagnostics:          cfg.MaxDiagnosticCount,
		WarnOnHostFunctionCalls: cfg.WarnOnHostFunctionCalls,
		Globals:                 cfg.Globals,
		Registry:                reg,
	}
}

func (o Options) registry() *stdlib.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return stdlib.Default()
}
