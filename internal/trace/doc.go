// Package trace records spans of work (a CLI run, one document, one analyzer
// pass) so that slow inputs and stuck editor sessions can be diagnosed.
//
// Enable it from the command line:
//
//	scriptls check --trace=- --trace-level=detail scripts/
//
// Levels select how deep spans go:
//
//   - LevelOff: nothing
//   - LevelPhase: driver runs and per-document spans
//   - LevelDetail: analyzer passes too
//   - LevelDebug: everything, including point events
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "check:"+path, 0)
//	defer span.End("")
package trace
