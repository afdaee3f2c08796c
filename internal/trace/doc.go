// Package trace provides the tracing subsystem used by syndial for diagnostic logging.
//
// Every command opens a command span; registry scans, enumeration and patching
// open step spans beneath it, and per-resource work (header decoding, cache
// lookups) emits resource-level events.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	syndial dialects --trace=- --trace-level=detail Packages/SQL/SQL.sublime-syntax
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelStep: Command and step boundaries
//   - LevelDetail: Per-resource events
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStep, "enumerate", parentID)
//	defer span.End("")
package trace
