// Package trace records what the keel driver is doing.
//
// Tracing is enabled from the command line:
//
//	keel lower --trace=- --trace-level=phase src/
//
// Events are spans (begin/end pairs) and points. Each event carries a Scope,
// and the tracer Level decides which scopes are written:
//
//   - LevelPhase: the driver run and each file
//   - LevelDetail: adds the load/parse/lower passes of each file
//   - LevelDebug: adds per-declaration points
//   - LevelError: nothing is streamed; events are kept in a ring buffer and
//     dumped when the driver hits an internal error
//
// The tracer travels in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parent)
//	defer span.End("")
package trace
