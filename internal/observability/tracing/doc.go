// Package tracing provides OpenTelemetry tracing integration.
//
// It exposes a package-level tracer for creating spans around the fetch and
// enrichment pipeline, plus HTTP middleware that extracts W3C trace context
// from incoming requests and returns the trace ID in the X-Trace-Id header.
//
// Example usage:
//
//	import "satire-news/internal/observability/tracing"
//
//	func process(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "fetch-articles")
//	    defer span.End()
//	    // ... fetch ...
//	}
package tracing
