package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every article-service span.
const TracerName = "article-service"

// Tracer returns the article-service tracer from the global provider. With no
// provider installed the spans are no-ops.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
