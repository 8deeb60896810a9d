package util

import "context"

type key string

const (
	traceIDKey = key("trace-id")
)

// WithRequestID returns a context with request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// GetRequestID returns request id from context, or "" if not present.
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// WithTraceID returns a context carrying the given dispatch trace id,
// attached by the engine to every order submission it processes so a
// single order's read/match/publish/log sequence can be correlated in the
// logs.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceID returns the dispatch trace id from ctx, or "" if not present.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
