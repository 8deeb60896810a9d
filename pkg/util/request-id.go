package util

import (
	"context"

	"github.com/google/uuid"
)

const contextKey = key("x-request-id")

// ContextWithRequestID returns a context carrying id, generating a new
// uuid-v4 if id is empty.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, contextKey, id)
}

// FromContext returns the request id carried by ctx, or "" if none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey).(string)
	return id
}
