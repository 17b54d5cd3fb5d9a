// internal/pkg/logger/context.go
package logger

import "context"

type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyTraceID   contextKey = "trace_id"
	ContextKeyClientIP  contextKey = "client_ip"
)

// RequestIDFromContext returns the request ID stored by the middleware,
// or an empty string when none is present.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
