// Package requestctx carries the per-request correlation ID through context
// so the response envelope and log lines can share it.
package requestctx

import "context"

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(ctxKey{}).(string); ok {
		return value
	}
	return ""
}
