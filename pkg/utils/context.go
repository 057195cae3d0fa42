package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	TraceIDKey contextKey = "trace_id"
)

// WithTraceID tags ctx with a fresh trace id and returns both.
func WithTraceID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, TraceIDKey, id), id
}

func GetTraceID(ctx context.Context) (string, bool) {
	val := ctx.Value(TraceIDKey)
	if val == nil {
		return "", false
	}

	id, ok := val.(string)
	return id, ok
}
