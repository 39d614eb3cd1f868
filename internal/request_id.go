package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// GenerateRequestID creates a unique request identifier.
func GenerateRequestID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return id.String()
}

// WithRequestID adds a request ID to the context.
// If the context already has a request ID, it returns the context unchanged.
func WithRequestID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(requestIDKey).(string); ok {
		// Already has a request ID
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, GenerateRequestID())
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if no request ID is present.
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}
