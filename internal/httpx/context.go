package httpx

import (
	"context"
	"net/http"

	"crannies/internal/events"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFrom returns the id set by RequestIDMiddleware, or "".
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ClientIDFrom returns the id of the view that issued the request, or "".
func ClientIDFrom(r *http.Request) string {
	return events.OriginFrom(r.Context())
}
