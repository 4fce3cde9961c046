package httpx

import (
	"net/http"
	"strings"

	"crannies/internal/events"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	clientIDHeader  = "X-Client-Id"
)

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIDMiddleware tags the request context with the caller's view id,
// taken from the X-Client-Id header or the client_id query parameter. Writes
// made under that context are not echoed back to the same view's event stream.
func ClientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := strings.TrimSpace(r.Header.Get(clientIDHeader))
		if clientID == "" {
			clientID = strings.TrimSpace(r.URL.Query().Get("client_id"))
		}
		if clientID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := events.WithOrigin(r.Context(), clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
