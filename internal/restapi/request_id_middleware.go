package restapi

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// Inbound IDs are only trusted when they look like trace tokens; anything
// longer than 128 bytes or outside this alphabet is replaced.
var validRequestIDRegex = regexp.MustCompile(`^[a-zA-Z0-9-._:]+$`)

// RequestIDMiddleware tags every request with an ID, echoing a
// well-formed client-supplied X-Request-ID and minting a UUID otherwise.
// The ID is stored on the request context so journey queries can be
// correlated across log lines.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := sanitizeRequestID(r.Header.Get("X-Request-ID"))

		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sanitizeRequestID(candidate string) string {
	if candidate == "" || len(candidate) > 128 || !validRequestIDRegex.MatchString(candidate) {
		return uuid.NewString()
	}
	return candidate
}

// GetRequestID allows other packages to retrieve the ID without importing restapi.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
