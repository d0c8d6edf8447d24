package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/tidewater-news/newsdex/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a request id to every request, reusing one supplied
// by the caller via the X-Request-ID header, and stores it on the
// request context and response header so downstream logging and clients
// can correlate a single request across the system.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
