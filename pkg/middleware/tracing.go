package middleware

import (
	"net/http"

	"github.com/tidewater-news/newsdex/pkg/tracing"
)

// Tracing starts a root span for each request, named after the request's
// method and path and keyed by its request id, logging the completed span
// tree once the handler chain returns.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := w.Header().Get(requestIDHeader)
		ctx, span := tracing.StartSpan(r.Context(), r.Method+" "+r.URL.Path, traceID)
		span.SetAttr("remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
		span.End()
		span.Log()
	})
}
