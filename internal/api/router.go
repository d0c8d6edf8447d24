package api

import (
	"net/http"

	"github.com/tidewater-news/newsdex/internal/analytics"
	"github.com/tidewater-news/newsdex/internal/apikeys"
	"github.com/tidewater-news/newsdex/internal/ratelimit"
	"github.com/tidewater-news/newsdex/pkg/health"
	"github.com/tidewater-news/newsdex/pkg/metrics"
	pkgmw "github.com/tidewater-news/newsdex/pkg/middleware"
)

// New builds the full API HTTP handler with all routes and middleware.
//
// Route table:
//
//	POST   /v1/articles              → register an article
//	POST   /v1/articles/{id}/tokens   → index tokens against an article
//	GET    /v1/articles/{id}          → fetch an article's url/title
//	GET    /v1/query                  → ranked term query
//	GET    /v1/stats                  → operational rollup stats
//	GET    /healthz                   → liveness probe
//	GET    /readyz                    → readiness probe
//	GET    /metrics                   → Prometheus scrape
//
// Middleware chain (outermost first):
//
//	RequestID → Tracing → CORS → Metrics → Timeout → Auth (write routes) → RateLimit (query route) → mux
func New(
	h *Handler,
	statsHandler *analytics.Handler,
	checker *health.Checker,
	validator *apikeys.Validator,
	limiter *ratelimit.Limiter,
	m *metrics.Metrics,
	timeout func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/articles", Auth(validator)(http.HandlerFunc(h.CreateArticle)))
	mux.Handle("POST /v1/articles/{id}/tokens", Auth(validator)(http.HandlerFunc(h.AddTokens)))
	mux.HandleFunc("GET /v1/articles/{id}", h.GetArticle)
	mux.Handle("GET /v1/query", RateLimit(limiter, m)(http.HandlerFunc(h.Query)))
	if statsHandler != nil {
		mux.HandleFunc("GET /v1/stats", statsHandler.Stats)
	}

	mux.HandleFunc("GET /healthz", checker.LiveHandler())
	mux.HandleFunc("GET /readyz", checker.ReadyHandler())
	mux.Handle("GET /metrics", metrics.Handler())

	var chain http.Handler = mux
	chain = timeout(chain)
	chain = pkgmw.Metrics(m)(chain)
	chain = pkgmw.CORS(pkgmw.DefaultCORSConfig())(chain)
	chain = pkgmw.Tracing(chain)
	chain = pkgmw.RequestID(chain)

	return chain
}
