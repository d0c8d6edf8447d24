// Package api implements the HTTP surface over the index: article
// registration and token ingestion, article lookup, ranked querying
// through the cache, and the health/metrics/stats endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tidewater-news/newsdex/internal/analytics"
	"github.com/tidewater-news/newsdex/internal/audit"
	"github.com/tidewater-news/newsdex/internal/cache"
	"github.com/tidewater-news/newsdex/internal/newsindex"
	apperrors "github.com/tidewater-news/newsdex/pkg/errors"
	"github.com/tidewater-news/newsdex/pkg/metrics"
	"github.com/tidewater-news/newsdex/pkg/tracing"
)

// Handler implements the article and query HTTP endpoints.
type Handler struct {
	idx     *newsindex.Safe
	cache   *cache.QueryCache
	sink    *audit.Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(idx *newsindex.Safe, qc *cache.QueryCache, sink *audit.Sink, m *metrics.Metrics) *Handler {
	return &Handler{
		idx:     idx,
		cache:   qc,
		sink:    sink,
		metrics: m,
		logger:  slog.Default().With("component", "api-handler"),
	}
}

type createArticleRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type createArticleResponse struct {
	ArticleID int `json:"article_id"`
}

// CreateArticle handles POST /v1/articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid JSON body"))
		return
	}

	id, reason, err := h.idx.RegisterArticle(req.URL, req.Title)
	if err != nil {
		h.recordRegistration(r, req.URL, req.Title, false, "error")
		writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, err.Error()))
		return
	}
	if reason != newsindex.NotRejected {
		h.recordRegistration(r, req.URL, req.Title, false, reason.String())
		if h.metrics != nil {
			h.metrics.ArticlesRejectedTotal.WithLabelValues(reason.String()).Inc()
		}
		writeJSON(w, http.StatusConflict, map[string]string{"reason": reason.String()})
		return
	}

	h.recordRegistration(r, req.URL, req.Title, true, reason.String())
	if h.metrics != nil {
		h.metrics.ArticlesAcceptedTotal.Inc()
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			h.logger.Error("cache invalidate failed after article registration", "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, createArticleResponse{ArticleID: id})
}

type addTokensRequest struct {
	Tokens []string `json:"tokens"`
}

// AddTokens handles POST /v1/articles/{id}/tokens.
func (h *Handler) AddTokens(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid article id"))
		return
	}
	if _, err := h.idx.GetArticleTitle(id); err != nil {
		writeError(w, apperrors.New(apperrors.ErrArticleNotFound, http.StatusNotFound, "article not found"))
		return
	}

	var req addTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid JSON body"))
		return
	}

	for _, token := range req.Tokens {
		h.idx.AddToken(id, token)
		if h.cache != nil {
			h.cache.MarkDirty(token)
		}
	}
	if h.metrics != nil {
		h.metrics.TokensIndexedTotal.Add(float64(len(req.Tokens)))
	}
	w.WriteHeader(http.StatusNoContent)
}

type articleResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// GetArticle handles GET /v1/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid article id"))
		return
	}
	title, err := h.idx.GetArticleTitle(id)
	if err != nil {
		writeError(w, apperrors.New(apperrors.ErrArticleNotFound, http.StatusNotFound, "article not found"))
		return
	}
	url, err := h.idx.GetArticleURL(id)
	if err != nil {
		writeError(w, apperrors.New(apperrors.ErrArticleNotFound, http.StatusNotFound, "article not found"))
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{URL: url, Title: title})
}

type queryResponse struct {
	Term    string                  `json:"term"`
	Results []newsindex.QueryResult `json:"results"`
}

// Query handles GET /v1/query?term=&n=. It always returns 200: an empty
// term, a nonpositive n, or a term with no matches all yield an empty
// results array rather than an error.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	term := r.URL.Query().Get("term")
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}

	lookupCtx, lookupSpan := tracing.StartChildSpan(r.Context(), "query.lookup")
	lookupSpan.SetAttr("term", term)
	lookupSpan.SetAttr("n", n)

	var results []newsindex.QueryResult
	cacheHit := false
	if h.cache != nil {
		results, cacheHit = h.cache.GetOrCompute(lookupCtx, term, n, func() []newsindex.QueryResult {
			_, evalSpan := tracing.StartChildSpan(lookupCtx, "query.evaluate")
			defer evalSpan.End()
			return h.idx.QueryTopN(term, n)
		})
	} else {
		results = h.idx.QueryTopN(term, n)
	}
	lookupSpan.SetAttr("cache_hit", cacheHit)
	lookupSpan.SetAttr("result_count", len(results))
	lookupSpan.End()

	latency := time.Since(start)
	h.recordQuery(r, term, n, len(results), cacheHit, latency)

	if h.metrics != nil {
		outcome := "hit"
		if len(results) == 0 {
			outcome = "zero_result"
		}
		h.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
		h.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		h.metrics.QueryResultsCount.Observe(float64(len(results)))
	}

	if results == nil {
		results = []newsindex.QueryResult{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Term: term, Results: results})
}

func (h *Handler) recordRegistration(r *http.Request, url, title string, accepted bool, reason string) {
	if h.sink == nil {
		return
	}
	if err := h.sink.RecordRegistration(r.Context(), url, title, accepted, reason); err != nil {
		h.logger.Error("failed to record registration audit", "url", url, "error", err)
	}
}

func (h *Handler) recordQuery(r *http.Request, term string, n, returned int, cacheHit bool, latency time.Duration) {
	if h.sink == nil {
		return
	}
	h.sink.RecordQuery(analytics.QueryEvent{
		Term:      term,
		N:         n,
		Returned:  returned,
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		RequestID: r.Header.Get("X-Request-ID"),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	writeJSON(w, err.StatusCode, map[string]string{"error": err.Message})
}
