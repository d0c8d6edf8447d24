package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidewater-news/newsdex/pkg/kafka"
)

type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

type AggregatedStats struct {
	ArticlesAccepted int64            `json:"articles_accepted"`
	ArticlesRejected int64            `json:"articles_rejected"`
	RejectedByReason map[string]int64 `json:"rejected_by_reason"`
	TotalQueries     int64            `json:"total_queries"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	ZeroResultCount  int64            `json:"zero_result_count"`
	AvgLatencyMs     float64          `json:"avg_latency_ms"`
	P50LatencyMs     int64            `json:"p50_latency_ms"`
	P95LatencyMs     int64            `json:"p95_latency_ms"`
	P99LatencyMs     int64            `json:"p99_latency_ms"`
	TopTerms         []TermCount      `json:"top_terms"`
	ZeroResultTerms  []TermCount      `json:"zero_result_terms"`
	QueriesPerMinute float64          `json:"queries_per_minute"`
}

// Aggregator consumes Kafka audit events and maintains in-memory rollup
// statistics suitable for periodic persistence and an HTTP stats endpoint.
type Aggregator struct {
	mu sync.RWMutex

	articlesAccepted atomic.Int64
	articlesRejected atomic.Int64
	rejectedByReason map[string]int64

	totalQueries   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	zeroResults    atomic.Int64
	latencies      []int64
	termCounts     map[string]int64
	zeroTermCounts map[string]int64
	startTime      time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		rejectedByReason: make(map[string]int64),
		latencies:        make([]int64, 0, 10000),
		termCounts:       make(map[string]int64),
		zeroTermCounts:   make(map[string]int64),
		startTime:        time.Now(),
		consumer:         consumer,
		logger:           slog.Default().With("component", "analytics-aggregator"),
	}
}

func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns a Kafka MessageHandler that decodes either a
// RegistrationEvent or a QueryEvent and folds it into the aggregator.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		reg, err := kafka.DecodeJSON[RegistrationEvent](value)
		if err == nil && (reg.Type == EventArticleAccepted || reg.Type == EventArticleRejected) {
			agg.recordRegistration(reg)
			return nil
		}
		q, err := kafka.DecodeJSON[QueryEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		agg.recordQuery(q)
		return nil
	}
}

func (a *Aggregator) recordRegistration(event RegistrationEvent) {
	if event.Accepted {
		a.articlesAccepted.Add(1)
		return
	}
	a.articlesRejected.Add(1)
	a.mu.Lock()
	a.rejectedByReason[event.Reason]++
	a.mu.Unlock()
}

func (a *Aggregator) recordQuery(event QueryEvent) {
	a.totalQueries.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.Returned == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.termCounts[event.Term]++
	if event.Returned == 0 {
		a.zeroTermCounts[event.Term]++
	}
	a.mu.Unlock()
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rejectedByReason := make(map[string]int64, len(a.rejectedByReason))
	for k, v := range a.rejectedByReason {
		rejectedByReason[k] = v
	}

	stats := AggregatedStats{
		ArticlesAccepted: a.articlesAccepted.Load(),
		ArticlesRejected: a.articlesRejected.Load(),
		RejectedByReason: rejectedByReason,
		TotalQueries:     a.totalQueries.Load(),
		CacheHits:        a.cacheHits.Load(),
		CacheMisses:      a.cacheMisses.Load(),
		ZeroResultCount:  a.zeroResults.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopTerms = topN(a.termCounts, 10)
	stats.ZeroResultTerms = topN(a.zeroTermCounts, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []TermCount {
	result := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		result = append(result, TermCount{Term: term, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
