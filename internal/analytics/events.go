// Package analytics aggregates operational events (registrations and
// queries) into rollup statistics, consumed from Kafka and periodically
// snapshotted to PostgreSQL.
package analytics

import "time"

type EventType string

const (
	EventArticleAccepted EventType = "article_accepted"
	EventArticleRejected EventType = "article_rejected"
	EventQuery           EventType = "query"
	EventCacheHit        EventType = "cache_hit"
	EventCacheMiss       EventType = "cache_miss"
)

// RegistrationEvent is published whenever an article registration is
// attempted, whether accepted or rejected.
type RegistrationEvent struct {
	Type      EventType `json:"type"`
	URL       string    `json:"url"`
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryEvent is published for every term query served by the API.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Term      string    `json:"term"`
	N         int       `json:"n"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}
