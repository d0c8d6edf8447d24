package analytics

import "testing"

func TestAggregatorRecordRegistration(t *testing.T) {
	agg := NewAggregator(nil)
	agg.recordRegistration(RegistrationEvent{Accepted: true})
	agg.recordRegistration(RegistrationEvent{Accepted: false, Reason: "duplicate_url"})
	agg.recordRegistration(RegistrationEvent{Accepted: false, Reason: "duplicate_url"})
	agg.recordRegistration(RegistrationEvent{Accepted: false, Reason: "duplicate_title_server"})

	stats := agg.Stats()
	if stats.ArticlesAccepted != 1 {
		t.Errorf("ArticlesAccepted = %d, want 1", stats.ArticlesAccepted)
	}
	if stats.ArticlesRejected != 3 {
		t.Errorf("ArticlesRejected = %d, want 3", stats.ArticlesRejected)
	}
	if stats.RejectedByReason["duplicate_url"] != 2 {
		t.Errorf("duplicate_url = %d, want 2", stats.RejectedByReason["duplicate_url"])
	}
	if stats.RejectedByReason["duplicate_title_server"] != 1 {
		t.Errorf("duplicate_title_server = %d, want 1", stats.RejectedByReason["duplicate_title_server"])
	}
}

func TestAggregatorRecordQuery(t *testing.T) {
	agg := NewAggregator(nil)
	agg.recordQuery(QueryEvent{Term: "cat", Returned: 3, CacheHit: true, LatencyMs: 5})
	agg.recordQuery(QueryEvent{Term: "cat", Returned: 3, CacheHit: false, LatencyMs: 15})
	agg.recordQuery(QueryEvent{Term: "dog", Returned: 0, CacheHit: false, LatencyMs: 10})

	stats := agg.Stats()
	if stats.TotalQueries != 3 {
		t.Errorf("TotalQueries = %d, want 3", stats.TotalQueries)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("hits=%d misses=%d, want 1,2", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if len(stats.TopTerms) == 0 || stats.TopTerms[0].Term != "cat" || stats.TopTerms[0].Count != 2 {
		t.Errorf("TopTerms = %v, want cat:2 first", stats.TopTerms)
	}
	if len(stats.ZeroResultTerms) != 1 || stats.ZeroResultTerms[0].Term != "dog" {
		t.Errorf("ZeroResultTerms = %v, want dog", stats.ZeroResultTerms)
	}
}

func TestAggregatorStatsEmpty(t *testing.T) {
	agg := NewAggregator(nil)
	stats := agg.Stats()
	if stats.TotalQueries != 0 || stats.AvgLatencyMs != 0 {
		t.Errorf("empty aggregator stats = %+v, want zeroed", stats)
	}
}
