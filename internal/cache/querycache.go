// Package cache is the query-result cache sitting in front of the
// in-memory index: a Redis cache-aside layer with singleflight collapsing
// of concurrent misses for the same term, so a burst of identical queries
// during a cold cache produces one index lookup instead of many.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidewater-news/newsdex/internal/newsindex"
	"github.com/tidewater-news/newsdex/pkg/config"
	pkgredis "github.com/tidewater-news/newsdex/pkg/redis"
	"github.com/tidewater-news/newsdex/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "query:"

// QueryCache caches newsindex.QueryResult slices keyed by the term as
// given and n (terms differing only in case get separate entries).
// Invalidation is wholesale rather than per term: an article registered
// through the API flushes the cache at once, while added tokens are only
// marked dirty, so results for their terms can stay cached until the next
// periodic invalidation tick (or until their TTL runs out).
type QueryCache struct {
	client  *pkgredis.Client
	cfg     config.CacheConfig
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
	breaker *resilience.CircuitBreaker

	dirtyMu    sync.Mutex
	dirtyTerms map[string]struct{}
}

func New(client *pkgredis.Client, cfg config.CacheConfig) *QueryCache {
	return &QueryCache{
		client:     client,
		cfg:        cfg,
		logger:     slog.Default().With("component", "query-cache"),
		breaker:    resilience.NewCircuitBreaker("query-cache-redis", resilience.CircuitBreakerConfig{}),
		dirtyTerms: make(map[string]struct{}),
	}
}

// MarkDirty records that term's postings changed since the last
// invalidation, so the next periodic tick knows a flush is actually
// needed instead of issuing a no-op FlushByPattern scan every interval.
func (c *QueryCache) MarkDirty(term string) {
	c.dirtyMu.Lock()
	c.dirtyTerms[term] = struct{}{}
	c.dirtyMu.Unlock()
}

// takeDirty returns whether any term was marked dirty since the last
// call, clearing the set.
func (c *QueryCache) takeDirty() bool {
	c.dirtyMu.Lock()
	defer c.dirtyMu.Unlock()
	if len(c.dirtyTerms) == 0 {
		return false
	}
	c.dirtyTerms = make(map[string]struct{})
	return true
}

func (c *QueryCache) Get(ctx context.Context, term string, n int) ([]newsindex.QueryResult, bool) {
	key := c.buildKey(term, n)
	var data string
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key)
		return getErr
	})
	if err != nil {
		if pkgredis.IsNilError(err) {
			c.misses.Add(1)
			return nil, false
		}
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	var results []newsindex.QueryResult
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

func (c *QueryCache) Set(ctx context.Context, term string, n int, results []newsindex.QueryResult) {
	key := c.buildKey(term, n)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.TTL)
	})
	if err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results for (term, n) if present;
// otherwise it calls computeFn once even under concurrent callers for the
// same key, caches the result, and returns it. The bool return reports
// whether the value came from cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	term string,
	n int,
	computeFn func() []newsindex.QueryResult,
) ([]newsindex.QueryResult, bool) {
	if results, ok := c.Get(ctx, term, n); ok {
		return results, true
	}
	key := c.buildKey(term, n)
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.Get(ctx, term, n); ok {
			return results, nil
		}
		results := computeFn()
		c.Set(ctx, term, n, results)
		return results, nil
	})
	return val.([]newsindex.QueryResult), false
}

// Invalidate drops every cached query result. It is called after an
// article is registered through the API and by the periodic invalidation
// loop when tokens were marked dirty.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	pattern := keyPrefix + "*"
	var deleted int64
	err := c.breaker.Execute(func() error {
		var flushErr error
		deleted, flushErr = c.client.FlushByPattern(ctx, pattern)
		return flushErr
	})
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Debug("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// StartPeriodicInvalidation launches a goroutine that checks on a fixed
// interval whether any term was marked dirty since the last check and, if
// so, invalidates the whole cache. It returns immediately; the goroutine
// exits once ctx is cancelled. A nonpositive interval starts nothing.
func (c *QueryCache) StartPeriodicInvalidation(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !c.takeDirty() {
					continue
				}
				if err := c.Invalidate(ctx); err != nil {
					c.logger.Error("periodic cache invalidation failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	c.logger.Info("periodic cache invalidation started", "interval", interval)
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(term string, n int) string {
	raw := fmt.Sprintf("%s:%d", term, n)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
