// Package audit records the outcome of every article registration to
// PostgreSQL and forwards registration and query events to Kafka for
// downstream analytics aggregation.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidewater-news/newsdex/internal/analytics"
	"github.com/tidewater-news/newsdex/pkg/postgres"
	"github.com/tidewater-news/newsdex/pkg/resilience"
)

// Sink persists registration decisions and publishes audit events.
//
// It requires a `registrations` table:
//
//	CREATE TABLE registrations (
//	    id          BIGSERIAL PRIMARY KEY,
//	    url         TEXT NOT NULL,
//	    title       TEXT NOT NULL,
//	    accepted    BOOLEAN NOT NULL,
//	    reason      TEXT NOT NULL DEFAULT '',
//	    recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Sink struct {
	db     *postgres.Client
	events *BatchPublisher
	logger *slog.Logger
}

func New(db *postgres.Client, events *BatchPublisher) *Sink {
	return &Sink{
		db:     db,
		events: events,
		logger: slog.Default().With("component", "audit-sink"),
	}
}

// RecordRegistration persists the registration decision and enqueues an
// analytics event. The PostgreSQL write is synchronous and its failure is
// returned to the caller; the analytics event is best-effort.
func (s *Sink) RecordRegistration(ctx context.Context, url, title string, accepted bool, reason string) error {
	err := resilience.Retry(ctx, "audit-insert", resilience.RetryConfig{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond}, func() error {
		_, err := s.db.DB.ExecContext(ctx,
			`INSERT INTO registrations (url, title, accepted, reason) VALUES ($1, $2, $3, $4)`,
			url, title, accepted, reason,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("recording registration: %w", err)
	}

	eventType := analytics.EventArticleAccepted
	if !accepted {
		eventType = analytics.EventArticleRejected
	}
	s.events.Track("registration:"+url, analytics.RegistrationEvent{
		Type:      eventType,
		URL:       url,
		Accepted:  accepted,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// RecordQuery enqueues a query analytics event. It never blocks or returns
// an error to the caller; dropped events under backpressure are logged by
// the underlying BatchPublisher.
func (s *Sink) RecordQuery(event analytics.QueryEvent) {
	event.Type = analytics.EventQuery
	event.Timestamp = time.Now().UTC()
	s.events.Track("query:"+event.Term, event)
}
