package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tidewater-news/newsdex/internal/audit"
	"github.com/tidewater-news/newsdex/internal/cache"
	"github.com/tidewater-news/newsdex/internal/newsindex"
	"github.com/tidewater-news/newsdex/pkg/kafka"
	"github.com/tidewater-news/newsdex/pkg/metrics"
)

// Consumer wraps a Kafka consumer to drive article registration into the
// index.
type Consumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

func New(kafkaConsumer *kafka.Consumer) *Consumer {
	return &Consumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "ingest-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("ingest consumer starting")
	return c.consumer.Start(ctx)
}

// HandleMessage returns a Kafka MessageHandler that registers each decoded
// ArticleEvent into idx, records the decision to the audit sink, and
// updates Prometheus counters. Decode failures are logged and skipped
// rather than retried, since a malformed event will never become valid.
func HandleMessage(idx *newsindex.Safe, sink *audit.Sink, qc *cache.QueryCache, m *metrics.Metrics) kafka.MessageHandler {
	logger := slog.Default().With("component", "ingest-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ArticleEvent](value)
		if err != nil {
			logger.Error("failed to decode article event", "error", err, "key", string(key))
			return nil
		}

		id, reason, err := idx.RegisterArticle(event.URL, event.Title)
		if err != nil {
			logger.Error("registration error", "url", event.URL, "error", err)
			return fmt.Errorf("registering article %s: %w", event.URL, err)
		}

		accepted := reason == newsindex.NotRejected
		if accepted {
			for _, token := range event.Tokens {
				idx.AddToken(id, token)
				if qc != nil {
					qc.MarkDirty(token)
				}
			}
			if m != nil {
				m.ArticlesAcceptedTotal.Inc()
				m.TokensIndexedTotal.Add(float64(len(event.Tokens)))
			}
		} else if m != nil {
			m.ArticlesRejectedTotal.WithLabelValues(reason.String()).Inc()
		}

		if sink != nil {
			if err := sink.RecordRegistration(ctx, event.URL, event.Title, accepted, reason.String()); err != nil {
				logger.Error("failed to record registration audit", "url", event.URL, "error", err)
			}
		}

		logger.Debug("processed article event",
			"url", event.URL,
			"accepted", accepted,
			"reason", reason.String(),
		)
		return nil
	}
}
