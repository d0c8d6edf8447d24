package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tidewater-news/newsdex/pkg/kafka"
)

// BatchPublisher accumulates audit events in memory and flushes them to
// Kafka either when the buffer reaches a configurable size or after a time
// interval, whichever comes first.
type BatchPublisher struct {
	producer      *kafka.Producer
	mu            sync.Mutex
	buffer        []kafka.Event
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger
	done          chan struct{}
}

func NewBatchPublisher(producer *kafka.Producer, batchSize int, flushInterval time.Duration) *BatchPublisher {
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &BatchPublisher{
		producer:      producer,
		buffer:        make([]kafka.Event, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        slog.Default().With("component", "audit-batch"),
		done:          make(chan struct{}),
	}
}

// Start launches the background flush loop. It returns immediately; the
// loop runs until ctx is cancelled, performing a final flush before exit.
func (bp *BatchPublisher) Start(ctx context.Context) {
	go func() {
		defer close(bp.done)
		ticker := time.NewTicker(bp.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bp.flush(ctx)
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				bp.flush(flushCtx)
				cancel()
				return
			}
		}
	}()
	bp.logger.Info("audit batch publisher started",
		"batch_size", bp.batchSize,
		"flush_interval", bp.flushInterval,
	)
}

// Track adds an event to the buffer. If the buffer reaches batchSize, an
// immediate flush is triggered in the background.
func (bp *BatchPublisher) Track(key string, value any) {
	bp.mu.Lock()
	bp.buffer = append(bp.buffer, kafka.Event{Key: key, Value: value})
	shouldFlush := len(bp.buffer) >= bp.batchSize
	bp.mu.Unlock()

	if shouldFlush {
		go bp.flush(context.Background())
	}
}

// Close waits for the background flush loop to finish.
func (bp *BatchPublisher) Close() {
	<-bp.done
}

// BufferLen returns the current number of buffered events.
func (bp *BatchPublisher) BufferLen() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.buffer)
}

func (bp *BatchPublisher) flush(ctx context.Context) {
	bp.mu.Lock()
	if len(bp.buffer) == 0 {
		bp.mu.Unlock()
		return
	}
	batch := bp.buffer
	bp.buffer = make([]kafka.Event, 0, bp.batchSize)
	bp.mu.Unlock()

	if err := bp.producer.PublishBatch(ctx, batch); err != nil {
		bp.logger.Error("batch flush failed", "batch_size", len(batch), "error", err)
		bp.mu.Lock()
		bp.buffer = append(batch, bp.buffer...)
		if len(bp.buffer) > bp.batchSize*3 {
			dropped := len(bp.buffer) - bp.batchSize*3
			bp.buffer = bp.buffer[:bp.batchSize*3]
			bp.logger.Warn("buffer overflow, events dropped", "dropped", dropped)
		}
		bp.mu.Unlock()
		return
	}

	bp.logger.Debug("batch flushed", "events", len(batch))
}
