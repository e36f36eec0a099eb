package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stash/stash/internal/metrics"
)

const (
	// DefaultStreamKey is the Redis stream for record events.
	DefaultStreamKey = "stream:record_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// Publisher emits record events.
type Publisher interface {
	PublishAsync(event Event)
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

// NewNoop returns a Publisher that drops events silently.
func NewNoop() Publisher {
	return NoopPublisher{}
}

// PublishAsync is a no-op.
func (NoopPublisher) PublishAsync(Event) {}

// StreamPublisher appends events to a Redis stream.
type StreamPublisher struct {
	redis   *redis.Client
	stream  string
	logger  *slog.Logger
	metrics metrics.Recorder

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewStreamPublisher creates a Publisher backed by a Redis stream.
func NewStreamPublisher(client *redis.Client, stream string, logger *slog.Logger, recorder metrics.Recorder) *StreamPublisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if stream == "" {
		stream = DefaultStreamKey
	}
	return &StreamPublisher{
		redis:   client,
		stream:  stream,
		logger:  logger.With("component", "events.publisher"),
		metrics: recorder,
	}
}

// Stream returns the stream key events are written to.
func (p *StreamPublisher) Stream() string {
	return p.stream
}

// Publish adds an event to the stream synchronously.
func (p *StreamPublisher) Publish(ctx context.Context, event Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"kind":    event.Kind,
			"payload": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget). Events arriving
// after Close are dropped.
func (p *StreamPublisher) PublishAsync(event Event) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("publisher closed, dropping record event",
			"kind", event.Kind,
			"record_id", event.RecordID,
		)
		p.metrics.IncEventPublished(metrics.StatusDropped)
		return
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish record event",
				"kind", event.Kind,
				"record_id", event.RecordID,
				"error", err,
			)
			p.metrics.IncEventPublished(metrics.StatusDropped)
			return
		}

		p.logger.Debug("record event published",
			"kind", event.Kind,
			"event_id", event.ID,
			"stream_id", streamID,
		)
		p.metrics.IncEventPublished(metrics.StatusSuccess)
	}()
}

// Ping checks Redis connectivity.
func (p *StreamPublisher) Ping(ctx context.Context) error {
	return p.redis.Ping(ctx).Err()
}

// Close stops accepting events, waits for in-flight publishes (bounded by ctx),
// then closes the underlying Redis client.
func (p *StreamPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(drained)
	}()

	var waitErr error
	select {
	case <-drained:
	case <-ctx.Done():
		waitErr = fmt.Errorf("waiting for in-flight events: %w", ctx.Err())
	}

	if err := p.redis.Close(); err != nil {
		return errors.Join(waitErr, fmt.Errorf("close redis: %w", err))
	}
	return waitErr
}
