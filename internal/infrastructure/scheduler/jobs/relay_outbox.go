package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/infrastructure/messaging"
	"github.com/civic-hub/civic-site/pkg/logger"
	"github.com/civic-hub/civic-site/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// RELAY OUTBOX JOB
// ══════════════════════════════════════════════════════════════════════════════

// Sink receives outbox records in occurrence order.
type Sink interface {
	Deliver(ctx context.Context, records []shared.EventRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, records []shared.EventRecord) error

func (f SinkFunc) Deliver(ctx context.Context, records []shared.EventRecord) error {
	return f(ctx, records)
}

// LogSink writes each record as a structured log line.
func LogSink(log *slog.Logger) Sink {
	log = logger.OrDefault(log)
	return SinkFunc(func(ctx context.Context, records []shared.EventRecord) error {
		for _, r := range records {
			log.InfoContext(ctx, "domain event",
				slog.String("event_id", r.EventID),
				logger.EventType(string(r.EventType)),
				slog.String("aggregate_type", r.AggregateType),
				slog.String("aggregate_id", r.AggregateID),
				slog.String("occurred_on", r.OccurredOn),
				slog.Any("event_data", r.EventData))
		}
		return nil
	})
}

// RelayOutboxJob drains pending outbox records into a Sink in batches and
// marks them relayed. Records are only marked after the sink accepted them,
// so delivery is at-least-once.
type RelayOutboxJob struct {
	store     messaging.OutboxStore
	sink      Sink
	batchSize int
	retrier   *retry.Retrier
	logger    *slog.Logger
}

func NewRelayOutboxJob(store messaging.OutboxStore, sink Sink, batchSize int, log *slog.Logger) *RelayOutboxJob {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RelayOutboxJob{
		store:     store,
		sink:      sink,
		batchSize: batchSize,
		retrier:   retry.DeliveryRetrier(),
		logger:    logger.OrDefault(log).With(logger.Job("relay_outbox")),
	}
}

func (j *RelayOutboxJob) Name() string { return "relay_outbox" }

func (j *RelayOutboxJob) Description() string {
	return "Delivers recorded domain events to the configured sink"
}

// Run relays batches until the outbox is empty or ctx ends.
func (j *RelayOutboxJob) Run(ctx context.Context) error {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := j.store.Pending(ctx, j.batchSize)
		if err != nil {
			return fmt.Errorf("load pending events: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		if err := j.retrier.Do(ctx, func(ctx context.Context) error {
			return j.sink.Deliver(ctx, batch)
		}); err != nil {
			return fmt.Errorf("deliver %d events: %w", len(batch), err)
		}

		ids := make([]string, len(batch))
		for i, r := range batch {
			ids[i] = r.EventID
		}
		if err := j.store.MarkRelayed(ctx, ids...); err != nil {
			return fmt.Errorf("mark relayed: %w", err)
		}
		total += len(batch)

		if len(batch) < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "outbox relayed", slog.Int("events", total))
	}
	return nil
}
