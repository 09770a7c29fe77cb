package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/infrastructure/messaging"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// OutboxRepository stores domain events in domain_event_outbox.
type OutboxRepository struct {
	conn *Connection
}

var _ messaging.OutboxStore = (*OutboxRepository)(nil)

func NewOutboxRepository(conn *Connection) *OutboxRepository {
	return &OutboxRepository{conn: conn}
}

// Append inserts records in one batch. Re-appending a known event id is a
// no-op.
func (r *OutboxRepository) Append(ctx context.Context, records ...shared.EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		occurred, err := time.Parse(time.RFC3339Nano, rec.OccurredOn)
		if err != nil {
			return fmt.Errorf("outbox: bad occurredOn %q: %w", rec.OccurredOn, err)
		}
		data, err := json.Marshal(rec.EventData)
		if err != nil {
			return fmt.Errorf("outbox: marshal event data: %w", err)
		}
		batch.Queue(`
			INSERT INTO domain_event_outbox
				(event_id, event_type, aggregate_id, aggregate_type, event_version, occurred_on, event_data)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (event_id) DO NOTHING`,
			rec.EventID, string(rec.EventType), rec.AggregateID, rec.AggregateType,
			rec.EventVersion, occurred, data,
		)
	}

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("outbox: append: %w", err)
		}
		return nil
	})
}

func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]shared.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.conn.Query(ctx, `
		SELECT event_id, event_type, aggregate_id, aggregate_type, event_version, occurred_on, event_data
		FROM domain_event_outbox
		WHERE relayed_at IS NULL
		ORDER BY occurred_on, event_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("outbox: pending: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.EventRecord, error) {
		var rec shared.EventRecord
		var eventType string
		var occurred time.Time
		var data []byte
		if err := row.Scan(&rec.EventID, &eventType, &rec.AggregateID, &rec.AggregateType,
			&rec.EventVersion, &occurred, &data); err != nil {
			return rec, err
		}
		rec.EventType = shared.EventType(eventType)
		rec.OccurredOn = timeutil.FormatISO(occurred)
		if err := json.Unmarshal(data, &rec.EventData); err != nil {
			return rec, fmt.Errorf("outbox: decode event data: %w", err)
		}
		return rec, nil
	})
}

func (r *OutboxRepository) MarkRelayed(ctx context.Context, eventIDs ...string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := r.conn.Exec(ctx,
		`UPDATE domain_event_outbox SET relayed_at = $2 WHERE event_id = ANY($1) AND relayed_at IS NULL`,
		eventIDs, timeutil.Now())
	if err != nil {
		return fmt.Errorf("outbox: mark relayed: %w", err)
	}
	return nil
}
