package messaging

import (
	"context"
	"slices"
	"sync"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// OutboxStore persists serialized domain events for later relay.
type OutboxStore interface {
	Append(ctx context.Context, records ...shared.EventRecord) error
	// Pending returns up to limit records not yet marked as relayed, oldest first.
	Pending(ctx context.Context, limit int) ([]shared.EventRecord, error)
	MarkRelayed(ctx context.Context, eventIDs ...string) error
}

// OutboxHandler returns a catch-all handler that records every event.
func OutboxHandler(store OutboxStore) shared.EventHandler {
	return func(ctx context.Context, event shared.DomainEvent) error {
		return store.Append(ctx, shared.ToRecord(event))
	}
}

// MemoryOutbox is an OutboxStore kept in process memory.
type MemoryOutbox struct {
	mu      sync.Mutex
	records []shared.EventRecord
	relayed map[string]bool
}

var _ OutboxStore = (*MemoryOutbox)(nil)

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{relayed: make(map[string]bool)}
}

func (o *MemoryOutbox) Append(ctx context.Context, records ...shared.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, records...)
	return nil
}

func (o *MemoryOutbox) Pending(ctx context.Context, limit int) ([]shared.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []shared.EventRecord
	for _, r := range o.records {
		if o.relayed[r.EventID] {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (o *MemoryOutbox) MarkRelayed(ctx context.Context, eventIDs ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range eventIDs {
		o.relayed[id] = true
	}
	return nil
}

// Records returns every appended record, relayed or not.
func (o *MemoryOutbox) Records() []shared.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.records)
}
