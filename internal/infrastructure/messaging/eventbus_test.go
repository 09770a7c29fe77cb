package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

func newSyncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Logger = logger.Discard()
	return NewInMemoryEventBus(cfg)
}

func createdEvents(t *testing.T) []shared.DomainEvent {
	t.Helper()
	agg, err := project.NewProjectAggregate(project.NewProjectParams{
		Title:       "Open Budget",
		Description: "Visualizes the city budget",
		Category:    project.CategoryGovernment,
	})
	require.NoError(t, err)
	return agg.DomainEvents()
}

func TestInMemoryEventBus_DeliversToTypedThenGlobal(t *testing.T) {
	bus := newSyncBus()
	var calls []string

	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.DomainEvent) error {
		calls = append(calls, "all")
		return nil
	}))
	require.NoError(t, bus.Subscribe(project.EventProjectCreated, func(ctx context.Context, e shared.DomainEvent) error {
		calls = append(calls, "typed")
		return nil
	}))
	require.NoError(t, bus.Subscribe(project.EventProjectTagsChanged, func(ctx context.Context, e shared.DomainEvent) error {
		calls = append(calls, "other")
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), createdEvents(t)...))

	assert.Equal(t, []string{"typed", "all"}, calls)
	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, int64(2), snap.TotalHandlerExecs)
}

func TestInMemoryEventBus_SyncErrorsAreReturned(t *testing.T) {
	bus := newSyncBus()
	boom := errors.New("boom")
	ran := false

	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.DomainEvent) error { return boom }))
	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.DomainEvent) error {
		ran = true
		return nil
	}))

	err := bus.Publish(context.Background(), createdEvents(t)...)

	assert.ErrorIs(t, err, boom)
	assert.True(t, ran, "later handlers still run")
	assert.Equal(t, int64(1), bus.Metrics().Snapshot().HandlerFailures)
}

func TestInMemoryEventBus_RecoveryMiddleware(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Logger = logger.Discard()
	cfg.Middlewares = []Middleware{RecoveryMiddleware(logger.Discard()), LoggingMiddleware(logger.Discard())}
	bus := NewInMemoryEventBus(cfg)

	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.DomainEvent) error {
		panic("handler bug")
	}))

	err := bus.Publish(context.Background(), createdEvents(t)...)
	assert.ErrorIs(t, err, ErrHandlerPanic)
}

func TestInMemoryEventBus_Async(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = true
	cfg.Logger = logger.Discard()
	bus := NewInMemoryEventBus(cfg)

	var mu sync.Mutex
	var seen []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.DomainEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), createdEvents(t)...))
	require.NoError(t, bus.Close())

	assert.Equal(t, []shared.EventType{project.EventProjectCreated}, seen)
}

func TestInMemoryEventBus_AsyncCloseWaitsForAcceptedEvents(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = true
	cfg.WorkerPoolSize = 2
	cfg.Logger = logger.Discard()
	bus := NewInMemoryEventBus(cfg)

	var handled atomic.Int64
	require.NoError(t, bus.SubscribeAll(func(context.Context, shared.DomainEvent) error {
		handled.Add(1)
		return nil
	}))

	events := createdEvents(t)
	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if bus.Publish(context.Background(), events...) == nil {
				accepted.Add(1)
			}
		}()
	}
	require.NoError(t, bus.Close())
	wg.Wait()

	assert.Equal(t, accepted.Load(), handled.Load(), "every accepted event ran before Close returned")
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), createdEvents(t)...), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(context.Context, shared.DomainEvent) error { return nil }), ErrEventBusClosed)
}

func TestOutboxHandler_RecordsAndRelays(t *testing.T) {
	ctx := context.Background()
	bus := newSyncBus()
	outbox := NewMemoryOutbox()
	require.NoError(t, bus.SubscribeAll(OutboxHandler(outbox)))

	events := createdEvents(t)
	require.NoError(t, bus.Publish(ctx, events...))

	pending, err := outbox.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, events[0].EventID(), pending[0].EventID)
	assert.Equal(t, "Project", pending[0].AggregateType)
	assert.Equal(t, "Open Budget", pending[0].EventData["title"])

	require.NoError(t, outbox.MarkRelayed(ctx, pending[0].EventID))
	pending, err = outbox.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Len(t, outbox.Records(), 1)
}
