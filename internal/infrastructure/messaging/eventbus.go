// Package messaging implements the in-process domain event bus. Command
// handlers publish the events buffered by aggregates here after a successful
// save; subscribers (the outbox recorder, cache invalidation) react to them.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEventBusClosed is returned when operations are attempted on a closed bus.
	ErrEventBusClosed = errors.New("event bus is closed")

	// ErrHandlerPanic is returned when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")
)

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// Middleware wraps every handler registered on the bus.
type Middleware func(shared.EventHandler) shared.EventHandler

// RecoveryMiddleware turns a handler panic into ErrHandlerPanic.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(ctx context.Context, event shared.DomainEvent) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.ErrorContext(ctx, "event handler panicked",
						logger.EventType(string(event.EventType())), slog.Any("panic", r))
					err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
				}
			}()
			return next(ctx, event)
		}
	}
}

// LoggingMiddleware logs each handler execution at debug level.
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(ctx context.Context, event shared.DomainEvent) error {
			start := time.Now()
			err := next(ctx, event)
			log.DebugContext(ctx, "event handled",
				logger.EventType(string(event.EventType())),
				slog.String("aggregate_id", event.AggregateID()),
				logger.Latency(time.Since(start)),
				slog.Bool("success", err == nil))
			return err
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus is an in-process implementation of shared.EventBus.
// Handlers for one Publish call run in registration order; type-specific
// handlers run before catch-all handlers.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	middlewares []Middleware
	asyncMode   bool
	workerPool  chan struct{}
	logger      *slog.Logger
	metrics     *EventBusMetrics
	closed      bool
	wg          sync.WaitGroup
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// InMemoryEventBusConfig contains configuration for InMemoryEventBus.
type InMemoryEventBusConfig struct {
	// AsyncMode runs handlers on a bounded worker pool; Publish then returns
	// before handlers complete and handler errors are only logged.
	AsyncMode bool

	// WorkerPoolSize is the number of concurrent workers for async processing.
	WorkerPoolSize int

	Logger        *slog.Logger
	EnableMetrics bool
	Middlewares   []Middleware
}

// DefaultInMemoryEventBusConfig returns a synchronous bus with metrics.
func DefaultInMemoryEventBusConfig() InMemoryEventBusConfig {
	return InMemoryEventBusConfig{
		AsyncMode:      false,
		WorkerPoolSize: 10,
		EnableMetrics:  true,
	}
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(config InMemoryEventBusConfig) *InMemoryEventBus {
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 10
	}
	log := logger.OrDefault(config.Logger).With(logger.Component("event_bus"))

	bus := &InMemoryEventBus{
		handlers:    make(map[shared.EventType][]shared.EventHandler),
		middlewares: config.Middlewares,
		asyncMode:   config.AsyncMode,
		workerPool:  make(chan struct{}, config.WorkerPoolSize),
		logger:      log,
	}
	if config.EnableMetrics {
		bus.metrics = NewEventBusMetrics()
	}
	return bus
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], b.wrap(handler))
	b.logger.Debug("subscribed handler", logger.EventType(string(eventType)))
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}

	b.allHandlers = append(b.allHandlers, b.wrap(handler))
	b.logger.Debug("subscribed global handler")
	return nil
}

// wrap applies middlewares so that the first one is outermost.
func (b *InMemoryEventBus) wrap(h shared.EventHandler) shared.EventHandler {
	for i := len(b.middlewares) - 1; i >= 0; i-- {
		h = b.middlewares[i](h)
	}
	return h
}

// Publish delivers events in order. In sync mode handler errors are joined
// and returned after every handler has run.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if event == nil {
			return errors.New("event cannot be nil")
		}
		if err := b.publishOne(ctx, event); err != nil {
			if errors.Is(err, ErrEventBusClosed) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) publishOne(ctx context.Context, event shared.DomainEvent) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	if b.asyncMode {
		// Counted under the read lock so Close cannot start waiting first.
		b.wg.Add(len(handlers))
	}
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.RecordPublish(event.EventType())
	}
	if len(handlers) == 0 {
		b.logger.DebugContext(ctx, "no handlers for event", logger.EventType(string(event.EventType())))
		return nil
	}

	if b.asyncMode {
		for _, handler := range handlers {
			b.executeAsync(event, handler)
		}
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := b.execute(ctx, event, handler); err != nil {
			b.logger.ErrorContext(ctx, "handler error",
				logger.EventType(string(event.EventType())), logger.Err(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// executeAsync runs a handler on the worker pool, detached from the caller's
// cancellation. The caller has already added it to the wait group.
func (b *InMemoryEventBus) executeAsync(event shared.DomainEvent, handler shared.EventHandler) {
	go func() {
		defer b.wg.Done()

		// Accepted events always run; Close waits for them.
		b.workerPool <- struct{}{}
		defer func() { <-b.workerPool }()

		ctx := context.Background()
		if err := b.execute(ctx, event, handler); err != nil {
			b.logger.Error("async handler error",
				logger.EventType(string(event.EventType())), logger.Err(err))
		}
	}()
}

func (b *InMemoryEventBus) execute(ctx context.Context, event shared.DomainEvent, handler shared.EventHandler) error {
	start := time.Now()
	err := handler(ctx, event)
	if b.metrics != nil {
		b.metrics.RecordHandlerExecution(event.EventType(), time.Since(start), err == nil)
	}
	return err
}

// Close stops accepting events and waits for in-flight async handlers.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("event bus closed")
	return nil
}

// Metrics returns the metrics tracker, or nil when disabled.
func (b *InMemoryEventBus) Metrics() *EventBusMetrics {
	return b.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// EventBusMetrics tracks event bus counters.
type EventBusMetrics struct {
	mu sync.RWMutex

	publishedByType      map[shared.EventType]int64
	handlerExecutions    int64
	handlerSuccesses     int64
	handlerFailures      int64
	handlerTotalDuration time.Duration
	lastReset            time.Time
}

// NewEventBusMetrics creates new metrics tracker.
func NewEventBusMetrics() *EventBusMetrics {
	return &EventBusMetrics{
		publishedByType: make(map[shared.EventType]int64),
		lastReset:       time.Now(),
	}
}

// RecordPublish records a published event.
func (m *EventBusMetrics) RecordPublish(eventType shared.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedByType[eventType]++
}

// RecordHandlerExecution records a handler execution.
func (m *EventBusMetrics) RecordHandlerExecution(_ shared.EventType, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlerExecutions++
	m.handlerTotalDuration += duration
	if success {
		m.handlerSuccesses++
	} else {
		m.handlerFailures++
	}
}

// Snapshot returns a copy of current metrics.
func (m *EventBusMetrics) Snapshot() EventBusMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := EventBusMetricsSnapshot{
		PublishedByType:    make(map[shared.EventType]int64, len(m.publishedByType)),
		TotalHandlerExecs:  m.handlerExecutions,
		HandlerFailures:    m.handlerFailures,
		HandlerSuccessRate: 1.0,
		LastReset:          m.lastReset,
	}
	for t, n := range m.publishedByType {
		snap.PublishedByType[t] = n
		snap.TotalPublished += n
	}
	if m.handlerExecutions > 0 {
		snap.HandlerSuccessRate = float64(m.handlerSuccesses) / float64(m.handlerExecutions)
		snap.AverageHandlerDuration = m.handlerTotalDuration / time.Duration(m.handlerExecutions)
	}
	return snap
}

// Reset zeroes all counters.
func (m *EventBusMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.publishedByType = make(map[shared.EventType]int64)
	m.handlerExecutions, m.handlerSuccesses, m.handlerFailures = 0, 0, 0
	m.handlerTotalDuration = 0
	m.lastReset = time.Now()
}

// EventBusMetricsSnapshot is a point-in-time snapshot of metrics.
type EventBusMetricsSnapshot struct {
	PublishedByType        map[shared.EventType]int64
	TotalPublished         int64
	TotalHandlerExecs      int64
	HandlerFailures        int64
	HandlerSuccessRate     float64
	AverageHandlerDuration time.Duration
	LastReset              time.Time
}
