// Package event provides the in-process bus that carries ledger domain
// events and station integration events between application services.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fuelops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches events synchronously to every matching
// handler. Handler registrations are shared across tenants; the originating
// tenant travels on the event itself and is attached to every log line here.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	closed   atomic.Bool
	inFlight sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish delivers each event to the handlers registered for its type, in
// subscription order. Handler failures are logged and never surfaced: the
// ledger write that raised the event has already committed, so posting must
// not fail because a downstream reaction did. Events published after Stop
// are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.closed.Load() {
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	b.inFlight.Add(1)
	defer b.inFlight.Done()

	for _, event := range events {
		b.deliver(ctx, event)
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, event shared.DomainEvent) {
	log := b.logger.With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_key", event.TenantKey()),
	)
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := safeHandle(ctx, handler, event); err != nil {
			log.Error("event handler failed", zap.Error(err))
		}
	}
}

// Subscribe registers a handler, defaulting to the types the handler itself
// declares when none are given.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every type it was registered for
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start makes the bus accept publishes again after a Stop
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.closed.Store(false)
	b.logger.Info("event bus started")
	return nil
}

// Stop refuses further publishes and waits for in-flight deliveries
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.closed.Store(true)
	b.inFlight.Wait()
	b.logger.Info("event bus stopped")
	return nil
}

func safeHandle(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
