package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Note string `json:"note"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Sale", uuid.New()),
		Note:            "till 1",
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, p := h.err, h.panicWith
	h.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func newRunningBus(t *testing.T, log *zap.Logger) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(log)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := newRunningBus(t, zap.NewNop())
	handler := newTestHandler("SaleCreated")
	bus.Subscribe(handler)

	created := newTestEvent("SaleCreated")
	require.NoError(t, bus.Publish(context.Background(), created, newTestEvent("SaleCreated")))

	handled := handler.getHandled()
	require.Len(t, handled, 2)
	assert.Equal(t, created, handled[0])
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	bus := newRunningBus(t, nil)
	sales := newTestHandler("SaleCreated")
	payments := newTestHandler("PaymentRecorded")
	audit := newTestHandler()
	bus.Subscribe(sales)
	bus.Subscribe(payments)
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PaymentRecorded")))

	assert.Empty(t, sales.getHandled())
	assert.Len(t, payments.getHandled(), 1)
	assert.Len(t, audit.getHandled(), 1, "wildcard handlers see every event")
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := newRunningBus(t, nil)
	handler := newTestHandler("SaleCreated")
	bus.Subscribe(handler, "SaleSettled")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SaleCreated"), newTestEvent("SaleSettled")))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, "SaleSettled", handled[0].EventType())
}

func TestInMemoryEventBus_FailingHandlersAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := newRunningBus(t, zap.New(core))

	failing := newTestHandler("SaleCreated")
	failing.err = errors.New("sms gateway down")
	panicking := newTestHandler("SaleCreated")
	panicking.panicWith = "nil map"
	healthy := newTestHandler("SaleCreated")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("SaleCreated"))

	require.NoError(t, err)
	assert.Len(t, healthy.getHandled(), 1)
	assert.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := newRunningBus(t, nil)
	handler := newTestHandler("SaleCreated")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("SaleCreated"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("SaleCreated"))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	assert.False(t, bus.Running())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestInMemoryEventBus_StoppedBusDropsEvents(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bus := NewInMemoryEventBus(zap.New(core))
	handler := newTestHandler("SaleCreated")
	bus.Subscribe(handler)
	ctx := context.Background()

	err := bus.Publish(ctx, newTestEvent("SaleCreated"))
	assert.ErrorIs(t, err, ErrBusNotRunning)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("SaleCreated")))

	require.NoError(t, bus.Stop(ctx))
	err = bus.Publish(ctx, newTestEvent("SaleCreated"))
	assert.ErrorIs(t, err, ErrBusNotRunning)

	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, 2, logs.FilterMessage("event bus not running, events dropped").Len())
}
