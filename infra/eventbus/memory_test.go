package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDepositFailed() events.DepositFailed {
	return events.DepositFailed{
		EventID:         uuid.New(),
		SourceAccountID: uuid.New(),
		TargetAccountID: uuid.New(),
		Amount:          100_000,
		Reason:          "wrong account type",
		OccurredAt:      time.Now(),
	}
}

func TestMemoryEventBus_EmitDispatchesToHandlers(t *testing.T) {
	bus := NewWithMemory(slog.Default())

	var got []events.Event
	bus.Register(events.TypeDepositFailed, func(ctx context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	evt := sampleDepositFailed()
	require.NoError(t, bus.Emit(context.Background(), evt))

	require.Len(t, got, 1)
	assert.Equal(t, evt, got[0])
}

func TestMemoryEventBus_HandlerErrorIsSwallowed(t *testing.T) {
	bus := NewWithMemory(slog.Default())
	bus.Register(events.TypeDepositFailed, func(ctx context.Context, e events.Event) error {
		return errors.New("handler blew up")
	})

	assert.NoError(t, bus.Emit(context.Background(), sampleDepositFailed()))
}

func TestMemoryEventBus_NoHandlersIsFine(t *testing.T) {
	bus := NewWithMemory(slog.Default()).CaptureEvents()
	assert.NoError(t, bus.Emit(context.Background(), sampleDepositFailed()))
	assert.Len(t, bus.Published(), 1)
}

func TestMemoryEventBus_CaptureOffByDefault(t *testing.T) {
	bus := NewWithMemory(slog.Default())
	for range 100 {
		require.NoError(t, bus.Emit(context.Background(), sampleDepositFailed()))
	}
	assert.Empty(t, bus.Published(), "a non-capturing bus must not retain events")
}

func TestMemoryEventBus_PublishedCapture(t *testing.T) {
	bus := NewWithMemory(slog.Default()).CaptureEvents()

	first := sampleDepositFailed()
	second := sampleDepositFailed()
	require.NoError(t, bus.Emit(context.Background(), first))
	require.NoError(t, bus.Emit(context.Background(), second))

	published := bus.Published()
	require.Len(t, published, 2)
	assert.Equal(t, first, published[0])
	assert.Equal(t, second, published[1])

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}
