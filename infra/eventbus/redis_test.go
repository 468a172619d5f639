package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStreamNotifier_Validation(t *testing.T) {
	_, err := NewRedisStreamNotifier("", "stream", slog.Default())
	assert.Error(t, err)

	_, err = NewRedisStreamNotifier("redis://localhost:6379", "", slog.Default())
	assert.Error(t, err)

	_, err = NewRedisStreamNotifier("not a url", "stream", slog.Default())
	assert.Error(t, err)
}

func TestRedisStreamNotifier_Notify(t *testing.T) {
	mr := miniredis.RunT(t)

	notifier, err := NewRedisStreamNotifier("redis://"+mr.Addr(), "minipay.compensation", slog.Default())
	require.NoError(t, err)
	defer notifier.Close() //nolint:errcheck

	evt := sampleDepositFailed()
	require.NoError(t, notifier.Notify(context.Background(), evt))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close() //nolint:errcheck

	entries, err := client.XRange(context.Background(), "minipay.compensation", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, ok := entries[0].Values["event"].(string)
	require.True(t, ok)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, events.TypeDepositFailed, env.Type)

	var got events.DepositFailed
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, evt.EventID, got.EventID)
	assert.Equal(t, evt.SourceAccountID, got.SourceAccountID)
	assert.Equal(t, evt.Amount, got.Amount)
	assert.Equal(t, evt.Reason, got.Reason)
}
