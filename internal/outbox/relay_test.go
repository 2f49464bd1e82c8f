// internal/outbox/relay_test.go
package outbox

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	published [][]byte
	failOn    map[string]bool
}

func (p *fakeProducer) Publish(_ context.Context, _ string, body []byte) error {
	if p.failOn[string(body)] {
		return errors.New("broker unreachable")
	}
	p.published = append(p.published, body)
	return nil
}

func record(payload string) Record {
	return Record{
		EventID:     uuid.NewString(),
		EventType:   "CUSTOMER_REGISTERED",
		AggregateID: uuid.NewString(),
		Payload:     []byte(payload),
		OccurredAt:  time.Now().UTC(),
	}
}

func TestRelay_DrainPublishesAndMarksProcessed(t *testing.T) {
	store := NewMemoryStore()
	producer := &fakeProducer{}
	relay := NewRelay(store, producer, "internal.notification.routing-key", time.Second, slog.Default())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, record(`{"a":1}`)))
	require.NoError(t, store.Append(ctx, record(`{"b":2}`)))

	require.NoError(t, relay.Drain(ctx))

	assert.Len(t, producer.published, 2)
	pending, err := store.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelay_FailedPublishLeavesRecordPending(t *testing.T) {
	store := NewMemoryStore()
	producer := &fakeProducer{failOn: map[string]bool{`{"poison":true}`: true}}
	relay := NewRelay(store, producer, "internal.notification.routing-key", time.Second, slog.Default())
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, record(`{"poison":true}`)))
	require.NoError(t, store.Append(ctx, record(`{"ok":true}`)))

	require.NoError(t, relay.Drain(ctx))

	// The poisoned record stays pending; the one behind it still went out.
	assert.Len(t, producer.published, 1)
	pending, err := store.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.JSONEq(t, `{"poison":true}`, string(pending[0].Payload))

	// Next pass retries the failure once the broker recovers.
	producer.failOn = nil
	require.NoError(t, relay.Drain(ctx))
	pending, err = store.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMemoryStore_DuplicateEventRejected(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := record(`{}`)
	require.NoError(t, store.Append(ctx, rec))
	assert.ErrorIs(t, store.Append(ctx, rec), ErrDuplicateEvent)
}

func TestRelay_RunStopsOnContextCancel(t *testing.T) {
	store := NewMemoryStore()
	relay := NewRelay(store, &fakeProducer{}, "rk", time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancellation")
	}
}
