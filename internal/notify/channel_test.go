package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// memStore is an in-memory single-slot store with redis semantics.
type memStore struct {
	values map[string]string
	getErr error
	delErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memStore) Delete(ctx context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func TestPollReturnsOutstandingNotification(t *testing.T) {
	store := newMemStore()
	store.values[SlotKey] = `{"timestamp":"2026-01-10T12:00:00Z","subject":"Model updated","body":"v6 deployed","type":"info"}`

	ch := NewChannel(store, zap.NewNop())

	rec := ch.Poll(context.Background())
	if rec == nil {
		t.Fatal("Poll returned nil, want record")
	}
	if rec.Subject != "Model updated" || rec.Type != "info" {
		t.Errorf("record = %+v", rec)
	}
}

func TestPollEmptySlot(t *testing.T) {
	ch := NewChannel(newMemStore(), zap.NewNop())

	if rec := ch.Poll(context.Background()); rec != nil {
		t.Errorf("Poll = %+v, want nil for empty slot", rec)
	}
}

func TestPollSwallowsStoreErrors(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")

	ch := NewChannel(store, zap.NewNop())

	if rec := ch.Poll(context.Background()); rec != nil {
		t.Errorf("Poll = %+v, want nil on store error", rec)
	}
}

func TestPollDiscardsMalformedRecord(t *testing.T) {
	store := newMemStore()
	store.values[SlotKey] = `{not json`

	ch := NewChannel(store, zap.NewNop())

	if rec := ch.Poll(context.Background()); rec != nil {
		t.Errorf("Poll = %+v, want nil for malformed record", rec)
	}
}

func TestAcknowledgeClearsSlot(t *testing.T) {
	store := newMemStore()
	store.values[SlotKey] = `{"subject":"x"}`

	ch := NewChannel(store, zap.NewNop())

	ch.Acknowledge(context.Background())
	if rec := ch.Poll(context.Background()); rec != nil {
		t.Errorf("Poll after Acknowledge = %+v, want nil", rec)
	}

	// Acknowledging an empty slot is a silent no-op.
	ch.Acknowledge(context.Background())
}

func TestNewProducerWriteOverwrites(t *testing.T) {
	store := newMemStore()
	ch := NewChannel(store, zap.NewNop())

	store.values[SlotKey] = `{"subject":"first"}`
	store.values[SlotKey] = `{"subject":"second"}`

	rec := ch.Poll(context.Background())
	if rec == nil || rec.Subject != "second" {
		t.Errorf("Poll = %+v, want last write to win", rec)
	}
}
