package relay

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery_tracker/internal/store"
)

// Sessions here never run WritePump; tests read the outbound queue directly.

func waitEvent(t *testing.T, s *Session) LocationEvent {
	t.Helper()
	select {
	case evt := <-s.send:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for location event")
		return LocationEvent{}
	}
}

func assertNoEvent(t *testing.T, s *Session) {
	t.Helper()
	select {
	case evt := <-s.send:
		t.Fatalf("unexpected event delivered: %+v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubRoutesToJoinedSessionsOnly(t *testing.T) {
	m := store.NewMemoryStore()
	h := NewHub(m)

	joined := NewSession(nil)
	bystander := NewSession(nil)
	h.Register(joined)
	h.Register(bystander)
	h.Join(joined, "O1")

	h.RecordAndBroadcast(context.Background(), "O1", 10.0, 20.0)

	evt := waitEvent(t, joined)
	assert.Equal(t, "location:update", evt.Event)
	assert.Equal(t, "O1", evt.OrderID)
	assert.Equal(t, 10.0, evt.Lat)
	assert.Equal(t, 20.0, evt.Lng)
	assert.NotEmpty(t, evt.Timestamp)

	assertNoEvent(t, bystander)

	samples := m.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, "O1", samples[0].OrderID)
}

func TestHubJoinIsIdempotent(t *testing.T) {
	h := NewHub(store.NewMemoryStore())
	s := NewSession(nil)
	h.Register(s)
	h.Join(s, "O1")
	h.Join(s, "O1")
	h.Join(s, "O1")

	h.RecordAndBroadcast(context.Background(), "O1", 1.0, 2.0)

	waitEvent(t, s)
	assertNoEvent(t, s)
}

func TestHubIgnoresEmptyOrderID(t *testing.T) {
	h := NewHub(store.NewMemoryStore())
	s := NewSession(nil)
	h.Register(s)
	h.Join(s, "")
	h.Join(s, "   ")

	h.mu.Lock()
	rooms := len(h.rooms)
	h.mu.Unlock()
	assert.Zero(t, rooms)
}

func TestHubDropsInvalidSamples(t *testing.T) {
	m := store.NewMemoryStore()
	h := NewHub(m)
	s := NewSession(nil)
	h.Register(s)
	h.Join(s, "O1")

	ctx := context.Background()
	h.RecordAndBroadcast(ctx, "O1", math.NaN(), 20.0)
	h.RecordAndBroadcast(ctx, "O1", 10.0, math.Inf(1))
	h.RecordAndBroadcast(ctx, "", 10.0, 20.0)

	assertNoEvent(t, s)
	assert.Empty(t, m.Samples())
}

func TestHubFailedAppendAbortsBroadcast(t *testing.T) {
	m := store.NewMemoryStore()
	h := NewHub(m)
	s := NewSession(nil)
	h.Register(s)
	h.Join(s, "O1")

	m.Err = store.ErrUnavailable
	h.RecordAndBroadcast(context.Background(), "O1", 10.0, 20.0)
	assertNoEvent(t, s)

	// Session stays usable once the store recovers.
	m.Err = nil
	h.RecordAndBroadcast(context.Background(), "O1", 11.0, 21.0)
	evt := waitEvent(t, s)
	assert.Equal(t, 11.0, evt.Lat)
}

func TestHubUnregisterRemovesAllMemberships(t *testing.T) {
	h := NewHub(store.NewMemoryStore())
	s := NewSession(nil)
	other := NewSession(nil)
	h.Register(s)
	h.Register(other)
	h.Join(s, "O1")
	h.Join(s, "O2")
	h.Join(other, "O1")

	h.Unregister(s)
	h.Unregister(s) // repeated unregister is a no-op

	h.mu.Lock()
	_, member := h.members[s]
	o1 := len(h.rooms["O1"])
	_, o2 := h.rooms["O2"]
	h.mu.Unlock()

	assert.False(t, member)
	assert.Equal(t, 1, o1, "other session keeps its membership")
	assert.False(t, o2, "empty room is removed")
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(store.NewMemoryStore())
	slow := NewSession(nil)
	fast := NewSession(nil)
	h.Register(slow)
	h.Register(fast)
	h.Join(slow, "O1")
	h.Join(fast, "O1")

	// Neither session is drained while publishing, so both queues can fill
	// and events beyond capacity are dropped for them. Publishing must still
	// complete for every event.
	total := sendQueueSize + 8
	for i := 0; i < total; i++ {
		h.RecordAndBroadcast(context.Background(), "O1", float64(i), 0)
	}

	// fast receives an in-order subset: the first sendQueueSize events are
	// always queued, later ones only if a slot freed up in time.
	var delivered []float64
drain:
	for {
		select {
		case evt := <-fast.send:
			delivered = append(delivered, evt.Lat)
		case <-time.After(500 * time.Millisecond):
			break drain
		}
	}

	require.GreaterOrEqual(t, len(delivered), sendQueueSize)
	for i := 1; i < len(delivered); i++ {
		assert.Less(t, delivered[i-1], delivered[i], "per-sender order preserved")
	}
	assert.Len(t, slow.send, sendQueueSize, "slow queue capped, publishing never blocked on it")
}
