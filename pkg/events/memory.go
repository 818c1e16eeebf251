package events

import (
	"context"
	"sync"
)

// MemoryStore keeps events in process. It is the default when no database path is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    int64
	events []StoredEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(ctx context.Context, ev ...Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range ev {
		m.seq++
		m.events = append(m.events, StoredEvent{Seq: m.seq, Event: e})
	}
	return nil
}

func (m *MemoryStore) ListByHotel(_ context.Context, hotelID int64) ([]StoredEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []StoredEvent
	for _, e := range m.events {
		if e.HotelID == hotelID {
			out = append(out, e)
		}
	}
	return out, nil
}

// List returns the newest limit events, newest first. limit <= 0 means all.
func (m *MemoryStore) List(_ context.Context, limit int) ([]StoredEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]StoredEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *MemoryStore) Replay(ctx context.Context, hotelID int64) (*HotelState, error) {
	evs, err := m.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	return Replay(hotelID, evs), nil
}
