package events

import (
	"context"
	"io"

	"storefront-cms/pkg/circuit"
)

// GuardedStore routes writes through a circuit breaker so a failing event
// database rejects appends immediately instead of stalling every save.
// Reads go straight to the wrapped store.
type GuardedStore struct {
	EventStore
	breaker *circuit.Breaker
}

func NewGuardedStore(inner EventStore, b *circuit.Breaker) *GuardedStore {
	return &GuardedStore{EventStore: inner, breaker: b}
}

func (g *GuardedStore) Append(ctx context.Context, ev ...Event) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.EventStore.Append(ctx, ev...)
	})
}

// Ping reports the breaker state before asking the wrapped store.
func (g *GuardedStore) Ping(ctx context.Context) error {
	if g.breaker.State() == circuit.Open {
		return circuit.ErrOpen
	}
	if p, ok := g.EventStore.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *GuardedStore) Close() error {
	if c, ok := g.EventStore.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
