package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/pkg/metrics"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func newTestBreaker(cfg Config) (*Breaker, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg.Name = "test"
	cfg.Registry = metrics.NewRegistry()
	cfg.Now = c.now
	return New(cfg, nil), c
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	b, clk := newTestBreaker(Config{MaxConsecFailures: 3, OpenFor: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	}
	assert.Equal(t, Open, b.State())

	called := false
	err := b.Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)

	clk.advance(time.Minute)
	require.NoError(t, b.Do(ctx, ok))
	assert.Equal(t, Closed, b.State())
}

func TestSuccessResetsConsecutiveCount(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBreaker(Config{MaxConsecFailures: 2})

	b.Do(ctx, fail)
	b.Do(ctx, ok)
	b.Do(ctx, fail)
	assert.Equal(t, Closed, b.State())
}

func TestFailedProbeReopens(t *testing.T) {
	ctx := context.Background()
	b, clk := newTestBreaker(Config{MaxConsecFailures: 1, OpenFor: time.Second})

	b.Do(ctx, fail)
	clk.advance(time.Second)
	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	assert.Equal(t, Open, b.State())
	assert.ErrorIs(t, b.Do(ctx, ok), ErrOpen)
}

func TestFailureRateOverFullWindow(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBreaker(Config{WindowSize: 4, FailureRate: 0.5})

	b.Do(ctx, ok)
	b.Do(ctx, fail)
	b.Do(ctx, ok)
	assert.Equal(t, Closed, b.State(), "window not full yet")
	b.Do(ctx, fail)
	assert.Equal(t, Open, b.State())
}

func TestOperationTimeout(t *testing.T) {
	b, _ := newTestBreaker(Config{OperationTimeout: 10 * time.Millisecond})
	err := b.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
