// Package circuit implements a failure-counting circuit breaker for calls to
// slow or flaky dependencies such as the event database.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-cms/pkg/logging"
	"storefront-cms/pkg/metrics"
)

// State represents the circuit breaker state
// Closed: normal operation; HalfOpen: testing; Open: fail fast
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Config tunes a circuit breaker instance.
type Config struct {
	Name string

	OperationTimeout  time.Duration // per-call timeout, 0 for none
	OpenFor           time.Duration // how long to stay open before probing
	MaxConsecFailures int           // consecutive failures to open
	WindowSize        int           // recent calls considered for FailureRate
	FailureRate       float64       // 0..1 fraction in a full window to open

	Registry *metrics.Registry // optional, defaults to metrics.Default
	Now      func() time.Time  // optional, for tests
}

// ErrOpen indicates the breaker is open and calls are short-circuited.
var ErrOpen = errors.New("circuit open")

type Breaker struct {
	cfg       Config
	mu        sync.Mutex
	st        State
	nextProbe time.Time
	probing   bool

	consecFail int
	win        []bool // true = failure
	idx        int
	used       int

	log       *logging.ComponentLogger
	mState    *metrics.Gauge
	mOpen     *metrics.Counter
	mRejected *metrics.Counter
	mFailure  *metrics.Counter
}

func New(cfg Config, logger *logging.Logger) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 20
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	if cfg.Registry == nil {
		cfg.Registry = metrics.Default
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := cfg.Registry
	return &Breaker{
		cfg:       cfg,
		win:       make([]bool, cfg.WindowSize),
		log:       logger.WithComponent("circuit"),
		mState:    r.Gauge("cb_"+cfg.Name+"_state", "Circuit breaker state (0=closed,1=open,2=half-open)"),
		mOpen:     r.Counter("cb_"+cfg.Name+"_opens_total", "Times the circuit opened"),
		mRejected: r.Counter("cb_"+cfg.Name+"_rejected_total", "Calls short-circuited while open"),
		mFailure:  r.Counter("cb_"+cfg.Name+"_failures_total", "Failed calls through the circuit"),
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st
}

func (b *Breaker) setStateLocked(st State) {
	if b.st == st {
		return
	}
	b.st = st
	b.mState.Set(float64(st))
	switch st {
	case Open:
		b.mOpen.Inc()
		b.nextProbe = b.cfg.Now().Add(b.cfg.OpenFor)
		b.log.Warn("breaker opened", logging.String("name", b.cfg.Name), logging.Int("consecutive_failures", b.consecFail))
	case Closed:
		b.used, b.idx, b.consecFail = 0, 0, 0
		b.log.Info("breaker closed", logging.String("name", b.cfg.Name))
	}
}

// recordLocked adds a sample and opens the circuit when a threshold is crossed.
func (b *Breaker) recordLocked(failed bool) {
	b.win[b.idx] = failed
	b.idx = (b.idx + 1) % len(b.win)
	if b.used < len(b.win) {
		b.used++
	}
	if !failed {
		b.consecFail = 0
		return
	}
	b.consecFail++
	if b.cfg.MaxConsecFailures > 0 && b.consecFail >= b.cfg.MaxConsecFailures {
		b.setStateLocked(Open)
		return
	}
	if b.cfg.FailureRate > 0 && b.used == len(b.win) {
		n := 0
		for _, f := range b.win {
			if f {
				n++
			}
		}
		if float64(n)/float64(b.used) >= b.cfg.FailureRate {
			b.setStateLocked(Open)
		}
	}
}

// Do runs op under the breaker. While open it returns ErrOpen without calling
// op; after OpenFor one probe call is let through.
func (b *Breaker) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b.mu.Lock()
	switch b.st {
	case Open:
		if b.cfg.Now().Before(b.nextProbe) {
			b.mu.Unlock()
			b.mRejected.Inc()
			return ErrOpen
		}
		b.setStateLocked(HalfOpen)
		b.probing = true
	case HalfOpen:
		if b.probing {
			b.mu.Unlock()
			b.mRejected.Inc()
			return ErrOpen
		}
		b.probing = true
	}
	b.mu.Unlock()

	if b.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.OperationTimeout)
		defer cancel()
	}
	err := op(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.st == HalfOpen {
		b.probing = false
		if err != nil {
			b.mFailure.Inc()
			b.consecFail++
			b.setStateLocked(Open)
			return err
		}
		b.setStateLocked(Closed)
		return nil
	}
	if err != nil {
		b.mFailure.Inc()
	}
	b.recordLocked(err != nil)
	return err
}
