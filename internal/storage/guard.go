package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"seg-mcp-server/pkg/types"
)

// ErrStoreUnavailable is returned while the guard rejects calls
var ErrStoreUnavailable = errors.New("persona store unavailable: circuit open")

// BreakerState is the state of a GuardedStore's circuit
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GuardConfig tunes a GuardedStore
type GuardConfig struct {
	// FailureThreshold consecutive failures open the circuit
	FailureThreshold int
	// SuccessThreshold half-open successes close it again
	SuccessThreshold int
	// OpenTimeout is how long the circuit stays open before probing
	OpenTimeout time.Duration
	// OnStateChange runs with the guard locked and must not call back into it
	OnStateChange func(from, to BreakerState)
}

// DefaultGuardConfig returns the guard settings used for remote stores
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// GuardedStore fails fast once the wrapped store keeps erroring, then lets
// a single probe through after OpenTimeout. Missing personas and cancelled
// calls do not count as failures.
type GuardedStore struct {
	inner PersonaStore
	cfg   GuardConfig
	now   func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	probing   bool
}

// NewGuardedStore wraps inner. Zero config fields take the defaults.
func NewGuardedStore(inner PersonaStore, cfg GuardConfig) *GuardedStore {
	def := DefaultGuardConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &GuardedStore{inner: inner, cfg: cfg, now: time.Now}
}

// State reports the current circuit state
func (g *GuardedStore) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GuardedStore) Save(ctx context.Context, persona *types.Persona) error {
	return g.do(func() error { return g.inner.Save(ctx, persona) })
}

func (g *GuardedStore) Get(ctx context.Context, name string) (*types.Persona, error) {
	var p *types.Persona
	err := g.do(func() error {
		var err error
		p, err = g.inner.Get(ctx, name)
		return err
	})
	return p, err
}

func (g *GuardedStore) List(ctx context.Context) ([]*types.Persona, error) {
	var out []*types.Persona
	err := g.do(func() error {
		var err error
		out, err = g.inner.List(ctx)
		return err
	})
	return out, err
}

func (g *GuardedStore) Ping(ctx context.Context) error {
	return g.do(func() error { return g.inner.Ping(ctx) })
}

func (g *GuardedStore) Close() error {
	return g.inner.Close()
}

func (g *GuardedStore) do(fn func() error) error {
	probe, err := g.allow()
	if err != nil {
		return err
	}
	err = fn()
	g.record(probe, err)
	return err
}

func (g *GuardedStore) allow() (probe bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateOpen:
		if g.now().Sub(g.openedAt) < g.cfg.OpenTimeout {
			return false, ErrStoreUnavailable
		}
		g.transition(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if g.probing {
			return false, ErrStoreUnavailable
		}
		g.probing = true
		return true, nil
	default:
		return false, nil
	}
}

func (g *GuardedStore) record(probe bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if probe {
		g.probing = false
	}

	if !isStoreFailure(err) {
		switch g.state {
		case StateClosed:
			g.failures = 0
		case StateHalfOpen:
			g.successes++
			if g.successes >= g.cfg.SuccessThreshold {
				g.transition(StateClosed)
			}
		}
		return
	}

	switch g.state {
	case StateClosed:
		g.failures++
		if g.failures >= g.cfg.FailureThreshold {
			g.transition(StateOpen)
		}
	case StateHalfOpen:
		g.transition(StateOpen)
	}
}

// transition must be called with mu held
func (g *GuardedStore) transition(to BreakerState) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.failures = 0
	g.successes = 0
	if to == StateOpen {
		g.openedAt = g.now()
	}
	if g.cfg.OnStateChange != nil {
		g.cfg.OnStateChange(from, to)
	}
}

func isStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrPersonaNotFound) && !errors.Is(err, context.Canceled)
}
