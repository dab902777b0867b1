// Package council runs multi-replicant reasoning sessions and keeps a
// registry of every session run by the process.
package council

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/replicants"
	"seg-mcp-server/pkg/types"
)

const (
	DefaultMode   = "dialogic"
	DefaultCycles = 2

	minParticipants = 2
)

// Modes lists the session modes that carry a synthesis section. Other
// modes are accepted and rendered without one.
var Modes = []string{"dialogic", "braided_report", "strategic", "aesthetic"}

// Request carries run_council_session arguments
type Request struct {
	Premise     string   `json:"premise" mapstructure:"premise"`
	Replicants  []string `json:"replicants" mapstructure:"replicants"`
	Mode        string   `json:"mode,omitempty" mapstructure:"mode"`
	Constraints string   `json:"constraints,omitempty" mapstructure:"constraints"`
	Cycles      int      `json:"cycles,omitempty" mapstructure:"cycles"`
}

// Orchestrator validates participants, renders council documents and
// records each session
type Orchestrator struct {
	catalog *replicants.Catalog
	logger  logging.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions []*types.CouncilSession
	byID     map[string]*types.CouncilSession
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

func WithCatalog(c *replicants.Catalog) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator with an empty registry
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog: replicants.Default(),
		logger:  logging.NewNoOpLogger(),
		now:     time.Now,
		byID:    make(map[string]*types.CouncilSession),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunSession renders a council document for the request. Unknown
// participants and undersized councils are reported in the returned text,
// and no session is recorded for them.
func (o *Orchestrator) RunSession(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Premise) == "" {
		return "", segerrors.NewRequiredFieldError("premise")
	}

	participants := make([]types.Archetype, 0, len(req.Replicants))
	for _, name := range req.Replicants {
		a, ok := o.catalog.Get(name)
		if !ok {
			return "Unknown replicant: " + name, nil
		}
		participants = append(participants, a)
	}
	if len(participants) < minParticipants {
		return fmt.Sprintf("Council sessions require at least %d replicants", minParticipants), nil
	}

	mode := req.Mode
	if mode == "" {
		mode = DefaultMode
	}
	cycles := req.Cycles
	if cycles <= 0 {
		cycles = DefaultCycles
	}

	session := o.register(req, mode, cycles)

	output := renderSession(session, participants)

	o.mu.Lock()
	session.Status = types.SessionComplete
	session.Output = output
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "Council session complete",
		"session_id", session.ID,
		"mode", mode,
		"participants", len(participants),
		"cycles", cycles)

	return output, nil
}

// register assigns the next id and records the session as running
func (o *Orchestrator) register(req Request, mode string, cycles int) *types.CouncilSession {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := &types.CouncilSession{
		ID:           fmt.Sprintf("council_%d", len(o.sessions)+1),
		Premise:      req.Premise,
		Participants: append([]string(nil), req.Replicants...),
		Mode:         mode,
		Constraints:  req.Constraints,
		Cycles:       cycles,
		Status:       types.SessionRunning,
		CreatedAt:    o.now().UTC(),
	}
	o.sessions = append(o.sessions, s)
	o.byID[s.ID] = s
	return s
}

// Sessions returns copies of all sessions in run order
func (o *Orchestrator) Sessions() []types.CouncilSession {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]types.CouncilSession, len(o.sessions))
	for i, s := range o.sessions {
		out[i] = copySession(s)
	}
	return out
}

// Session looks up one session by id
func (o *Orchestrator) Session(id string) (types.CouncilSession, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.byID[id]
	if !ok {
		return types.CouncilSession{}, false
	}
	return copySession(s), true
}

func copySession(s *types.CouncilSession) types.CouncilSession {
	c := *s
	c.Participants = append([]string(nil), s.Participants...)
	return c
}
