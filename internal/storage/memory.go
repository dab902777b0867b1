package storage

import (
	"context"
	"sync"

	"seg-mcp-server/pkg/types"
)

// MemoryStore keeps personas in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	personas map[string]*types.Persona
	order    []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		personas: make(map[string]*types.Persona),
	}
}

func (s *MemoryStore) Save(_ context.Context, persona *types.Persona) error {
	if err := validatePersona(persona); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.personas[persona.Name]; !exists {
		s.order = append(s.order, persona.Name)
	}
	s.personas[persona.Name] = clonePersona(persona)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (*types.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.personas[name]
	if !ok {
		return nil, ErrPersonaNotFound
	}
	return clonePersona(p), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*types.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Persona, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, clonePersona(s.personas[name]))
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
