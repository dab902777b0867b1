// Package storage keeps generated personas. The default store is a
// process-local map; SQL and Redis stores let personas outlive a restart
// and be shared between HTTP replicas.
package storage

import (
	"context"
	"errors"
	"fmt"

	"seg-mcp-server/internal/config"
	"seg-mcp-server/pkg/types"
)

// ErrPersonaNotFound is returned by Get for names that were never saved
var ErrPersonaNotFound = errors.New("persona not found")

// PersonaStore persists generated personas keyed by name. Saving an existing
// name replaces the record but keeps its position in List.
type PersonaStore interface {
	Save(ctx context.Context, persona *types.Persona) error
	Get(ctx context.Context, name string) (*types.Persona, error)
	// List returns personas in first-save order
	List(ctx context.Context) ([]*types.Persona, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewPersonaStore builds the store selected by cfg.Provider. Network
// stores are wrapped in a GuardedStore.
func NewPersonaStore(ctx context.Context, cfg *config.StorageConfig) (PersonaStore, error) {
	switch cfg.Provider {
	case "", config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageSQLite:
		store, err := OpenSQLStore(ctx, DialectSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoragePostgres:
		store, err := OpenSQLStore(ctx, DialectPostgres, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return NewGuardedStore(store, DefaultGuardConfig()), nil
	case config.StorageRedis:
		store, err := NewRedisStore(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return NewGuardedStore(store, DefaultGuardConfig()), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func validatePersona(p *types.Persona) error {
	if p == nil {
		return errors.New("persona is nil")
	}
	if p.Name == "" {
		return errors.New("persona name is required")
	}
	return nil
}

func clonePersona(p *types.Persona) *types.Persona {
	c := *p
	c.LinguisticTics.SignaturePhrases = append([]string(nil), p.LinguisticTics.SignaturePhrases...)
	return &c
}
