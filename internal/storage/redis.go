package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"seg-mcp-server/pkg/types"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis store
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps each persona as a JSON string and tracks save order in a
// sorted set scored by a monotonically increasing counter
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix}, nil
}

func (s *RedisStore) personaKey(name string) string { return s.prefix + "persona:" + name }
func (s *RedisStore) orderKey() string               { return s.prefix + "personas" }
func (s *RedisStore) seqKey() string                 { return s.prefix + "personas:seq" }

func (s *RedisStore) Save(ctx context.Context, persona *types.Persona) error {
	if err := validatePersona(persona); err != nil {
		return err
	}

	data, err := json.Marshal(persona)
	if err != nil {
		return fmt.Errorf("encode persona: %w", err)
	}

	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("save persona %q: %w", persona.Name, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.personaKey(persona.Name), data, 0)
		pipe.ZAddNX(ctx, s.orderKey(), redis.Z{Score: float64(seq), Member: persona.Name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save persona %q: %w", persona.Name, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (*types.Persona, error) {
	data, err := s.client.Get(ctx, s.personaKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPersonaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get persona %q: %w", name, err)
	}
	return decodePersona(data)
}

func (s *RedisStore) List(ctx context.Context) ([]*types.Persona, error) {
	names, err := s.client.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	personas := make([]*types.Persona, 0, len(names))
	if len(names) == 0 {
		return personas, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.personaKey(name)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			continue // expired or deleted out of band
		}
		p, err := decodePersona(data)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
