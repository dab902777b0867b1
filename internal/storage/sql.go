package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seg-mcp-server/pkg/types"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Dialect names a database/sql driver the SQL store can speak
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

var schemas = map[Dialect]string{
	DialectSQLite: `CREATE TABLE IF NOT EXISTS seg_personas (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL UNIQUE,
		data       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	DialectPostgres: `CREATE TABLE IF NOT EXISTS seg_personas (
		seq        BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// SQLStore persists personas as JSON documents in a single table
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLStore opens the database and creates the table if needed
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	schema, ok := schemas[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported SQL dialect: %s", dialect)
	}

	if dialect == DialectSQLite && dsn != ":memory:" && !strings.Contains(dsn, "?") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite serializes writers anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Save(ctx context.Context, persona *types.Persona) error {
	if err := validatePersona(persona); err != nil {
		return err
	}

	data, err := json.Marshal(persona)
	if err != nil {
		return fmt.Errorf("encode persona: %w", err)
	}

	now := time.Now().UTC()
	query := s.rebind(`INSERT INTO seg_personas (name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, persona.Name, string(data), now, now); err != nil {
		return fmt.Errorf("save persona %q: %w", persona.Name, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, name string) (*types.Persona, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM seg_personas WHERE name = ?`), name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get persona %q: %w", name, err)
	}
	return decodePersona(data)
}

func (s *SQLStore) List(ctx context.Context) ([]*types.Persona, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM seg_personas ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	personas := []*types.Persona{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan persona: %w", err)
		}
		p, err := decodePersona(data)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func decodePersona(data string) (*types.Persona, error) {
	var p types.Persona
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode persona: %w", err)
	}
	return &p, nil
}
