package storage

import (
	"context"
	"path/filepath"
	"testing"

	"seg-mcp-server/internal/config"
	"seg-mcp-server/pkg/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPersona(name, profession string) *types.Persona {
	return &types.Persona{
		Name: name,
		AnchorIdentity: types.AnchorIdentity{
			Age:             42,
			Profession:      profession,
			Location:        "Montreal",
			DomainExpertise: "medicine",
		},
		SensoryWeb: types.SensoryWeb{
			Visual:    "Fluorescent hospital corridors",
			Auditory:  "Rhythmic beeping of monitors",
			Tactile:   "Latex gloves",
			Olfactory: "Antiseptic",
		},
		LinguisticTics: types.LinguisticStyle{
			SignaturePhrases: []string{"Let me check that."},
		},
		Directive: "Find the signal.",
		Version:   types.FrameworkVersion,
	}
}

func storeFactories(t *testing.T) map[string]func(t *testing.T) PersonaStore {
	return map[string]func(t *testing.T) PersonaStore{
		"memory": func(t *testing.T) PersonaStore {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) PersonaStore {
			path := filepath.Join(t.TempDir(), "nested", "seg.db")
			s, err := OpenSQLStore(context.Background(), DialectSQLite, path)
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) PersonaStore {
			mr := miniredis.RunT(t)
			s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), KeyPrefix: "test:"})
			require.NoError(t, err)
			return s
		},
	}
}

func TestPersonaStores(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			defer func() { assert.NoError(t, store.Close()) }()

			require.NoError(t, store.Ping(ctx))

			t.Run("get missing", func(t *testing.T) {
				_, err := store.Get(ctx, "nobody")
				assert.ErrorIs(t, err, ErrPersonaNotFound)
			})

			t.Run("save and get", func(t *testing.T) {
				require.NoError(t, store.Save(ctx, testPersona("Dr. Mira Okafor", "Emergency Physician")))

				got, err := store.Get(ctx, "Dr. Mira Okafor")
				require.NoError(t, err)
				assert.Equal(t, "Emergency Physician", got.AnchorIdentity.Profession)
				assert.Equal(t, 42, got.AnchorIdentity.Age)
				assert.Equal(t, "Antiseptic", got.SensoryWeb.Olfactory)
				assert.Equal(t, []string{"Let me check that."}, got.LinguisticTics.SignaturePhrases)
			})

			t.Run("list keeps first-save order on overwrite", func(t *testing.T) {
				require.NoError(t, store.Save(ctx, testPersona("Dr. Elena Vasquez", "Software Engineer")))
				require.NoError(t, store.Save(ctx, testPersona("Dr. Mira Okafor", "Trauma Surgeon")))

				list, err := store.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, "Dr. Mira Okafor", list[0].Name)
				assert.Equal(t, "Trauma Surgeon", list[0].AnchorIdentity.Profession)
				assert.Equal(t, "Dr. Elena Vasquez", list[1].Name)
			})

			t.Run("rejects nameless persona", func(t *testing.T) {
				assert.Error(t, store.Save(ctx, &types.Persona{}))
				assert.Error(t, store.Save(ctx, nil))
			})
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := testPersona("Alex Chen", "Data Scientist")
	require.NoError(t, store.Save(ctx, p))

	p.LinguisticTics.SignaturePhrases[0] = "mutated"
	got, err := store.Get(ctx, "Alex Chen")
	require.NoError(t, err)
	assert.Equal(t, "Let me check that.", got.LinguisticTics.SignaturePhrases[0])
}

func TestSQLRebind(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgres}
	lite := &SQLStore{dialect: DialectSQLite}

	q := "SELECT data FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, "SELECT data FROM t WHERE a = $1 AND b = $2", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestNewPersonaStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    interface{}
		wantErr bool
	}{
		{name: "default memory", cfg: config.StorageConfig{}, want: &MemoryStore{}},
		{name: "sqlite", cfg: config.StorageConfig{Provider: config.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "seg.db")}, want: &SQLStore{}},
		{name: "postgres without dsn", cfg: config.StorageConfig{Provider: config.StoragePostgres}, wantErr: true},
		{name: "redis without addr", cfg: config.StorageConfig{Provider: config.StorageRedis}, wantErr: true},
		{name: "unknown", cfg: config.StorageConfig{Provider: "cassandra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewPersonaStore(ctx, &tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { _ = store.Close() }()
			assert.IsType(t, tt.want, store)
		})
	}

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewPersonaStore(ctx, &config.StorageConfig{Provider: config.StorageRedis, RedisAddr: mr.Addr(), KeyPrefix: "seg:"})
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &GuardedStore{}, store)

		require.NoError(t, store.Save(ctx, testPersona("Alex Chen", "Data Scientist")))
		assert.True(t, mr.Exists("seg:persona:Alex Chen"))
	})
}
