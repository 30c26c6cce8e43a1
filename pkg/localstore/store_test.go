package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanbaker/tubescript/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	out := map[string]Store{
		"memory": NewInMemoryStore(),
		"file":   file,
	}

	// MySQL runs only when a database is configured
	if dsn := os.Getenv("TUBESCRIPT_TEST_MYSQL_DSN"); dsn != "" {
		sql, err := NewSQLStore(dsn)
		require.NoError(t, err)
		t.Cleanup(func() { sql.Close() })
		out["mysql"] = sql
	}

	return out
}

func TestStoreContract(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("contract.missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("contract.key", "one"))
			require.NoError(t, store.Set("contract.key", "two"))

			value, ok, err := store.Get("contract.key")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "two", value)

			require.NoError(t, store.Delete("contract.key"))
			require.NoError(t, store.Delete("contract.key"))

			_, ok, err = store.Get("contract.key")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.ErrorIs(t, store.Set("", "x"), ErrEmptyKey)
			_, _, err = store.Get("")
			assert.ErrorIs(t, err, ErrEmptyKey)
			assert.ErrorIs(t, store.Delete(""), ErrEmptyKey)
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("tubescript.token", "abc"))
	require.NoError(t, first.Set("tubescript.history", `[{"id":"1"}]`))

	second, err := NewFileStore(path)
	require.NoError(t, err)

	token, ok, err := second.Get("tubescript.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	history, _, err := second.Get("tubescript.history")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, history)

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		want    any
		wantErr bool
	}{
		{
			name:   "memory",
			values: map[string]string{"TUBESCRIPT_STORE": "memory"},
			want:   &InMemoryStore{},
		},
		{
			name:   "file",
			values: map[string]string{"TUBESCRIPT_STORE": "FILE", "TUBESCRIPT_STORE_PATH": filepath.Join(t.TempDir(), "s.json")},
			want:   &FileStore{},
		},
		{
			name:    "unknown",
			values:  map[string]string{"TUBESCRIPT_STORE": "etcd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(utils.NewConfig(tt.values))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
