package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora/core/config"
	"github.com/savora/core/internal/domain"
)

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, store domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "favorites", []byte(`["a","b"]`)))

		got, err := store.Get(ctx, "favorites")
		require.NoError(t, err)
		assert.JSONEq(t, `["a","b"]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "favorites", []byte(`["c"]`)))

		got, err := store.Get(ctx, "favorites")
		require.NoError(t, err)
		assert.JSONEq(t, `["c"]`, string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "generatedRecipes", []byte(`[]`)))

		got, err := store.Get(ctx, "favorites")
		require.NoError(t, err)
		assert.JSONEq(t, `["c"]`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "favorites"))

		_, err := store.Get(ctx, "favorites")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)

		// Deleting an absent key is not an error
		assert.NoError(t, store.Delete(ctx, "favorites"))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	exerciseStore(t, store)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := store.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_SizeAndClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	require.NoError(t, store.Set(ctx, "b", []byte("2")))
	assert.Equal(t, 2, store.Size())

	store.Clear()
	assert.Equal(t, 0, store.Size())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(ctx, "k", []byte{byte(n)})
			_, _ = store.Get(ctx, "k")
		}(i)
	}
	wg.Wait()

	_, err := store.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "store.json"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "favorites", []byte(`["r1"]`)))
	require.NoError(t, first.Close())

	second, err := NewFileStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `["r1"]`, string(got))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), "favorites")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestFileStore_EmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "savora.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savora.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "generatedRecipes", []byte(`[{"_id":"generated-1"}]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "generatedRecipes")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"generated-1"}]`, string(got))
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, server
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t)
	exerciseStore(t, store)
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "favorites")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.NotErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestRedisStore_KeysArePrefixed(t *testing.T) {
	store, server := newTestRedisStore(t)

	require.NoError(t, store.Set(context.Background(), "favorites", []byte(`["r1"]`)))

	value, err := server.Get("savora:favorites")
	require.NoError(t, err)
	assert.Equal(t, `["r1"]`, value)
	assert.False(t, server.Exists("favorites"))
}

func TestRedisStore_ServerGone(t *testing.T) {
	store, server := newTestRedisStore(t)
	server.Close()

	_, err := store.Get(context.Background(), "favorites")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	err = store.Set(context.Background(), "favorites", []byte(`[]`))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisStore(context.Background(), "redis://"+addr)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    any
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Type: "memory"}, want: &MemoryStore{}},
		{name: "file", cfg: config.StorageConfig{Type: "file", Path: filepath.Join(dir, "s.json")}, want: &FileStore{}},
		{name: "sqlite", cfg: config.StorageConfig{Type: "sqlite", Path: filepath.Join(dir, "s.db")}, want: &SQLiteStore{}},
		{name: "redis", cfg: config.StorageConfig{Type: "redis", RedisURL: "redis://" + miniredis.RunT(t).Addr()}, want: &RedisStore{}},
		{name: "unknown", cfg: config.StorageConfig{Type: "floppy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(context.Background(), tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
		})
	}
}
