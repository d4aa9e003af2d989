package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/assetmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.AssetStore = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "assets.db"))
	require.NoError(t, s.Open(context.Background()))
	return s
}

func TestSQLiteStore_UninitializedRejectsEverything(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "assets.db"))

	_, err := s.Create(ctx, "test", nil, nil)
	assert.ErrorIs(t, err, core.ErrStoreUninitialized)
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, core.ErrStoreUninitialized)
	_, err = s.GetAll(ctx)
	assert.ErrorIs(t, err, core.ErrStoreUninitialized)
	assert.ErrorIs(t, s.UpdateScale(ctx, 1, 2), core.ErrStoreUninitialized)
	assert.ErrorIs(t, s.Delete(ctx, 1), core.ErrStoreUninitialized)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Create(ctx, "red chair", []byte("IMG"), []byte("MDL"))
	require.NoError(t, err)
	require.NotZero(t, id)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "red chair", rec.Prompt)
	assert.Equal(t, []byte("IMG"), rec.Image)
	assert.Equal(t, []byte("MDL"), rec.Model)
	assert.Equal(t, 1.0, rec.Scale)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assets.db")

	s1 := New(path)
	require.NoError(t, s1.Open(ctx))
	id, err := s1.Create(ctx, "persisted", []byte("IMG"), []byte("MDL"))
	require.NoError(t, err)

	s2 := New(path)
	require.NoError(t, s2.Open(ctx))
	rec, err := s2.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "persisted", rec.Prompt)
	assert.Equal(t, []byte("MDL"), rec.Model)
}

func TestSQLiteStore_NotFoundAndIdempotentDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.UpdateScale(ctx, 42, 2), core.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, 42))
	assert.NoError(t, s.Delete(ctx, -1))
}

func TestSQLiteStore_UpdateScale(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, _ := s.Create(ctx, "p", nil, []byte("MDL"))
	require.NoError(t, s.UpdateScale(ctx, id, 2.5))
	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2.5, rec.Scale)

	assert.Error(t, s.UpdateScale(ctx, id, -1))
}

func TestSQLiteStore_GetAll(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, p := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, p, nil, nil)
		require.NoError(t, err)
	}
	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
