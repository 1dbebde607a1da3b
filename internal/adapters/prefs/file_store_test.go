package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchify/matchify-core/internal/core"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	return store, path
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStoreSetGet(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user_role", "talent"))

	value, err := store.Get(ctx, "user_role")
	require.NoError(t, err)
	assert.Equal(t, "talent", value)
}

func TestFileStoreGetMissingKey(t *testing.T) {
	store, _ := newTestFileStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFileStoreRejectsEmptyKey(t *testing.T) {
	store, _ := newTestFileStore(t)
	assert.Error(t, store.Set(context.Background(), "", "value"))
}

func TestFileStoreBool(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	// Absent key reads as false, not an error.
	value, err := store.GetBool(ctx, "remember_me")
	require.NoError(t, err)
	assert.False(t, value)

	require.NoError(t, store.SetBool(ctx, "remember_me", true))
	value, err = store.GetBool(ctx, "remember_me")
	require.NoError(t, err)
	assert.True(t, value)

	// A corrupted flag reads as false rather than failing.
	require.NoError(t, store.Set(ctx, "remember_me", "banana"))
	value, err = store.GetBool(ctx, "remember_me")
	require.NoError(t, err)
	assert.False(t, value)
}

func TestFileStoreDelete(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user_email", "jane@example.com"))
	require.NoError(t, store.Delete(ctx, "user_email"))

	_, err := store.Get(ctx, "user_email")
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "user_email"))
}

func TestFileStoreClear(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user_role", "talent"))
	require.NoError(t, store.Set(ctx, "user_token", "tok-123"))

	require.NoError(t, store.Clear(ctx))

	_, err := store.Get(ctx, "user_role")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = store.Get(ctx, "user_token")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user_token", "tok-123"))
	require.NoError(t, store.SetBool(ctx, "remember_me", true))

	// A fresh store over the same file sees the persisted values.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	token, err := reopened.Get(ctx, "user_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	remember, err := reopened.GetBool(ctx, "remember_me")
	require.NoError(t, err)
	assert.True(t, remember)
}

func TestFileStoreCorruptFileSurfacesError(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := store.Get(ctx, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
}
