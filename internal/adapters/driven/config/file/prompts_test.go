package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

func TestPromptStore_LoadsDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	generate, err := store.Load(driven.PromptGenerateSystem)
	require.NoError(t, err)
	assert.Contains(t, generate, "evidence")

	review, err := store.Load(driven.PromptReview)
	require.NoError(t, err)
	assert.Contains(t, review, "%s")
}

func TestPromptStore_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptGenerateSystem)
	require.NoError(t, err)

	for _, name := range []string{driven.PromptGenerateSystem, driven.PromptReview} {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, "default file for %q should exist", name)
	}
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)
}

func TestPromptStore_UserEditWinsAfterReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Prime the cache and the default files.
	_, err = store.Load(driven.PromptReview)
	require.NoError(t, err)

	custom := "Custom review template: %s %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptReview+".txt"),
		[]byte(custom+"\n"), 0600))

	// Cached value still served until a reload.
	cached, err := store.Load(driven.PromptReview)
	require.NoError(t, err)
	assert.NotEqual(t, custom, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptReview)
	require.NoError(t, err)
	assert.Equal(t, custom, fresh)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_LazyConstruction(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	_, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Constructor performs no I/O.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
