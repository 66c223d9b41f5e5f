package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("generator.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("agent.max_pending", 2))
	require.NoError(t, store.Set("agent.human_in_loop", true))
	require.NoError(t, store.Set("knowledge.min_score", 0.15))

	assert.Equal(t, "gpt-4o-mini", store.GetString("generator.model"))
	assert.Equal(t, 2, store.GetInt("agent.max_pending"))
	assert.True(t, store.GetBool("agent.human_in_loop"))
	assert.InDelta(t, 0.15, store.GetFloat("knowledge.min_score"), 1e-9)
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("agent.call_timeout_seconds", 30))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 30, second.GetInt("agent.call_timeout_seconds"))
}

func TestConfigStore_LoadsNestedTOML(t *testing.T) {
	dir := t.TempDir()
	content := `[agent]
human_in_loop = false
max_pending = 3

[generator]
model = "claude-haiku"
temperature = 0.2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.False(t, store.GetBool("agent.human_in_loop"))
	assert.Equal(t, 3, store.GetInt("agent.max_pending"))
	assert.Equal(t, "claude-haiku", store.GetString("generator.model"))
	assert.InDelta(t, 0.2, store.GetFloat("generator.temperature"), 1e-9)
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("absent"))
	assert.Zero(t, store.GetInt("absent"))
	assert.Zero(t, store.GetFloat("absent"))
	assert.False(t, store.GetBool("absent"))
}

func TestConfigStore_FloatAcceptsIntegerLiteral(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[knowledge]\nmin_score = 1\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, store.GetFloat("knowledge.min_score"), 1e-9)
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_RestrictedFilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
