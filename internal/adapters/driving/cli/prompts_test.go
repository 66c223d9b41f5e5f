package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/STiFLeR7/nanocortex/internal/adapters/driven/config/file"
)

func TestPromptsCmd_NoStoreConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "prompts")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no prompt store configured")
}

func TestPromptsCmd_ShowsTemplates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	store, err := configfile.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	promptStore = store
	defer func() { promptStore = nil }()

	out, err := execute(t, "prompts")

	assert.NoError(t, err)
	assert.Contains(t, out, "--- generate_system ---")
	assert.Contains(t, out, "--- review ---")
}

func TestPromptsReloadCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	store, err := configfile.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	promptStore = store
	defer func() { promptStore = nil }()

	out, err := execute(t, "prompts", "reload")

	assert.NoError(t, err)
	assert.Contains(t, out, "Prompt cache cleared")
}
