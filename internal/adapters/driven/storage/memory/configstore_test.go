package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("generator.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("agent.max_pending", 3))
	require.NoError(t, store.Set("agent.human_in_loop", true))
	require.NoError(t, store.Set("knowledge.min_score", 0.25))

	assert.Equal(t, "gpt-4o-mini", store.GetString("generator.model"))
	assert.Equal(t, 3, store.GetInt("agent.max_pending"))
	assert.True(t, store.GetBool("agent.human_in_loop"))
	assert.InDelta(t, 0.25, store.GetFloat("knowledge.min_score"), 1e-9)
}

func TestConfigStore_MissingAndMistyped(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "not a number"))

	assert.Empty(t, store.GetString("absent"))
	assert.Zero(t, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_NumericCoercion(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("as_float", float64(7)))
	require.NoError(t, store.Set("as_int", 2))

	assert.Equal(t, 7, store.GetInt("as_float"))
	assert.InDelta(t, 2.0, store.GetFloat("as_int"), 1e-9)
}
