package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusBar_NilStyles(t *testing.T) {
	bar := NewStatusBar(nil)
	require.NotNil(t, bar)
}

func TestStatusBar_ShowsPendingCount(t *testing.T) {
	bar := NewStatusBar(nil)
	bar.SetPending(3)

	assert.Contains(t, bar.View(), "3 pending")
}

func TestStatusBar_ShowsMessage(t *testing.T) {
	bar := NewStatusBar(nil)
	bar.SetPending(1)
	bar.SetMessage("approved d-1")

	view := bar.View()
	assert.Contains(t, view, "1 pending")
	assert.Contains(t, view, "approved d-1")
}

func TestStatusBar_NoMessage(t *testing.T) {
	bar := NewStatusBar(nil)
	assert.NotContains(t, bar.View(), "|")
}
