package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	_, err := execute(t, "ingest")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_IndexesPlaintext(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTestDoc(t, "The warranty period is two years.\n\nBatteries are excluded.")

	out, err := execute(t, "ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "manual.txt")
	assert.Contains(t, out, "2 text blocks")
	assert.Contains(t, out, "2 chunks indexed")
}

func TestIngestCmd_IndexesStandaloneImage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0600))

	out, err := execute(t, "ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "receipt.png")
	assert.Contains(t, out, "1 images")
	assert.Contains(t, out, "1 chunks indexed")

	// The descriptor is citable evidence like any text chunk.
	out, err = execute(t, "query", "Standalone image receipt.png")
	assert.NoError(t, err)
	assert.Contains(t, out, "Standalone image: receipt.png")
}

func TestIngestCmd_MixedResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	good := writeTestDoc(t, "Some content.")
	missing := filepath.Join(t.TempDir(), "absent.txt")

	out, err := execute(t, "ingest", good, missing)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ingest 1 of 2 files")
	assert.Contains(t, out, "manual.txt")
}

func TestIngestCmd_UnsupportedExtension(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ingest", "report.xlsx")

	assert.Error(t, err)
}
