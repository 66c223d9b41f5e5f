package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 16-character hex identifier.
// Short IDs keep audit payloads and CLI output readable while remaining
// unique enough for a single-process corpus.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
