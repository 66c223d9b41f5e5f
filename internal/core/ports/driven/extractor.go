package driven

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// ContentExtractor parses a source file into text blocks and image
// descriptors. Extraction of content is infrastructure; the core only
// consumes the structured result.
//
// Implementations must return an error wrapping domain.ErrNotFound for a
// missing input path. A file with no extractable text is a valid outcome
// (empty Texts), not an error.
type ContentExtractor interface {
	// Extract parses the file at path into a DocumentIngestion.
	Extract(ctx context.Context, path string) (domain.DocumentIngestion, error)

	// Supports reports whether the extractor handles the given file path.
	Supports(path string) bool
}
