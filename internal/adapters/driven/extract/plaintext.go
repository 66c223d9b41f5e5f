package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure PlaintextExtractor implements the interface.
var _ driven.ContentExtractor = (*PlaintextExtractor)(nil)

// plaintextExtensions are the file extensions handled as plain text.
var plaintextExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".log":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// PlaintextExtractor parses plain text files. Blank-line separated
// paragraphs become individual text blocks so retrieval granularity
// follows the document's own structure.
type PlaintextExtractor struct{}

// NewPlaintextExtractor creates a new plain text extractor.
func NewPlaintextExtractor() *PlaintextExtractor {
	return &PlaintextExtractor{}
}

// Supports reports whether the path has a known plain text extension.
func (e *PlaintextExtractor) Supports(path string) bool {
	return plaintextExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads the file at path, one text block per paragraph.
func (e *PlaintextExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentIngestion{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.DocumentIngestion{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc := domain.DocumentIngestion{
		DocID:    domain.NewID(),
		Filename: filepath.Base(path),
		Pages:    1,
	}

	for _, paragraph := range strings.Split(string(data), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		doc.Texts = append(doc.Texts, domain.ExtractedText{
			Text:       paragraph,
			SourcePage: 1,
		})
	}

	logger.Debug("Extracted %q: %d text blocks", doc.Filename, len(doc.Texts))
	return doc, nil
}
