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

// Ensure ImageExtractor implements the interface.
var _ driven.ContentExtractor = (*ImageExtractor)(nil)

// imageExtensions are the file extensions handled as standalone images.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// ImageExtractor registers standalone image files as described image
// chunks. The indexed content is a filename descriptor, so images
// participate in retrieval without an OCR or captioning dependency;
// pixel data never enters the store.
type ImageExtractor struct{}

// NewImageExtractor creates a new standalone image extractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Supports reports whether the path has a known image extension.
func (e *ImageExtractor) Supports(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract registers the image at path as a single described descriptor.
func (e *ImageExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentIngestion{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.DocumentIngestion{}, fmt.Errorf("stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	doc := domain.DocumentIngestion{
		DocID:    domain.NewID(),
		Filename: name,
		MimeType: "image/" + ext,
		Pages:    1,
		Images: []domain.ExtractedImage{{
			ImageID:     domain.NewID(),
			Page:        0,
			Description: "Standalone image: " + name,
		}},
	}

	logger.Debug("Extracted %q: 1 image descriptor", name)
	return doc, nil
}
