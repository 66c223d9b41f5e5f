package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure MarkdownExtractor implements the interface.
var _ driven.ContentExtractor = (*MarkdownExtractor)(nil)

// MarkdownExtractor parses Markdown files. Formatting syntax is
// stripped so retrieval scores plain prose, and image references
// become image descriptors with their alt text as description.
type MarkdownExtractor struct{}

// NewMarkdownExtractor creates a new Markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// Supports reports whether the path has a Markdown extension.
func (e *MarkdownExtractor) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// Extract reads the file at path, one text block per paragraph, with
// Markdown syntax stripped.
func (e *MarkdownExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
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

	content := string(data)
	for _, match := range mdImages.FindAllStringSubmatch(content, -1) {
		alt := strings.TrimSpace(match[1])
		if alt == "" {
			continue
		}
		doc.Images = append(doc.Images, domain.ExtractedImage{
			ImageID:     domain.NewID(),
			Page:        1,
			Description: alt,
		})
	}

	for _, paragraph := range strings.Split(stripMarkdown(content), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		doc.Texts = append(doc.Texts, domain.ExtractedText{
			Text:       paragraph,
			SourcePage: 1,
		})
	}

	logger.Debug("Extracted %q: %d text blocks, %d images", doc.Filename, len(doc.Texts), len(doc.Images))
	return doc, nil
}

// Pre-compiled expressions for Markdown stripping.
var (
	mdCodeBlocks   = regexp.MustCompile("(?s)```[^`]*```")
	mdInlineCode   = regexp.MustCompile("`[^`]+`")
	mdImages       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	mdLinks        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeadings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBlockquotes  = regexp.MustCompile(`(?m)^>\s*`)
	mdRules        = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	mdListMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdNumberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	mdMultiBlank   = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common Markdown formatting, leaving prose.
func stripMarkdown(content string) string {
	content = mdCodeBlocks.ReplaceAllString(content, "")
	content = mdInlineCode.ReplaceAllString(content, "")
	content = mdImages.ReplaceAllString(content, "")
	content = mdLinks.ReplaceAllString(content, "$1")
	content = mdHeadings.ReplaceAllString(content, "")
	content = mdBlockquotes.ReplaceAllString(content, "")
	content = mdRules.ReplaceAllString(content, "")
	content = mdListMarkers.ReplaceAllString(content, "")
	content = mdNumberedList.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = mdMultiBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
