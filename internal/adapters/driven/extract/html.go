package extract

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure HTMLExtractor implements the interface.
var _ driven.ContentExtractor = (*HTMLExtractor)(nil)

// HTMLExtractor parses HTML files. Script, style and markup are
// stripped; img alt attributes become image descriptors.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Supports reports whether the path has an HTML extension.
func (e *HTMLExtractor) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// Extract reads the file at path, one text block per line of visible
// text after markup removal.
func (e *HTMLExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
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
	for _, match := range imgAltAttr.FindAllStringSubmatch(content, -1) {
		alt := strings.TrimSpace(html.UnescapeString(match[1]))
		if alt == "" {
			continue
		}
		doc.Images = append(doc.Images, domain.ExtractedImage{
			ImageID:     domain.NewID(),
			Page:        1,
			Description: alt,
		})
	}

	for _, line := range strings.Split(stripHTML(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.Texts = append(doc.Texts, domain.ExtractedText{
			Text:       line,
			SourcePage: 1,
		})
	}

	logger.Debug("Extracted %q: %d text blocks, %d images", doc.Filename, len(doc.Texts), len(doc.Images))
	return doc, nil
}

// Pre-compiled expressions for HTML stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockCloseTag = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	blockOpenTag  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTag         = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	anyTag        = regexp.MustCompile(`<[^>]+>`)
	imgAltAttr    = regexp.MustCompile(`(?i)<img[^>]*\balt="([^"]*)"[^>]*>`)
	runSpaces     = regexp.MustCompile(`[ \t]+`)
)

// stripHTML removes markup and extracts readable text, one block
// element per line.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = blockOpenTag.ReplaceAllString(content, "\n")
	content = blockCloseTag.ReplaceAllString(content, "\n")
	content = brTag.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = runSpaces.ReplaceAllString(content, " ")
	return content
}
