package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure PDFExtractor implements the interface.
var _ driven.ContentExtractor = (*PDFExtractor)(nil)

// PDFExtractor parses PDF files into per-page text blocks.
// Pages whose text cannot be decoded are skipped with a warning rather
// than failing the whole document; a scanned PDF with no text layer is a
// valid empty extraction.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Supports reports whether the path looks like a PDF file.
func (e *PDFExtractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract parses the PDF at path, one text block per page.
func (e *PDFExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentIngestion{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.DocumentIngestion{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return domain.DocumentIngestion{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	doc := domain.DocumentIngestion{
		DocID:    domain.NewID(),
		Filename: filepath.Base(path),
		Pages:    reader.NumPage(),
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Skipping page %d of %q: %v", pageNum, doc.Filename, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Texts = append(doc.Texts, domain.ExtractedText{
			Text:       text,
			SourcePage: pageNum,
		})
	}

	logger.Debug("Extracted %q: %d pages, %d text blocks", doc.Filename, doc.Pages, len(doc.Texts))
	return doc, nil
}
