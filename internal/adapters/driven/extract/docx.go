package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure DocxExtractor implements the interface.
var _ driven.ContentExtractor = (*DocxExtractor)(nil)

// DocxExtractor parses Word documents. A .docx file is a ZIP archive;
// the text lives in word/document.xml as paragraph runs.
type DocxExtractor struct{}

// NewDocxExtractor creates a new DOCX extractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// Supports reports whether the path has a .docx extension.
func (e *DocxExtractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

// Extract opens the archive at path, one text block per paragraph.
func (e *DocxExtractor) Extract(_ context.Context, path string) (domain.DocumentIngestion, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return domain.DocumentIngestion{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.DocumentIngestion{}, fmt.Errorf("stat %s: %w", path, err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return domain.DocumentIngestion{}, fmt.Errorf("open %s: %w: not a docx archive", path, domain.ErrInvalidInput)
	}
	defer reader.Close()

	paragraphs, err := documentParagraphs(&reader.Reader)
	if err != nil {
		return domain.DocumentIngestion{}, fmt.Errorf("parse %s: %w", path, err)
	}

	doc := domain.DocumentIngestion{
		DocID:    domain.NewID(),
		Filename: filepath.Base(path),
		Pages:    1,
	}
	for _, paragraph := range paragraphs {
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

// documentXML mirrors the parts of word/document.xml that carry text.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// documentParagraphs extracts paragraph texts from word/document.xml.
// An archive without that entry yields no paragraphs, not an error.
func documentParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}

		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("%w: malformed document.xml", domain.ErrInvalidInput)
		}

		paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
		for _, para := range doc.Body.Paragraphs {
			var b strings.Builder
			for _, run := range para.Runs {
				for _, text := range run.Text {
					b.WriteString(text.Content)
				}
			}
			paragraphs = append(paragraphs, b.String())
		}
		return paragraphs, nil
	}
	return nil, nil
}
