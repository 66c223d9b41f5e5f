package domain

import "time"

// Modality identifies the kind of content a chunk carries.
type Modality string

// Supported chunk modalities.
const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// BoundingBox locates a region on a source page.
// Coordinates are in the page's native units.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Page   int
}

// ExtractedText is a text block produced by a content extractor.
type ExtractedText struct {
	// Text is the plain text content of the block.
	Text string

	// Confidence is the extraction confidence (1.0 for native text).
	Confidence float64

	// BBox is the block's location on the page, when known.
	BBox *BoundingBox

	// SourcePage is the zero-based page the block came from.
	SourcePage int
}

// ExtractedImage is an image descriptor produced by a content extractor.
// Only the description is indexed; raw image bytes never enter the store.
type ExtractedImage struct {
	// ImageID uniquely identifies the image within its document.
	ImageID string

	// Page is the zero-based page the image appears on.
	Page int

	// BBox is the image's location on the page, when known.
	BBox *BoundingBox

	// Description is a textual description of the image content.
	// Images with an empty description are not indexed.
	Description string
}

// DocumentIngestion is the structured output of extracting one source file.
// It is immutable once constructed.
type DocumentIngestion struct {
	// DocID is the unique identifier assigned at extraction time.
	DocID string

	// Filename is the base name of the source file.
	Filename string

	// MimeType is the detected media type of the source.
	MimeType string

	// Pages is the number of pages in the source.
	Pages int

	// Texts are the extracted text blocks in document order.
	Texts []ExtractedText

	// Images are the extracted image descriptors in document order.
	Images []ExtractedImage

	// IngestedAt is when extraction completed.
	IngestedAt time.Time
}

// Chunk is the smallest unit of indexed evidence.
// Chunks are created during indexing, are immutable thereafter, and are
// never deleted (the store is append-only).
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocID links to the document the chunk came from.
	DocID string

	// Text is the indexed text (or image description for image chunks).
	Text string

	// Page is the source page number.
	Page int

	// BBox is the source location on the page, when known.
	BBox *BoundingBox

	// ImageID is set for image chunks.
	ImageID string

	// Modality is text or image.
	Modality Modality
}
