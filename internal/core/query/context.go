package query

import (
	"fmt"
	"strings"

	"omniquery/internal/models"
)

const (
	// contextSeparator joins per-chunk blocks; distinct from content text so
	// boundaries stay machine-recoverable.
	contextSeparator = "\n---\n"

	// nonTextPlaceholder stands in for chunks whose canonical text is empty
	// (image chunks without OCR text).
	nonTextPlaceholder = "[Image content - visual information available]"

	unknownDocumentLabel = "Unknown"
)

// AssembleContext formats ranked chunks, in input order, into one
// provenance-labeled context string for the generation prompt. No length
// cap is applied here; the pipeline bounds total chunks via the ranker's
// limit.
func AssembleContext(chunks []models.StoredChunk) string {
	parts := make([]string, 0, len(chunks))

	for _, ch := range chunks {
		filename := ch.Filename
		if filename == "" {
			filename = unknownDocumentLabel
		}

		text := models.CanonicalText(ch.Content)
		if text == "" {
			text = nonTextPlaceholder
		}

		parts = append(parts, fmt.Sprintf("Document: %s\nContent:\n%s\n", filename, text))
	}

	return strings.Join(parts, contextSeparator)
}
