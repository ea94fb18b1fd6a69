package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"omniquery/internal/core/segment"
)

// DocumentExtractor extracts text from document formats (.pdf, .docx,
// .pptx via docconv; .txt and .md read directly) and segments it into
// overlapping chunks.
type DocumentExtractor struct {
	segmenter *segment.Segmenter
}

var _ Extractor = (*DocumentExtractor)(nil)

func NewDocumentExtractor(seg *segment.Segmenter) *DocumentExtractor {
	return &DocumentExtractor{segmenter: seg}
}

// Extract reads the document, converts it to plain text, and returns one
// item per segment with the segmenter's position metadata.
func (e *DocumentExtractor) Extract(ctx context.Context, path string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := e.readText(path)
	if err != nil {
		return nil, err
	}

	pieces := e.segmenter.Segment(text)
	items := make([]Item, 0, len(pieces))
	for _, p := range pieces {
		items = append(items, TextItem(p.Content, p.Metadata))
	}
	return items, nil
}

func (e *DocumentExtractor) readText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		return string(data), nil
	default:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("convert %s: %w", filepath.Base(path), err)
		}
		return res.Body, nil
	}
}
