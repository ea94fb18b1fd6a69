// Package extract turns source files and URLs into ordered content items
// ready for chunk storage. Each extractor returns typed items or an error;
// converting errors into diagnostic chunks is the ingest pipeline's explicit
// decision, not something that happens here.
package extract

import (
	"context"

	"omniquery/internal/models"
)

// Item is one extracted content unit: a typed content value plus free-form
// metadata (source, page, duration, ...).
type Item struct {
	Content  models.Content
	Metadata map[string]any
}

// Extractor produces the ordered content items for one file path.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]Item, error)
}

// TextItem is a convenience constructor for plain-text items.
func TextItem(text string, metadata map[string]any) Item {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Item{Content: models.TextContent(text), Metadata: metadata}
}
