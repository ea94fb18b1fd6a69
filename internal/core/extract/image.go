package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"omniquery/internal/models"
)

// ImageExtractor produces one structured image item per file: the base64
// payload for later multimodal use plus whatever OCR text docconv can pull
// out. OCR needs a tesseract-enabled build; when it is unavailable the item
// simply carries empty OCR text.
type ImageExtractor struct{}

var _ Extractor = (*ImageExtractor)(nil)

func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

func (e *ImageExtractor) Extract(ctx context.Context, path string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", filepath.Base(path), err)
	}

	metadata := map[string]any{}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		metadata["format"] = format
		metadata["width"] = cfg.Width
		metadata["height"] = cfg.Height
	}

	ocrText := ""
	mime := mimeForImage(path)
	if res, err := docconv.Convert(bytes.NewReader(data), mime, true); err == nil {
		ocrText = strings.TrimSpace(res.Body)
	} else {
		log.Printf("OCR unavailable for %s: %v", filepath.Base(path), err)
	}

	content := models.ImageContent{
		OCRText:     ocrText,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		HasText:     ocrText != "",
	}
	return []Item{{Content: content, Metadata: metadata}}, nil
}

func mimeForImage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
