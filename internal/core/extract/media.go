package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"omniquery/internal/core"
)

// MediaExtractor transcribes audio (.mp3) and video (.mp4) files through a
// multimodal transcriber. A nil transcriber means no speech-to-text backend
// is configured; that is an error the ingest pipeline degrades to a
// diagnostic chunk.
type MediaExtractor struct {
	transcriber core.Transcriber
}

var _ Extractor = (*MediaExtractor)(nil)

func NewMediaExtractor(transcriber core.Transcriber) *MediaExtractor {
	return &MediaExtractor{transcriber: transcriber}
}

func (e *MediaExtractor) Extract(ctx context.Context, path string) ([]Item, error) {
	if e.transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured; set GEMINI_API_KEY to process audio/video")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media %s: %w", filepath.Base(path), err)
	}

	mime, source := mediaKind(path)
	transcript, err := e.transcriber.Transcribe(ctx, mime, data)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}

	metadata := map[string]any{
		"source":    source,
		"file_path": path,
		"file_type": strings.ToLower(filepath.Ext(path)),
	}
	if transcript == "" {
		return []Item{TextItem(fmt.Sprintf("No speech detected in %s file", source), metadata)}, nil
	}
	return []Item{TextItem(transcript, metadata)}, nil
}

func mediaKind(path string) (mime, source string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3", "audio"
	case ".mp4":
		return "video/mp4", "video"
	default:
		return "application/octet-stream", "audio"
	}
}
