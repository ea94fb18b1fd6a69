package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniquery/internal/core/segment"
	"omniquery/internal/models"
)

func TestDocumentExtractorPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("First sentence. Second sentence."), 0o644))

	e := NewDocumentExtractor(segment.New(1000, 200))
	items, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "First sentence. Second sentence.", items[0].Content.CanonicalText())
	assert.Equal(t, 0, items[0].Metadata["chunk_index"])
}

func TestDocumentExtractorSegmentsLongText(t *testing.T) {
	var b strings.Builder
	for b.Len() < 2500 {
		b.WriteString("A reasonably long sentence that fills the chunk window. ")
	}
	path := filepath.Join(t.TempDir(), "long.md")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	e := NewDocumentExtractor(segment.New(1000, 200))
	items, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Greater(t, len(items), 1)
	for i, item := range items {
		assert.Equal(t, i, item.Metadata["chunk_index"])
		assert.LessOrEqual(t, len(item.Content.CanonicalText()), 1000)
	}
}

func TestDocumentExtractorMissingFile(t *testing.T) {
	e := NewDocumentExtractor(segment.New(1000, 200))
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestImageExtractorProducesStructuredRecord(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "tiny.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	e := NewImageExtractor()
	items, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)

	record, ok := items[0].Content.(models.ImageContent)
	require.True(t, ok)

	decoded, err := base64.StdEncoding.DecodeString(record.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), decoded)

	assert.Equal(t, "png", items[0].Metadata["format"])
	assert.Equal(t, 4, items[0].Metadata["width"])
	assert.Equal(t, 4, items[0].Metadata["height"])
}

type stubTranscriber struct {
	transcript string
	err        error
	mime       string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, mimeType string, data []byte) (string, error) {
	s.mime = mimeType
	return s.transcript, s.err
}

func TestMediaExtractorTranscribes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake audio bytes"), 0o644))

	tr := &stubTranscriber{transcript: "hello from the recording"}
	e := NewMediaExtractor(tr)

	items, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hello from the recording", items[0].Content.CanonicalText())
	assert.Equal(t, "audio/mp3", tr.mime)
	assert.Equal(t, "audio", items[0].Metadata["source"])
}

func TestMediaExtractorEmptyTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0o644))

	e := NewMediaExtractor(&stubTranscriber{transcript: ""})
	items, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "No speech detected in video file", items[0].Content.CanonicalText())
}

func TestMediaExtractorWithoutTranscriber(t *testing.T) {
	e := NewMediaExtractor(nil)
	_, err := e.Extract(context.Background(), "whatever.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transcriber configured")
}
