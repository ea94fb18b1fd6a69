package core

import (
	"context"

	"omniquery/internal/models"
)

// Store defines all persistence operations the services need. It abstracts
// the SQLite knowledge base so higher layers never depend on a specific DB.
type Store interface {
	AddFile(ctx context.Context, filename string, fileType models.FileType, filePath string, fileSize int64) (int64, error)
	MarkFileProcessed(ctx context.Context, fileID int64) error
	// SetFileArchiveKey records the object-storage key of the archived
	// original, when archival is enabled.
	SetFileArchiveKey(ctx context.Context, fileID int64, key string) error
	GetFile(ctx context.Context, fileID int64) (*models.File, error)
	ListFiles(ctx context.Context) ([]models.File, error)

	AddChunk(ctx context.Context, chunk *models.Chunk) error
	// ListAllChunks returns every chunk joined with its owning file,
	// ordered by file id then chunk index. contentType filters when
	// non-empty.
	ListAllChunks(ctx context.Context, contentType models.ContentType) ([]models.StoredChunk, error)
	ListFileChunks(ctx context.Context, fileID int64) ([]models.Chunk, error)

	SaveQuery(ctx context.Context, queryText, responseText string) error
	ListQueries(ctx context.Context) ([]models.QueryLogEntry, error)

	ClearAll(ctx context.Context) error
	ClearQueryHistory(ctx context.Context) error

	Close() error
}

// GenerateCandidate mirrors the candidate/content/parts nesting a
// generation backend may answer with.
type GenerateCandidate struct {
	Parts []string
}

// GenerateResponse is the backend-neutral generation result. The answer may
// arrive through Text directly, through the first candidate's parts, or
// only as an opaque Raw value; the query pipeline tries the shapes in that
// order.
type GenerateResponse struct {
	Text       string
	Candidates []GenerateCandidate
	Raw        any
}

// Generator is the generative-answer backend boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*GenerateResponse, error)
}

// Transcriber turns recorded speech (audio or video payloads) into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mimeType string, data []byte) (string, error)
}

// Archiver stores original uploads in object storage. Optional; a nil
// Archiver disables archival.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Remove(ctx context.Context, key string) error
	Fetch(ctx context.Context, key string) ([]byte, error)
}
