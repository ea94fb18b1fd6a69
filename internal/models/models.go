package models

import (
	"time"
)

// FileType classifies an ingested file or URL by its source format.
type FileType string

const (
	FileTypeText    FileType = "text"
	FileTypeImage   FileType = "image"
	FileTypeAudio   FileType = "audio"
	FileTypeVideo   FileType = "video"
	FileTypeYouTube FileType = "youtube"
	FileTypeUnknown FileType = "unknown"
)

// ContentType classifies the stored representation of a chunk.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeImage      ContentType = "image"
	ContentTypeAudioVideo ContentType = "audio_video"
)

// File represents one ingested file or URL.
// The record is created before extraction starts; Processed flips to true
// only once all chunks for it have been stored.
type File struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	FileType   FileType  `json:"file_type"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadDate time.Time `json:"upload_date"`
	Processed  bool      `json:"processed"`
	// ArchiveKey is the object-storage key of the archived original, empty
	// when archival is disabled or failed.
	ArchiveKey string `json:"archive_key,omitempty"`
}

// Chunk is one stored unit of extracted content. Content holds the
// serialized form (see content.go); ChunkIndex is zero-based and unique
// within the owning file. Chunks are immutable once written.
type Chunk struct {
	ID          int64          `json:"id"`
	FileID      int64          `json:"file_id"`
	ChunkIndex  int            `json:"chunk_index"`
	Content     string         `json:"content"`
	ContentType ContentType    `json:"content_type"`
	Metadata    map[string]any `json:"metadata"`
}

// StoredChunk is a chunk joined with its owning file's filename and type,
// as returned by the store's list operation.
type StoredChunk struct {
	Chunk
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
}

// QueryLogEntry is one append-only query history record.
type QueryLogEntry struct {
	ID           int64     `json:"id"`
	QueryText    string    `json:"query_text"`
	ResponseText string    `json:"response_text"`
	Timestamp    time.Time `json:"timestamp"`
}
