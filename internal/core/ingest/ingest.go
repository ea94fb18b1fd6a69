// Package ingest drives the file-to-chunks pipeline: record the file,
// dispatch to the right extractor, store every extracted item as a chunk,
// then mark the file processed. Extraction failures degrade to a single
// diagnostic chunk so the file still lands in the knowledge base with a
// searchable trace of what went wrong.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"omniquery/internal/core"
	"omniquery/internal/core/extract"
	"omniquery/internal/models"
)

// Result reports the outcome of one ingest operation.
type Result struct {
	FileID     int64  `json:"file_id"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Processor owns the ingest pipeline. The archiver is optional; when set,
// original uploads are also copied to object storage under a random key.
type Processor struct {
	store    core.Store
	document extract.Extractor
	image    extract.Extractor
	media    extract.Extractor
	youtube  extract.Extractor
	archiver core.Archiver
}

func NewProcessor(store core.Store, document, image, media, youtube extract.Extractor, archiver core.Archiver) *Processor {
	return &Processor{
		store:    store,
		document: document,
		image:    image,
		media:    media,
		youtube:  youtube,
		archiver: archiver,
	}
}

// ProcessFile ingests one local file. The file record is written before
// extraction so a failed extraction still leaves an inspectable row; in
// that case the error text is stored as the file's only chunk and the file
// is marked processed anyway.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	fileType := DetectFileType(path)

	size := int64(0)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	fileID, err := p.store.AddFile(ctx, filepath.Base(path), fileType, path, size)
	if err != nil {
		return nil, fmt.Errorf("record file %s: %w", filepath.Base(path), err)
	}

	// Unknown types keep their record but stay unprocessed.
	if fileType == models.FileTypeUnknown {
		return &Result{
			FileID:  fileID,
			Message: fmt.Sprintf("Unsupported file type: %s", fileType),
		}, nil
	}

	items, err := p.extractorFor(fileType).Extract(ctx, path)
	if err != nil {
		log.Printf("extraction failed for %s: %v", filepath.Base(path), err)
		items = []extract.Item{extract.TextItem(fmt.Sprintf("Error processing file: %v", err), nil)}
	}

	count, err := p.storeItems(ctx, fileID, fileType, items)
	if err != nil {
		return nil, err
	}

	if err := p.store.MarkFileProcessed(ctx, fileID); err != nil {
		return nil, fmt.Errorf("mark processed %d: %w", fileID, err)
	}

	p.archive(ctx, fileID, path, fileType)

	return &Result{
		FileID:     fileID,
		ChunkCount: count,
		Message:    fmt.Sprintf("Processed %s into %d chunks", filepath.Base(path), count),
		Success:    true,
	}, nil
}

// ProcessYouTube ingests a YouTube URL. The URL is stored as the file path
// and a synthetic filename marks the source.
func (p *Processor) ProcessYouTube(ctx context.Context, url string) (*Result, error) {
	if !IsYouTubeURL(url) {
		return &Result{
			Message: fmt.Sprintf("Not a YouTube URL: %s", url),
		}, nil
	}

	fileID, err := p.store.AddFile(ctx, "YouTube: "+url, models.FileTypeYouTube, url, 0)
	if err != nil {
		return nil, fmt.Errorf("record youtube url: %w", err)
	}

	items, err := p.youtube.Extract(ctx, url)
	if err != nil {
		log.Printf("youtube extraction failed for %s: %v", url, err)
		items = []extract.Item{extract.TextItem(fmt.Sprintf("Error processing file: %v", err), nil)}
	}

	count, err := p.storeItems(ctx, fileID, models.FileTypeYouTube, items)
	if err != nil {
		return nil, err
	}

	if err := p.store.MarkFileProcessed(ctx, fileID); err != nil {
		return nil, fmt.Errorf("mark processed %d: %w", fileID, err)
	}

	return &Result{
		FileID:     fileID,
		ChunkCount: count,
		Message:    fmt.Sprintf("Processed %s into %d chunks", url, count),
		Success:    true,
	}, nil
}

func (p *Processor) extractorFor(t models.FileType) extract.Extractor {
	switch t {
	case models.FileTypeImage:
		return p.image
	case models.FileTypeAudio, models.FileTypeVideo:
		return p.media
	default:
		return p.document
	}
}

func (p *Processor) storeItems(ctx context.Context, fileID int64, fileType models.FileType, items []extract.Item) (int, error) {
	contentType := contentTypeFor(fileType)
	for i, item := range items {
		chunk := &models.Chunk{
			FileID:      fileID,
			ChunkIndex:  i,
			Content:     item.Content.Encode(),
			ContentType: contentType,
			Metadata:    item.Metadata,
		}
		if err := p.store.AddChunk(ctx, chunk); err != nil {
			return 0, fmt.Errorf("store chunk %d of file %d: %w", i, fileID, err)
		}
	}
	return len(items), nil
}

// archive copies the original file to object storage and records the key
// on the file record, best effort.
func (p *Processor) archive(ctx context.Context, fileID int64, path string, fileType models.FileType) {
	if p.archiver == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("archive read %s: %v", filepath.Base(path), err)
		return
	}
	key := fmt.Sprintf("%s/%s%s", fileType, uuid.NewString(), filepath.Ext(path))
	if _, err := p.archiver.Archive(ctx, key, data, ""); err != nil {
		log.Printf("archive upload %s: %v", filepath.Base(path), err)
		return
	}
	if err := p.store.SetFileArchiveKey(ctx, fileID, key); err != nil {
		log.Printf("archive key record %d: %v", fileID, err)
	}
}

// FetchOriginal retrieves the archived original bytes for a file.
func (p *Processor) FetchOriginal(ctx context.Context, fileID int64) (*models.File, []byte, error) {
	file, err := p.store.GetFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if p.archiver == nil || file.ArchiveKey == "" {
		return file, nil, fmt.Errorf("no archived original for file %d", fileID)
	}
	data, err := p.archiver.Fetch(ctx, file.ArchiveKey)
	if err != nil {
		return file, nil, fmt.Errorf("fetch original %d: %w", fileID, err)
	}
	return file, data, nil
}

// Clear wipes the knowledge base. Archived originals are removed first,
// best effort; a failed object delete never blocks the database clear.
func (p *Processor) Clear(ctx context.Context) error {
	if p.archiver != nil {
		files, err := p.store.ListFiles(ctx)
		if err != nil {
			return fmt.Errorf("list files for clear: %w", err)
		}
		for _, f := range files {
			if f.ArchiveKey == "" {
				continue
			}
			if err := p.archiver.Remove(ctx, f.ArchiveKey); err != nil {
				log.Printf("archive remove %s: %v", f.ArchiveKey, err)
			}
		}
	}
	return p.store.ClearAll(ctx)
}
