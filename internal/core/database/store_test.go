package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniquery/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

func TestFileLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.AddFile(ctx, "notes.txt", models.FileTypeText, "/tmp/notes.txt", 42)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].Filename)
	assert.Equal(t, models.FileTypeText, files[0].FileType)
	assert.Equal(t, int64(42), files[0].FileSize)
	assert.False(t, files[0].Processed)

	require.NoError(t, store.MarkFileProcessed(ctx, id))
	files, err = store.ListFiles(ctx)
	require.NoError(t, err)
	assert.True(t, files[0].Processed)
}

func TestGetFileAndArchiveKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.AddFile(ctx, "clip.mp4", models.FileTypeVideo, "/tmp/clip.mp4", 1024)
	require.NoError(t, err)

	file, err := store.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", file.Filename)
	assert.Empty(t, file.ArchiveKey)

	require.NoError(t, store.SetFileArchiveKey(ctx, id, "video/abc123.mp4"))

	file, err = store.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "video/abc123.mp4", file.ArchiveKey)

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "video/abc123.mp4", files[0].ArchiveKey)

	_, err = store.GetFile(ctx, 9999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = store.SetFileArchiveKey(ctx, 9999, "x")
	require.Error(t, err)
}

func TestMarkFileProcessedMissingFile(t *testing.T) {
	store := newTestStore(t)

	err := store.MarkFileProcessed(context.Background(), 9999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestChunkRoundTripWithMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fileID, err := store.AddFile(ctx, "doc.pdf", models.FileTypeText, "", 0)
	require.NoError(t, err)

	chunk := &models.Chunk{
		FileID:      fileID,
		ChunkIndex:  0,
		Content:     "chunk body",
		ContentType: models.ContentTypeText,
		Metadata:    map[string]any{"chunk_index": 0, "start_pos": 0},
	}
	require.NoError(t, store.AddChunk(ctx, chunk))
	assert.Greater(t, chunk.ID, int64(0), "insert must backfill the id")

	got, err := store.ListFileChunks(ctx, fileID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chunk body", got[0].Content)
	assert.Equal(t, models.ContentTypeText, got[0].ContentType)
	// JSON numbers come back as float64.
	assert.Equal(t, float64(0), got[0].Metadata["start_pos"])
}

func TestListAllChunksOrderingAndJoin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fileA, err := store.AddFile(ctx, "a.txt", models.FileTypeText, "", 0)
	require.NoError(t, err)
	fileB, err := store.AddFile(ctx, "b.png", models.FileTypeImage, "", 0)
	require.NoError(t, err)

	// Insert out of order to prove the query sorts.
	require.NoError(t, store.AddChunk(ctx, &models.Chunk{FileID: fileB, ChunkIndex: 0, Content: "img", ContentType: models.ContentTypeImage}))
	require.NoError(t, store.AddChunk(ctx, &models.Chunk{FileID: fileA, ChunkIndex: 1, Content: "a1", ContentType: models.ContentTypeText}))
	require.NoError(t, store.AddChunk(ctx, &models.Chunk{FileID: fileA, ChunkIndex: 0, Content: "a0", ContentType: models.ContentTypeText}))

	all, err := store.ListAllChunks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a0", all[0].Content)
	assert.Equal(t, "a1", all[1].Content)
	assert.Equal(t, "img", all[2].Content)
	assert.Equal(t, "a.txt", all[0].Filename)
	assert.Equal(t, models.FileTypeImage, all[2].FileType)

	images, err := store.ListAllChunks(ctx, models.ContentTypeImage)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "img", images[0].Content)
}

func TestQueryHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveQuery(ctx, "first question", "first answer"))
	require.NoError(t, store.SaveQuery(ctx, "second question", "second answer"))

	entries, err := store.ListQueries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first; same-timestamp entries fall back to id order.
	assert.Equal(t, "second question", entries[0].QueryText)
	assert.Equal(t, "first question", entries[1].QueryText)

	require.NoError(t, store.ClearQueryHistory(ctx))
	entries, err = store.ListQueries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fileID, err := store.AddFile(ctx, "gone.txt", models.FileTypeText, "", 0)
	require.NoError(t, err)
	require.NoError(t, store.AddChunk(ctx, &models.Chunk{FileID: fileID, Content: "x", ContentType: models.ContentTypeText}))
	require.NoError(t, store.SaveQuery(ctx, "q", "a"))

	require.NoError(t, store.ClearAll(ctx))

	files, err := store.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)

	chunks, err := store.ListAllChunks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	entries, err := store.ListQueries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewStore(ctx, path)
	require.NoError(t, err)
	_, err = store.AddFile(ctx, "keep.txt", models.FileTypeText, "", 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	files, err := reopened.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
