// Package database provides the SQLite-backed knowledge-base store: files,
// content chunks, and query history in a single database file.
package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"omniquery/internal/core"
	"omniquery/internal/core/database/migrations"
	"omniquery/internal/models"
)

// Store is the SQLite implementation of core.Store. The handle is injected
// where needed and closed at shutdown; there is no ambient singleton.
type Store struct {
	db   *sql.DB
	path string
}

var _ core.Store = (*Store)(nil)

// NewStore opens (creating if needed) the database file at path and runs
// pending migrations. WAL mode keeps concurrent surface reads from
// blocking ingest writes.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies all pending *.up.sql migrations in version order.
func (s *Store) migrate(ctx context.Context, fsys embed.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// AddFile inserts a file record and returns its id. Processed starts false.
func (s *Store) AddFile(ctx context.Context, filename string, fileType models.FileType, filePath string, fileSize int64) (int64, error) {
	const q = `
		INSERT INTO files (filename, file_type, file_path, file_size)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, q, filename, string(fileType), filePath, fileSize)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("file id: %w", err)
	}
	return id, nil
}

// MarkFileProcessed flips the processed flag, the only mutation a file
// record ever sees.
func (s *Store) MarkFileProcessed(ctx context.Context, fileID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE files SET processed = 1 WHERE id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("file not found: %d", fileID)
	}
	return nil
}

// SetFileArchiveKey records the object-storage key of the archived
// original.
func (s *Store) SetFileArchiveKey(ctx context.Context, fileID int64, key string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE files SET archive_key = ? WHERE id = ?`, key, fileID)
	if err != nil {
		return fmt.Errorf("set archive key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("file not found: %d", fileID)
	}
	return nil
}

// GetFile returns one file record by id.
func (s *Store) GetFile(ctx context.Context, fileID int64) (*models.File, error) {
	const q = `
		SELECT id, filename, file_type, COALESCE(file_path, ''), COALESCE(file_size, 0), upload_date, processed, COALESCE(archive_key, '')
		FROM files
		WHERE id = ?
	`
	f, err := scanFile(s.db.QueryRowContext(ctx, q, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("file not found: %d", fileID)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

// ListFiles returns all file records, newest first.
func (s *Store) ListFiles(ctx context.Context) ([]models.File, error) {
	const q = `
		SELECT id, filename, file_type, COALESCE(file_path, ''), COALESCE(file_size, 0), upload_date, processed, COALESCE(archive_key, '')
		FROM files
		ORDER BY upload_date DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func scanFile(row interface{ Scan(...any) error }) (*models.File, error) {
	var f models.File
	var fileType string
	var uploaded time.Time
	if err := row.Scan(&f.ID, &f.Filename, &fileType, &f.FilePath, &f.FileSize, &uploaded, &f.Processed, &f.ArchiveKey); err != nil {
		return nil, err
	}
	f.FileType = models.FileType(fileType)
	f.UploadDate = uploaded
	return &f, nil
}

// AddChunk inserts one immutable content chunk.
func (s *Store) AddChunk(ctx context.Context, chunk *models.Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}

	var metadataJSON any
	if len(chunk.Metadata) > 0 {
		b, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadataJSON = string(b)
	}

	const q = `
		INSERT INTO chunks (file_id, chunk_index, content, content_type, metadata)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, q,
		chunk.FileID, chunk.ChunkIndex, chunk.Content, string(chunk.ContentType), metadataJSON)
	if err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}
	chunk.ID, _ = res.LastInsertId()
	return nil
}

// ListAllChunks returns every chunk joined with its owning file, ordered by
// file id then chunk index. A non-empty contentType filters the result.
func (s *Store) ListAllChunks(ctx context.Context, contentType models.ContentType) ([]models.StoredChunk, error) {
	q := `
		SELECT c.id, c.file_id, c.chunk_index, c.content, c.content_type, COALESCE(c.metadata, ''),
		       f.filename, f.file_type
		FROM chunks c
		JOIN files f ON c.file_id = f.id
	`
	var args []any
	if contentType != "" {
		q += " WHERE c.content_type = ?"
		args = append(args, string(contentType))
	}
	q += " ORDER BY f.id, c.chunk_index"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var out []models.StoredChunk
	for rows.Next() {
		var ch models.StoredChunk
		var contentTypeCol, metadataCol, fileTypeCol string
		if err := rows.Scan(&ch.ID, &ch.FileID, &ch.ChunkIndex, &ch.Content, &contentTypeCol, &metadataCol,
			&ch.Filename, &fileTypeCol); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		ch.ContentType = models.ContentType(contentTypeCol)
		ch.FileType = models.FileType(fileTypeCol)
		ch.Metadata = decodeMetadata(metadataCol)
		out = append(out, ch)
	}
	return out, rows.Err()
}

// ListFileChunks returns the chunks of one file ordered by index.
func (s *Store) ListFileChunks(ctx context.Context, fileID int64) ([]models.Chunk, error) {
	const q = `
		SELECT id, file_id, chunk_index, content, content_type, COALESCE(metadata, '')
		FROM chunks
		WHERE file_id = ?
		ORDER BY chunk_index
	`
	rows, err := s.db.QueryContext(ctx, q, fileID)
	if err != nil {
		return nil, fmt.Errorf("list file chunks: %w", err)
	}
	defer rows.Close()

	var out []models.Chunk
	for rows.Next() {
		var ch models.Chunk
		var contentTypeCol, metadataCol string
		if err := rows.Scan(&ch.ID, &ch.FileID, &ch.ChunkIndex, &ch.Content, &contentTypeCol, &metadataCol); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		ch.ContentType = models.ContentType(contentTypeCol)
		ch.Metadata = decodeMetadata(metadataCol)
		out = append(out, ch)
	}
	return out, rows.Err()
}

// SaveQuery appends a query history entry.
func (s *Store) SaveQuery(ctx context.Context, queryText, responseText string) error {
	const q = `INSERT INTO queries (query_text, response_text) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, q, queryText, responseText); err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// ListQueries returns the query history, newest first.
func (s *Store) ListQueries(ctx context.Context) ([]models.QueryLogEntry, error) {
	const q = `
		SELECT id, query_text, COALESCE(response_text, ''), timestamp
		FROM queries
		ORDER BY timestamp DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var out []models.QueryLogEntry
	for rows.Next() {
		var e models.QueryLogEntry
		if err := rows.Scan(&e.ID, &e.QueryText, &e.ResponseText, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearAll deletes all chunks, files, and query history. Chunks go first to
// satisfy the foreign key.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	for _, stmt := range []string{"DELETE FROM chunks", "DELETE FROM files", "DELETE FROM queries"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear data: %w", err)
		}
	}
	return tx.Commit()
}

// ClearQueryHistory deletes only the query history.
func (s *Store) ClearQueryHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM queries"); err != nil {
		return fmt.Errorf("clear query history: %w", err)
	}
	return nil
}

func decodeMetadata(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return map[string]any{}
	}
	return m
}
