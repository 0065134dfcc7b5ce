package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "scribe.db"

// Store is a SQLite-based storage that provides the document and feedback
// stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.scribe/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scribe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Feedback rows cascade with their document.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = "id, title, content, is_public, created_at, updated_at"

// List returns all documents, most recently updated first.
func (s *documentStore) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// Create stores a new document under a generated ID.
func (s *documentStore) Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error) {
	contentJSON, err := marshalDelta(content)
	if err != nil {
		return nil, err
	}

	now := fromNanos(time.Now().UnixNano())
	doc := domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, contentJSON, doc.IsPublic, now.UnixNano(), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return &doc, nil
}

// Update applies a partial update.
func (s *documentStore) Update(ctx context.Context, id string, patch domain.DocumentPatch) (*domain.Document, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UnixNano()}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		contentJSON, err := marshalDelta(*patch.Content)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "content = ?")
		args = append(args, contentJSON)
	}
	if patch.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *patch.IsPublic)
	}
	args = append(args, id)

	//nolint:gosec // G202: column list is built from constants.
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE documents SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a document. Its feedback is removed by cascade.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// SaveFeedback stores feedback, assigning an ID if empty.
func (s *feedbackStore) SaveFeedback(ctx context.Context, fb *domain.AIFeedback) error {
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	if fb.FeedbackType == "" {
		fb.FeedbackType = domain.FeedbackTypeGeneral
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ai_feedback (id, document_id, feedback_type, start_index, end_index, suggestion, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fb.ID, fb.DocumentID, fb.FeedbackType, fb.StartIndex, fb.EndIndex, fb.Suggestion, fb.CreatedAt.UnixNano())
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("document %s: %w", fb.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback recorded for a document, oldest first.
func (s *feedbackStore) ListFeedback(ctx context.Context, documentID string) ([]domain.AIFeedback, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, feedback_type, start_index, end_index, suggestion, created_at
		FROM ai_feedback WHERE document_id = ? ORDER BY created_at, id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var list []domain.AIFeedback
	for rows.Next() {
		var fb domain.AIFeedback
		var createdAt int64
		if err := rows.Scan(&fb.ID, &fb.DocumentID, &fb.FeedbackType,
			&fb.StartIndex, &fb.EndIndex, &fb.Suggestion, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		fb.CreatedAt = fromNanos(createdAt)
		list = append(list, fb)
	}
	return list, rows.Err()
}

// ==================== Helpers ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var contentJSON string
	var createdAt, updatedAt int64
	if err := row.Scan(&doc.ID, &doc.Title, &contentJSON, &doc.IsPublic, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if err := json.Unmarshal([]byte(contentJSON), &doc.Content); err != nil {
		return nil, fmt.Errorf("unmarshalling content: %w", err)
	}
	doc.CreatedAt = fromNanos(createdAt)
	doc.UpdatedAt = fromNanos(updatedAt)
	return &doc, nil
}

// Timestamps are stored as Unix nanoseconds so they order numerically.
func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func marshalDelta(d domain.Delta) (string, error) {
	if d.Ops == nil {
		d.Ops = []domain.Op{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshalling content: %w", err)
	}
	return string(data), nil
}
