// Package store persists parsed documents and their section records in
// SQLite via the pure-Go modernc driver.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/sustainparse/internal/export"
	"github.com/dgallion1/sustainparse/internal/outline"
)

// ErrNotFound is returned when a document id is unknown.
var ErrNotFound = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id          TEXT PRIMARY KEY,
    filename    TEXT NOT NULL,
    page_count  INTEGER NOT NULL,
    strategy    TEXT NOT NULL,
    tree_json   TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sections (
    doc_id      TEXT NOT NULL,
    id          TEXT NOT NULL,
    position    INTEGER NOT NULL,
    title       TEXT NOT NULL,
    level       INTEGER NOT NULL,
    start_page  INTEGER NOT NULL,
    end_page    INTEGER NOT NULL,
    path        TEXT NOT NULL,
    text        TEXT NOT NULL,
    PRIMARY KEY (doc_id, id),
    FOREIGN KEY (doc_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sections_path ON sections(doc_id, path);
`

// DocumentMeta is the stored per-document summary row.
type DocumentMeta struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	PageCount int       `json:"page_count"`
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite handle. SQLite is single-writer, so the pool is
// capped at one connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveResult stores a parse result under docID, replacing any prior version
// of the same document.
func (s *Store) SaveResult(ctx context.Context, docID, filename string, res *outline.ParseResult) error {
	tree, err := export.MarshalTree(res.Root)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return fmt.Errorf("clear prior document: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, filename, page_count, strategy, tree_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		docID, filename, res.PageCount, res.Strategy, string(tree), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (doc_id, id, position, title, level, start_page, end_page, path, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare section insert: %w", err)
	}
	defer stmt.Close()

	for pos, sec := range res.Sections {
		r := sec.Record()
		if _, err := stmt.ExecContext(ctx,
			docID, r.ID, pos, r.Title, r.Level, r.StartPage, r.EndPage, r.Path, r.Text); err != nil {
			return fmt.Errorf("insert section %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Document returns the summary row for one document.
func (s *Store) Document(ctx context.Context, docID string) (*DocumentMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, page_count, strategy, created_at FROM documents WHERE id = ?`, docID)
	var m DocumentMeta
	err := row.Scan(&m.ID, &m.Filename, &m.PageCount, &m.Strategy, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", docID, err)
	}
	return &m, nil
}

// ListDocuments returns every stored document, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, page_count, strategy, created_at
		 FROM documents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentMeta
	for rows.Next() {
		var m DocumentMeta
		if err := rows.Scan(&m.ID, &m.Filename, &m.PageCount, &m.Strategy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Tree returns the stored nested tree JSON for a document.
func (s *Store) Tree(ctx context.Context, docID string) (json.RawMessage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT tree_json FROM documents WHERE id = ?`, docID)
	var tree string
	err := row.Scan(&tree)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", docID, err)
	}
	return json.RawMessage(tree), nil
}

// Sections returns a document's section records in document order. A non-empty
// pathPrefix restricts the result to the named section and everything below
// it.
func (s *Store) Sections(ctx context.Context, docID, pathPrefix string) ([]outline.Record, error) {
	query := `SELECT id, title, level, start_page, end_page, path, text
	          FROM sections WHERE doc_id = ?`
	args := []any{docID}
	if pathPrefix != "" {
		query += ` AND (path = ? OR path LIKE ?)`
		args = append(args, pathPrefix, pathPrefix+outline.PathSeparator+"%")
	}
	query += ` ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var out []outline.Record
	for rows.Next() {
		var r outline.Record
		if err := rows.Scan(&r.ID, &r.Title, &r.Level, &r.StartPage, &r.EndPage, &r.Path, &r.Text); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		// Distinguish an unknown document from one with no matches.
		if _, err := s.Document(ctx, docID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteDocument removes a document and its sections.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
