package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blockpad/internal/domain"
)

// DocumentStore implements domain.DocumentStore on SQLite. Blocks are
// persisted as a JSON column; writes are last-write-wins at document-id
// granularity.
type DocumentStore struct {
	db *DB
}

var _ domain.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// GetAll returns every document ordered by last modification, newest first.
func (s *DocumentStore) GetAll() ([]domain.Document, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, title, blocks_json, created_at, updated_at FROM documents ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
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

// Get returns a document by id, or nil when it does not exist.
func (s *DocumentStore) Get(id string) (*domain.Document, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, title, blocks_json, created_at, updated_at FROM documents WHERE id = ?`, id,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return doc, err
}

// Save upserts the document and stamps UpdatedAt.
func (s *DocumentStore) Save(doc *domain.Document) error {
	blocksJSON, err := json.Marshal(doc.Blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = doc.UpdatedAt
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO documents (id, title, blocks_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, blocks_json = excluded.blocks_json, updated_at = excluded.updated_at`,
		doc.ID, doc.Title, string(blocksJSON), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// Delete removes the document and its snapshots.
func (s *DocumentStore) Delete(id string) error {
	if _, err := s.db.Conn().Exec(`DELETE FROM snapshots WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	if _, err := s.db.Conn().Exec(`DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// LinkedFile returns the path of the exported file linked to a document,
// or "".
func (s *DocumentStore) LinkedFile(id string) (string, error) {
	var path string
	err := s.db.Conn().QueryRow(`SELECT linked_file FROM documents WHERE id = ?`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return path, err
}

// SetLinkedFile records the exported file path for a document.
func (s *DocumentStore) SetLinkedFile(id, path string) error {
	_, err := s.db.Conn().Exec(`UPDATE documents SET linked_file = ? WHERE id = ?`, path, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var blocksJSON string
	if err := row.Scan(&doc.ID, &doc.Title, &blocksJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blocksJSON), &doc.Blocks); err != nil {
		return nil, fmt.Errorf("unmarshal blocks for %s: %w", doc.ID, err)
	}
	return &doc, nil
}
