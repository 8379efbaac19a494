package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blockpad/internal/domain"
)

// SnapshotStore persists point-in-time copies of a document's block array.
type SnapshotStore struct {
	db *DB
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// CreateSnapshot stores a copy of the blocks for the document.
func (s *SnapshotStore) CreateSnapshot(docID string, blocks []domain.Block) (*domain.Snapshot, error) {
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	snap := &domain.Snapshot{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Blocks:     blocks,
		CreatedAt:  time.Now(),
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO snapshots (id, document_id, blocks_json, created_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.DocumentID, string(blocksJSON), snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots for the document, newest
// first. limit <= 0 means no limit.
func (s *SnapshotStore) ListSnapshots(docID string, limit int) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, document_id, blocks_json, created_at FROM snapshots
		 WHERE document_id = ? ORDER BY created_at DESC LIMIT ?`, docID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		var snap domain.Snapshot
		var blocksJSON string
		if err := rows.Scan(&snap.ID, &snap.DocumentID, &blocksJSON, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(blocksJSON), &snap.Blocks); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot %s: %w", snap.ID, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// CleanupSnapshots prunes the oldest snapshots beyond keepCount.
func (s *SnapshotStore) CleanupSnapshots(docID string, keepCount int) error {
	if keepCount < 0 {
		keepCount = 0
	}
	_, err := s.db.Conn().Exec(
		`DELETE FROM snapshots WHERE document_id = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE document_id = ? ORDER BY created_at DESC LIMIT ?
		)`, docID, docID, keepCount,
	)
	if err != nil {
		return fmt.Errorf("cleanup snapshots: %w", err)
	}
	return nil
}
