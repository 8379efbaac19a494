package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the persisted unit: an ordered flat collection of blocks plus
// metadata. Top-level and nested blocks are interleaved in Blocks; top-level
// blocks are those without a back-reference.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDocument creates a document with a single empty paragraph block, the
// minimal valid state.
func NewDocument(title string) *Document {
	now := time.Now()
	return &Document{
		ID:        uuid.New().String(),
		Title:     title,
		Blocks:    []Block{*NewBlock(BlockTypeParagraph, "")},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindIndex returns the position of the block with the given id, or -1.
func FindIndex(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID returns a pointer into blocks for the given id, or nil.
func FindByID(blocks []Block, id string) *Block {
	if i := FindIndex(blocks, id); i >= 0 {
		return &blocks[i]
	}
	return nil
}

// TopLevel returns the ids of blocks that have no container back-reference,
// in document order.
func TopLevel(blocks []Block) []string {
	var ids []string
	for i := range blocks {
		if !blocks[i].HasParent() {
			ids = append(ids, blocks[i].ID)
		}
	}
	return ids
}

// Snapshot is a stored copy of a document's block array, used for point-in-
// time recovery by the persistence layer.
type Snapshot struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Blocks     []Block   `json:"blocks"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DocumentStore is the persistence collaborator. Identity key is the
// document id; Save upserts and stamps UpdatedAt.
type DocumentStore interface {
	GetAll() ([]Document, error)
	Get(id string) (*Document, error)
	Save(doc *Document) error
	Delete(id string) error
}

// SnapshotStore persists point-in-time copies of a document's blocks.
type SnapshotStore interface {
	CreateSnapshot(docID string, blocks []Block) (*Snapshot, error)
	ListSnapshots(docID string, limit int) ([]Snapshot, error)
	CleanupSnapshots(docID string, keepCount int) error
}
