// Package editor is the mutation engine for block documents: every
// structural edit goes through a Session command, which keeps the document's
// invariants (never empty, unique ids, consistent container back-references)
// and records history snapshots.
package editor

import (
	"time"

	"blockpad/internal/domain"
)

// maxHistory bounds the undo/redo stacks; the oldest snapshot is dropped
// when the limit is reached.
const maxHistory = 50

// Session owns one open document plus the ephemeral editing state around it:
// the active block pointer, the progressive selection, and the undo/redo
// stacks. All commands are methods on Session and run synchronously to
// completion; there is a single writer per session.
type Session struct {
	Doc           *domain.Document
	ActiveBlockID string

	selectionLevel   int // 0 none, 1 active block, 2 all top-level
	selectedBlockIDs []string

	past   []snapshot
	future []snapshot
}

// NewSession opens a session over an existing document. The first block
// starts active.
func NewSession(doc *domain.Document) *Session {
	s := &Session{Doc: doc}
	if len(doc.Blocks) == 0 {
		doc.Blocks = []domain.Block{*domain.NewBlock(domain.BlockTypeParagraph, "")}
	}
	s.ActiveBlockID = doc.Blocks[0].ID
	return s
}

// touch stamps the document's modification time.
func (s *Session) touch() {
	s.Doc.UpdatedAt = time.Now()
}

// ensureNotEmpty upholds the document invariant: if the block collection is
// empty it inserts a fresh empty paragraph and makes it active.
func (s *Session) ensureNotEmpty() {
	if len(s.Doc.Blocks) > 0 {
		return
	}
	placeholder := domain.NewBlock(domain.BlockTypeParagraph, "")
	s.Doc.Blocks = []domain.Block{*placeholder}
	s.ActiveBlockID = placeholder.ID
}

// SetActiveBlock moves focus to the given block and resets any in-progress
// selection cycle.
func (s *Session) SetActiveBlock(id string) {
	s.ActiveBlockID = id
	s.selectionLevel = 0
	s.selectedBlockIDs = nil
}

// ActiveBlock returns the currently focused block, or nil.
func (s *Session) ActiveBlock() *domain.Block {
	return domain.FindByID(s.Doc.Blocks, s.ActiveBlockID)
}
