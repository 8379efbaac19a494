package editor

import "blockpad/internal/domain"

// snapshot is one undo/redo entry: a deep copy of the block array plus the
// active block pointer. Deep copies keep history entries from aliasing the
// live, still-mutable document.
type snapshot struct {
	blocks   []domain.Block
	activeID string
}

func (s *Session) capture() snapshot {
	return snapshot{
		blocks:   domain.CloneBlocks(s.Doc.Blocks),
		activeID: s.ActiveBlockID,
	}
}

func (s *Session) restore(snap snapshot) {
	s.Doc.Blocks = snap.blocks
	s.ActiveBlockID = snap.activeID
	s.ensureNotEmpty()
}

// SaveToHistory pushes the current state onto the past stack, dropping the
// oldest entry past the cap, and clears the redo stack. Structural commands
// call this before mutating; content and property edits are too frequent to
// snapshot.
func (s *Session) SaveToHistory() {
	s.past = append(s.past, s.capture())
	if len(s.past) > maxHistory {
		s.past = s.past[len(s.past)-maxHistory:]
	}
	s.future = nil
}

// Undo restores the most recent past snapshot, moving the current state to
// the redo stack. No-op when there is nothing to undo.
func (s *Session) Undo() {
	if len(s.past) == 0 {
		return
	}
	s.future = append(s.future, s.capture())
	last := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.restore(last)
	s.touch()
}

// Redo is the inverse of Undo; no-op when the redo stack is empty.
func (s *Session) Redo() {
	if len(s.future) == 0 {
		return
	}
	s.past = append(s.past, s.capture())
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.restore(next)
	s.touch()
}

// CanUndo reports whether the past stack is non-empty.
func (s *Session) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether the future stack is non-empty.
func (s *Session) CanRedo() bool { return len(s.future) > 0 }
