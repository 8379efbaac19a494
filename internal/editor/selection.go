package editor

import "blockpad/internal/domain"

// Selection levels for the progressive select-all cycle.
const (
	SelectionNone   = 0
	SelectionBlock  = 1
	SelectionAllTop = 2
)

// SelectionLevel returns the current stage of the select-all cycle.
func (s *Session) SelectionLevel() int { return s.selectionLevel }

// SelectedBlockIDs returns the materialized selection, nil at level 0.
func (s *Session) SelectedBlockIDs() []string { return s.selectedBlockIDs }

// CycleSelection advances the progressive selection: none -> active block ->
// all top-level blocks -> none. Level 2 selects exactly the blocks without a
// container back-reference.
func (s *Session) CycleSelection() {
	switch s.selectionLevel {
	case SelectionNone:
		if s.ActiveBlockID == "" {
			return
		}
		s.selectionLevel = SelectionBlock
		s.selectedBlockIDs = []string{s.ActiveBlockID}
	case SelectionBlock:
		s.selectionLevel = SelectionAllTop
		s.selectedBlockIDs = domain.TopLevel(s.Doc.Blocks)
	default:
		s.selectionLevel = SelectionNone
		s.selectedBlockIDs = nil
	}
}

// DeleteSelectedBlocks removes every selected block (cascading container
// children), upholds the non-empty invariant, and resets the selection with
// the first remaining block active.
func (s *Session) DeleteSelectedBlocks() {
	if len(s.selectedBlockIDs) == 0 {
		return
	}
	s.SaveToHistory()

	doomed := make(map[string]bool)
	for _, id := range s.selectedBlockIDs {
		doomed[id] = true
		for _, childID := range s.descendantIDs(id) {
			doomed[childID] = true
		}
	}

	kept := s.Doc.Blocks[:0]
	for i := range s.Doc.Blocks {
		if !doomed[s.Doc.Blocks[i].ID] {
			kept = append(kept, s.Doc.Blocks[i])
		}
	}
	s.Doc.Blocks = kept
	s.ensureNotEmpty()

	s.selectionLevel = SelectionNone
	s.selectedBlockIDs = nil
	s.ActiveBlockID = s.Doc.Blocks[0].ID
	s.touch()
}
