package editor

import (
	"github.com/google/uuid"

	"blockpad/internal/domain"
)

// Container commands keep the flat collection and the id listings of
// columns/tabs blocks consistent with each other: a child always appears in
// exactly one container listing, and its back-reference points there.

// AddBlockToColumn creates the block inside the given column of a columns
// block, creating the column entry on first use. The new block becomes
// active.
func (s *Session) AddBlockToColumn(containerID string, columnIndex int, b *domain.Block) {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil || container.Type != domain.BlockTypeColumns || b == nil {
		return
	}
	s.SaveToHistory()

	b.Properties.ParentID = containerID
	b.Properties.ColumnIndex = columnIndex

	found := false
	for i := range container.ColumnChildren {
		if container.ColumnChildren[i].ColumnIndex == columnIndex {
			container.ColumnChildren[i].BlockIDs = append(container.ColumnChildren[i].BlockIDs, b.ID)
			found = true
			break
		}
	}
	if !found {
		container.ColumnChildren = append(container.ColumnChildren, domain.ColumnChildren{
			ColumnIndex: columnIndex,
			BlockIDs:    []string{b.ID},
		})
	}

	s.Doc.Blocks = append(s.Doc.Blocks, *b)
	s.ActiveBlockID = b.ID
	s.touch()
}

// AddBlockToTab creates the block inside the given tab of a tabs block,
// analogous to AddBlockToColumn but keyed by tab id.
func (s *Session) AddBlockToTab(containerID, tabID string, b *domain.Block) {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil || container.Type != domain.BlockTypeTabs || b == nil {
		return
	}
	s.SaveToHistory()

	b.Properties.ParentID = containerID
	b.Properties.ParentTabID = tabID

	if container.TabChildren == nil {
		container.TabChildren = map[string][]string{}
	}
	container.TabChildren[tabID] = append(container.TabChildren[tabID], b.ID)

	s.Doc.Blocks = append(s.Doc.Blocks, *b)
	s.ActiveBlockID = b.ID
	s.touch()
}

// RemoveBlockFromContainer detaches a nested block back to the top level,
// clearing its back-reference and the container's listing entry.
func (s *Session) RemoveBlockFromContainer(id string) {
	b := domain.FindByID(s.Doc.Blocks, id)
	if b == nil || !b.HasParent() {
		return
	}
	s.SaveToHistory()
	s.removeFromContainers(id)
	b.Properties.ParentID = ""
	b.Properties.ColumnIndex = 0
	b.Properties.ParentTabID = ""
	s.touch()
}

// AddTab appends a new tab to a tabs block and makes it active, returning
// the generated tab id ("" on a structural no-op).
func (s *Session) AddTab(containerID string) string {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil || container.Type != domain.BlockTypeTabs {
		return ""
	}
	s.SaveToHistory()
	tab := domain.TabDef{ID: uuid.New().String(), Title: "New Tab"}
	container.Properties.Tabs = append(container.Properties.Tabs, tab)
	container.Properties.ActiveTabID = tab.ID
	s.touch()
	return tab.ID
}

// RemoveTab deletes a tab and cascades its child blocks. Removing the last
// remaining tab is a no-op; the active tab pointer is repaired if it pointed
// at the removed tab.
func (s *Session) RemoveTab(containerID, tabID string) {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil || container.Type != domain.BlockTypeTabs || len(container.Properties.Tabs) <= 1 {
		return
	}
	idx := -1
	for i, tab := range container.Properties.Tabs {
		if tab.ID == tabID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.SaveToHistory()

	doomed := map[string]bool{}
	for _, childID := range container.TabChildren[tabID] {
		doomed[childID] = true
		for _, nested := range s.descendantIDs(childID) {
			doomed[nested] = true
		}
	}
	kept := s.Doc.Blocks[:0]
	for i := range s.Doc.Blocks {
		if !doomed[s.Doc.Blocks[i].ID] {
			kept = append(kept, s.Doc.Blocks[i])
		}
	}
	s.Doc.Blocks = kept

	// The container pointer may have moved with the slice rewrite.
	container = domain.FindByID(s.Doc.Blocks, containerID)
	delete(container.TabChildren, tabID)
	container.Properties.Tabs = append(container.Properties.Tabs[:idx], container.Properties.Tabs[idx+1:]...)
	if container.Properties.ActiveTabID == tabID {
		container.Properties.ActiveTabID = container.Properties.Tabs[0].ID
	}
	s.ensureNotEmpty()
	s.touch()
}

// SetColumnCount resizes a columns block to n columns (1..4). Children of
// removed columns reflow into the last remaining column.
func (s *Session) SetColumnCount(containerID string, n int) {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil || container.Type != domain.BlockTypeColumns || n < 1 || n > 4 {
		return
	}
	s.SaveToHistory()

	last := n - 1
	var overflow []string
	kept := container.ColumnChildren[:0]
	for _, col := range container.ColumnChildren {
		if col.ColumnIndex < n {
			kept = append(kept, col)
			continue
		}
		overflow = append(overflow, col.BlockIDs...)
	}
	container.ColumnChildren = kept
	if len(overflow) > 0 {
		found := false
		for i := range container.ColumnChildren {
			if container.ColumnChildren[i].ColumnIndex == last {
				container.ColumnChildren[i].BlockIDs = append(container.ColumnChildren[i].BlockIDs, overflow...)
				found = true
				break
			}
		}
		if !found {
			container.ColumnChildren = append(container.ColumnChildren, domain.ColumnChildren{
				ColumnIndex: last,
				BlockIDs:    overflow,
			})
		}
		for _, id := range overflow {
			if child := domain.FindByID(s.Doc.Blocks, id); child != nil {
				child.Properties.ColumnIndex = last
			}
		}
	}

	container.Properties.Count = n
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = 1.0 / float64(n)
	}
	container.Properties.Widths = widths
	s.touch()
}

// ── internal helpers ───────────────────────────────────────

// descendantIDs returns every block id nested (transitively) inside the
// given block's container listings.
func (s *Session) descendantIDs(id string) []string {
	b := domain.FindByID(s.Doc.Blocks, id)
	if b == nil {
		return nil
	}
	var out []string
	collect := func(childID string) {
		out = append(out, childID)
		out = append(out, s.descendantIDs(childID)...)
	}
	for _, col := range b.ColumnChildren {
		for _, childID := range col.BlockIDs {
			collect(childID)
		}
	}
	for _, ids := range b.TabChildren {
		for _, childID := range ids {
			collect(childID)
		}
	}
	return out
}

// cascadeDeleteChildren removes every descendant of the block from the flat
// collection, leaving the block itself in place.
func (s *Session) cascadeDeleteChildren(id string) {
	doomed := map[string]bool{}
	for _, childID := range s.descendantIDs(id) {
		doomed[childID] = true
	}
	if len(doomed) == 0 {
		return
	}
	kept := s.Doc.Blocks[:0]
	for i := range s.Doc.Blocks {
		if !doomed[s.Doc.Blocks[i].ID] {
			kept = append(kept, s.Doc.Blocks[i])
		}
	}
	s.Doc.Blocks = kept
}

// removeFromContainers deletes the id from every container listing that
// mentions it.
func (s *Session) removeFromContainers(id string) {
	for i := range s.Doc.Blocks {
		c := &s.Doc.Blocks[i]
		for j := range c.ColumnChildren {
			c.ColumnChildren[j].BlockIDs = removeID(c.ColumnChildren[j].BlockIDs, id)
		}
		for tabID, ids := range c.TabChildren {
			c.TabChildren[tabID] = removeID(ids, id)
		}
	}
}

// insertIntoContainerAfter places newID right after refID in whichever
// listing of the container holds refID, appending if not found.
func (s *Session) insertIntoContainerAfter(containerID, refID, newID string) {
	container := domain.FindByID(s.Doc.Blocks, containerID)
	if container == nil {
		return
	}
	for i := range container.ColumnChildren {
		if ids, ok := insertAfterID(container.ColumnChildren[i].BlockIDs, refID, newID); ok {
			container.ColumnChildren[i].BlockIDs = ids
			return
		}
	}
	for tabID, ids := range container.TabChildren {
		if out, ok := insertAfterID(ids, refID, newID); ok {
			container.TabChildren[tabID] = out
			return
		}
	}
}

// duplicateSubtree deep-copies a block and, for containers, every descendant
// with fresh ids, rewriting listings and back-references to the copies.
func (s *Session) duplicateSubtree(b *domain.Block) (*domain.Block, []domain.Block) {
	dup := domain.Duplicate(b)
	var nested []domain.Block

	remapChildren := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, childID := range ids {
			child := domain.FindByID(s.Doc.Blocks, childID)
			if child == nil {
				continue
			}
			childDup, childNested := s.duplicateSubtree(child)
			childDup.Properties.ParentID = dup.ID
			nested = append(nested, *childDup)
			nested = append(nested, childNested...)
			out = append(out, childDup.ID)
		}
		return out
	}

	for i := range dup.ColumnChildren {
		dup.ColumnChildren[i].BlockIDs = remapChildren(dup.ColumnChildren[i].BlockIDs)
	}
	for tabID, ids := range dup.TabChildren {
		dup.TabChildren[tabID] = remapChildren(ids)
	}
	return dup, nested
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func insertAfterID(ids []string, refID, newID string) ([]string, bool) {
	for i, v := range ids {
		if v == refID {
			out := make([]string, 0, len(ids)+1)
			out = append(out, ids[:i+1]...)
			out = append(out, newID)
			out = append(out, ids[i+1:]...)
			return out, true
		}
	}
	return ids, false
}
