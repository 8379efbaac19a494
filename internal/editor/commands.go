package editor

import "blockpad/internal/domain"

// Structural errors (unknown ids, wrong target types) are handled as silent
// no-ops throughout: commands return without mutating rather than raising.

// AddBlockAfter inserts the block immediately after the block with afterID,
// or appends when afterID is empty or unknown. The new block becomes active.
func (s *Session) AddBlockAfter(afterID string, b *domain.Block) {
	if b == nil {
		return
	}
	s.SaveToHistory()
	s.insertAt(domain.FindIndex(s.Doc.Blocks, afterID)+1, *b)
	s.ActiveBlockID = b.ID
	s.touch()
}

// insertAt splices a block into the flat collection. pos 0 (unknown afterID
// maps to -1+1) means append at the end per the add-after contract.
func (s *Session) insertAt(pos int, b domain.Block) {
	if pos <= 0 || pos > len(s.Doc.Blocks) {
		s.Doc.Blocks = append(s.Doc.Blocks, b)
		return
	}
	s.Doc.Blocks = append(s.Doc.Blocks, domain.Block{})
	copy(s.Doc.Blocks[pos+1:], s.Doc.Blocks[pos:])
	s.Doc.Blocks[pos] = b
}

// UpdateContent replaces a block's content. Too frequent to snapshot.
func (s *Session) UpdateContent(id, content string) {
	b := domain.FindByID(s.Doc.Blocks, id)
	if b == nil {
		return
	}
	b.Content = content
	s.touch()
}

// PropertyPatch is a shallow partial update of block properties. Pointer
// fields distinguish "not provided" from "set to the zero value".
type PropertyPatch struct {
	Indent      *int
	Checked     *bool
	Language    *string
	Alt         *string
	Caption     *string
	Title       *string
	Description *string
	Favicon     *string
	Images      *[]domain.GalleryImage
	Tabs        *[]domain.TabDef
	ActiveTabID *string
	Count       *int
	Widths      *[]float64
	Gap         *int
}

// UpdateProperties shallow-merges the patch into a block's properties.
// Like content edits, not snapshotted.
func (s *Session) UpdateProperties(id string, patch PropertyPatch) {
	b := domain.FindByID(s.Doc.Blocks, id)
	if b == nil {
		return
	}
	p := &b.Properties
	if patch.Indent != nil {
		p.Indent = clampIndent(*patch.Indent)
	}
	if patch.Checked != nil {
		p.Checked = *patch.Checked
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.Alt != nil {
		p.Alt = *patch.Alt
	}
	if patch.Caption != nil {
		p.Caption = *patch.Caption
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Favicon != nil {
		p.Favicon = *patch.Favicon
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.Tabs != nil {
		p.Tabs = *patch.Tabs
	}
	if patch.ActiveTabID != nil {
		p.ActiveTabID = *patch.ActiveTabID
	}
	if patch.Count != nil {
		p.Count = *patch.Count
	}
	if patch.Widths != nil {
		p.Widths = *patch.Widths
	}
	if patch.Gap != nil {
		p.Gap = *patch.Gap
	}
	s.touch()
}

// DeleteBlock removes a block; container blocks cascade-delete their
// descendants so no orphaned back-references remain. The preceding surviving
// block becomes active, or the fresh placeholder if the document emptied.
func (s *Session) DeleteBlock(id string) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i < 0 {
		return
	}
	s.SaveToHistory()

	doomed := map[string]bool{id: true}
	for _, childID := range s.descendantIDs(id) {
		doomed[childID] = true
	}

	prevID := ""
	kept := make([]domain.Block, 0, len(s.Doc.Blocks)-1)
	for j := range s.Doc.Blocks {
		if doomed[s.Doc.Blocks[j].ID] {
			continue
		}
		if j < i {
			prevID = s.Doc.Blocks[j].ID
		}
		kept = append(kept, s.Doc.Blocks[j])
	}
	s.Doc.Blocks = kept
	s.removeFromContainers(id)
	s.ensureNotEmpty()

	switch {
	case prevID != "":
		s.ActiveBlockID = prevID
	default:
		s.ActiveBlockID = s.Doc.Blocks[0].ID
	}
	s.touch()
}

// SplitBlock splits a text block at the cursor offset. The head keeps the
// block's id and type; the tail is a new paragraph, except that splitting a
// task yields another task. The tail stays inside the source's container and
// becomes active.
func (s *Session) SplitBlock(id string, offset int) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i < 0 || !s.Doc.Blocks[i].Type.IsTextual() {
		return
	}
	s.SaveToHistory()

	src := &s.Doc.Blocks[i]
	before, after := domain.SplitAtCursor(src, offset)
	if src.Type == domain.BlockTypeTask {
		domain.ConvertType(after, domain.BlockTypeTask)
	}
	after.Properties.ParentID = src.Properties.ParentID
	after.Properties.ColumnIndex = src.Properties.ColumnIndex
	after.Properties.ParentTabID = src.Properties.ParentTabID
	after.Properties.Indent = src.Properties.Indent
	if after.Properties.ParentID != "" {
		s.insertIntoContainerAfter(after.Properties.ParentID, id, after.ID)
	}

	s.Doc.Blocks[i] = *before
	s.insertAt(i+1, *after)
	s.ActiveBlockID = after.ID
	s.touch()
}

// MergeWithPrevious absorbs the block into its predecessor. No-op at index
// zero and an explicit no-op when either side is not a plain text block,
// which keeps container children listings intact.
func (s *Session) MergeWithPrevious(id string) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i <= 0 {
		return
	}
	cur := &s.Doc.Blocks[i]
	prev := &s.Doc.Blocks[i-1]
	if !cur.Type.IsTextual() || !prev.Type.IsTextual() {
		return
	}
	s.SaveToHistory()

	merged := domain.Merge(prev, cur)
	s.Doc.Blocks[i-1] = *merged
	s.Doc.Blocks = append(s.Doc.Blocks[:i], s.Doc.Blocks[i+1:]...)
	s.removeFromContainers(id)
	s.ActiveBlockID = merged.ID
	s.touch()
}

// ConvertBlockType changes a block's type, resetting properties to the new
// type's factory defaults (regenerated sub-ids for containers). Converting a
// container away from its type cascades its children. Optional newContent
// overrides the content.
func (s *Session) ConvertBlockType(id string, newType domain.BlockType, newContent ...string) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i < 0 {
		return
	}
	s.SaveToHistory()

	if s.Doc.Blocks[i].Type.IsContainer() && s.Doc.Blocks[i].Type != newType {
		s.cascadeDeleteChildren(id)
		i = domain.FindIndex(s.Doc.Blocks, id)
	}
	b := &s.Doc.Blocks[i]
	domain.ConvertType(b, newType)
	if len(newContent) > 0 {
		b.Content = newContent[0]
	}
	s.touch()
}

// MoveBlock removes the block and reinserts it at toIndex, with list-splice
// semantics: toIndex addresses the array after removal. Same-position moves
// are no-ops.
func (s *Session) MoveBlock(id string, toIndex int) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i < 0 || i == toIndex {
		return
	}
	s.SaveToHistory()

	b := s.Doc.Blocks[i]
	rest := append(s.Doc.Blocks[:i], s.Doc.Blocks[i+1:]...)
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(rest) {
		toIndex = len(rest)
	}
	rest = append(rest, domain.Block{})
	copy(rest[toIndex+1:], rest[toIndex:])
	rest[toIndex] = b
	s.Doc.Blocks = rest
	s.touch()
}

// DuplicateBlock inserts a deep copy immediately after the source block.
// Duplicating a container also duplicates every descendant with fresh ids so
// each child still belongs to exactly one container.
func (s *Session) DuplicateBlock(id string) {
	i := domain.FindIndex(s.Doc.Blocks, id)
	if i < 0 {
		return
	}
	s.SaveToHistory()

	dup, nested := s.duplicateSubtree(&s.Doc.Blocks[i])
	s.insertAt(i+1, *dup)
	for j, child := range nested {
		s.insertAt(i+2+j, child)
	}
	s.ActiveBlockID = dup.ID
	s.touch()
}

// IndentBlock increases the block's indent level, clamped to 3.
func (s *Session) IndentBlock(id string) {
	s.shiftIndent(id, 1)
}

// OutdentBlock decreases the block's indent level, clamped to 0.
func (s *Session) OutdentBlock(id string) {
	s.shiftIndent(id, -1)
}

func (s *Session) shiftIndent(id string, delta int) {
	b := domain.FindByID(s.Doc.Blocks, id)
	if b == nil {
		return
	}
	s.SaveToHistory()
	b.Properties.Indent = clampIndent(b.Properties.Indent + delta)
	s.touch()
}

func clampIndent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}

// InsertBlocksAtPosition splices a whole block list in after afterID (or
// appends). The last inserted block becomes active. This is the entry point
// for pasted or imported content.
func (s *Session) InsertBlocksAtPosition(afterID string, blocks []domain.Block) {
	if len(blocks) == 0 {
		return
	}
	s.SaveToHistory()
	pos := domain.FindIndex(s.Doc.Blocks, afterID) + 1
	if pos <= 0 || pos > len(s.Doc.Blocks) {
		pos = len(s.Doc.Blocks)
	}
	for j, b := range blocks {
		s.insertAt(pos+j, b)
	}
	s.ActiveBlockID = blocks[len(blocks)-1].ID
	s.touch()
}
