package editor_test

import (
	"testing"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
)

func newTestSession(t *testing.T, contents ...string) *editor.Session {
	t.Helper()
	doc := domain.NewDocument("Test")
	if len(contents) > 0 {
		doc.Blocks = nil
		for _, c := range contents {
			doc.Blocks = append(doc.Blocks, *domain.NewBlock(domain.BlockTypeParagraph, c))
		}
	}
	return editor.NewSession(doc)
}

// assertInvariants checks the two document-wide invariants every command
// sequence must preserve: at least one block, and unique ids.
func assertInvariants(t *testing.T, s *editor.Session) {
	t.Helper()
	if len(s.Doc.Blocks) < 1 {
		t.Fatal("document must never be empty")
	}
	seen := map[string]bool{}
	for i := range s.Doc.Blocks {
		id := s.Doc.Blocks[i].ID
		if seen[id] {
			t.Fatalf("duplicate block id %s", id)
		}
		seen[id] = true
	}
}

func TestAddBlockAfter(t *testing.T) {
	s := newTestSession(t, "first", "second")
	b := domain.NewBlock(domain.BlockTypeQuote, "inserted")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, b)

	if s.Doc.Blocks[1].ID != b.ID {
		t.Errorf("block not inserted after first: %v", s.Doc.Blocks[1].Content)
	}
	if s.ActiveBlockID != b.ID {
		t.Error("new block must become active")
	}
	assertInvariants(t, s)
}

func TestAddBlockAfter_UnknownIDAppends(t *testing.T) {
	s := newTestSession(t, "first", "second")
	b := domain.NewBlock(domain.BlockTypeParagraph, "tail")
	s.AddBlockAfter("nope", b)
	if s.Doc.Blocks[len(s.Doc.Blocks)-1].ID != b.ID {
		t.Error("unknown afterID must append at the end")
	}
}

func TestDeleteBlock_LastBlockLeavesPlaceholder(t *testing.T) {
	s := newTestSession(t)
	only := s.Doc.Blocks[0].ID
	s.DeleteBlock(only)

	if len(s.Doc.Blocks) != 1 {
		t.Fatalf("expected placeholder block, got %d blocks", len(s.Doc.Blocks))
	}
	placeholder := &s.Doc.Blocks[0]
	if placeholder.Type != domain.BlockTypeParagraph || placeholder.Content != "" {
		t.Error("placeholder must be an empty paragraph")
	}
	if placeholder.ID == only {
		t.Error("placeholder must be a fresh block")
	}
	if s.ActiveBlockID != placeholder.ID {
		t.Error("placeholder must become active")
	}
}

func TestDeleteBlock_ActiveMovesToPreceding(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")
	s.DeleteBlock(s.Doc.Blocks[1].ID)
	if got := s.Doc.Blocks[0].ID; s.ActiveBlockID != got {
		t.Errorf("active = %s, want preceding block %s", s.ActiveBlockID, got)
	}
	assertInvariants(t, s)
}

func TestDeleteBlock_UnknownIDIsNoop(t *testing.T) {
	s := newTestSession(t, "a")
	before := len(s.Doc.Blocks)
	s.DeleteBlock("missing")
	if len(s.Doc.Blocks) != before {
		t.Error("deleting an unknown id must not mutate the document")
	}
}

func TestSplitBlock(t *testing.T) {
	s := newTestSession(t, "Hello World")
	id := s.Doc.Blocks[0].ID
	s.SplitBlock(id, 5)

	if len(s.Doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(s.Doc.Blocks))
	}
	before, after := &s.Doc.Blocks[0], &s.Doc.Blocks[1]
	if before.Content != "Hello" || before.ID != id {
		t.Errorf("before = %q (%s)", before.Content, before.ID)
	}
	if after.Content != " World" || after.Type != domain.BlockTypeParagraph {
		t.Errorf("after = %q (%s)", after.Content, after.Type)
	}
	if s.ActiveBlockID != after.ID {
		t.Error("after must be active")
	}
	assertInvariants(t, s)
}

func TestSplitBlock_TaskTailStaysTask(t *testing.T) {
	s := newTestSession(t)
	task := domain.NewBlock(domain.BlockTypeTask, "buy milk")
	s.AddBlockAfter("", task)
	s.SplitBlock(task.ID, 3)

	i := domain.FindIndex(s.Doc.Blocks, task.ID)
	after := &s.Doc.Blocks[i+1]
	if after.Type != domain.BlockTypeTask {
		t.Errorf("task split tail = %s, want task", after.Type)
	}
	if after.Properties.Checked {
		t.Error("split tail must start unchecked")
	}
}

func TestSplitBlock_NonTextIsNoop(t *testing.T) {
	s := newTestSession(t)
	img := domain.NewBlock(domain.BlockTypeImage, "http://x/y.png")
	s.AddBlockAfter("", img)
	count := len(s.Doc.Blocks)
	s.SplitBlock(img.ID, 2)
	if len(s.Doc.Blocks) != count {
		t.Error("splitting an image must be a no-op")
	}
}

func TestMergeWithPrevious(t *testing.T) {
	s := newTestSession(t, "Hello", " World")
	s.MergeWithPrevious(s.Doc.Blocks[1].ID)

	if len(s.Doc.Blocks) != 1 {
		t.Fatalf("expected 1 block after merge, got %d", len(s.Doc.Blocks))
	}
	if s.Doc.Blocks[0].Content != "Hello World" {
		t.Errorf("merged content = %q", s.Doc.Blocks[0].Content)
	}
	if s.ActiveBlockID != s.Doc.Blocks[0].ID {
		t.Error("merged block must be active")
	}
}

func TestMergeWithPrevious_FirstBlockIsNoop(t *testing.T) {
	s := newTestSession(t, "a", "b")
	s.MergeWithPrevious(s.Doc.Blocks[0].ID)
	if len(s.Doc.Blocks) != 2 {
		t.Error("merging the first block must be a no-op")
	}
}

func TestMergeWithPrevious_ContainerIsNoop(t *testing.T) {
	s := newTestSession(t, "text")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	tail := domain.NewBlock(domain.BlockTypeParagraph, "tail")
	s.AddBlockAfter(cols.ID, tail)

	s.MergeWithPrevious(tail.ID) // previous is a columns container
	if domain.FindIndex(s.Doc.Blocks, tail.ID) < 0 {
		t.Error("merging into a container must be a no-op")
	}
	s.MergeWithPrevious(cols.ID) // the container itself
	if domain.FindIndex(s.Doc.Blocks, cols.ID) < 0 {
		t.Error("merging a container must be a no-op")
	}
}

func TestConvertBlockType(t *testing.T) {
	s := newTestSession(t, "make me a heading")
	id := s.Doc.Blocks[0].ID
	s.ConvertBlockType(id, domain.BlockTypeHeading1)
	if s.Doc.Blocks[0].Type != domain.BlockTypeHeading1 {
		t.Error("type not converted")
	}
	if s.Doc.Blocks[0].Content != "make me a heading" {
		t.Error("conversion must keep content")
	}

	s.ConvertBlockType(id, domain.BlockTypeTask, "new content")
	if s.Doc.Blocks[0].Content != "new content" {
		t.Error("newContent override not applied")
	}
}

func TestConvertBlockType_ToTabsRegeneratesSubIDs(t *testing.T) {
	s := newTestSession(t, "x")
	id := s.Doc.Blocks[0].ID
	s.ConvertBlockType(id, domain.BlockTypeTabs)
	p := s.Doc.Blocks[0].Properties
	if len(p.Tabs) != 1 || p.Tabs[0].ID == "" || p.ActiveTabID != p.Tabs[0].ID {
		t.Errorf("tabs conversion must generate the initial tab: %+v", p)
	}
}

func TestMoveBlock_SpliceSemantics(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")
	a := s.Doc.Blocks[0].ID
	s.MoveBlock(a, 1)

	got := []string{s.Doc.Blocks[0].Content, s.Doc.Blocks[1].Content, s.Doc.Blocks[2].Content}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after move = %v, want %v", got, want)
		}
	}
}

func TestMoveBlock_SamePositionIsNoop(t *testing.T) {
	s := newTestSession(t, "a", "b")
	s.MoveBlock(s.Doc.Blocks[0].ID, 0)
	if s.Doc.Blocks[0].Content != "a" {
		t.Error("same-index move must be a no-op")
	}
	if s.CanUndo() {
		t.Error("a no-op move must not record history")
	}
}

func TestDuplicateBlock(t *testing.T) {
	s := newTestSession(t, "orig", "next")
	src := s.Doc.Blocks[0].ID
	s.DuplicateBlock(src)

	if len(s.Doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(s.Doc.Blocks))
	}
	dup := &s.Doc.Blocks[1]
	if dup.Content != "orig" || dup.ID == src {
		t.Errorf("duplicate = %q (%s)", dup.Content, dup.ID)
	}
	if s.ActiveBlockID != dup.ID {
		t.Error("duplicate must be active")
	}
	assertInvariants(t, s)
}

func TestIndentBlock_Clamped(t *testing.T) {
	s := newTestSession(t, "x")
	id := s.Doc.Blocks[0].ID
	for i := 0; i < 5; i++ {
		s.IndentBlock(id)
	}
	if got := s.Doc.Blocks[0].Properties.Indent; got != 3 {
		t.Errorf("indent after 5 calls = %d, want 3", got)
	}
	for i := 0; i < 9; i++ {
		s.OutdentBlock(id)
	}
	if got := s.Doc.Blocks[0].Properties.Indent; got != 0 {
		t.Errorf("indent after outdents = %d, want 0", got)
	}
}

func TestUpdateProperties_ShallowMerge(t *testing.T) {
	s := newTestSession(t)
	task := domain.NewBlock(domain.BlockTypeTask, "check me")
	s.AddBlockAfter("", task)

	checked := true
	s.UpdateProperties(task.ID, editor.PropertyPatch{Checked: &checked})
	b := domain.FindByID(s.Doc.Blocks, task.ID)
	if !b.Properties.Checked {
		t.Error("patch field not applied")
	}

	lang := "go"
	s.UpdateProperties(task.ID, editor.PropertyPatch{Language: &lang})
	b = domain.FindByID(s.Doc.Blocks, task.ID)
	if !b.Properties.Checked || b.Properties.Language != "go" {
		t.Error("later patch must not reset earlier fields")
	}
}

func TestInsertBlocksAtPosition(t *testing.T) {
	s := newTestSession(t, "a", "b")
	blocks := []domain.Block{
		*domain.NewBlock(domain.BlockTypeParagraph, "x"),
		*domain.NewBlock(domain.BlockTypeParagraph, "y"),
	}
	s.InsertBlocksAtPosition(s.Doc.Blocks[0].ID, blocks)

	got := []string{s.Doc.Blocks[0].Content, s.Doc.Blocks[1].Content, s.Doc.Blocks[2].Content, s.Doc.Blocks[3].Content}
	want := []string{"a", "x", "y", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if s.ActiveBlockID != blocks[1].ID {
		t.Error("last inserted block must be active")
	}
	assertInvariants(t, s)
}

func TestInvariants_UnderCommandSequence(t *testing.T) {
	s := newTestSession(t, "one", "two", "three")
	ids := func(i int) string { return s.Doc.Blocks[i%len(s.Doc.Blocks)].ID }

	s.SplitBlock(ids(0), 2)
	s.DuplicateBlock(ids(1))
	s.MoveBlock(ids(2), 0)
	s.ConvertBlockType(ids(1), domain.BlockTypeQuote)
	s.MergeWithPrevious(ids(2))
	s.DeleteBlock(ids(0))
	s.Undo()
	s.Redo()
	assertInvariants(t, s)
}
