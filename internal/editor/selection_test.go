package editor_test

import (
	"testing"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
)

func TestCycleSelection_ThreeStepsReturnToNone(t *testing.T) {
	s := newTestSession(t, "a", "b")

	s.CycleSelection()
	if s.SelectionLevel() != editor.SelectionBlock {
		t.Fatalf("level after 1 cycle = %d", s.SelectionLevel())
	}
	if ids := s.SelectedBlockIDs(); len(ids) != 1 || ids[0] != s.ActiveBlockID {
		t.Errorf("level 1 selection = %v, want just the active block", ids)
	}

	s.CycleSelection()
	if s.SelectionLevel() != editor.SelectionAllTop {
		t.Fatalf("level after 2 cycles = %d", s.SelectionLevel())
	}

	s.CycleSelection()
	if s.SelectionLevel() != editor.SelectionNone || s.SelectedBlockIDs() != nil {
		t.Error("third cycle must clear the selection")
	}
}

func TestCycleSelection_LevelTwoIsTopLevelOnly(t *testing.T) {
	s := newTestSession(t, "top")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	s.AddBlockToColumn(cols.ID, 0, domain.NewBlock(domain.BlockTypeParagraph, "nested"))

	s.SetActiveBlock(s.Doc.Blocks[0].ID)
	s.CycleSelection()
	s.CycleSelection()

	ids := s.SelectedBlockIDs()
	if len(ids) != 2 {
		t.Fatalf("level 2 selected %d blocks, want the 2 top-level ones", len(ids))
	}
	for _, id := range ids {
		b := domain.FindByID(s.Doc.Blocks, id)
		if b.HasParent() {
			t.Errorf("nested block %s selected at level 2", id)
		}
	}
}

func TestSetActiveBlock_ResetsSelection(t *testing.T) {
	s := newTestSession(t, "a", "b")
	s.CycleSelection()
	s.SetActiveBlock(s.Doc.Blocks[1].ID)
	if s.SelectionLevel() != editor.SelectionNone {
		t.Error("moving focus must reset the selection cycle")
	}
}

func TestDeleteSelectedBlocks_AllTopLeavesPlaceholder(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")
	s.CycleSelection()
	s.CycleSelection()
	s.DeleteSelectedBlocks()

	if len(s.Doc.Blocks) != 1 {
		t.Fatalf("got %d blocks, want a single placeholder", len(s.Doc.Blocks))
	}
	if s.Doc.Blocks[0].Content != "" || s.Doc.Blocks[0].Type != domain.BlockTypeParagraph {
		t.Error("placeholder must be an empty paragraph")
	}
	if s.ActiveBlockID != s.Doc.Blocks[0].ID {
		t.Error("placeholder must be active")
	}
	if s.SelectionLevel() != editor.SelectionNone {
		t.Error("selection must reset after deletion")
	}
}

func TestDeleteSelectedBlocks_CascadesContainers(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	child := domain.NewBlock(domain.BlockTypeParagraph, "nested")
	s.AddBlockToColumn(cols.ID, 1, child)

	s.SetActiveBlock(cols.ID)
	s.CycleSelection() // just the container
	s.DeleteSelectedBlocks()

	if domain.FindIndex(s.Doc.Blocks, child.ID) >= 0 {
		t.Error("deleting the container must cascade to its children")
	}
	assertInvariants(t, s)
}
