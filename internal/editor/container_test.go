package editor_test

import (
	"testing"

	"blockpad/internal/domain"
)

func TestAddBlockToColumn(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)

	child := domain.NewBlock(domain.BlockTypeParagraph, "in col 1")
	s.AddBlockToColumn(cols.ID, 1, child)

	got := domain.FindByID(s.Doc.Blocks, child.ID)
	if got == nil {
		t.Fatal("child not in the flat collection")
	}
	if got.Properties.ParentID != cols.ID || got.Properties.ColumnIndex != 1 {
		t.Errorf("back-reference = %q/%d", got.Properties.ParentID, got.Properties.ColumnIndex)
	}
	container := domain.FindByID(s.Doc.Blocks, cols.ID)
	if len(container.ColumnChildren) != 1 || container.ColumnChildren[0].BlockIDs[0] != child.ID {
		t.Errorf("container listing = %+v", container.ColumnChildren)
	}
	if s.ActiveBlockID != child.ID {
		t.Error("nested block must become active")
	}
}

func TestAddBlockToColumn_WrongTypeIsNoop(t *testing.T) {
	s := newTestSession(t, "plain")
	before := len(s.Doc.Blocks)
	s.AddBlockToColumn(s.Doc.Blocks[0].ID, 0, domain.NewBlock(domain.BlockTypeParagraph, "x"))
	if len(s.Doc.Blocks) != before {
		t.Error("adding to a non-columns block must be a no-op")
	}
}

func TestAddBlockToTab(t *testing.T) {
	s := newTestSession(t, "intro")
	tabs := domain.NewBlock(domain.BlockTypeTabs, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, tabs)
	tabID := tabs.Properties.Tabs[0].ID

	child := domain.NewBlock(domain.BlockTypeParagraph, "in tab")
	s.AddBlockToTab(tabs.ID, tabID, child)

	got := domain.FindByID(s.Doc.Blocks, child.ID)
	if got.Properties.ParentID != tabs.ID || got.Properties.ParentTabID != tabID {
		t.Errorf("back-reference = %q/%q", got.Properties.ParentID, got.Properties.ParentTabID)
	}
	container := domain.FindByID(s.Doc.Blocks, tabs.ID)
	if ids := container.TabChildren[tabID]; len(ids) != 1 || ids[0] != child.ID {
		t.Errorf("tab listing = %v", ids)
	}
}

func TestRemoveBlockFromContainer(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	child := domain.NewBlock(domain.BlockTypeParagraph, "nested")
	s.AddBlockToColumn(cols.ID, 0, child)

	s.RemoveBlockFromContainer(child.ID)

	got := domain.FindByID(s.Doc.Blocks, child.ID)
	if got.HasParent() {
		t.Error("back-reference must be cleared")
	}
	container := domain.FindByID(s.Doc.Blocks, cols.ID)
	for _, col := range container.ColumnChildren {
		for _, id := range col.BlockIDs {
			if id == child.ID {
				t.Error("listing entry must be removed")
			}
		}
	}
}

func TestAddAndRemoveTab(t *testing.T) {
	s := newTestSession(t, "intro")
	tabs := domain.NewBlock(domain.BlockTypeTabs, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, tabs)
	firstTab := tabs.Properties.Tabs[0].ID

	newTab := s.AddTab(tabs.ID)
	if newTab == "" {
		t.Fatal("AddTab returned no id")
	}
	container := domain.FindByID(s.Doc.Blocks, tabs.ID)
	if len(container.Properties.Tabs) != 2 || container.Properties.ActiveTabID != newTab {
		t.Errorf("after AddTab: %+v", container.Properties)
	}

	child := domain.NewBlock(domain.BlockTypeParagraph, "doomed")
	s.AddBlockToTab(tabs.ID, newTab, child)
	s.RemoveTab(tabs.ID, newTab)

	container = domain.FindByID(s.Doc.Blocks, tabs.ID)
	if len(container.Properties.Tabs) != 1 {
		t.Errorf("tabs after remove = %d, want 1", len(container.Properties.Tabs))
	}
	if container.Properties.ActiveTabID != firstTab {
		t.Error("active tab must be repaired after removing the active one")
	}
	if domain.FindIndex(s.Doc.Blocks, child.ID) >= 0 {
		t.Error("removing a tab must cascade its children")
	}
}

func TestRemoveTab_LastTabIsNoop(t *testing.T) {
	s := newTestSession(t, "intro")
	tabs := domain.NewBlock(domain.BlockTypeTabs, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, tabs)

	s.RemoveTab(tabs.ID, tabs.Properties.Tabs[0].ID)
	container := domain.FindByID(s.Doc.Blocks, tabs.ID)
	if len(container.Properties.Tabs) != 1 {
		t.Error("removing the last tab must be a no-op")
	}
}

func TestSetColumnCount_ReflowsOverflow(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	s.SetColumnCount(cols.ID, 3)

	left := domain.NewBlock(domain.BlockTypeParagraph, "left")
	right := domain.NewBlock(domain.BlockTypeParagraph, "right")
	s.AddBlockToColumn(cols.ID, 0, left)
	s.AddBlockToColumn(cols.ID, 2, right)

	s.SetColumnCount(cols.ID, 2)

	container := domain.FindByID(s.Doc.Blocks, cols.ID)
	if container.Properties.Count != 2 || len(container.Properties.Widths) != 2 {
		t.Errorf("columns after resize: %+v", container.Properties)
	}
	moved := domain.FindByID(s.Doc.Blocks, right.ID)
	if moved.Properties.ColumnIndex != 1 {
		t.Errorf("overflow child column = %d, want last column 1", moved.Properties.ColumnIndex)
	}
}

func TestSetColumnCount_OutOfRangeIsNoop(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)

	s.SetColumnCount(cols.ID, 0)
	s.SetColumnCount(cols.ID, 5)
	container := domain.FindByID(s.Doc.Blocks, cols.ID)
	if container.Properties.Count != 2 {
		t.Error("out-of-range counts must be no-ops")
	}
}

func TestDuplicateBlock_ContainerGetsFreshChildIDs(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	child := domain.NewBlock(domain.BlockTypeParagraph, "nested")
	s.AddBlockToColumn(cols.ID, 0, child)

	s.DuplicateBlock(cols.ID)

	var copies []*domain.Block
	for i := range s.Doc.Blocks {
		b := &s.Doc.Blocks[i]
		if b.Type == domain.BlockTypeColumns && b.ID != cols.ID {
			copies = append(copies, b)
		}
	}
	if len(copies) != 1 {
		t.Fatalf("expected 1 duplicated container, got %d", len(copies))
	}
	dup := copies[0]
	dupChildID := dup.ColumnChildren[0].BlockIDs[0]
	if dupChildID == child.ID {
		t.Fatal("duplicated container must not share child ids with the source")
	}
	dupChild := domain.FindByID(s.Doc.Blocks, dupChildID)
	if dupChild == nil || dupChild.Properties.ParentID != dup.ID {
		t.Error("duplicated child must point at the duplicated container")
	}
	assertInvariants(t, s)
}

func TestConvertBlockType_LeavingContainerCascades(t *testing.T) {
	s := newTestSession(t, "intro")
	cols := domain.NewBlock(domain.BlockTypeColumns, "")
	s.AddBlockAfter(s.Doc.Blocks[0].ID, cols)
	child := domain.NewBlock(domain.BlockTypeParagraph, "nested")
	s.AddBlockToColumn(cols.ID, 0, child)

	s.ConvertBlockType(cols.ID, domain.BlockTypeParagraph)

	if domain.FindIndex(s.Doc.Blocks, child.ID) >= 0 {
		t.Error("converting a container away must delete its children")
	}
	assertInvariants(t, s)
}
