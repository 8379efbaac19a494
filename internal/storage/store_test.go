package storage

import (
	"path/filepath"
	"testing"
	"time"

	"blockpad/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore(openTestDB(t))

	doc := domain.NewDocument("First")
	doc.Blocks[0].Content = "hello"
	if err := store.Save(doc); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	got, err := store.Get(doc.ID)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got == nil {
		t.Fatal("expected document, got nil")
	}
	if got.Title != "First" || len(got.Blocks) != 1 || got.Blocks[0].Content != "hello" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestDocumentStore_GetMissingIsNil(t *testing.T) {
	store := NewDocumentStore(openTestDB(t))
	got, err := store.Get("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("missing document must return nil, nil")
	}
}

func TestDocumentStore_SaveUpserts(t *testing.T) {
	store := NewDocumentStore(openTestDB(t))
	doc := domain.NewDocument("v1")
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}
	doc.Title = "v2"
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Title != "v2" {
		t.Errorf("upsert result: %+v", all)
	}
}

func TestDocumentStore_GetAllNewestFirst(t *testing.T) {
	store := NewDocumentStore(openTestDB(t))
	old := domain.NewDocument("old")
	if err := store.Save(old); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	recent := domain.NewDocument("recent")
	if err := store.Save(recent); err != nil {
		t.Fatal(err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Title != "recent" {
		t.Errorf("expected newest first, got %+v", all)
	}
}

func TestDocumentStore_Delete(t *testing.T) {
	db := openTestDB(t)
	store := NewDocumentStore(db)
	snaps := NewSnapshotStore(db)

	doc := domain.NewDocument("doomed")
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}
	if _, err := snaps.CreateSnapshot(doc.ID, doc.Blocks); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(doc.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	got, _ := store.Get(doc.ID)
	if got != nil {
		t.Error("document still present after delete")
	}
	left, _ := snaps.ListSnapshots(doc.ID, 0)
	if len(left) != 0 {
		t.Error("snapshots must be deleted with the document")
	}
}

func TestDocumentStore_LinkedFile(t *testing.T) {
	store := NewDocumentStore(openTestDB(t))
	doc := domain.NewDocument("linked")
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}

	path, err := store.LinkedFile(doc.ID)
	if err != nil || path != "" {
		t.Fatalf("fresh document linked file = %q, %v", path, err)
	}
	if err := store.SetLinkedFile(doc.ID, "/tmp/linked.md"); err != nil {
		t.Fatal(err)
	}
	path, err = store.LinkedFile(doc.ID)
	if err != nil || path != "/tmp/linked.md" {
		t.Errorf("linked file = %q, %v", path, err)
	}
}

func TestSnapshotStore_CreateAndList(t *testing.T) {
	db := openTestDB(t)
	store := NewDocumentStore(db)
	snaps := NewSnapshotStore(db)

	doc := domain.NewDocument("snapped")
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		doc.Blocks[0].Content = string(rune('a' + i))
		if _, err := snaps.CreateSnapshot(doc.ID, doc.Blocks); err != nil {
			t.Fatalf("Failed to create snapshot: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	all, err := snaps.ListSnapshots(doc.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(all))
	}
	if all[0].Blocks[0].Content != "c" {
		t.Errorf("newest snapshot first, got %q", all[0].Blocks[0].Content)
	}

	limited, err := snaps.ListSnapshots(doc.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}
}

func TestSnapshotStore_Cleanup(t *testing.T) {
	db := openTestDB(t)
	store := NewDocumentStore(db)
	snaps := NewSnapshotStore(db)

	doc := domain.NewDocument("pruned")
	if err := store.Save(doc); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		doc.Blocks[0].Content = string(rune('a' + i))
		if _, err := snaps.CreateSnapshot(doc.ID, doc.Blocks); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := snaps.CleanupSnapshots(doc.ID, 2); err != nil {
		t.Fatalf("Failed to cleanup: %v", err)
	}
	left, err := snaps.ListSnapshots(doc.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 {
		t.Fatalf("got %d snapshots after cleanup, want 2", len(left))
	}
	// The newest two survive.
	if left[0].Blocks[0].Content != "e" || left[1].Blocks[0].Content != "d" {
		t.Errorf("wrong survivors: %q, %q", left[0].Blocks[0].Content, left[1].Blocks[0].Content)
	}
}
