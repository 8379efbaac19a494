package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/robfig/cron/v3"

	"blockpad/internal/domain"
	"blockpad/internal/markdown"
	"blockpad/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Document Service — lifecycle, autosave, snapshots, file boundary
// ─────────────────────────────────────────────────────────────

// Default autosave quiet period: bursts of keystrokes coalesce into one
// persisted write.
const autosaveQuiet = 800 * time.Millisecond

// How many stored snapshots each document keeps after a janitor pass.
const snapshotKeep = 20

// DocumentService owns document persistence around the in-memory editing
// session: CRUD against the store, debounced autosave, periodic snapshots
// and the Markdown file boundary. Persistence failures are logged and
// emitted, never fatal — the in-memory document stays editable and retries
// on the next debounce.
type DocumentService struct {
	store     *storage.DocumentStore
	snapshots *storage.SnapshotStore
	emitter   EventEmitter

	mu        sync.Mutex
	pending   map[string]*domain.Document // dirty documents awaiting the debounced save
	debounced func(func())

	janitor  *cron.Cron
	lastPass time.Time
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(store *storage.DocumentStore, snapshots *storage.SnapshotStore, emitter EventEmitter) *DocumentService {
	return &DocumentService{
		store:     store,
		snapshots: snapshots,
		emitter:   emitter,
		pending:   map[string]*domain.Document{},
		debounced: debounce.New(autosaveQuiet),
	}
}

// SetAutosaveQuiet overrides the debounce quiet period (tests use a short
// interval).
func (s *DocumentService) SetAutosaveQuiet(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounced = debounce.New(d)
}

// ── CRUD ───────────────────────────────────────────────────

// Create makes a new document with one empty paragraph and persists it.
func (s *DocumentService) Create(title string) (*domain.Document, error) {
	doc := domain.NewDocument(title)
	if err := s.store.Save(doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Get returns a document by id, nil when absent.
func (s *DocumentService) Get(id string) (*domain.Document, error) {
	return s.store.Get(id)
}

// List returns all documents, newest first.
func (s *DocumentService) List() ([]domain.Document, error) {
	return s.store.GetAll()
}

// Rename updates the title and persists immediately.
func (s *DocumentService) Rename(id, title string) error {
	doc, err := s.store.Get(id)
	if err != nil || doc == nil {
		return err
	}
	doc.Title = title
	return s.store.Save(doc)
}

// Delete removes a document and its snapshots from the store. The in-memory
// session, if any, is unaffected.
func (s *DocumentService) Delete(id string) error {
	return s.store.Delete(id)
}

// Save persists a document immediately, bypassing the debounce.
func (s *DocumentService) Save(doc *domain.Document) error {
	if err := s.store.Save(doc); err != nil {
		slog.Error("document save failed", "doc", doc.ID, "err", err)
		s.emitter.Emit(context.Background(), EventDocSaveFailed, map[string]string{"docId": doc.ID, "error": err.Error()})
		return err
	}
	s.emitter.Emit(context.Background(), EventDocSaved, map[string]string{"docId": doc.ID})
	return nil
}

// ── debounced autosave ─────────────────────────────────────

// Autosave schedules a persist after the quiet period; each new call
// cancels and restarts the timer, so a burst of edits produces one write.
func (s *DocumentService) Autosave(doc *domain.Document) {
	s.mu.Lock()
	s.pending[doc.ID] = doc
	fire := s.debounced
	s.mu.Unlock()
	fire(s.flushPending)
}

// Flush force-saves everything still pending. Called on session end
// (the page-hide analogue) so a superseded debounce cannot lose edits.
func (s *DocumentService) Flush() {
	s.flushPending()
}

func (s *DocumentService) flushPending() {
	s.mu.Lock()
	dirty := s.pending
	s.pending = map[string]*domain.Document{}
	s.mu.Unlock()

	for _, doc := range dirty {
		_ = s.Save(doc) // failure already logged+emitted; doc stays editable
	}
}

// ── snapshot janitor ───────────────────────────────────────

// StartJanitor begins the periodic snapshot pass on the given cron schedule
// (e.g. "@every 5m"): documents modified since the previous pass get a new
// stored snapshot, then each is pruned to the keep count.
func (s *DocumentService) StartJanitor(schedule string) error {
	s.janitor = cron.New()
	s.mu.Lock()
	s.lastPass = time.Now()
	s.mu.Unlock()
	if _, err := s.janitor.AddFunc(schedule, s.snapshotPass); err != nil {
		return fmt.Errorf("janitor schedule: %w", err)
	}
	s.janitor.Start()
	return nil
}

// StopJanitor halts the periodic pass.
func (s *DocumentService) StopJanitor() {
	if s.janitor != nil {
		s.janitor.Stop()
	}
}

func (s *DocumentService) snapshotPass() {
	s.mu.Lock()
	since := s.lastPass
	s.lastPass = time.Now()
	s.mu.Unlock()

	docs, err := s.store.GetAll()
	if err != nil {
		slog.Error("snapshot pass: list documents", "err", err)
		return
	}
	for i := range docs {
		doc := &docs[i]
		if doc.UpdatedAt.Before(since) {
			continue
		}
		if _, err := s.snapshots.CreateSnapshot(doc.ID, doc.Blocks); err != nil {
			slog.Error("snapshot pass: create", "doc", doc.ID, "err", err)
			continue
		}
		if err := s.snapshots.CleanupSnapshots(doc.ID, snapshotKeep); err != nil {
			slog.Error("snapshot pass: cleanup", "doc", doc.ID, "err", err)
		}
		s.emitter.Emit(context.Background(), EventDocSnapshot, map[string]string{"docId": doc.ID})
	}
}

// Snapshots lists stored snapshots for a document, newest first.
func (s *DocumentService) Snapshots(docID string, limit int) ([]domain.Snapshot, error) {
	return s.snapshots.ListSnapshots(docID, limit)
}

// ── Markdown file boundary ─────────────────────────────────

// ImportFile reads a Markdown file into a new persisted document.
func (s *DocumentService) ImportFile(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown file: %w", err)
	}
	doc := markdown.Import(string(data))
	if err := s.store.Save(doc); err != nil {
		return nil, fmt.Errorf("save imported document: %w", err)
	}
	return doc, nil
}

// ImportString builds a new persisted document from raw Markdown text.
func (s *DocumentService) ImportString(src string) (*domain.Document, error) {
	doc := markdown.Import(src)
	if err := s.store.Save(doc); err != nil {
		return nil, fmt.Errorf("save imported document: %w", err)
	}
	return doc, nil
}

// ExportFile writes the document as Markdown into dir, named after the
// sanitized title, and returns the file path.
func (s *DocumentService) ExportFile(doc *domain.Document, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, markdown.SanitizeFilename(doc.Title)+".md")
	if err := os.WriteFile(path, []byte(markdown.Export(doc, true)), 0644); err != nil {
		return "", fmt.Errorf("write markdown file: %w", err)
	}
	return path, nil
}

// LinkFile records path as the document's linked export target so the file
// watcher can pick up external edits.
func (s *DocumentService) LinkFile(docID, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	return s.store.SetLinkedFile(docID, abs)
}

// ReloadFromFile re-imports a linked file's content into the existing
// document, keeping its identity, and persists the result.
func (s *DocumentService) ReloadFromFile(docID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read linked file: %w", err)
	}
	doc, err := s.store.Get(docID)
	if err != nil || doc == nil {
		return err
	}
	imported := markdown.Import(string(data))
	doc.Title = imported.Title
	doc.Blocks = imported.Blocks
	if err := s.store.Save(doc); err != nil {
		return err
	}
	s.emitter.Emit(context.Background(), EventDocReloaded, map[string]string{"docId": docID})
	return nil
}
