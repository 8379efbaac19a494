package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "blockpad/internal/mcp"
	"blockpad/internal/service"
	"blockpad/internal/storage"
)

// blockpad runs as a standalone MCP server on stdin/stdout: storage and
// services come up, documents are editable through the tool surface, and
// everything persists to the local SQLite file.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "blockpad")
	dbPath := filepath.Join(dataDir, "blockpad.db")

	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := service.NoopEmitter{}
	docs := service.NewDocumentService(storage.NewDocumentStore(db), storage.NewSnapshotStore(db), emitter)
	if err := docs.StartJanitor("@every 5m"); err != nil {
		log.Fatalf("Failed to start snapshot janitor: %v", err)
	}
	defer docs.StopJanitor()
	defer docs.Flush()

	watcher, err := service.NewFileWatcher(docs)
	if err != nil {
		log.Fatalf("Failed to create file watcher: %v", err)
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	srv := mcpserver.New(mcpserver.Deps{
		Emitter:   emitter,
		Documents: docs,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := srv.ServeStdio(); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
