package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"blockpad/internal/editor"
	"blockpad/internal/service"
)

// Server is the MCP server for the block editor. It exposes document and
// block tools so AI agents can read and edit documents headlessly.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter
	docs    *service.DocumentService

	// Open editing sessions by document id. One logical writer per
	// document; sessions live for the server's lifetime.
	sessions map[string]*editor.Session

	// Active document context (set by the set_active_document tool).
	activeDocID string
}

// Deps holds the dependencies passed to the MCP server.
type Deps struct {
	Emitter   service.EventEmitter
	Documents *service.DocumentService
}

// New creates and configures an MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter:  deps.Emitter,
		docs:     deps.Documents,
		sessions: map[string]*editor.Session{},
	}

	s.mcp = server.NewMCPServer(
		"blockpad-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerDocumentTools()
	s.registerBlockTools()
	s.registerMarkdownTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// session returns (opening if needed) the editing session for a document.
func (s *Server) session(docID string) (*editor.Session, error) {
	if sess, ok := s.sessions[docID]; ok {
		return sess, nil
	}
	doc, err := s.docs.Get(docID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s not found", docID)
	}
	sess := editor.NewSession(doc)
	s.sessions[docID] = sess
	return sess, nil
}

// resolveSession returns the session for the docId argument, falling back
// to the active document.
func (s *Server) resolveSession(args map[string]any) (*editor.Session, error) {
	if docID, ok := args["docId"].(string); ok && docID != "" {
		return s.session(docID)
	}
	if s.activeDocID != "" {
		return s.session(s.activeDocID)
	}
	return nil, fmt.Errorf("no docId provided and no active document set (use set_active_document first)")
}

// autosave schedules persistence for a mutated session.
func (s *Server) autosave(sess *editor.Session) {
	s.docs.Autosave(sess.Doc)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
