package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/markdown"
)

func (s *Server) registerDocumentTools() {
	s.mcp.AddTool(mcp.NewTool("set_active_document",
		mcp.WithDescription("Set the document that subsequent tools operate on by default"),
		mcp.WithString("docId", mcp.Description("Document ID"), mcp.Required()),
	), s.handleSetActiveDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all documents with ids, titles and timestamps"),
	), s.handleListDocuments)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new empty document"),
		mcp.WithString("title", mcp.Description("Document title")),
	), s.handleCreateDocument)

	s.mcp.AddTool(mcp.NewTool("rename_document",
		mcp.WithDescription("Rename a document"),
		mcp.WithString("docId", mcp.Description("Document ID"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameDocument)

	s.mcp.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("Delete a document and its snapshots"),
		mcp.WithString("docId", mcp.Description("Document ID"), mcp.Required()),
	), s.handleDeleteDocument)

	s.mcp.AddTool(mcp.NewTool("export_markdown",
		mcp.WithDescription("Export a document as Markdown text"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleExportMarkdown)

	s.mcp.AddTool(mcp.NewTool("import_markdown",
		mcp.WithDescription("Create a new document from Markdown text"),
		mcp.WithString("content", mcp.Description("Markdown source"), mcp.Required()),
	), s.handleImportMarkdown)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last structural edit on a document"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo a previously undone edit on a document"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleRedo)
}

func (s *Server) handleSetActiveDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, _ := req.GetArguments()["docId"].(string)
	if _, err := s.session(docID); err != nil {
		return nil, err
	}
	s.activeDocID = docID
	return textResult(fmt.Sprintf("Active document set to %s", docID)), nil
}

func (s *Server) handleListDocuments(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.docs.List()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	type docInfo struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Blocks    int    `json:"blocks"`
		UpdatedAt string `json:"updatedAt"`
	}
	infos := make([]docInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, docInfo{ID: d.ID, Title: d.Title, Blocks: len(d.Blocks), UpdatedAt: d.UpdatedAt.Format("2006-01-02 15:04:05")})
	}
	return jsonResult(infos)
}

func (s *Server) handleCreateDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, _ := req.GetArguments()["title"].(string)
	if title == "" {
		title = "Untitled"
	}
	doc, err := s.docs.Create(title)
	if err != nil {
		return nil, err
	}
	s.activeDocID = doc.ID
	return jsonResult(doc)
}

func (s *Server) handleRenameDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	docID, _ := args["docId"].(string)
	title, _ := args["title"].(string)
	if err := s.docs.Rename(docID, title); err != nil {
		return nil, fmt.Errorf("rename document: %w", err)
	}
	if sess, ok := s.sessions[docID]; ok {
		sess.Doc.Title = title
	}
	return textResult(fmt.Sprintf("Document %s renamed to %q", docID, title)), nil
}

func (s *Server) handleDeleteDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, _ := req.GetArguments()["docId"].(string)
	if err := s.docs.Delete(docID); err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	delete(s.sessions, docID)
	if s.activeDocID == docID {
		s.activeDocID = ""
	}
	return textResult(fmt.Sprintf("Document %s deleted", docID)), nil
}

func (s *Server) handleExportMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.resolveSession(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return textResult(markdown.Export(sess.Doc, true)), nil
}

func (s *Server) handleImportMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, _ := req.GetArguments()["content"].(string)
	doc, err := s.docs.ImportString(content)
	if err != nil {
		return nil, fmt.Errorf("import markdown: %w", err)
	}
	s.activeDocID = doc.ID
	return textResult(fmt.Sprintf("Imported document %s (%q, %d blocks)", doc.ID, doc.Title, len(doc.Blocks))), nil
}

func (s *Server) handleUndo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.resolveSession(req.GetArguments())
	if err != nil {
		return nil, err
	}
	sess.Undo()
	s.autosave(sess)
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.resolveSession(req.GetArguments())
	if err != nil {
		return nil, err
	}
	sess.Redo()
	s.autosave(sess)
	return textResult("Redone"), nil
}
