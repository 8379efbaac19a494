package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/markdown"
)

func (s *Server) registerResources() {
	// ── blockpad://documents ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"blockpad://documents",
		"All Documents",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentsResource)

	// ── blockpad://document/{docId}/markdown ───────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"blockpad://document/{docId}/markdown",
			"Document as Markdown",
		),
		s.handleDocumentMarkdownResource,
	)
}

func (s *Server) handleDocumentsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs, err := s.docs.List()
	if err != nil {
		return nil, err
	}

	type docSummary struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Blocks int    `json:"blocks"`
	}
	var summaries []docSummary
	for _, d := range docs {
		summaries = append(summaries, docSummary{ID: d.ID, Title: d.Title, Blocks: len(d.Blocks)})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blockpad://documents",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDocumentMarkdownResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	docID := docIDFromURI(uri)
	sess, err := s.session(docID)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     markdown.Export(sess.Doc, true),
		},
	}, nil
}

// docIDFromURI extracts the id from "blockpad://document/{id}/markdown".
func docIDFromURI(uri string) string {
	const prefix = "blockpad://document/"
	rest := strings.TrimPrefix(uri, prefix)
	if idx := strings.IndexByte(rest, '/'); idx > 0 {
		return rest[:idx]
	}
	return ""
}
