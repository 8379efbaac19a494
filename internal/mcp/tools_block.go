package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockpad/internal/domain"
	"blockpad/internal/markdown"
)

func (s *Server) registerBlockTools() {
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List a document's blocks in order with ids, types and content"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleListBlocks)

	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Insert a new block after an existing one (or append at the end)"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("type", mcp.Description("Block type: paragraph, heading1-3, task, quote, code, image, divider, link"), mcp.Required()),
		mcp.WithString("content", mcp.Description("Block content")),
		mcp.WithString("afterBlockId", mcp.Description("Insert after this block (optional, appends when omitted)")),
	), s.handleAddBlock)

	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Replace a block's content"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New content"), mcp.Required()),
	), s.handleUpdateBlock)

	s.mcp.AddTool(mcp.NewTool("convert_block",
		mcp.WithDescription("Convert a block to another type, keeping its content"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Target block type"), mcp.Required()),
	), s.handleConvertBlock)

	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to a new position in the document"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("toIndex", mcp.Description("Target position (0-based, after removal)"), mcp.Required()),
	), s.handleMoveBlock)

	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block (container children are deleted too)"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleDeleteBlock)

	s.mcp.AddTool(mcp.NewTool("duplicate_block",
		mcp.WithDescription("Duplicate a block right after itself"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleDuplicateBlock)

	s.mcp.AddTool(mcp.NewTool("split_block",
		mcp.WithDescription("Split a text block at a content offset"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("offset", mcp.Description("Content offset to split at"), mcp.Required()),
	), s.handleSplitBlock)

	s.mcp.AddTool(mcp.NewTool("merge_block",
		mcp.WithDescription("Merge a text block into the preceding one"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleMergeBlock)

	s.mcp.AddTool(mcp.NewTool("indent_block",
		mcp.WithDescription("Increase or decrease a block's indent level"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("'in' or 'out'"), mcp.Required()),
	), s.handleIndentBlock)
}

// blockInfo is the tool-facing view of a block.
type blockInfo struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Indent   int    `json:"indent,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
}

func (s *Server) handleListBlocks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.resolveSession(req.GetArguments())
	if err != nil {
		return nil, err
	}
	infos := make([]blockInfo, 0, len(sess.Doc.Blocks))
	for i := range sess.Doc.Blocks {
		b := &sess.Doc.Blocks[i]
		infos = append(infos, blockInfo{
			ID:       b.ID,
			Type:     string(b.Type),
			Content:  b.Content,
			Indent:   b.Properties.Indent,
			ParentID: b.Properties.ParentID,
			Checked:  b.Properties.Checked,
		})
	}
	return jsonResult(infos)
}

func (s *Server) handleAddBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockType, _ := args["type"].(string)
	content, _ := args["content"].(string)
	afterID, _ := args["afterBlockId"].(string)

	b := domain.NewBlock(domain.BlockType(blockType), content)
	sess.AddBlockAfter(afterID, b)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s added", b.ID)), nil
}

func (s *Server) handleUpdateBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	content, _ := args["content"].(string)
	if domain.FindIndex(sess.Doc.Blocks, blockID) < 0 {
		return nil, fmt.Errorf("block %s not found", blockID)
	}
	sess.UpdateContent(blockID, content)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s updated", blockID)), nil
}

func (s *Server) handleConvertBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	blockType, _ := args["type"].(string)
	sess.ConvertBlockType(blockID, domain.BlockType(blockType))
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s converted to %s", blockID, blockType)), nil
}

func (s *Server) handleMoveBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	toIndex, _ := args["toIndex"].(float64)
	sess.MoveBlock(blockID, int(toIndex))
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s moved to %d", blockID, int(toIndex))), nil
}

func (s *Server) handleDeleteBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	sess.DeleteBlock(blockID)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s deleted", blockID)), nil
}

func (s *Server) handleDuplicateBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	sess.DuplicateBlock(blockID)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s duplicated (new block %s)", blockID, sess.ActiveBlockID)), nil
}

func (s *Server) handleSplitBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	offset, _ := args["offset"].(float64)
	sess.SplitBlock(blockID, int(offset))
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s split at %d", blockID, int(offset))), nil
}

func (s *Server) handleMergeBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	sess.MergeWithPrevious(blockID)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s merged into its predecessor", blockID)), nil
}

func (s *Server) handleIndentBlock(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	direction, _ := args["direction"].(string)
	if direction == "out" {
		sess.OutdentBlock(blockID)
	} else {
		sess.IndentBlock(blockID)
	}
	s.autosave(sess)
	return textResult(fmt.Sprintf("Block %s indent changed", blockID)), nil
}

func (s *Server) registerMarkdownTools() {
	s.mcp.AddTool(mcp.NewTool("paste_markdown",
		mcp.WithDescription("Parse Markdown and insert the resulting blocks into a document"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("content", mcp.Description("Markdown source"), mcp.Required()),
		mcp.WithString("afterBlockId", mcp.Description("Insert after this block (optional, appends when omitted)")),
	), s.handlePasteMarkdown)

	s.mcp.AddTool(mcp.NewTool("append_markdown",
		mcp.WithDescription("Append text to an existing block's content"),
		mcp.WithString("docId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("Text to append"), mcp.Required()),
	), s.handleAppendMarkdown)
}

func (s *Server) handlePasteMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	content, _ := args["content"].(string)
	afterID, _ := args["afterBlockId"].(string)

	imported := markdown.Import(content)
	sess.InsertBlocksAtPosition(afterID, imported.Blocks)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Inserted %d blocks", len(imported.Blocks))), nil
}

func (s *Server) handleAppendMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.resolveSession(args)
	if err != nil {
		return nil, err
	}
	blockID, _ := args["blockId"].(string)
	appendText, _ := args["content"].(string)
	b := domain.FindByID(sess.Doc.Blocks, blockID)
	if b == nil {
		return nil, fmt.Errorf("block %s not found", blockID)
	}
	sess.UpdateContent(blockID, b.Content+appendText)
	s.autosave(sess)
	return textResult(fmt.Sprintf("Appended %d chars to block %s", len(appendText), blockID)), nil
}
