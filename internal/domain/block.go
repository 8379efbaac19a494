package domain

import "time"

type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeHeading1  BlockType = "heading1"
	BlockTypeHeading2  BlockType = "heading2"
	BlockTypeHeading3  BlockType = "heading3"
	BlockTypeTask      BlockType = "task"
	BlockTypeQuote     BlockType = "quote"
	BlockTypeCode      BlockType = "code"
	BlockTypeImage     BlockType = "image"
	BlockTypeDivider   BlockType = "divider"
	BlockTypeLink      BlockType = "link"
	BlockTypeSection   BlockType = "section"
	BlockTypeGallery   BlockType = "gallery"
	BlockTypeColumns   BlockType = "columns"
	BlockTypeTabs      BlockType = "tabs"
)

// Block is a single typed unit of document content. All blocks of a document
// live in one flat collection; container blocks (columns, tabs) reference
// their children by id, and children carry a back-reference to the container
// in their properties.
type Block struct {
	ID         string     `json:"id"`
	Type       BlockType  `json:"type"`
	Content    string     `json:"content"` // text (possibly marked up), or a URL for image/link blocks
	Properties Properties `json:"properties"`
	// Children listings, only populated on container blocks.
	ColumnChildren []ColumnChildren    `json:"columnChildren,omitempty"` // columns type
	TabChildren    map[string][]string `json:"tabChildren,omitempty"`    // tabs type: tab id -> ordered block ids
	CreatedAt      time.Time           `json:"createdAt"`
}

// Properties holds the per-type state of a block. Which fields are meaningful
// is determined by Block.Type; serialization keeps only the populated ones.
type Properties struct {
	// Available on any block.
	Indent int `json:"indent,omitempty"` // 0..3

	// Back-reference to a container block, empty for top-level blocks.
	// ColumnIndex is meaningful when ParentID points at a columns block,
	// ParentTabID when it points at a tabs block.
	ParentID    string `json:"parentId,omitempty"`
	ColumnIndex int    `json:"columnIndex,omitempty"`
	ParentTabID string `json:"parentTabId,omitempty"`

	// task
	Checked bool `json:"checked,omitempty"`

	// code
	Language string `json:"language,omitempty"`

	// image
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`

	// link
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`

	// gallery
	Images []GalleryImage `json:"images,omitempty"`

	// tabs
	Tabs        []TabDef `json:"tabs,omitempty"`
	ActiveTabID string   `json:"activeTabId,omitempty"`

	// columns
	Count  int       `json:"count,omitempty"`
	Widths []float64 `json:"widths,omitempty"`
	Gap    int       `json:"gap,omitempty"`
}

// ColumnChildren lists the ordered child block ids of one column of a
// columns block.
type ColumnChildren struct {
	ColumnIndex int      `json:"columnIndex"`
	BlockIDs    []string `json:"blocks"`
}

// TabDef describes one tab of a tabs block.
type TabDef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GalleryImage is one entry of a gallery block.
type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// IsContainer reports whether the type holds other blocks by id.
func (t BlockType) IsContainer() bool {
	return t == BlockTypeColumns || t == BlockTypeTabs
}

// IsTextual reports whether Content is editable text that can be split and
// merged at a cursor position.
func (t BlockType) IsTextual() bool {
	switch t {
	case BlockTypeParagraph, BlockTypeHeading1, BlockTypeHeading2, BlockTypeHeading3,
		BlockTypeTask, BlockTypeQuote, BlockTypeCode, BlockTypeSection:
		return true
	}
	return false
}

// HasParent reports whether the block is nested inside a container block.
func (b *Block) HasParent() bool {
	return b.Properties.ParentID != ""
}
