package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewBlock creates a block of the given type with a fresh unique id and
// factory properties. Container types come out structurally usable (a tabs
// block always has its first tab).
func NewBlock(t BlockType, content string) *Block {
	b := &Block{
		ID:         uuid.New().String(),
		Type:       t,
		Content:    content,
		Properties: FactoryProperties(t),
		CreatedAt:  time.Now(),
	}
	switch t {
	case BlockTypeColumns:
		b.ColumnChildren = []ColumnChildren{}
	case BlockTypeTabs:
		b.TabChildren = map[string][]string{}
	}
	return b
}

// DefaultProperties returns the plain per-type property defaults. Types that
// need generated sub-ids (tabs) are handled by FactoryProperties; this table
// alone would leave a tabs block without its initial tab.
func DefaultProperties(t BlockType) Properties {
	switch t {
	case BlockTypeCode:
		return Properties{Language: "plaintext"}
	case BlockTypeColumns:
		return Properties{Count: 2, Widths: []float64{0.5, 0.5}, Gap: 16}
	case BlockTypeGallery:
		return Properties{Images: []GalleryImage{}}
	case BlockTypeTabs:
		return Properties{Tabs: []TabDef{}}
	default:
		return Properties{}
	}
}

// FactoryProperties returns DefaultProperties plus any structurally required
// generated sub-ids.
func FactoryProperties(t BlockType) Properties {
	p := DefaultProperties(t)
	if t == BlockTypeTabs {
		first := TabDef{ID: uuid.New().String(), Title: "Tab 1"}
		p.Tabs = []TabDef{first}
		p.ActiveTabID = first.ID
	}
	return p
}

// SplitAtCursor splits a text block at the given content offset. The first
// return keeps the block's id and type with the content before the offset;
// the second is always a new paragraph block holding the rest. Callers that
// want a different tail type (the mutation engine splitting a task) override
// it afterwards. The offset is clamped into [0, len(content)].
func SplitAtCursor(b *Block, offset int) (*Block, *Block) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.Content) {
		offset = len(b.Content)
	}
	before := b.Clone()
	before.Content = b.Content[:offset]
	after := NewBlock(BlockTypeParagraph, b.Content[offset:])
	return before, after
}

// Merge absorbs b into a: the result keeps a's id, type and properties with
// the concatenated content. b is considered consumed.
func Merge(a, b *Block) *Block {
	merged := a.Clone()
	merged.Content = a.Content + b.Content
	return merged
}

// Duplicate returns a deep copy of the block with a new id and a fresh
// creation timestamp. Properties and children are independently owned.
func Duplicate(b *Block) *Block {
	d := b.Clone()
	d.ID = uuid.New().String()
	d.CreatedAt = time.Now()
	return d
}

// ConvertType changes the block's type in place, keeping id and content and
// resetting properties to the new type's factory defaults. Back-references
// survive the conversion so nested blocks stay inside their container.
func ConvertType(b *Block, t BlockType) {
	backref := struct {
		parentID    string
		columnIndex int
		parentTabID string
		indent      int
	}{b.Properties.ParentID, b.Properties.ColumnIndex, b.Properties.ParentTabID, b.Properties.Indent}

	b.Type = t
	b.Properties = FactoryProperties(t)
	b.Properties.ParentID = backref.parentID
	b.Properties.ColumnIndex = backref.columnIndex
	b.Properties.ParentTabID = backref.parentTabID
	b.Properties.Indent = backref.indent

	b.ColumnChildren = nil
	b.TabChildren = nil
	switch t {
	case BlockTypeColumns:
		b.ColumnChildren = []ColumnChildren{}
	case BlockTypeTabs:
		b.TabChildren = map[string][]string{}
	}
}

// Clone returns a deep copy of the block. Slices and maps inside properties
// and children are copied, never shared.
func (b *Block) Clone() *Block {
	c := *b
	c.Properties = b.Properties.clone()
	if b.ColumnChildren != nil {
		c.ColumnChildren = make([]ColumnChildren, len(b.ColumnChildren))
		for i, col := range b.ColumnChildren {
			c.ColumnChildren[i] = ColumnChildren{
				ColumnIndex: col.ColumnIndex,
				BlockIDs:    append([]string(nil), col.BlockIDs...),
			}
		}
	}
	if b.TabChildren != nil {
		c.TabChildren = make(map[string][]string, len(b.TabChildren))
		for tabID, ids := range b.TabChildren {
			c.TabChildren[tabID] = append([]string(nil), ids...)
		}
	}
	return &c
}

func (p Properties) clone() Properties {
	c := p
	if p.Images != nil {
		c.Images = append([]GalleryImage(nil), p.Images...)
	}
	if p.Tabs != nil {
		c.Tabs = append([]TabDef(nil), p.Tabs...)
	}
	if p.Widths != nil {
		c.Widths = append([]float64(nil), p.Widths...)
	}
	return c
}

// CloneBlocks deep-copies a whole block slice. Used for history snapshots so
// entries never alias the live document.
func CloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i := range blocks {
		out[i] = *blocks[i].Clone()
	}
	return out
}
