package textract

import (
	"fmt"
)

// Document holds the full block collection of one analyzed document.
// Blocks keeps the original response order; pageBlocks keeps the PAGE
// blocks in page order so per-page iteration stays deterministic.
type Document struct {
	Metadata DocumentMetadata
	Blocks   []*Block

	byID       map[string]*Block
	pageBlocks []*Block
}

// DocumentMetadata mirrors the response metadata
type DocumentMetadata struct {
	Pages int `json:"Pages"`
}

// NewDocument assembles a Document from a flat block list.
// It indexes blocks by id and derives page numbers for blocks that carry
// none (single-page responses leave the Page attribute empty) by walking
// the CHILD closure of each PAGE block.
func NewDocument(blocks []*Block) (*Document, error) {
	doc := &Document{
		Blocks: blocks,
		byID:   make(map[string]*Block, len(blocks)),
	}
	for _, b := range blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("block without id (type %s)", b.BlockType)
		}
		if _, dup := doc.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate block id %s", b.ID)
		}
		doc.byID[b.ID] = b
		if b.BlockType == BlockTypePage {
			doc.pageBlocks = append(doc.pageBlocks, b)
		}
	}
	doc.assignPageNumbers()
	doc.Metadata.Pages = len(doc.pageBlocks)
	return doc, nil
}

// assignPageNumbers stamps the 1-based page number onto every block
// reachable from a PAGE block, following CHILD and VALUE edges.
func (d *Document) assignPageNumbers() {
	for i, page := range d.pageBlocks {
		num := i + 1
		if page.Page != 0 {
			num = page.Page
		} else {
			page.Page = num
		}
		stack := append([]string(nil), page.ChildIDs()...)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b, ok := d.byID[id]
			if !ok || b.Page != 0 {
				continue
			}
			b.Page = num
			stack = append(stack, b.ChildIDs()...)
			stack = append(stack, b.ValueIDs()...)
		}
	}
}

// PageCount returns the number of pages
func (d *Document) PageCount() int { return len(d.pageBlocks) }

// PageBlock returns the PAGE block of the 1-based page number
func (d *Document) PageBlock(page int) (*Block, bool) {
	if page < 1 || page > len(d.pageBlocks) {
		return nil, false
	}
	return d.pageBlocks[page-1], true
}

// BlockByID looks up a block by identifier
func (d *Document) BlockByID(id string) (*Block, bool) {
	b, ok := d.byID[id]
	return b, ok
}

// BlocksOnPage returns the blocks of one page in document order
func (d *Document) BlocksOnPage(page int) []*Block {
	var result []*Block
	for _, b := range d.Blocks {
		if b.Page == page {
			result = append(result, b)
		}
	}
	return result
}

// AddBlock appends a new block to the document and links it as a child of
// the given page. Existing blocks are never modified; this is the only
// mutation the document supports.
func (d *Document) AddBlock(page int, b *Block) error {
	if b.ID == "" {
		return fmt.Errorf("block without id (type %s)", b.BlockType)
	}
	if _, dup := d.byID[b.ID]; dup {
		return fmt.Errorf("duplicate block id %s", b.ID)
	}
	pageBlock, ok := d.PageBlock(page)
	if !ok {
		return fmt.Errorf("page %d out of range (document has %d pages)", page, len(d.pageBlocks))
	}
	b.Page = page
	d.Blocks = append(d.Blocks, b)
	d.byID[b.ID] = b

	for i := range pageBlock.Relationships {
		if pageBlock.Relationships[i].Type == RelationshipChild {
			pageBlock.Relationships[i].IDs = append(pageBlock.Relationships[i].IDs, b.ID)
			return nil
		}
	}
	pageBlock.Relationships = append(pageBlock.Relationships, Relationship{
		Type: RelationshipChild,
		IDs:  []string{b.ID},
	})
	return nil
}
