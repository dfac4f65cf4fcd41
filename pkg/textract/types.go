package textract

// BlockType tags the kind of element a block represents
type BlockType string

// Block types produced by the AnalyzeDocument API
const (
	BlockTypePage             BlockType = "PAGE"
	BlockTypeLine             BlockType = "LINE"
	BlockTypeWord             BlockType = "WORD"
	BlockTypeKeyValueSet      BlockType = "KEY_VALUE_SET"
	BlockTypeSelectionElement BlockType = "SELECTION_ELEMENT"
	BlockTypeTable            BlockType = "TABLE"
	BlockTypeCell             BlockType = "CELL"
)

// RelationshipType tags an edge list on a block
type RelationshipType string

// Relationship types
const (
	RelationshipChild RelationshipType = "CHILD"
	RelationshipValue RelationshipType = "VALUE"
)

// EntityType distinguishes the key and value halves of a KEY_VALUE_SET
type EntityType string

// Entity types carried on KEY_VALUE_SET blocks. EntityTypeVirtual marks
// blocks appended locally and not present in the original response.
const (
	EntityTypeKey     EntityType = "KEY"
	EntityTypeValue   EntityType = "VALUE"
	EntityTypeVirtual EntityType = "VIRTUAL"
)

// Selection statuses on SELECTION_ELEMENT blocks
const (
	SelectionSelected    = "SELECTED"
	SelectionNotSelected = "NOT_SELECTED"
)

// BoundingBox is an axis-aligned rectangle normalized to the page,
// stored in the wire shape (top-left corner plus extents)
type BoundingBox struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
}

// XMin returns the left edge
func (b BoundingBox) XMin() float64 { return b.Left }

// YMin returns the top edge
func (b BoundingBox) YMin() float64 { return b.Top }

// XMax returns the right edge
func (b BoundingBox) XMax() float64 { return b.Left + b.Width }

// YMax returns the bottom edge
func (b BoundingBox) YMax() float64 { return b.Top + b.Height }

// Valid reports whether the box satisfies the geometry invariant:
// non-negative extents and both corners within the normalized page space.
func (b BoundingBox) Valid() bool {
	if b.Width < 0 || b.Height < 0 {
		return false
	}
	if b.Left < 0 || b.Top < 0 {
		return false
	}
	// Allow a little recognizer jitter past the page edge.
	const slack = 0.01
	return b.XMax() <= 1+slack && b.YMax() <= 1+slack
}

// Point is a normalized polygon vertex
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// Geometry holds the positional data of a block
type Geometry struct {
	BoundingBox BoundingBox `json:"BoundingBox"`
	Polygon     []Point     `json:"Polygon,omitempty"`
}

// Relationship is a typed, ordered edge list to other blocks
type Relationship struct {
	Type RelationshipType `json:"Type"`
	IDs  []string         `json:"Ids"`
}

// Block is the atomic recognized document element
type Block struct {
	ID              string                 `json:"Id"`
	BlockType       BlockType              `json:"BlockType"`
	Text            string                 `json:"Text,omitempty"`
	Confidence      float64                `json:"Confidence,omitempty"`
	Geometry        Geometry               `json:"Geometry"`
	EntityTypes     []EntityType           `json:"EntityTypes,omitempty"`
	SelectionStatus string                 `json:"SelectionStatus,omitempty"`
	Page            int                    `json:"Page,omitempty"`
	Relationships   []Relationship         `json:"Relationships,omitempty"`
	Custom          map[string]interface{} `json:"Custom,omitempty"`
}

// RelatedIDs returns the ids of the block's relationship edges of the given type
func (b *Block) RelatedIDs(t RelationshipType) []string {
	for _, rel := range b.Relationships {
		if rel.Type == t {
			return rel.IDs
		}
	}
	return nil
}

// ChildIDs returns the CHILD edge ids
func (b *Block) ChildIDs() []string { return b.RelatedIDs(RelationshipChild) }

// ValueIDs returns the VALUE edge ids
func (b *Block) ValueIDs() []string { return b.RelatedIDs(RelationshipValue) }

// HasEntityType reports whether the block carries the given entity tag
func (b *Block) HasEntityType(t EntityType) bool {
	for _, et := range b.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// IsKey reports whether the block is the key half of a KEY_VALUE_SET
func (b *Block) IsKey() bool {
	return b.BlockType == BlockTypeKeyValueSet && b.HasEntityType(EntityTypeKey)
}

// IsValue reports whether the block is the value half of a KEY_VALUE_SET
func (b *Block) IsValue() bool {
	return b.BlockType == BlockTypeKeyValueSet && b.HasEntityType(EntityTypeValue)
}
