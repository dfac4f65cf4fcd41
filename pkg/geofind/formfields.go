package geofind

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/halldor/geofind/pkg/textract"
)

// KeyValue pairs a form key with its value element. The value may be a
// selection element for checkbox-style fields.
type KeyValue struct {
	Key   *Word
	Value *Word
}

// SelectionElement pairs a form key with its checkbox state
type SelectionElement struct {
	Key       *Word
	Selection *Word
}

// FormFieldsIn returns the key/value pairs whose key is contained in the
// area, preserving the order of KeyValues on the area's page. An empty
// result is a valid outcome.
func (ix *Index) FormFieldsIn(area Area) []KeyValue {
	var result []KeyValue
	for _, kv := range ix.KeyValues(area.Page) {
		if area.Contains(kv.Key) {
			result = append(result, kv)
		}
	}
	return result
}

// SelectionValuesIn returns the key/checkbox pairs in the area: form fields
// whose value is a selection element in SELECTED or NOT_SELECTED state.
func (ix *Index) SelectionValuesIn(area Area) []SelectionElement {
	var result []SelectionElement
	for _, kv := range ix.FormFieldsIn(area) {
		switch kv.Value.OriginalText {
		case textract.SelectionSelected, textract.SelectionNotSelected:
			result = append(result, SelectionElement{Key: kv.Key, Selection: kv.Value})
		}
	}
	return result
}

// AddVirtualKey appends a new KEY_VALUE_SET block that re-labels an existing
// key: its text is the given name, its relationships point to the same value
// target and child words as the existing key, and its identifier is freshly
// allocated. The original key and its pairing are left untouched.
//
// Repeated calls with the same name accumulate distinct blocks; callers
// wanting uniqueness must de-duplicate by name beforehand. The new block
// becomes visible to KeyValues/FormFieldsIn after Refresh (or a new index).
// Calls must be serialized with other mutations of the same document.
func (ix *Index) AddVirtualKey(name string, existingKey *textract.Block, page int) (*textract.Block, error) {
	if name == "" {
		return nil, fmt.Errorf("virtual key name is required")
	}
	if existingKey == nil || !existingKey.IsKey() {
		return nil, fmt.Errorf("existing key must be the KEY half of a KEY_VALUE_SET")
	}

	relationships := make([]textract.Relationship, 0, len(existingKey.Relationships))
	for _, rel := range existingKey.Relationships {
		relationships = append(relationships, textract.Relationship{
			Type: rel.Type,
			IDs:  append([]string(nil), rel.IDs...),
		})
	}

	block := &textract.Block{
		ID:            uuid.NewString(),
		BlockType:     textract.BlockTypeKeyValueSet,
		Text:          name,
		Confidence:    existingKey.Confidence,
		Geometry:      existingKey.Geometry,
		EntityTypes:   []textract.EntityType{textract.EntityTypeKey, textract.EntityTypeVirtual},
		Relationships: relationships,
	}
	if err := ix.doc.AddBlock(page, block); err != nil {
		return nil, fmt.Errorf("failed to append virtual key %q: %w", name, err)
	}
	log.WithFields(map[string]interface{}{
		"name": name,
		"key":  existingKey.ID,
		"id":   block.ID,
	}).Debug("added virtual key")
	return block, nil
}
