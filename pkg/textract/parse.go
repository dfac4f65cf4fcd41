package textract

import (
	"encoding/json"
	"fmt"
	"os"
)

// response mirrors the JSON shape of one AnalyzeDocument response
type response struct {
	DocumentMetadata DocumentMetadata `json:"DocumentMetadata"`
	Blocks           []*Block         `json:"Blocks"`
	NextToken        string           `json:"NextToken,omitempty"`
}

// Parse converts raw AnalyzeDocument JSON into a Document.
// The input may be a single response object or an array of paginated
// responses, in which case the block lists are concatenated in order.
// Bounding boxes violating the geometry invariant are rejected here so
// later queries never see malformed coordinates.
func Parse(data []byte) (*Document, error) {
	var blocks []*Block

	var single response
	if err := json.Unmarshal(data, &single); err == nil && len(single.Blocks) > 0 {
		blocks = single.Blocks
	} else {
		var paginated []response
		if err := json.Unmarshal(data, &paginated); err != nil {
			return nil, fmt.Errorf("not a textract response: %w", err)
		}
		for _, resp := range paginated {
			blocks = append(blocks, resp.Blocks...)
		}
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("response contains no blocks")
	}

	for _, b := range blocks {
		if !b.Geometry.BoundingBox.Valid() {
			return nil, fmt.Errorf("block %s (%s): bounding box outside normalized page space: %+v",
				b.ID, b.BlockType, b.Geometry.BoundingBox)
		}
	}
	return NewDocument(blocks)
}

// ParseFile reads and parses a Textract response from disk
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// MarshalJSON renders the document back into the response shape, including
// any appended blocks, so it can be handed to downstream consumers.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(response{
		DocumentMetadata: d.Metadata,
		Blocks:           d.Blocks,
	})
}
