package docai

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON serializes a value to JSON. Protocol buffer messages (the raw
// Document AI response) go through protojson; everything else through the
// standard json package.
func ToJSON(data interface{}) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(jsonData), nil

	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	}
}
