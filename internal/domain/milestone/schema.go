package milestone

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/leaderview/internal/domain/types"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the contract of the remote milestone document.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["milestones"],
  "properties": {
    "milestones": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "label", "enabled"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "enabled": {"type": "boolean"},
          "extendedEnabled": {"type": "boolean"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Parse validates data against the milestone document schema and decodes it.
// Errors wrap ErrInvalidDocument.
func Parse(data []byte) (types.MilestoneConfig, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return types.MilestoneConfig{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return types.MilestoneConfig{}, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
	}

	var cfg types.MilestoneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return types.MilestoneConfig{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return cfg, nil
}
