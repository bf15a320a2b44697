package plan

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

const (
	schemaVersion = "http://json-schema.org/draft-07/schema#"
	schemaID      = "https://gridspec.dev/schemas/execution_plan.json"
)

// JSONSchema reflects the ExecutionPlan type into a draft-07 JSON Schema
// document so external runners can validate serialized plans without linking
// this module.
func JSONSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		DoNotReference:             false,
	}
	schema := reflector.Reflect(&ExecutionPlan{})
	schema.ID = jsonschema.ID(schemaID)
	schema.Version = schemaVersion
	schema.Extras = map[string]any{"yamlCompatible": true}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan schema: %w", err)
	}
	return data, nil
}
