package refiner

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validateRefined checks a refined record against the canonical field schema.
// Failures are logged by the caller, not returned to the pipeline: a record
// with a wrong shape is still more useful than no record.
func validateRefined(refined map[string]any) error {
	schemaBytes, err := json.Marshal(recordSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("refined.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("refined.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round trip so numbers and nested values take their generic JSON shape.
	data, err := json.Marshal(refined)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
