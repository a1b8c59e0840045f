package mining

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// RecordSchema returns the JSON Schema describing a single dataset record, so
// downstream training pipelines can validate mined output before ingesting it.
func RecordSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(Pair{})
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("RecordSchema: marshal: %w", err)
	}
	return b, nil
}

// WriteRecordSchema writes the record schema to path atomically.
func WriteRecordSchema(path string) error {
	b, err := RecordSchema()
	if err != nil {
		return err
	}
	if err := writeFileAtomicSameDir(path, b, 0o644); err != nil {
		return fmt.Errorf("WriteRecordSchema: write %s: %w", path, err)
	}
	return nil
}
