package selection

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var embeddedSchemaData []byte

// GenerateRegistrySchema generates JSON schema for the registry file.
func GenerateRegistrySchema() ([]byte, error) {
	schema := jsonschema.Reflect(&registryFile{})
	schema.Title = "Themer Registry"
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// VerifyRegistry validates registry file data against the embedded JSON schema.
func VerifyRegistry(data []byte) error {
	if len(embeddedSchemaData) == 0 {
		return errors.New("embedded registry schema is empty")
	}

	compiler := validator.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(embeddedSchemaData)); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	// parse yaml into generic value for schema validation
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse registry file: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	return nil
}
