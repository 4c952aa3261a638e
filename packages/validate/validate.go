// Package validate checks page bodies against a JSON Schema.
package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaMismatch is wrapped by every validation failure.
var ErrSchemaMismatch = errors.New("schema validation failed")

// Validator holds a compiled schema and can be reused for every page.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the schema in schemaData.
func NewValidator(schemaData []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// LoadValidator reads and compiles the schema file at path.
func LoadValidator(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return NewValidator(data)
}

// Validate checks body. Non-JSON bodies and schema violations both wrap
// ErrSchemaMismatch.
func (v *Validator) Validate(body string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(msgs, "; "))
}
