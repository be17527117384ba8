package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildEvaluationSchema returns a JSON-Schema (draft 2020-12 subset) for an
// evaluation object with the given required keys.
func BuildEvaluationSchema(required []string) map[string]any {
	props := map[string]any{
		"score":             map[string]any{"type": "number"},
		"feedback":          map[string]any{"type": "string"},
		"strengths":         map[string]any{"type": []string{"string", "array"}},
		"improvements":      map[string]any{"type": []string{"string", "array"}},
		"followUpQuestions": map[string]any{"type": "array"},
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// CompileSchema turns a schema map into a validator.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// schemaCache holds compiled evaluation schemas keyed by required-field list.
type schemaCache struct {
	m sync.Map
}

func (c *schemaCache) get(required []string) (*jsonschema.Schema, error) {
	key := strings.Join(required, ",")
	if s, ok := c.m.Load(key); ok {
		return s.(*jsonschema.Schema), nil
	}
	s, err := CompileSchema(BuildEvaluationSchema(required))
	if err != nil {
		return nil, err
	}
	actual, _ := c.m.LoadOrStore(key, s)
	return actual.(*jsonschema.Schema), nil
}

// validateObject checks a decoded object against schema.
func validateObject(schema *jsonschema.Schema, obj map[string]any) error {
	// jsonschema wants plain JSON values
	var v any = obj
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
