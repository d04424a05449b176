package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordSchema returns a JSON-Schema (draft 2020-12 subset) for the
// serialized invoice record. Sinks validate records against it before
// writing or pushing.
func BuildRecordSchema() map[string]any {
	amount := map[string]any{"type": []string{"number", "null"}, "minimum": 0.0}
	nullableString := map[string]any{"type": []string{"string", "null"}}

	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
			"unit_price":  amount,
			"total":       amount,
		},
		"required": []string{"description", "quantity", "unit_price", "total"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number": nullableString,
			"invoice_date":   nullableString,
			"supplier":       nullableString,
			"subtotal":       amount,
			"vat":            amount,
			"total":          amount,
			"line_items":     map[string]any{"type": "array", "items": lineItem},
			"confidence_scores": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "number", "minimum": 0.0, "maximum": 1.0,
				},
			},
		},
		"required": []string{
			"invoice_number", "invoice_date", "supplier",
			"subtotal", "vat", "total", "line_items", "confidence_scores",
		},
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ValidateRecordJSON validates a serialized invoice record against the
// record schema.
func ValidateRecordJSON(data []byte) error {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildRecordSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("record.json")
	})
	if schemaErr != nil {
		return schemaErr
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
