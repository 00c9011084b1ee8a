package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cosmos-mcp/pkg/logging"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// InputSchema returns the JSON schema of the tool's arguments. Tools without
// an inspectable signature accept any object. Parameters without a default
// are required; undeclared keys are always allowed so extra keyword options
// reach the backend.
func (d *Descriptor) InputSchema() map[string]any {
	if !d.HasSignature {
		return map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		}
	}

	props := make(map[string]any, len(d.Parameters))
	var required []string
	for _, p := range d.Parameters {
		prop := map[string]any{}
		if p.Type != "" {
			prop["type"] = p.Type
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.HasDefault && p.Default != nil {
			prop["default"] = p.Default
		}
		if !p.HasDefault {
			required = append(required, p.Name)
		}
		props[p.Name] = prop
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// argumentValidator checks call arguments against the compiled input schemas
// of tools that declare a signature.
type argumentValidator struct {
	schemas map[string]*jsonschema.Schema
}

func newArgumentValidator(descriptors []*Descriptor) *argumentValidator {
	v := &argumentValidator{schemas: make(map[string]*jsonschema.Schema)}
	for _, d := range descriptors {
		if !d.HasSignature {
			continue
		}
		sch, err := compileSchema(d.Name, d.InputSchema())
		if err != nil {
			logging.Warn("Gateway", "Skipping argument validation for %s: %v", d.Name, err)
			continue
		}
		v.schemas[d.Name] = sch
	}
	return v
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	doc, err := toJSONValue(schema)
	if err != nil {
		return nil, err
	}
	url := name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}

// validate returns nil when name has no schema or args satisfy it.
func (v *argumentValidator) validate(name string, args map[string]any) error {
	sch, ok := v.schemas[name]
	if !ok {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	doc, err := toJSONValue(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// toJSONValue round-trips v through JSON so the validator only sees the
// value types it was built for.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}
