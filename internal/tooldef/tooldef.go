// Package tooldef declares tool descriptors once and renders them as JSON
// schemas and mcp.Tool values.
package tooldef

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// ParamType represents the JSON type of a parameter
type ParamType string

const (
	ParamTypeString  ParamType = "string"
	ParamTypeNumber  ParamType = "number"
	ParamTypeInteger ParamType = "integer"
	ParamTypeBoolean ParamType = "boolean"
	ParamTypeArray   ParamType = "array"
	ParamTypeObject  ParamType = "object"
)

// ParamDef defines a tool parameter
type ParamDef struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	Pattern     string
	Items       *ParamDef  // element definition for arrays
	Properties  []ParamDef // fields for objects
}

// ToolDef defines a tool and its input schema.
type ToolDef struct {
	Name        string
	Description string
	Title       string
	Params      []ParamDef
	ReadOnly    bool
	Destructive bool
	OpenWorld   bool
}

// Validate checks the definition is well formed.
func (d ToolDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if d.Description == "" {
		return fmt.Errorf("tool %q has empty description", d.Name)
	}
	return validateParams(d.Name, d.Params)
}

func validateParams(tool string, params []ParamDef) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", tool)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", tool, p.Name)
		}
		seen[p.Name] = true
		if err := validateParam(tool, p); err != nil {
			return err
		}
	}
	return nil
}

func validateParam(tool string, p ParamDef) error {
	switch p.Type {
	case ParamTypeString, ParamTypeNumber, ParamTypeInteger, ParamTypeBoolean:
	case ParamTypeArray:
		if p.Items == nil {
			return fmt.Errorf("tool %q array parameter %q has no item definition", tool, p.Name)
		}
		item := *p.Items
		item.Name = p.Name + "[]"
		if err := validateParam(tool, item); err != nil {
			return err
		}
	case ParamTypeObject:
		if err := validateParams(tool, p.Properties); err != nil {
			return err
		}
	default:
		return fmt.Errorf("tool %q parameter %q has unsupported type %q", tool, p.Name, p.Type)
	}
	if len(p.Enum) > 0 && p.Type != ParamTypeString {
		return fmt.Errorf("tool %q parameter %q: enum is only supported on strings", tool, p.Name)
	}
	return nil
}

// InputSchema builds the JSON schema of the tool's arguments.
func (d ToolDef) InputSchema() *jsonschema.Schema {
	return objectSchema("", d.Params)
}

func objectSchema(description string, params []ParamDef) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(params))
	var required []string
	for _, p := range params {
		properties[p.Name] = paramSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := &jsonschema.Schema{
		Type:        "object",
		Description: description,
		Properties:  properties,
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

func paramSchema(p ParamDef) *jsonschema.Schema {
	if p.Type == ParamTypeObject {
		return objectSchema(p.Description, p.Properties)
	}
	schema := &jsonschema.Schema{
		Type:        string(p.Type),
		Description: p.Description,
		Pattern:     p.Pattern,
	}
	for _, v := range p.Enum {
		schema.Enum = append(schema.Enum, v)
	}
	if p.Type == ParamTypeArray && p.Items != nil {
		schema.Items = paramSchema(*p.Items)
	}
	return schema
}

// SchemaJSON returns the canonical JSON encoding of the input schema.
func (d ToolDef) SchemaJSON() (json.RawMessage, error) {
	data, err := json.Marshal(d.InputSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %q: %w", d.Name, err)
	}
	return data, nil
}

// ToMCPTool converts a ToolDef to an mcp.Tool
func (d ToolDef) ToMCPTool() (mcp.Tool, error) {
	raw, err := d.SchemaJSON()
	if err != nil {
		return mcp.Tool{}, err
	}
	tool := mcp.NewToolWithRawSchema(d.Name, d.Description, raw)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           d.Title,
		ReadOnlyHint:    boolPtr(d.ReadOnly),
		DestructiveHint: boolPtr(d.Destructive),
		OpenWorldHint:   boolPtr(d.OpenWorld),
	}
	return tool, nil
}

func boolPtr(b bool) *bool { return &b }

// String builds a string parameter.
func String(name, description string, required bool, enum ...string) ParamDef {
	return ParamDef{Name: name, Type: ParamTypeString, Description: description, Required: required, Enum: enum}
}

// Number builds a number parameter.
func Number(name, description string, required bool) ParamDef {
	return ParamDef{Name: name, Type: ParamTypeNumber, Description: description, Required: required}
}

// Integer builds an integer parameter.
func Integer(name, description string, required bool) ParamDef {
	return ParamDef{Name: name, Type: ParamTypeInteger, Description: description, Required: required}
}

// Boolean builds a boolean parameter.
func Boolean(name, description string, required bool) ParamDef {
	return ParamDef{Name: name, Type: ParamTypeBoolean, Description: description, Required: required}
}

// StringArray builds an array-of-strings parameter.
func StringArray(name, description string, required bool, enum ...string) ParamDef {
	return ParamDef{
		Name: name, Type: ParamTypeArray, Description: description, Required: required,
		Items: &ParamDef{Type: ParamTypeString, Enum: enum},
	}
}

// Object builds an object parameter with the given fields.
func Object(name, description string, required bool, fields ...ParamDef) ParamDef {
	return ParamDef{Name: name, Type: ParamTypeObject, Description: description, Required: required, Properties: fields}
}

// ObjectArray builds an array-of-objects parameter.
func ObjectArray(name, description string, required bool, fields ...ParamDef) ParamDef {
	return ParamDef{
		Name: name, Type: ParamTypeArray, Description: description, Required: required,
		Items: &ParamDef{Type: ParamTypeObject, Properties: fields},
	}
}
