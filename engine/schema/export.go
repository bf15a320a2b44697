package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

const (
	schemaVersion = "http://json-schema.org/draft-07/schema#"
	schemaBaseURL = "https://gridspec.dev/schemas/"
)

// Export renders a merged schema as a draft-07 JSON Schema document: nested
// properties, per-object required arrays, enum/minimum/maximum/default
// keywords. Documents stay open-world, so additionalProperties is true at
// every level.
func (r *Registry) Export(name string) (map[string]any, error) {
	ms, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	root := map[string]any{
		"$schema":              schemaVersion,
		"$id":                  fmt.Sprintf("%s%s.json", schemaBaseURL, name),
		"title":                name,
		"type":                 "object",
		"additionalProperties": true,
		"properties":           map[string]any{},
	}
	for _, field := range ms.Fields {
		if err := placeProperty(root, field.Path, constraintDescriptor(field.Constraint)); err != nil {
			return nil, fmt.Errorf("failed to export schema %q: %w", name, err)
		}
	}
	for _, path := range ms.Required {
		if err := placeRequired(root, path); err != nil {
			return nil, fmt.Errorf("failed to export schema %q: %w", name, err)
		}
	}
	return root, nil
}

// Compile verifies an exported schema is a loadable JSON Schema and returns
// the compiled form for external consumers.
func (r *Registry) Compile(name string) (*jsonschema.Schema, error) {
	export, err := r.Export(name)
	if err != nil {
		return nil, err
	}
	bytes, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

func constraintDescriptor(c Constraint) map[string]any {
	descriptor := map[string]any{}
	if c.Type != "" {
		descriptor["type"] = c.Type.String()
	}
	if c.Type == TypeObject {
		descriptor["additionalProperties"] = true
	}
	if len(c.Enum) > 0 {
		descriptor["enum"] = append([]any{}, c.Enum...)
	}
	if c.Min != nil {
		descriptor["minimum"] = *c.Min
	}
	if c.Max != nil {
		descriptor["maximum"] = *c.Max
	}
	if c.Default != nil {
		descriptor["default"] = c.Default
	}
	if c.Description != "" {
		descriptor["description"] = c.Description
	}
	return descriptor
}

// placeProperty drills through nested properties creating intermediate object
// nodes as needed, then merges the descriptor into the node at the final
// segment. Merging (instead of replacing) keeps children already attached by
// earlier fields regardless of declaration order.
func placeProperty(root map[string]any, path string, descriptor map[string]any) error {
	node := root
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, err := childObject(node, segment)
		if err != nil {
			return err
		}
		node = child
	}
	props, err := properties(node)
	if err != nil {
		return err
	}
	leaf := segments[len(segments)-1]
	target, ok := props[leaf].(map[string]any)
	if !ok {
		target = map[string]any{}
		props[leaf] = target
	}
	for key, value := range descriptor {
		target[key] = value
	}
	return nil
}

// placeRequired attaches the leaf name to the required array of its parent
// object (the root for top-level paths).
func placeRequired(root map[string]any, path string) error {
	node := root
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, err := childObject(node, segment)
		if err != nil {
			return err
		}
		node = child
	}
	leaf := segments[len(segments)-1]
	required, _ := node["required"].([]string)
	for _, existing := range required {
		if existing == leaf {
			return nil
		}
	}
	node["required"] = append(required, leaf)
	return nil
}

func childObject(node map[string]any, segment string) (map[string]any, error) {
	props, err := properties(node)
	if err != nil {
		return nil, err
	}
	child, ok := props[segment].(map[string]any)
	if !ok {
		child = map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		}
		props[segment] = child
	}
	return child, nil
}

func properties(node map[string]any) (map[string]any, error) {
	existing, ok := node["properties"]
	if !ok {
		props := map[string]any{}
		node["properties"] = props
		return props, nil
	}
	props, ok := existing.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("properties node has unexpected shape %T", existing)
	}
	return props, nil
}
