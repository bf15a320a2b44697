package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

// Document is one experiment configuration: a tree of mappings, sequences,
// and scalars parsed from YAML. All semantics are addressed by dotted field
// path (e.g. "dataset.file_config.text_key"); mapping keys carry no ordering
// invariants.
type Document map[string]any

// Get reads the value at a dotted path. The second return reports whether the
// path exists in the document.
func (d Document) Get(path string) (any, bool) {
	if path == "" {
		return map[string]any(d), true
	}
	jsonBytes, err := json.Marshal(d)
	if err != nil {
		return nil, false
	}
	result := gjson.GetBytes(jsonBytes, path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// Has reports whether a dotted path exists in the document.
func (d Document) Has(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set writes a value at a dotted path, creating intermediate mappings as
// needed. It fails when an intermediate segment holds a non-mapping value.
func (d Document) Set(path string, value any) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	parts := strings.Split(path, ".")
	node := map[string]any(d)
	for _, key := range parts[:len(parts)-1] {
		child, ok := node[key]
		if !ok || child == nil {
			next := map[string]any{}
			node[key] = next
			node = next
			continue
		}
		childMap, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("failed to set %q: segment %q is not a mapping", path, key)
		}
		node = childMap
	}
	node[parts[len(parts)-1]] = value
	return nil
}

// AsMap returns the document's underlying mapping.
func (d Document) AsMap() map[string]any {
	return map[string]any(d)
}

// DecodeTo decodes a document (or any mapping) into a typed struct using
// weakly typed conversion rules, so YAML-native scalars (whole floats,
// quoted numbers) land in the matching Go field types.
func DecodeTo[T any](data any) (T, error) {
	var result T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return result, err
	}

	return result, decoder.Decode(data)
}
