package schema

import (
	"fmt"

	"github.com/gridspec/gridspec/engine/core"
)

// -----------------------------------------------------------------------------
// Field types
// -----------------------------------------------------------------------------

// FieldType enumerates the structural types a constraint can demand.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
)

func (t FieldType) String() string {
	return string(t)
}

// Matches reports whether a decoded YAML/JSON value satisfies the type.
// Integer accepts whole-valued floats because JSON round-trips erase the
// int/float distinction; string and boolean are strict.
func (t FieldType) Matches(value any) bool {
	switch t {
	case TypeString:
		_, ok := core.AsString(value)
		return ok
	case TypeInteger:
		_, ok := core.AsInt(value)
		return ok
	case TypeNumber:
		_, ok := core.AsFloat(value)
		return ok
	case TypeBoolean:
		_, ok := core.AsBool(value)
		return ok
	case TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case TypeArray:
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}

// -----------------------------------------------------------------------------
// Constraint / Field
// -----------------------------------------------------------------------------

// Constraint is the contract for one field: a structural type plus optional
// enum membership, numeric bounds, and a default applied when the field is
// absent from a document.
type Constraint struct {
	Type        FieldType
	Enum        []any
	Min         *float64
	Max         *float64
	Default     any
	Description string
}

// Field pairs a dotted path with its constraint. Declaration order is
// semantic: merged schemas keep it, and validators walk it.
type Field struct {
	Path       string
	Constraint Constraint
}

// Node is a named, immutable schema: an ordered field list, required field
// paths, and optional parent schemas composed via allOf references.
type Node struct {
	Name     string
	AllOf    []string
	Fields   []Field
	Required []string
}

// -----------------------------------------------------------------------------
// MergedSchema
// -----------------------------------------------------------------------------

// MergedSchema is the flattened resolution of one node's allOf chain:
// parent-first field order with child overrides in place, required as the
// union of all ancestors' sets.
type MergedSchema struct {
	Name     string
	Fields   []Field
	Required []string

	index       map[string]int
	requiredSet map[string]struct{}
	defaults    core.Document
}

// FieldAt returns the constraint declared at a path.
func (ms *MergedSchema) FieldAt(path string) (Constraint, bool) {
	i, ok := ms.index[path]
	if !ok {
		return Constraint{}, false
	}
	return ms.Fields[i].Constraint, true
}

// IsRequired reports whether a path belongs to the merged required set.
func (ms *MergedSchema) IsRequired(path string) bool {
	_, ok := ms.requiredSet[path]
	return ok
}

// Defaults returns the nested document of declared default values.
func (ms *MergedSchema) Defaults() core.Document {
	return ms.defaults
}

// seal builds the lookup index and the defaults document. It fails when
// declared defaults collide structurally (a scalar default shadowing a
// nested one).
func (ms *MergedSchema) seal() error {
	ms.index = make(map[string]int, len(ms.Fields))
	ms.requiredSet = make(map[string]struct{}, len(ms.Required))
	ms.defaults = core.Document{}
	for i, field := range ms.Fields {
		ms.index[field.Path] = i
	}
	for _, path := range ms.Required {
		ms.requiredSet[path] = struct{}{}
	}
	for _, field := range ms.Fields {
		if field.Constraint.Default == nil {
			continue
		}
		if err := ms.defaults.Set(field.Path, field.Constraint.Default); err != nil {
			return fmt.Errorf("failed to apply default for %q: %w", field.Path, err)
		}
	}
	return nil
}
