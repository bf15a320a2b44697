package schema

import (
	"fmt"
	"strings"

	"dario.cat/mergo"

	"github.com/gridspec/gridspec/engine/core"
)

// -----------------------------------------------------------------------------
// DocValidator
// -----------------------------------------------------------------------------

// DocValidator checks one document against a merged schema. Validation is
// total: it walks every declared field and returns the complete violation
// list, never just the first. Unknown fields absent from the schema pass
// through untouched. The returned config carries schema defaults merged in
// for absent optional fields; the input document is never mutated.
type DocValidator struct {
	schema *MergedSchema
}

func NewDocValidator(ms *MergedSchema) *DocValidator {
	return &DocValidator{schema: ms}
}

func (v *DocValidator) Validate(doc core.Document) core.Result {
	var violations core.Violations
	for _, field := range v.schema.Fields {
		value, present := doc.Get(field.Path)
		// Explicit nulls count as absent: a null field is "unset", never a
		// type mismatch.
		if !present || value == nil {
			if v.schema.IsRequired(field.Path) {
				violations = append(violations, core.NewViolationf(
					core.ViolationMissingRequired, field.Path,
					"required field is missing",
				))
			}
			continue
		}
		violations = append(violations, checkConstraint(field, value)...)
	}
	// Required paths without a field declaration still count as missing.
	for _, path := range v.schema.Required {
		if _, declared := v.schema.FieldAt(path); declared {
			continue
		}
		if value, present := doc.Get(path); !present || value == nil {
			violations = append(violations, core.NewViolationf(
				core.ViolationMissingRequired, path,
				"required field is missing",
			))
		}
	}
	return core.Result{Config: v.withDefaults(doc), Violations: violations}
}

// withDefaults deep-copies the document and merges the schema's defaults in,
// document values winning. Falls back to the plain copy when the merge cannot
// apply (e.g. a default nested under a scalar the document declared).
func (v *DocValidator) withDefaults(doc core.Document) core.Document {
	resolved, err := core.DeepCopy(doc)
	if err != nil || resolved == nil {
		resolved = core.Document{}
	}
	target := resolved.AsMap()
	if err := mergo.Merge(&target, v.schema.Defaults().AsMap()); err != nil {
		return resolved
	}
	return core.Document(target)
}

// -----------------------------------------------------------------------------
// Constraint checks
// -----------------------------------------------------------------------------

// checkConstraint evaluates one present value: type compatibility first (a
// mismatch suppresses the remaining checks for that field), then enum
// membership, then numeric bounds.
func checkConstraint(field Field, value any) core.Violations {
	c := field.Constraint
	if c.Type != "" && !c.Type.Matches(value) {
		v := core.NewViolationf(core.ViolationTypeMismatch, field.Path,
			"expected %s", c.Type)
		v.Expected = c.Type.String()
		v.Actual = value
		return core.Violations{v}
	}

	var violations core.Violations
	if len(c.Enum) > 0 && !enumContains(c.Enum, value) {
		v := core.NewViolationf(core.ViolationEnumViolation, field.Path,
			"value not in enum")
		v.Expected = enumLabel(c.Enum)
		v.Actual = value
		violations = append(violations, v)
	}
	if c.Min != nil || c.Max != nil {
		if f, ok := core.AsFloat(value); ok {
			if (c.Min != nil && f < *c.Min) || (c.Max != nil && f > *c.Max) {
				v := core.NewViolationf(core.ViolationRangeViolation, field.Path,
					"value out of range")
				v.Expected = rangeLabel(c.Min, c.Max)
				v.Actual = value
				violations = append(violations, v)
			}
		}
	}
	return violations
}

func enumContains(enum []any, value any) bool {
	for _, candidate := range enum {
		if scalarEqual(candidate, value) {
			return true
		}
	}
	return false
}

// scalarEqual compares enum candidates against decoded values, bridging the
// int/float divide JSON round-trips introduce.
func scalarEqual(a, b any) bool {
	if af, ok := core.AsFloat(a); ok {
		bf, ok := core.AsFloat(b)
		return ok && af == bf
	}
	return a == b
}

func enumLabel(enum []any) string {
	parts := make([]string, len(enum))
	for i, v := range enum {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "one of [" + strings.Join(parts, ", ") + "]"
}

func rangeLabel(minVal, maxVal *float64) string {
	switch {
	case minVal != nil && maxVal != nil:
		return fmt.Sprintf("[%v, %v]", *minVal, *maxVal)
	case minVal != nil:
		return fmt.Sprintf(">= %v", *minVal)
	default:
		return fmt.Sprintf("<= %v", *maxVal)
	}
}
