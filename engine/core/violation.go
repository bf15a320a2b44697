package core

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Violation kinds
// -----------------------------------------------------------------------------

// ViolationKind classifies why a document breaks its contract.
type ViolationKind string

const (
	// ViolationMissingRequired indicates a required field is absent.
	ViolationMissingRequired ViolationKind = "missing_required"
	// ViolationTypeMismatch indicates a value of an incompatible type.
	ViolationTypeMismatch ViolationKind = "type_mismatch"
	// ViolationEnumViolation indicates a value outside an enum constraint.
	ViolationEnumViolation ViolationKind = "enum_violation"
	// ViolationRangeViolation indicates a numeric value outside its bounds.
	ViolationRangeViolation ViolationKind = "range_violation"
	// ViolationCrossFieldConflict indicates fields that are individually valid
	// but inconsistent with each other.
	ViolationCrossFieldConflict ViolationKind = "cross_field_conflict"
)

func (k ViolationKind) String() string {
	return string(k)
}

// -----------------------------------------------------------------------------
// Violation
// -----------------------------------------------------------------------------

// Violation is one contract breach at one field path. Violations are values,
// not panics: an invalid document is a normal outcome the caller inspects.
type Violation struct {
	Path     string        `json:"path"               yaml:"path"`
	Kind     ViolationKind `json:"kind"               yaml:"kind"`
	Expected string        `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   any           `json:"actual,omitempty"   yaml:"actual,omitempty"`
	Message  string        `json:"message"            yaml:"message"`
}

// Error formats the violation for display.
func (v *Violation) Error() string {
	if v == nil {
		return "violation <nil>"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", v.Kind, v.Message))
	if v.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", v.Path))
	}
	if v.Expected != "" {
		b.WriteString(fmt.Sprintf(" (expected: %s)", v.Expected))
	}
	if v.Actual != nil {
		b.WriteString(fmt.Sprintf(" (actual: %v)", v.Actual))
	}
	return b.String()
}

// NewViolation builds a violation with a kind, field path, and message.
func NewViolation(kind ViolationKind, path, message string) Violation {
	return Violation{Kind: kind, Path: path, Message: message}
}

// NewViolationf formats a message and builds a violation.
func NewViolationf(kind ViolationKind, path, format string, args ...any) Violation {
	return NewViolation(kind, path, fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------
// Violations
// -----------------------------------------------------------------------------

// Violations is an ordered list of violations. Order is part of the contract:
// schema-field declaration order first, then rule registration order.
type Violations []Violation

// Error returns a compact summary of the list.
func (vs Violations) Error() string {
	switch len(vs) {
	case 0:
		return "no violations"
	case 1:
		return vs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", vs[0].Error(), len(vs)-1)
	}
}

// OfKind returns the violations matching a kind, preserving order.
func (vs Violations) OfKind(kind ViolationKind) Violations {
	var out Violations
	for i := range vs {
		if vs[i].Kind == kind {
			out = append(out, vs[i])
		}
	}
	return out
}

// Paths returns the field paths in order, one per violation.
func (vs Violations) Paths() []string {
	out := make([]string, len(vs))
	for i := range vs {
		out[i] = vs[i].Path
	}
	return out
}

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Result is the outcome of validating a document: the resolved (defaulted)
// document plus every violation found in one total pass. Config is only
// meaningful for downstream stages when Valid reports true.
type Result struct {
	Config     Document   `json:"config"               yaml:"config"`
	Violations Violations `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// Valid reports whether the document satisfied every check.
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// Merge concatenates another result's violations onto this one, keeping the
// later result's resolved config when present.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
	if other.Config != nil {
		r.Config = other.Config
	}
}
