package core

import (
	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Validator interface
// -----------------------------------------------------------------------------

// Validator checks one document and reports a total result: every violation
// it can find in a single pass, never just the first.
type Validator interface {
	Validate(doc Document) Result
}

// -----------------------------------------------------------------------------
// CompositeValidator
// -----------------------------------------------------------------------------

// CompositeValidator chains validators into one pass. The resolved config
// threads through the chain so later layers see earlier layers' defaults;
// violations from every layer concatenate in chain order.
type CompositeValidator struct {
	validators []Validator
}

func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{
		validators: validators,
	}
}

func (v *CompositeValidator) AddValidator(validator Validator) {
	v.validators = append(v.validators, validator)
}

func (v *CompositeValidator) Validate(doc Document) Result {
	result := Result{Config: doc}
	for _, validator := range v.validators {
		next := validator.Validate(result.Config)
		result.Violations = append(result.Violations, next.Violations...)
		if next.Config != nil {
			result.Config = next.Config
		}
	}
	return result
}

// -----------------------------------------------------------------------------
// StructValidator
// -----------------------------------------------------------------------------

// StructValidator applies struct-tag contract rules to a typed value.
type StructValidator struct {
	validate *validator.Validate
	value    any
}

func NewStructValidator(value any) *StructValidator {
	return &StructValidator{
		validate: validator.New(),
		value:    value,
	}
}

func (v *StructValidator) Validate() error {
	return v.validate.Struct(v.value)
}

func (v *StructValidator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validate.RegisterValidation(tag, fn)
}
