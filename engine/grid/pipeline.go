package grid

import (
	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/engine/rules"
	"github.com/gridspec/gridspec/engine/schema"
)

// Pipeline is the full resolution path for one configuration: schema lookup,
// structural validation with default application, then cross-field rules over
// the defaulted document. One pipeline serves any number of documents.
type Pipeline struct {
	registry *schema.Registry
	rules    *rules.Resolver
}

// NewPipeline wires a schema registry and a rule resolver together.
func NewPipeline(registry *schema.Registry, resolver *rules.Resolver) *Pipeline {
	return &Pipeline{registry: registry, rules: resolver}
}

// Default returns a pipeline over the builtin schema family and the default
// rule table.
func Default() *Pipeline {
	return NewPipeline(schema.Builtin(), rules.NewResolver())
}

// Registry returns the pipeline's schema registry.
func (p *Pipeline) Registry() *schema.Registry {
	return p.registry
}

// ValidatorFor resolves a schema name into the composite validator for it.
// The validator is stateless and safe to reuse across documents; cross-field
// rules run after structural checks and see the defaulted config.
func (p *Pipeline) ValidatorFor(schemaName string) (core.Validator, error) {
	ms, err := p.registry.Resolve(schemaName)
	if err != nil {
		return nil, err
	}
	return core.NewCompositeValidator(schema.NewDocValidator(ms), p.rules), nil
}

// Run validates one document against a named schema and reports every
// structural and cross-field violation in a single total pass.
func (p *Pipeline) Run(doc core.Document, schemaName string) (core.Result, error) {
	validator, err := p.ValidatorFor(schemaName)
	if err != nil {
		return core.Result{}, err
	}
	return validator.Validate(doc), nil
}
