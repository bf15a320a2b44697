package rules

import (
	"github.com/gridspec/gridspec/engine/core"
)

// -----------------------------------------------------------------------------
// Rule
// -----------------------------------------------------------------------------

// Rule is one cross-field constraint: a pure predicate over a resolved
// document reporting the violations it finds. Rules never mutate the
// document and never panic; an inconsistent document is a normal outcome.
type Rule struct {
	Name  string
	Check func(doc core.Document) core.Violations
}

// -----------------------------------------------------------------------------
// Resolver
// -----------------------------------------------------------------------------

// Resolver applies the cross-field rule table to documents that already
// passed structural validation. The table is open: Register appends new
// rules without touching existing ones, and Resolve runs every rule in
// registration order, concatenating their violations into one result.
type Resolver struct {
	rules []Rule
}

// NewResolver returns a resolver seeded with the default rule table.
func NewResolver() *Resolver {
	return &Resolver{rules: defaultRules()}
}

// NewEmptyResolver returns a resolver with no rules registered.
func NewEmptyResolver() *Resolver {
	return &Resolver{}
}

// Register appends a rule to the table. Rules with a nil check are ignored.
func (r *Resolver) Register(rule Rule) {
	if rule.Check == nil {
		return
	}
	r.rules = append(r.rules, rule)
}

// Names returns the registered rule names in registration order.
func (r *Resolver) Names() []string {
	names := make([]string, len(r.rules))
	for i := range r.rules {
		names[i] = r.rules[i].Name
	}
	return names
}

// Resolve runs every rule against the document. The returned config is the
// input document unchanged; violations accumulate in registration order.
func (r *Resolver) Resolve(doc core.Document) core.Result {
	var violations core.Violations
	for i := range r.rules {
		violations = append(violations, r.rules[i].Check(doc)...)
	}
	return core.Result{Config: doc, Violations: violations}
}

// Validate satisfies core.Validator so the resolver can chain after a
// structural validator in a composite pass.
func (r *Resolver) Validate(doc core.Document) core.Result {
	return r.Resolve(doc)
}
