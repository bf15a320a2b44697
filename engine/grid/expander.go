package grid

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/gridspec/gridspec/engine/core"
	"github.com/gridspec/gridspec/engine/rules"
	"github.com/gridspec/gridspec/engine/schema"
)

// ErrEmptyCandidateSet indicates a sweep axis that lists no candidates, which
// would silently collapse the whole grid to nothing.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// Expander generates the Cartesian product of a sweep's axes and runs every
// generated configuration through the validation pipeline. Expansion is lazy:
// configurations materialize one at a time as the sequence is consumed, so a
// grid's size costs nothing until it is walked.
type Expander struct {
	pipeline *Pipeline
}

// NewExpander wires a schema registry and rule resolver into an expander.
func NewExpander(registry *schema.Registry, resolver *rules.Resolver) *Expander {
	return &Expander{pipeline: NewPipeline(registry, resolver)}
}

// NewExpanderFromPipeline reuses an existing pipeline.
func NewExpanderFromPipeline(pipeline *Pipeline) *Expander {
	return &Expander{pipeline: pipeline}
}

// Expand returns a lazy sequence of validation results, one per combination
// of axis candidates. Enumeration is deterministic: the last declared axis
// varies fastest and earlier axes roll over like an odometer. The sequence is
// restartable; every range re-enumerates from the first combination.
//
// Setup failures surface synchronously, before any configuration is
// generated: an unknown schema, an axis with zero candidates (wrapped
// ErrEmptyCandidateSet naming the axis path), or an axis path that crosses a
// scalar in the fixed portion.
func (e *Expander) Expand(spec *SweepSpec, schemaName string) (iter.Seq[core.Result], error) {
	if spec == nil {
		return nil, errors.New("cannot expand nil sweep spec")
	}
	validator, err := e.pipeline.ValidatorFor(schemaName)
	if err != nil {
		return nil, err
	}
	for _, axis := range spec.axes {
		if len(axis.Candidates) == 0 {
			return nil, errors.Wrapf(ErrEmptyCandidateSet, "%q", axis.Path)
		}
	}
	// Materialize the first combination once up front. Paths and the fixed
	// portion are invariant across tuples, so a placement that works here
	// works for every combination and enumeration cannot fail mid-sequence.
	if _, err := spec.materialize(make([]int, len(spec.axes))); err != nil {
		return nil, err
	}
	return func(yield func(core.Result) bool) {
		indices := make([]int, len(spec.axes))
		for {
			doc, err := spec.materialize(indices)
			if err != nil {
				return
			}
			if !yield(validator.Validate(doc)) {
				return
			}
			if !advance(indices, spec.axes) {
				return
			}
		}
	}, nil
}

// advance increments the index tuple with the last axis fastest, rolling over
// toward the first. It reports false once every combination has been visited.
func advance(indices []int, axes []Axis) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(axes[i].Candidates) {
			return true
		}
		indices[i] = 0
	}
	return false
}
