package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridspec/gridspec/engine/core"
)

// -----------------------------------------------------------------------------
// Axis
// -----------------------------------------------------------------------------

// Axis is one swept field: a dotted path plus the ordered candidate values it
// takes across the grid.
type Axis struct {
	Path       string
	Candidates []any
}

// -----------------------------------------------------------------------------
// SweepSpec
// -----------------------------------------------------------------------------

// SweepSpec is a parsed sweep document split into the fixed portion shared by
// every generated configuration and the ordered axes that vary. Axis order is
// the declaration order of the sweep document and drives enumeration order.
type SweepSpec struct {
	fixed core.Document
	axes  []Axis
}

// NewSweep builds a spec programmatically. Axis order controls enumeration:
// generated documents vary the last axis fastest.
func NewSweep(fixed core.Document, axes []Axis) *SweepSpec {
	if fixed == nil {
		fixed = core.Document{}
	}
	return &SweepSpec{fixed: fixed, axes: append([]Axis(nil), axes...)}
}

// ParseSweep decodes sweep YAML into a spec. Mapping keys walk depth-first in
// declaration order; every sequence-valued leaf becomes a sweep axis at its
// dotted path, and every scalar leaf joins the fixed portion.
func ParseSweep(data []byte) (*SweepSpec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode sweep YAML: %w", err)
	}
	spec := &SweepSpec{fixed: core.Document{}}
	if root.Kind == 0 || len(root.Content) == 0 {
		return spec, nil
	}
	mapping := resolveAlias(root.Content[0])
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("sweep document must be a mapping, got %s", kindName(mapping.Kind))
	}
	if err := spec.walkMapping(mapping, ""); err != nil {
		return nil, err
	}
	return spec, nil
}

// ParseSweepFile reads and parses a sweep document from disk.
func ParseSweepFile(filePath string) (*SweepSpec, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep file: %w", err)
	}
	spec, err := ParseSweep(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
	}
	return spec, nil
}

// Fixed returns the fixed document portion shared by every generated
// configuration. Callers must not mutate it.
func (s *SweepSpec) Fixed() core.Document {
	return s.fixed
}

// Axes returns the sweep axes in declaration order.
func (s *SweepSpec) Axes() []Axis {
	return s.axes
}

// Count returns how many configurations the spec generates: the product of
// candidate counts across axes. A spec with no axes generates exactly one.
func (s *SweepSpec) Count() int {
	count := 1
	for i := range s.axes {
		count *= len(s.axes[i].Candidates)
	}
	return count
}

// materialize builds the configuration for one tuple of candidate indices: a
// deep copy of the fixed portion with each axis set to its selected candidate.
func (s *SweepSpec) materialize(indices []int) (core.Document, error) {
	doc, err := core.DeepCopy(s.fixed)
	if err != nil {
		return nil, fmt.Errorf("failed to copy fixed portion: %w", err)
	}
	for i, axis := range s.axes {
		value := axis.Candidates[indices[i]]
		// Composite candidates are copied so sibling configurations never
		// alias the same mapping.
		switch value.(type) {
		case map[string]any, []any:
			copied, err := core.DeepCopy(value)
			if err != nil {
				return nil, fmt.Errorf("failed to copy candidate for %q: %w", axis.Path, err)
			}
			value = copied
		}
		if err := doc.Set(axis.Path, value); err != nil {
			return nil, fmt.Errorf("failed to place sweep candidate: %w", err)
		}
	}
	return doc, nil
}

// -----------------------------------------------------------------------------
// YAML walk
// -----------------------------------------------------------------------------

func (s *SweepSpec) walkMapping(node *yaml.Node, prefix string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := resolveAlias(node.Content[i+1])
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("failed to decode sweep key at line %d: %w", keyNode.Line, err)
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch valueNode.Kind {
		case yaml.MappingNode:
			if len(valueNode.Content) == 0 {
				if err := s.fixed.Set(path, map[string]any{}); err != nil {
					return fmt.Errorf("failed to place sweep value: %w", err)
				}
				continue
			}
			if err := s.walkMapping(valueNode, path); err != nil {
				return err
			}
		case yaml.SequenceNode:
			candidates := make([]any, 0, len(valueNode.Content))
			for _, item := range valueNode.Content {
				var value any
				if err := item.Decode(&value); err != nil {
					return fmt.Errorf("failed to decode candidate for %q: %w", path, err)
				}
				candidates = append(candidates, value)
			}
			s.axes = append(s.axes, Axis{Path: path, Candidates: candidates})
		default:
			var value any
			if err := valueNode.Decode(&value); err != nil {
				return fmt.Errorf("failed to decode value for %q: %w", path, err)
			}
			if err := s.fixed.Set(path, value); err != nil {
				return fmt.Errorf("failed to place sweep value: %w", err)
			}
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
