package schema

// mergeAccumulator flattens an allOf chain. Parents merge before the node's
// own fields; a later constraint for an already-seen path replaces the
// earlier one wholesale but keeps its original ordering slot, so field order
// stays stable across the whole chain. Required paths accumulate as a union
// in first-appearance order.
type mergeAccumulator struct {
	fields      []Field
	index       map[string]int
	required    []string
	requiredSet map[string]struct{}
}

func newMergeAccumulator() *mergeAccumulator {
	return &mergeAccumulator{
		index:       make(map[string]int),
		requiredSet: make(map[string]struct{}),
	}
}

func (a *mergeAccumulator) merge(fields []Field, required []string) {
	for _, field := range fields {
		if i, ok := a.index[field.Path]; ok {
			a.fields[i].Constraint = field.Constraint
			continue
		}
		a.index[field.Path] = len(a.fields)
		a.fields = append(a.fields, field)
	}
	for _, path := range required {
		if _, ok := a.requiredSet[path]; ok {
			continue
		}
		a.requiredSet[path] = struct{}{}
		a.required = append(a.required, path)
	}
}

func (a *mergeAccumulator) seal(name string) (*MergedSchema, error) {
	ms := &MergedSchema{
		Name:     name,
		Fields:   append([]Field{}, a.fields...),
		Required: append([]string{}, a.required...),
	}
	if err := ms.seal(); err != nil {
		return nil, err
	}
	return ms, nil
}
