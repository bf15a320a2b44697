package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// deepCopyMap returns a deep copy of the provided map[string]any.
//
// If the underlying copy cannot be asserted back to map[string]any an error is returned.
func deepCopyMap(m map[string]any) (map[string]any, error) {
	copiedInterface := deepcopy.Copy(m)
	copied, ok := copiedInterface.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to copy map")
	}
	return copied, nil
}

// DeepCopy creates a deep copy of the supplied value.
//
// Document values are copied via an internal map-based copy and reconstructed
// as Document so the copy retains the concrete type instead of devolving into
// the plain map returned by the deepcopy library. All other types fall back
// to a generic deep copy.
func DeepCopy[T any](v T) (T, error) {
	var zero T

	switch src := any(v).(type) {
	case Document:
		if src == nil {
			return zero, nil
		}
		copied, err := deepCopyMap(src)
		if err != nil {
			return zero, err
		}
		result, ok := any(Document(copied)).(T)
		if !ok {
			return zero, fmt.Errorf("failed to convert copied document")
		}
		return result, nil
	default:
		copied, ok := deepcopy.Copy(v).(T)
		if !ok {
			return zero, fmt.Errorf("failed to copy value")
		}
		return copied, nil
	}
}
