package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Model is the unified, format-agnostic representation of a workflow
// configuration: nested string-keyed maps with native Go leaf values.
type Model struct {
	values map[string]any
}

// NewModel wraps an already-built nested map. The map is used as-is; callers
// must not mutate it afterwards.
func NewModel(values map[string]any) *Model {
	if values == nil {
		values = make(map[string]any)
	}
	return &Model{values: values}
}

// Get traverses the nested map along the given path. The second return value
// is false when any path segment is missing or a non-map value is reached
// before the final segment.
func (m *Model) Get(path ...string) (any, bool) {
	var current any = m.values
	for _, seg := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Map exposes the underlying nested map, primarily for diagnostics.
func (m *Model) Map() map[string]any {
	return m.values
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart, so the model carries plain Go values rather than HCL types.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// Prefer int when the number is integral; config values like pool
		// sizes and queue depths are what these mostly are.
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return int(i), nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("could not convert cty.Bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported configuration value type: %s", ty.FriendlyName())
	}
}
