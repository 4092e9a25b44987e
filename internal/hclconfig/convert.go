package hclconfig

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// toString renders a value as a ninja variable value. Primitives convert
// with the usual cty rules and sequences are joined with spaces, the way
// ninja lists are written.
func toString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("value is not known")
	}
	ty := val.Type()
	switch {
	case ty.IsPrimitiveType():
		s, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", err
		}
		return s.AsString(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var parts []string
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := toString(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("cannot use a value of type %s here", ty.FriendlyName())
}

// toStringMap converts an object or map of values with toString.
func toStringMap(val cty.Value) (map[string]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("args must be an object, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("args are not known")
	}
	out := make(map[string]string)
	for k, v := range val.AsValueMap() {
		s, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

// toStringList converts a string or a sequence of values to a path list.
func toStringList(val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if ty.IsPrimitiveType() {
		s, err := toString(val)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("expected a list, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := toString(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
