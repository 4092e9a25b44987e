package yamlconfig

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// text is a scalar or a sequence rendered as ninja text. Sequences are
// joined with spaces.
type text string

func (t *text) UnmarshalYAML(bs []byte) error {
	var raw any
	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return err
	}
	s, err := render(raw)
	if err != nil {
		return err
	}
	*t = text(s)
	return nil
}

// pathList is a path list written either as one string or a sequence.
type pathList []string

func (l *pathList) UnmarshalYAML(bs []byte) error {
	var raw any
	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = nil
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, err := render(elem)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*l = out
	default:
		s, err := render(v)
		if err != nil {
			return err
		}
		*l = []string{s}
	}
	return nil
}

func render(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			s, err := render(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("cannot use a value of type %T here", v)
}
