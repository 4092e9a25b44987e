package hclconfig

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/ninjagen/internal/config"
)

// functions returns the functions available in expressions. The file
// functions read through the tracker.
func functions(tracker config.Tracker) map[string]function.Function {
	return map[string]function.Function{
		"file":       fileFunc(tracker),
		"fileexists": fileExistsFunc(tracker),
		"lines":      linesFunc(tracker),

		"concat":    stdlib.ConcatFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"lower":     stdlib.LowerFunc,
		"split":     stdlib.SplitFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"upper":     stdlib.UpperFunc,
	}
}

var pathParam = []function.Parameter{{Name: "path", Type: cty.String}}

func fileFunc(tracker config.Tracker) function.Function {
	return function.New(&function.Spec{
		Params: pathParam,
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			data, err := tracker.ReadFile(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(string(data)), nil
		},
	})
}

func fileExistsFunc(tracker config.Tracker) function.Function {
	return function.New(&function.Spec{
		Params: pathParam,
		Type:   function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			ok, err := tracker.Exists(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.Bool), err
			}
			return cty.BoolVal(ok), nil
		},
	})
}

// linesFunc reads a file as a list of its non-blank, trimmed lines.
func linesFunc(tracker config.Tracker) function.Function {
	return function.New(&function.Spec{
		Params: pathParam,
		Type:   function.StaticReturnType(cty.List(cty.String)),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			data, err := tracker.ReadFile(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.List(cty.String)), err
			}
			var vals []cty.Value
			for _, line := range strings.Split(string(data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					vals = append(vals, cty.StringVal(line))
				}
			}
			if len(vals) == 0 {
				return cty.ListValEmpty(cty.String), nil
			}
			return cty.ListVal(vals), nil
		},
	})
}
