package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/listrt/listrt/internal/core"
	"github.com/maruel/natural"
)

const (
	SELF_REF = "self"

	SLICE_LITERAL_KEY = "slice"
	REF_LITERAL_KEY   = "ref"
	FUNC_LITERAL_KEY  = "func"
)

var (
	ErrInvalidScript      = errors.New("invalid script")
	ErrInvalidLiteral     = errors.New("invalid literal")
	ErrUnknownBuiltin     = errors.New("unknown builtin function")
	ErrKeyFunctionFailure = errors.New("key function failure")
)

// A Script creates a list from Init and calls the methods of Steps in order on it.
//
// Literals are JSON/YAML values: arrays are lists and objects are special values,
// {slice: [start, stop, step]} is a slice, {ref: self} is the list itself and
// {func: <name>} is a builtin function (see BUILTIN_FUNCTION_NAMES).
type Script struct {
	Init  []any  `json:"init" yaml:"init"`
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	Method string `json:"method" yaml:"method"`
	Args   []any  `json:"args" yaml:"args"`

	// expected result of the call, not checked if nil.
	Expect any `json:"expect" yaml:"expect"`

	// expected content of the list after the call, not checked if nil.
	ExpectList []any `json:"expect-list" yaml:"expect-list"`

	// expected error kind (e.g. OutOfRange), the call is expected to succeed if empty.
	ExpectError string `json:"expect-error" yaml:"expect-error"`
}

// ParseScript parses a script, JSON is expected if the path ends with .json, YAML otherwise.
// Unknown fields are an error.
func ParseScript(path string, data []byte) (*Script, error) {
	script := &Script{}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(script); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}
	} else if err := yaml.UnmarshalWithOptions(data, script, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	for i, step := range script.Steps {
		if step.Method == "" {
			return nil, fmt.Errorf("%w: step %d has no method", ErrInvalidScript, i)
		}
		if step.ExpectError != "" && (step.Expect != nil || step.ExpectList != nil) {
			return nil, fmt.Errorf("%w: step %d expects both an error and a result", ErrInvalidScript, i)
		}
	}

	return script, nil
}

// literalDecoder converts script literals into values, self is the list the script operates on.
type literalDecoder struct {
	self *core.List
}

func (d literalDecoder) decode(v any) (core.Value, error) {
	return core.ConvertJSONValue(v, d.decodeObject)
}

func (d literalDecoder) decodeAll(values []any) ([]core.Value, error) {
	converted := make([]core.Value, len(values))
	for i, v := range values {
		value, err := d.decode(v)
		if err != nil {
			return nil, err
		}
		converted[i] = value
	}
	return converted, nil
}

func (d literalDecoder) decodeObject(obj map[string]any) (core.Value, error) {
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: objects should have a single key", ErrInvalidLiteral)
	}

	for key, value := range obj {
		switch key {
		case SLICE_LITERAL_KEY:
			return core.SliceSpecFromJSON(value)
		case REF_LITERAL_KEY:
			if value != SELF_REF {
				return nil, fmt.Errorf("%w: only {ref: %s} is supported", ErrInvalidLiteral, SELF_REF)
			}
			if d.self == nil {
				return nil, fmt.Errorf("%w: {ref: %s} cannot be used here", ErrInvalidLiteral, SELF_REF)
			}
			return d.self, nil
		case FUNC_LITERAL_KEY:
			name, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: function name should be a string", ErrInvalidLiteral)
			}
			return d.builtin(name)
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidLiteral, key)
		}
	}
	panic("unreachable")
}

var BUILTIN_FUNCTION_NAMES = []string{"identity", "neg", "abs", "len", "repr", "natural", "append_self", "clear_self", "fail"}

func (d literalDecoder) builtin(name string) (*core.GoFunction, error) {
	var fn func(ctx *core.Context, arg core.Value) (core.Value, error)

	switch name {
	case "identity":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			return arg, nil
		}
	case "neg":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			switch a := arg.(type) {
			case core.Int:
				return -a, nil
			case core.Float:
				return -a, nil
			}
			return nil, fmt.Errorf("%w: bad operand type for unary -: '%s'", core.ErrInvalidArgument, core.TypeName(arg))
		}
	case "abs":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			switch a := arg.(type) {
			case core.Int:
				if a < 0 {
					return -a, nil
				}
				return a, nil
			case core.Float:
				if a < 0 {
					return -a, nil
				}
				return a, nil
			}
			return nil, fmt.Errorf("%w: bad operand type for abs(): '%s'", core.ErrInvalidArgument, core.TypeName(arg))
		}
	case "len":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			switch a := arg.(type) {
			case *core.List:
				return core.Int(a.Len()), nil
			case core.Str:
				return core.Int(utf8.RuneCountInString(string(a))), nil
			}
			return nil, fmt.Errorf("%w: object of type '%s' has no len()", core.ErrInvalidArgument, core.TypeName(arg))
		}
	case "repr":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			repr, err := ctx.Runtime().Repr(ctx, arg)
			if err != nil {
				return nil, err
			}
			return core.Str(repr), nil
		}
	case "natural":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			s, ok := arg.(core.Str)
			if !ok {
				return nil, fmt.Errorf("%w: natural() expects a string, not '%s'", core.ErrInvalidArgument, core.TypeName(arg))
			}
			return naturalKey(s), nil
		}
	case "append_self", "clear_self":
		if d.self == nil {
			return nil, fmt.Errorf("%w: %s cannot be used here", ErrInvalidLiteral, name)
		}
		self := d.self
		clearSelf := name == "clear_self"

		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			if clearSelf {
				self.Clear()
			} else {
				self.Append(arg)
			}
			return arg, nil
		}
	case "fail":
		fn = func(ctx *core.Context, arg core.Value) (core.Value, error) {
			return nil, ErrKeyFunctionFailure
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}

	return core.WrapGoFunction(name, func(ctx *core.Context, args ...core.Value) (core.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s() takes exactly one argument (%d given)", core.ErrInvalidArgument, name, len(args))
		}
		return fn(ctx, args[0])
	}), nil
}

// naturalKey is a sort key ordering strings in natural order: digit runs are compared numerically ("a2" < "a10").
type naturalKey string

func (k naturalKey) String() string {
	return "natural(" + strconv.Quote(string(k)) + ")"
}

func (k naturalKey) CompareTo(ctx *core.Context, op core.ComparisonOperator, other core.Value) (bool, error) {
	otherKey, ok := other.(naturalKey)
	if !ok {
		return false, fmt.Errorf("%w for %s: 'natural' and '%s'", core.ErrUnsupportedOperand, op, core.TypeName(other))
	}

	a, b := string(k), string(otherKey)
	switch op {
	case core.LessThan:
		return natural.Less(a, b), nil
	case core.LessOrEqual:
		return !natural.Less(b, a), nil
	case core.GreaterThan:
		return natural.Less(b, a), nil
	case core.GreaterOrEqual:
		return !natural.Less(a, b), nil
	}
	return false, fmt.Errorf("%w: %s", core.ErrUnsupportedOperand, op)
}
