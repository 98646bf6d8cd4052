package core

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrNoRepresentation  = errors.New("no JSON representation")
	ErrInvalidJSONSlice  = errors.New("invalid JSON slice: an array of 3 integers or nulls is expected")
	ErrUnsupportedObject = errors.New("JSON objects are not supported")
)

// GetJSONRepresentation returns the JSON representation of v, lists are represented by arrays.
// A self-containing list has no representation.
func GetJSONRepresentation(ctx *Context, v Value) (string, error) {
	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, nil, 0)

	if err := WriteJSONRepresentation(ctx, stream, v, map[*List]struct{}{}); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", stream.Error
	}
	return string(stream.Buffer()), nil
}

func WriteJSONRepresentation(ctx *Context, w *jsoniter.Stream, v Value, encountered map[*List]struct{}) error {
	switch val := v.(type) {
	case nil, NoneType:
		w.WriteNil()
	case Bool:
		w.WriteBool(bool(val))
	case Int:
		w.WriteInt64(int64(val))
	case *big.Int:
		w.WriteRaw(val.String())
	case Float:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrNoRepresentation, f)
		}
		w.WriteFloat64(f)
	case Str:
		w.WriteString(string(val))
	case SliceSpec:
		w.WriteObjectStart()
		w.WriteObjectField("slice")
		w.WriteArrayStart()
		for i, bound := range []*big.Int{val.Start, val.Stop, val.Step} {
			if i > 0 {
				w.WriteMore()
			}
			if bound == nil {
				w.WriteNil()
			} else {
				w.WriteRaw(bound.String())
			}
		}
		w.WriteArrayEnd()
		w.WriteObjectEnd()
	case *GoFunction:
		w.WriteObjectStart()
		w.WriteObjectField("func")
		w.WriteString(val.Name)
		w.WriteObjectEnd()
	case *List:
		if _, ok := encountered[val]; ok {
			return fmt.Errorf("%w: self-containing list", ErrNoRepresentation)
		}
		encountered[val] = struct{}{}
		defer delete(encountered, val)

		w.WriteArrayStart()
		for i, e := range val.Elements() {
			if i > 0 {
				w.WriteMore()
			}
			if err := WriteJSONRepresentation(ctx, w, e, encountered); err != nil {
				return err
			}
		}
		w.WriteArrayEnd()
	default:
		return fmt.Errorf("%w: %s", ErrNoRepresentation, TypeName(v))
	}
	return nil
}

// ParseJSONRepresentation converts JSON data into a value: integral numbers become Int (or *big.Int),
// other numbers Float, arrays lists and null None. Objects are converted by decodeObject, if it is nil
// objects are not supported.
func ParseJSONRepresentation(data []byte, decodeObject func(obj map[string]any) (Value, error)) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	return ConvertJSONValue(v, decodeObject)
}

// ConvertJSONValue converts a decoded JSON value (numbers decoded as json.Number or float64), see ParseJSONRepresentation.
func ConvertJSONValue(v any, decodeObject func(obj map[string]any) (Value, error)) (Value, error) {
	switch val := v.(type) {
	case nil:
		return None, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case json.Number:
		return convertJSONNumber(val.String())
	case float64:
		return Float(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return new(big.Int).SetUint64(val), nil
		}
		return Int(val), nil
	case []any:
		elements := make([]Value, len(val))
		for i, e := range val {
			elem, err := ConvertJSONValue(e, decodeObject)
			if err != nil {
				return nil, err
			}
			elements[i] = elem
		}
		return NewList(elements...), nil
	case map[string]any:
		if decodeObject == nil {
			return nil, ErrUnsupportedObject
		}
		return decodeObject(val)
	}
	return nil, fmt.Errorf("unexpected JSON value of type %T", v)
}

// SliceSpecFromJSON converts [start, stop, step] into a SliceSpec, null bounds are absent.
func SliceSpecFromJSON(v any) (SliceSpec, error) {
	bounds, ok := v.([]any)
	if !ok || len(bounds) != 3 {
		return SliceSpec{}, ErrInvalidJSONSlice
	}

	var converted [3]*big.Int
	for i, bound := range bounds {
		if bound == nil {
			continue
		}
		value, err := ConvertJSONValue(bound, nil)
		if err != nil {
			return SliceSpec{}, ErrInvalidJSONSlice
		}
		switch b := value.(type) {
		case Int:
			converted[i] = big.NewInt(int64(b))
		case *big.Int:
			converted[i] = b
		default:
			return SliceSpec{}, ErrInvalidJSONSlice
		}
	}
	return NewSliceSpec(converted[0], converted[1], converted[2]), nil
}

func convertJSONNumber(s string) (Value, error) {
	if i, ok := new(big.Int).SetString(s, 10); ok {
		if i.IsInt64() {
			return Int(i.Int64()), nil
		}
		return i, nil
	}

	f, ok := new(big.Float).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid JSON number: %s", s)
	}
	float, _ := f.Float64()
	return Float(float), nil
}
