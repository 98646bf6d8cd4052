package core

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// A Value is an opaque handle to a value owned by the host runtime. Lists never inspect
// the internals of their elements, they only compare them through the Runtime.
type Value = any

type NoneType struct{}

var None = NoneType{}

func (NoneType) String() string {
	return "None"
}

type Int int64

type Float float64

type Bool bool

type Str string

// EqualityHook is implemented by values that overload equality, EqualTo may call back into the runtime
// and mutate any reachable list.
type EqualityHook interface {
	EqualTo(ctx *Context, other Value) (bool, error)
}

// OrderingHook is implemented by values that overload ordering operators.
type OrderingHook interface {
	CompareTo(ctx *Context, op ComparisonOperator, other Value) (bool, error)
}

// A GoFunction is a host callable usable as key function.
type GoFunction struct {
	Name string
	fn   func(ctx *Context, args ...Value) (Value, error)
}

func WrapGoFunction(name string, fn func(ctx *Context, args ...Value) (Value, error)) *GoFunction {
	return &GoFunction{Name: name, fn: fn}
}

func (f *GoFunction) Call(ctx *Context, args ...Value) (Value, error) {
	return f.fn(ctx, args...)
}

// Same reports whether a and b are the same handle. Reference kinds are compared by address,
// comparable scalars by value, and other values are never the same unless they share their address.
// Floats are compared by their bits so a NaN handle is the same as itself.
func Same(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	typeA := reflect.TypeOf(a)
	if typeA != reflect.TypeOf(b) {
		return false
	}

	switch typeA.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a == b
	case reflect.Map, reflect.Slice, reflect.Func:
		valA := reflect.ValueOf(a)
		valB := reflect.ValueOf(b)
		if typeA.Kind() == reflect.Slice && valA.Len() != valB.Len() {
			return false
		}
		return valA.Pointer() == valB.Pointer()
	case reflect.Float32, reflect.Float64:
		return math.Float64bits(reflect.ValueOf(a).Float()) == math.Float64bits(reflect.ValueOf(b).Float())
	}

	if !typeA.Comparable() {
		return false
	}
	return comparableEqual(a, b)
}

// comparableEqual compares values of a comparable type, the comparison panics if an interface field
// holds a value of a non comparable type: such values are never the same.
func comparableEqual(a, b Value) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

func fmtScalar(v Value) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "None", true
	case NoneType:
		return "None", true
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), true
	case Bool:
		if val {
			return "True", true
		}
		return "False", true
	case Str:
		return strconv.Quote(string(val)), true
	case *GoFunction:
		return fmt.Sprintf("<function %s>", val.Name), true
	case fmt.Stringer:
		return val.String(), true
	}
	return "", false
}
