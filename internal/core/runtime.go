package core

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

var (
	_ = []Runtime{(*BasicRuntime)(nil)}
)

type ComparisonOperator int

const (
	LessThan ComparisonOperator = iota + 1
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

func (op ComparisonOperator) String() string {
	switch op {
	case LessThan:
		return "<"
	case LessOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	}
	return "?"
}

// Reflected returns the operator to use when the operands are swapped.
func (op ComparisonOperator) Reflected() ComparisonOperator {
	switch op {
	case LessThan:
		return GreaterThan
	case LessOrEqual:
		return GreaterOrEqual
	case GreaterThan:
		return LessThan
	case GreaterOrEqual:
		return LessOrEqual
	}
	return op
}

// Runtime is the part of the host runtime the list calls back into. Every method may run arbitrary
// user code that mutates any reachable list, including the list being processed.
type Runtime interface {
	Equal(ctx *Context, a, b Value) (bool, error)

	Compare(ctx *Context, op ComparisonOperator, a, b Value) (bool, error)

	Call(ctx *Context, callable Value, args ...Value) (Value, error)

	// ExtractElements returns the elements of an arbitrary iterable, the caller can modify the result.
	ExtractElements(ctx *Context, iterable Value) ([]Value, error)

	ToBigInt(ctx *Context, v Value) (*big.Int, error)

	Truthy(ctx *Context, v Value) (bool, error)

	Repr(ctx *Context, v Value) (string, error)
}

// BasicRuntime is the default Runtime. It supports the scalar values of this package, lists,
// GoFunction callables and values implementing EqualityHook or OrderingHook.
type BasicRuntime struct{}

func NewBasicRuntime() *BasicRuntime {
	return &BasicRuntime{}
}

func (r *BasicRuntime) Equal(ctx *Context, a, b Value) (bool, error) {
	if hook, ok := a.(EqualityHook); ok {
		return hook.EqualTo(ctx, b)
	}
	if hook, ok := b.(EqualityHook); ok {
		return hook.EqualTo(ctx, a)
	}

	if list, ok := a.(*List); ok {
		return list.Equal(ctx, b)
	}
	if list, ok := b.(*List); ok {
		return list.Equal(ctx, a)
	}

	if x, y, ok := numericOperands(a, b); ok {
		return x.Cmp(y) == 0, nil
	}

	//NaN is not equal to itself, even when both operands are the same handle.
	if isNaN(a) || isNaN(b) {
		return false, nil
	}

	switch a := a.(type) {
	case Str:
		b, ok := b.(Str)
		return ok && a == b, nil
	case NoneType, nil:
		switch b.(type) {
		case NoneType, nil:
			return true, nil
		}
		return false, nil
	case SliceSpec:
		b, ok := b.(SliceSpec)
		return ok && a.String() == b.String(), nil
	}

	return Same(a, b), nil
}

func (r *BasicRuntime) Compare(ctx *Context, op ComparisonOperator, a, b Value) (bool, error) {
	if hook, ok := a.(OrderingHook); ok {
		return hook.CompareTo(ctx, op, b)
	}
	if hook, ok := b.(OrderingHook); ok {
		return hook.CompareTo(ctx, op.Reflected(), a)
	}

	if list, ok := a.(*List); ok {
		return list.Compare(ctx, op, b)
	}

	if isNaN(a) || isNaN(b) {
		_, aIsNum := toBigFloat(a)
		_, bIsNum := toBigFloat(b)
		if (aIsNum || isNaN(a)) && (bIsNum || isNaN(b)) {
			return false, nil
		}
	}

	if x, y, ok := numericOperands(a, b); ok {
		return cmpResult(op, x.Cmp(y)), nil
	}

	if x, ok := a.(Str); ok {
		if y, ok := b.(Str); ok {
			return cmpResult(op, strings.Compare(string(x), string(y))), nil
		}
	}

	return false, fmtUnsupportedOperand(op.String(), a, b)
}

func (r *BasicRuntime) Call(ctx *Context, callable Value, args ...Value) (Value, error) {
	fn, ok := callable.(*GoFunction)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotCallable, TypeName(callable))
	}
	return fn.Call(ctx, args...)
}

func (r *BasicRuntime) ExtractElements(ctx *Context, iterable Value) ([]Value, error) {
	switch v := iterable.(type) {
	case *List:
		return v.Elements(), nil
	case *ListIterator:
		var elements []Value
		for {
			e, ok := v.Next(ctx)
			if !ok {
				return elements, nil
			}
			elements = append(elements, e)
		}
	case []Value:
		elements := make([]Value, len(v))
		copy(elements, v)
		return elements, nil
	case Str:
		var elements []Value
		for _, char := range v {
			elements = append(elements, Str(char))
		}
		return elements, nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrNotIterable, TypeName(iterable))
}

func (r *BasicRuntime) ToBigInt(ctx *Context, v Value) (*big.Int, error) {
	switch v := v.(type) {
	case Int:
		return big.NewInt(int64(v)), nil
	case Bool:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case *big.Int:
		return new(big.Int).Set(v), nil
	}
	return nil, fmt.Errorf("%w: '%s'", ErrNotAnInteger, TypeName(v))
}

func (r *BasicRuntime) Truthy(ctx *Context, v Value) (bool, error) {
	switch v := v.(type) {
	case nil, NoneType:
		return false, nil
	case Bool:
		return bool(v), nil
	case Int:
		return v != 0, nil
	case Float:
		return v != 0, nil
	case Str:
		return v != "", nil
	case *List:
		return v.Truthy(), nil
	}
	return true, nil
}

func (r *BasicRuntime) Repr(ctx *Context, v Value) (string, error) {
	if list, ok := v.(*List); ok {
		return list.Repr(ctx)
	}
	if s, ok := fmtScalar(v); ok {
		return s, nil
	}
	return fmt.Sprintf("<%s object>", TypeName(v)), nil
}

func TypeName(v Value) string {
	switch v.(type) {
	case nil, NoneType:
		return "NoneType"
	case Int, *big.Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case *List:
		return "list"
	case *ListIterator:
		return "list_iterator"
	case *GoFunction:
		return "function"
	case SliceSpec:
		return "slice"
	}
	return reflect.TypeOf(v).String()
}

func cmpResult(op ComparisonOperator, cmp int) bool {
	switch op {
	case LessThan:
		return cmp < 0
	case LessOrEqual:
		return cmp <= 0
	case GreaterThan:
		return cmp > 0
	case GreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// numericOperands converts two numeric values (Int, Float, Bool, *big.Int) into big.Float values
// that can be compared exactly.
func numericOperands(a, b Value) (*big.Float, *big.Float, bool) {
	x, ok := toBigFloat(a)
	if !ok {
		return nil, nil, false
	}
	y, ok := toBigFloat(b)
	if !ok {
		return nil, nil, false
	}
	return x, y, true
}

func isNaN(v Value) bool {
	f, ok := v.(Float)
	return ok && f != f
}

func toBigFloat(v Value) (*big.Float, bool) {
	switch v := v.(type) {
	case Int:
		return new(big.Float).SetInt64(int64(v)), true
	case Bool:
		if v {
			return big.NewFloat(1), true
		}
		return big.NewFloat(0), true
	case Float:
		if v != v {
			return nil, false
		}
		return big.NewFloat(float64(v)), true
	case *big.Int:
		return new(big.Float).SetInt(v), true
	}
	return nil, false
}
