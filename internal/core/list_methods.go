package core

import (
	"fmt"
	"math"
	"slices"

	"github.com/listrt/listrt/internal/utils"
)

var (
	LIST_METHOD_NAMES = []string{
		"__add__", "__bool__", "__contains__", "__delitem__", "__eq__", "__ge__", "__getitem__", "__gt__",
		"__hash__", "__iadd__", "__iter__", "__le__", "__len__", "__lt__", "__mul__", "__ne__", "__repr__",
		"__reversed__", "__rmul__", "__setitem__",
		"append", "clear", "copy", "count", "extend", "index", "insert", "pop", "remove", "reverse", "sort",
	}

	LIST_ITERATOR_METHOD_NAMES = []string{"__iter__", "__next__"}
)

// CallMethod calls the method of the list named name. Methods that do not return anything in the
// language return None.
func (l *List) CallMethod(ctx *Context, name string, args ...Value) (Value, error) {
	switch name {
	case "__len__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		return Int(l.Len()), nil
	case "__bool__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		return Bool(l.Truthy()), nil
	case "__hash__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		hash, err := l.Hash()
		if err != nil {
			return nil, err
		}
		return Int(hash), nil
	case "__repr__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		repr, err := l.Repr(ctx)
		if err != nil {
			return nil, err
		}
		return Str(repr), nil
	case "__iter__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		return l.Iterator(), nil
	case "__reversed__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		reversed := l.Copy()
		reversed.Reverse()
		return reversed.Iterator(), nil
	case "__add__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return l.Concat(ctx, args[0])
	case "__iadd__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		if err := l.InPlaceConcat(ctx, args[0]); err != nil {
			return nil, err
		}
		return l, nil
	case "__mul__", "__rmul__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		n, err := coerceRepeatCount(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return l.Repeat(n)
	case "__contains__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.Contains(ctx, args[0]))
	case "__eq__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.Equal(ctx, args[0]))
	case "__ne__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.NotEqual(ctx, args[0]))
	case "__lt__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.Less(ctx, args[0]))
	case "__le__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.LessEqual(ctx, args[0]))
	case "__gt__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.Greater(ctx, args[0]))
	case "__ge__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return boolResult(l.GreaterEqual(ctx, args[0]))
	case "__getitem__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return l.GetItem(ctx, args[0])
	case "__setitem__":
		if err := checkArgCount(name, args, 2, 2); err != nil {
			return nil, err
		}
		return None, l.SetItem(ctx, args[0], args[1])
	case "__delitem__":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return None, l.DelItem(ctx, args[0])
	case "append":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		l.Append(args[0])
		return None, nil
	case "clear":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		l.Clear()
		return None, nil
	case "copy":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		return l.Copy(), nil
	case "count":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		count, err := l.Count(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return Int(count), nil
	case "extend":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return None, l.Extend(ctx, args[0])
	case "index":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		index, err := l.Index(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return Int(index), nil
	case "insert":
		if err := checkArgCount(name, args, 2, 2); err != nil {
			return nil, err
		}
		i, err := coerceClampedIndex(ctx, args[0])
		if err != nil {
			return nil, err
		}
		l.Insert(i, args[1])
		return None, nil
	case "pop":
		if err := checkArgCount(name, args, 0, 1); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return l.Pop()
		}
		i, err := coerceIndex(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return l.PopAt(i)
	case "remove":
		if err := checkArgCount(name, args, 1, 1); err != nil {
			return nil, err
		}
		return None, l.Remove(ctx, args[0])
	case "reverse":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		l.Reverse()
		return None, nil
	case "sort":
		//sort(key=None, reverse=False)
		if err := checkArgCount(name, args, 0, 2); err != nil {
			return nil, err
		}
		var opts SortOptions
		if len(args) > 0 {
			if _, isNone := args[0].(NoneType); !isNone {
				opts.Key = args[0]
			}
		}
		if len(args) > 1 {
			reverse, err := ctx.Runtime().Truthy(ctx, args[1])
			if err != nil {
				return nil, err
			}
			opts.Reverse = reverse
		}
		return None, l.Sort(ctx, opts)
	}

	if closest, _, ok := utils.FindClosestString(ctx, LIST_METHOD_NAMES, name, 2); ok {
		return nil, fmt.Errorf("%w: 'list' object has no method '%s', did you mean '%s' ?", ErrUnknownMethod, name, closest)
	}
	return nil, fmt.Errorf("%w: 'list' object has no method '%s'", ErrUnknownMethod, name)
}

func (l *List) HasMethod(name string) bool {
	return slices.Contains(LIST_METHOD_NAMES, name)
}

// CallMethod calls the method of the iterator named name, __next__ fails with ErrIteratorExhausted
// when there are no more elements.
func (it *ListIterator) CallMethod(ctx *Context, name string, args ...Value) (Value, error) {
	switch name {
	case "__iter__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		return it, nil
	case "__next__":
		if err := checkArgCount(name, args, 0, 0); err != nil {
			return nil, err
		}
		next, ok := it.Next(ctx)
		if !ok {
			return nil, ErrIteratorExhausted
		}
		return next, nil
	}
	return nil, fmt.Errorf("%w: 'list_iterator' object has no method '%s'", ErrUnknownMethod, name)
}

func checkArgCount(method string, args []Value, min, max int) error {
	if len(args) >= min && len(args) <= max {
		return nil
	}
	if min == max {
		return fmt.Errorf("%w: %s() takes exactly %d argument(s) (%d given)", ErrInvalidArgument, method, min, len(args))
	}
	return fmt.Errorf("%w: %s() takes from %d to %d argument(s) (%d given)", ErrInvalidArgument, method, min, max, len(args))
}

func boolResult(b bool, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return Bool(b), nil
}

// coerceClampedIndex converts an integer-like value into an int, values too large for an int are clamped.
func coerceClampedIndex(ctx *Context, v Value) (int, error) {
	bigInt, err := ctx.Runtime().ToBigInt(ctx, v)
	if err != nil {
		return 0, err
	}
	if i, ok := bigToInt(bigInt); ok {
		return i, nil
	}
	if bigInt.Sign() < 0 {
		return math.MinInt, nil
	}
	return math.MaxInt, nil
}

func coerceRepeatCount(ctx *Context, v Value) (int, error) {
	bigInt, err := ctx.Runtime().ToBigInt(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("%w: can't multiply sequence by non-int of type '%s'", ErrInvalidArgument, TypeName(v))
	}
	if n, ok := bigToInt(bigInt); ok {
		return n, nil
	}
	if bigInt.Sign() < 0 {
		return 0, nil
	}
	return 0, ErrRepeatedListTooLong
}
