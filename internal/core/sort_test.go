package core

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/listrt/listrt/internal/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSort(t *testing.T) {
	testconfig.AllowParallelization(t)

	ctx := NewContext(ContextConfig{})

	t.Run("ascending", func(t *testing.T) {
		list := NewList(Int(3), Int(1), Int(2))

		require.NoError(t, list.Sort(ctx, SortOptions{}))
		assert.Equal(t, ints(1, 2, 3), list.Elements())
	})

	t.Run("descending", func(t *testing.T) {
		list := NewList(Int(3), Int(1), Int(2))

		require.NoError(t, list.Sort(ctx, SortOptions{Reverse: true}))
		assert.Equal(t, ints(3, 2, 1), list.Elements())
	})

	t.Run("empty list", func(t *testing.T) {
		list := NewList()

		require.NoError(t, list.Sort(ctx, SortOptions{}))
		assert.Zero(t, list.Len())
	})

	t.Run("strings", func(t *testing.T) {
		list := NewList(Str("b"), Str("c"), Str("a"))

		require.NoError(t, list.Sort(ctx, SortOptions{}))
		assert.Equal(t, []Value{Str("a"), Str("b"), Str("c")}, list.Elements())
	})

	t.Run("lists", func(t *testing.T) {
		a := NewList(Int(1), Int(2))
		b := NewList(Int(1))
		c := NewList(Int(0), Int(5))
		list := NewList(a, b, c)

		require.NoError(t, list.Sort(ctx, SortOptions{}))
		assert.Equal(t, []Value{c, b, a}, list.Elements())
	})

	t.Run("random permutations", func(t *testing.T) {
		random := rand.New(rand.NewSource(0))

		for i := 0; i < 100; i++ {
			length := random.Intn(50)
			values := make([]int64, length)
			for j := range values {
				values[j] = int64(random.Intn(20))
			}

			list := NewList(ints(values...)...)
			require.NoError(t, list.Sort(ctx, SortOptions{}))

			slices.Sort(values)
			assert.Equal(t, ints(values...), list.Elements())
		}
	})

	t.Run("key function", func(t *testing.T) {
		neg := WrapGoFunction("neg", func(ctx *Context, args ...Value) (Value, error) {
			return -args[0].(Int), nil
		})
		list := NewList(Int(1), Int(3), Int(2))

		require.NoError(t, list.Sort(ctx, SortOptions{Key: neg}))
		assert.Equal(t, ints(3, 2, 1), list.Elements())

		require.NoError(t, list.Sort(ctx, SortOptions{Key: neg, Reverse: true}))
		assert.Equal(t, ints(1, 2, 3), list.Elements())
	})

	t.Run("the list is empty while the key function runs", func(t *testing.T) {
		var list *List
		var observedLengths []int

		key := WrapGoFunction("key", func(ctx *Context, args ...Value) (Value, error) {
			observedLengths = append(observedLengths, list.Len())
			return args[0], nil
		})
		list = NewList(Int(2), Int(1))

		require.NoError(t, list.Sort(ctx, SortOptions{Key: key}))
		assert.Equal(t, []int{0, 0}, observedLengths)
		assert.Equal(t, ints(1, 2), list.Elements())
	})

	t.Run("failing key function", func(t *testing.T) {
		keyErr := errors.New("key error")
		key := WrapGoFunction("key", func(ctx *Context, args ...Value) (Value, error) {
			if args[0] == Int(2) {
				return nil, keyErr
			}
			return args[0], nil
		})
		list := NewList(Int(3), Int(2), Int(1))

		err := list.Sort(ctx, SortOptions{Key: key})
		assert.ErrorIs(t, err, keyErr)
		assert.NotErrorIs(t, err, ErrMutationConflict)

		//no element is lost
		assert.Equal(t, ints(3, 2, 1), list.Elements())
	})

	t.Run("non callable key", func(t *testing.T) {
		list := NewList(Int(3), Int(2))

		err := list.Sort(ctx, SortOptions{Key: Int(1)})
		assert.ErrorIs(t, err, ErrNotCallable)
		assert.Equal(t, ints(3, 2), list.Elements())
	})

	t.Run("non comparable elements", func(t *testing.T) {
		list := NewList(Int(3), Str("a"), Int(1))

		err := list.Sort(ctx, SortOptions{})
		assert.ErrorIs(t, err, ErrUnsupportedOperand)
		assert.ElementsMatch(t, []Value{Int(3), Str("a"), Int(1)}, list.Elements())
	})

	t.Run("comparison that appends to the sorted list", func(t *testing.T) {
		var list *List
		elem := &orderingFunc{fn: func(ctx *Context, op ComparisonOperator, other Value) (bool, error) {
			list.Append(Str("appended"))
			return false, nil
		}}
		list = NewList(Int(1), elem, Int(0))

		err := list.Sort(ctx, SortOptions{})
		assert.ErrorIs(t, err, ErrListModifiedDuringSort)
		assert.Equal(t, MutationConflictKind, ErrorKindOf(err))

		//the list contains exactly the appended elements.
		elements := list.Elements()
		require.NotEmpty(t, elements)
		for _, e := range elements {
			assert.Equal(t, Str("appended"), e)
		}
	})

	t.Run("key function that clears the list", func(t *testing.T) {
		var list *List
		key := WrapGoFunction("key", func(ctx *Context, args ...Value) (Value, error) {
			list.Clear()
			return args[0], nil
		})
		list = NewList(Int(2), Int(1))

		err := list.Sort(ctx, SortOptions{Key: key})
		assert.ErrorIs(t, err, ErrListModifiedDuringSort)
		assert.Zero(t, list.Len())
	})

	t.Run("key function that mutates the list and fails", func(t *testing.T) {
		keyErr := errors.New("key error")
		var list *List
		key := WrapGoFunction("key", func(ctx *Context, args ...Value) (Value, error) {
			list.Append(Int(100))
			return nil, keyErr
		})
		list = NewList(Int(2), Int(1))

		err := list.Sort(ctx, SortOptions{Key: key})
		assert.ErrorIs(t, err, keyErr)
		assert.ErrorIs(t, err, ErrListModifiedDuringSort)
		assert.Equal(t, ints(100), list.Elements())
	})

	t.Run("sorting a list while it is borrowed", func(t *testing.T) {
		var list *List
		elem := &equalityFunc{fn: func(ctx *Context, other Value) (bool, error) {
			return false, list.Sort(ctx, SortOptions{})
		}}
		list = NewList(Int(1), elem)

		assert.Panics(t, func() {
			list.Contains(ctx, Int(2))
		})
	})
}
