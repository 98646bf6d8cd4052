package core

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/listrt/listrt/internal/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteSlice(t *testing.T) {
	testconfig.AllowParallelization(t)

	ctx := NewContext(ContextConfig{})

	t.Run("forward step", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, IntSlice(2, 9, 2))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 3, 5, 7, 9), list.Elements())
	})

	t.Run("backward step", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, IntSlice(8, 1, -2))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 3, 5, 7, 9), list.Elements())
	})

	t.Run("step of 1", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, IntSlice(2, 5, 1))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 5, 6, 7, 8, 9), list.Elements())
	})

	t.Run("step of -1", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, IntSlice(5, 2, -1))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 2, 6, 7, 8, 9), list.Elements())
	})

	t.Run("all elements", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, SliceSpec{})
		require.NoError(t, err)
		assert.Empty(t, list.Elements())
	})

	t.Run("all elements in reverse order", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, SliceSpec{Step: big.NewInt(-1)})
		require.NoError(t, err)
		assert.Empty(t, list.Elements())
	})

	t.Run("empty range", func(t *testing.T) {
		list := NewList(intRange(10)...)
		version := list.storage.Version()

		err := list.DeleteSlice(ctx, IntSlice(7, 3, 2))
		require.NoError(t, err)
		assert.Equal(t, intRange(10), list.Elements())

		//the storage has been exclusively borrowed even if nothing is deleted.
		assert.Equal(t, version+1, list.storage.Version())
	})

	t.Run("zero step", func(t *testing.T) {
		list := NewList(intRange(10)...)
		version := list.storage.Version()

		err := list.DeleteSlice(ctx, IntSlice(0, 5, 0))
		assert.ErrorIs(t, err, ErrZeroSliceStep)
		assert.Equal(t, intRange(10), list.Elements())
		assert.Equal(t, version, list.storage.Version())
	})

	t.Run("step that does not fit an int", func(t *testing.T) {
		huge, _ := new(big.Int).SetString("-100000000000000000000000000000", 10)

		list := NewList(intRange(10)...)
		err := list.DeleteSlice(ctx, NewSliceSpec(nil, nil, huge))
		require.NoError(t, err)
		assert.Equal(t, intRange(9), list.Elements())

		err = list.DeleteSlice(ctx, NewSliceSpec(big.NewInt(2), nil, new(big.Int).Neg(huge)))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 3, 4, 5, 6, 7, 8), list.Elements())
	})

	t.Run("step larger than the range", func(t *testing.T) {
		list := NewList(intRange(10)...)

		err := list.DeleteSlice(ctx, IntSlice(3, 6, 100))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 1, 2, 4, 5, 6, 7, 8, 9), list.Elements())
	})

	t.Run("vacated positions do not retain elements", func(t *testing.T) {
		elem := NewList()
		list := NewList(Int(0), elem, Int(2), elem)

		err := list.DeleteSlice(ctx, IntSlice(1, 4, 2))
		require.NoError(t, err)
		assert.Equal(t, ints(0, 2), list.Elements())

		elements := list.storage.elements
		assert.Equal(t, []Value{nil, nil}, elements[len(elements):cap(elements)])
	})

	t.Run("storage shrinks", func(t *testing.T) {
		list := NewList(intRange(100)...)

		err := list.DeleteSlice(ctx, IntSlice(0, 90, 1))
		require.NoError(t, err)
		assert.Equal(t, ints(90, 91, 92, 93, 94, 95, 96, 97, 98, 99), list.Elements())
		assert.Equal(t, 15, cap(list.storage.elements))
	})

	t.Run("deleting while the list is borrowed by a callback is an aliasing violation", func(t *testing.T) {
		list := NewList(intRange(3)...)

		hook := &equalityFunc{fn: func(ctx *Context, other Value) (bool, error) {
			return false, list.DeleteSlice(ctx, IntSlice(0, 1, 1))
		}}

		assert.PanicsWithError(t, (&BorrowConflictError{ExclusiveRequested: true, SharedBorrows: 1}).Error(), func() {
			list.Contains(ctx, hook)
		})
	})
}

func TestDeleteSliceMatchesReferenceModel(t *testing.T) {
	testconfig.AllowParallelization(t)

	ctx := NewContext(ContextConfig{})
	random := rand.New(rand.NewSource(0))

	randomBound := func(length int) *big.Int {
		if random.Intn(6) == 0 {
			return nil
		}
		return big.NewInt(int64(random.Intn(3*length+3) - (3*length+3)/2))
	}

	for i := 0; i < 5_000; i++ {
		length := random.Intn(30)
		step := int64(random.Intn(13) - 6)
		if step == 0 {
			step = 1
		}

		s := NewSliceSpec(randomBound(length), randomBound(length), big.NewInt(step))
		if random.Intn(8) == 0 {
			s.Step = nil
		}

		list := NewList(intRange(length)...)
		expected := deleteSliceWithBitset(length, s)

		err := list.DeleteSlice(ctx, s)
		require.NoError(t, err)

		if diff := cmp.Diff(expected, list.Elements(), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("deletion of %s in a list of length %d (-expected +actual):\n%s", s, length, diff)
		}
	}
}

func TestDelItem(t *testing.T) {
	ctx := NewContext(ContextConfig{})

	t.Run("integer index", func(t *testing.T) {
		list := NewList(intRange(3)...)

		require.NoError(t, list.DelItem(ctx, Int(-1)))
		assert.Equal(t, intRange(2), list.Elements())
	})

	t.Run("index out of range", func(t *testing.T) {
		list := NewList(intRange(3)...)

		err := list.DelItem(ctx, Int(3))
		assert.ErrorIs(t, err, ErrAssignmentOutOfRange)
		assert.Equal(t, OutOfRangeKind, ErrorKindOf(err))
	})

	t.Run("slice", func(t *testing.T) {
		list := NewList(intRange(5)...)

		require.NoError(t, list.DelItem(ctx, IntSlice(0, 5, 2)))
		assert.Equal(t, ints(1, 3), list.Elements())
	})

	t.Run("invalid index", func(t *testing.T) {
		list := NewList(intRange(3)...)

		err := list.DelItem(ctx, Str("a"))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

// deleteSliceWithBitset marks the positions selected by s in a bitset, then keeps the unmarked elements.
// The positions are computed as by Python's slice.indices.
func deleteSliceWithBitset(length int, s SliceSpec) []Value {
	step := int64(1)
	if s.Step != nil {
		step = s.Step.Int64()
	}

	lower, upper := int64(0), int64(length)
	if step < 0 {
		lower, upper = -1, int64(length)-1
	}

	adjust := func(bound *big.Int, defaultValue int64) int64 {
		if bound == nil {
			return defaultValue
		}
		v := bound.Int64()
		if v < 0 {
			v += int64(length)
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}

	var start, stop int64
	if step > 0 {
		start, stop = adjust(s.Start, lower), adjust(s.Stop, upper)
	} else {
		start, stop = adjust(s.Start, upper), adjust(s.Stop, lower)
	}

	selected := bitset.New(uint(length))
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		selected.Set(uint(i))
	}

	kept := []Value{}
	for i := 0; i < length; i++ {
		if !selected.Test(uint(i)) {
			kept = append(kept, Int(i))
		}
	}
	return kept
}
