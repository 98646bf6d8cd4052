package core

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONRepresentation(t *testing.T) {
	ctx := NewContext(ContextConfig{})

	t.Run("nested lists", func(t *testing.T) {
		list := NewList(Int(1), Float(1.5), Str("a"), None, Bool(false), NewList(Int(2)))

		repr, err := GetJSONRepresentation(ctx, list)
		require.NoError(t, err)
		assert.Equal(t, `[1,1.5,"a",null,false,[2]]`, repr)
	})

	t.Run("slices and functions", func(t *testing.T) {
		list := NewList(IntSlice(1, 2, 3).WithoutStart(), WrapGoFunction("neg", nil))

		repr, err := GetJSONRepresentation(ctx, list)
		require.NoError(t, err)
		assert.Equal(t, `[{"slice":[null,2,3]},{"func":"neg"}]`, repr)
	})

	t.Run("the same list twice", func(t *testing.T) {
		elem := NewList()

		repr, err := GetJSONRepresentation(ctx, NewList(elem, elem))
		require.NoError(t, err)
		assert.Equal(t, `[[],[]]`, repr)
	})

	t.Run("self-containing list", func(t *testing.T) {
		list := NewList()
		list.Append(list)

		_, err := GetJSONRepresentation(ctx, list)
		assert.ErrorIs(t, err, ErrNoRepresentation)
	})

	t.Run("NaN", func(t *testing.T) {
		_, err := GetJSONRepresentation(ctx, Float(math.NaN()))
		assert.ErrorIs(t, err, ErrNoRepresentation)
	})
}

func TestParseJSONRepresentation(t *testing.T) {

	t.Run("scalars and arrays", func(t *testing.T) {
		v, err := ParseJSONRepresentation([]byte(`[1, 2.5, "a", null, true, [3]]`), nil)
		require.NoError(t, err)

		list := v.(*List)
		require.Equal(t, 6, list.Len())
		assert.Equal(t, []Value{Int(1), Float(2.5), Str("a"), None, Bool(true)}, list.Elements()[:5])
		assert.Equal(t, ints(3), list.At(5).(*List).Elements())
	})

	t.Run("big integer", func(t *testing.T) {
		v, err := ParseJSONRepresentation([]byte(`100000000000000000000000000000`), nil)
		require.NoError(t, err)

		expected, _ := new(big.Int).SetString("100000000000000000000000000000", 10)
		assert.Equal(t, 0, expected.Cmp(v.(*big.Int)))
	})

	t.Run("objects", func(t *testing.T) {
		_, err := ParseJSONRepresentation([]byte(`{"a": 1}`), nil)
		assert.ErrorIs(t, err, ErrUnsupportedObject)

		v, err := ParseJSONRepresentation([]byte(`[{"slice": [1, null, -1]}]`), func(obj map[string]any) (Value, error) {
			return SliceSpecFromJSON(obj["slice"])
		})
		require.NoError(t, err)
		assert.Equal(t, "slice(1, None, -1)", v.(*List).At(0).(SliceSpec).String())
	})

	t.Run("invalid slice", func(t *testing.T) {
		_, err := SliceSpecFromJSON([]any{1, 2})
		assert.ErrorIs(t, err, ErrInvalidJSONSlice)

		_, err = SliceSpecFromJSON([]any{"a", nil, nil})
		assert.ErrorIs(t, err, ErrInvalidJSONSlice)
	})
}
