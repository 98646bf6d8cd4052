package core

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/listrt/listrt/internal/utils"
)

const (
	LIST_SHRINK_DIVIDER        = 2
	MIN_SHRINKABLE_LIST_LENGTH = 10 * LIST_SHRINK_DIVIDER
	MAX_LIST_LENGTH            = math.MaxInt32
)

// A List is a mutable sequence of value handles. Any number of holders can share a *List, the backing
// slice is owned by a StorageCell that checks that no mutation overlaps another access.
type List struct {
	storage *StorageCell
}

// NewList returns a list that takes ownership of elements.
func NewList(elements ...Value) *List {
	return &List{storage: newStorageCell(elements)}
}

// NewListFrom returns a list containing the elements of an arbitrary iterable, a nil iterable
// results in an empty list.
func NewListFrom(ctx *Context, iterable Value) (*List, error) {
	if iterable == nil {
		return NewList(), nil
	}
	elements, err := ctx.Runtime().ExtractElements(ctx, iterable)
	if err != nil {
		return nil, err
	}
	return NewList(elements...), nil
}

func (l *List) Len() int {
	return l.storage.Len()
}

// Elements returns a copy of the elements, the caller can modify the result.
func (l *List) Elements() []Value {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	return utils.CopySlice(borrow.Elements())
}

func (l *List) Truthy() bool {
	return l.Len() != 0
}

func (l *List) Hash() (int64, error) {
	return 0, ErrListUnhashable
}

func (l *List) Append(v Value) {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	borrow.Set(append(borrow.Elements(), v))
}

// Extend appends the elements of an arbitrary iterable. The elements are extracted before the storage
// is borrowed so extending a list with itself doubles it.
func (l *List) Extend(ctx *Context, iterable Value) error {
	elements, err := ctx.Runtime().ExtractElements(ctx, iterable)
	if err != nil {
		return err
	}

	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	borrow.Set(append(borrow.Elements(), elements...))
	return nil
}

// Insert inserts v before the element at the logical index i, i is clamped to [0, len].
func (l *List) Insert(i int, v Value) {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()
	length := len(elements)
	if i < 0 {
		i += length
	}
	i = utils.Clamp(i, 0, length)

	elements = append(elements, nil)
	copy(elements[i+1:], elements[i:])
	elements[i] = v
	borrow.Set(elements)
}

func (l *List) Clear() {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	borrow.Set(nil)
}

// Copy returns a shallow copy of the list.
func (l *List) Copy() *List {
	return NewList(l.Elements()...)
}

func (l *List) Reverse() {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	utils.Reverse(borrow.Elements())
}

// At returns the element at position i, it panics if i is not in [0, len).
func (l *List) At(i int) Value {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	return borrow.Elements()[i]
}

// GetIndex returns the element at the logical index i.
func (l *List) GetIndex(i int) (Value, error) {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	elements := borrow.Elements()
	pos, ok := ResolveIndex(i, len(elements))
	if !ok {
		return nil, ErrIndexOutOfRange
	}
	return elements[pos], nil
}

// GetSlice returns a new list containing the elements selected by s, in traversal order.
func (l *List) GetSlice(s SliceSpec) (*List, error) {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	elements := borrow.Elements()
	var selected []Value

	err := s.forEachSelected(len(elements), func(pos int) {
		selected = append(selected, elements[pos])
	})
	if err != nil {
		return nil, err
	}
	return NewList(selected...), nil
}

// GetItem implements subscription: index is an integer-like value or a SliceSpec.
func (l *List) GetItem(ctx *Context, index Value) (Value, error) {
	if s, ok := index.(SliceSpec); ok {
		return l.GetSlice(s)
	}

	i, err := coerceIndex(ctx, index)
	if err != nil {
		return nil, err
	}
	return l.GetIndex(i)
}

func (l *List) SetIndex(i int, v Value) error {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()
	pos, ok := ResolveIndex(i, len(elements))
	if !ok {
		return ErrAssignmentOutOfRange
	}
	elements[pos] = v
	return nil
}

// SetSlice assigns the elements of an arbitrary iterable to the slice s. A slice with a step of 1 is
// replaced by the new elements whatever their number, an extended slice requires as many elements as
// it selects. The iterable is consumed before the storage is borrowed.
func (l *List) SetSlice(ctx *Context, s SliceSpec, iterable Value) error {
	values, err := ctx.Runtime().ExtractElements(ctx, iterable)
	if err != nil {
		return err
	}

	if _, _, _, err := s.stride(); err != nil {
		return err
	}

	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()

	if s.Step == nil || s.Step.Cmp(bigOne) == 0 {
		r := ResolveRange(s.Start, s.Stop, len(elements))
		r.End = max(r.Start, r.End)
		borrow.Set(replaceRange(elements, r, values))
		return nil
	}

	count, err := s.SelectedCount(len(elements))
	if err != nil {
		return err
	}
	if count != len(values) {
		return fmt.Errorf("%w: sequence of size %d, extended slice of size %d", ErrExtendedSliceSizeDiff, len(values), count)
	}

	index := 0
	return s.forEachSelected(len(elements), func(pos int) {
		elements[pos] = values[index]
		index++
	})
}

func (l *List) SetItem(ctx *Context, index Value, value Value) error {
	if s, ok := index.(SliceSpec); ok {
		return l.SetSlice(ctx, s, value)
	}

	i, err := coerceIndex(ctx, index)
	if err != nil {
		return err
	}
	return l.SetIndex(i, value)
}

// Pop removes and returns the last element.
func (l *List) Pop() (Value, error) {
	return l.PopAt(-1)
}

// PopAt removes and returns the element at the logical index i.
func (l *List) PopAt(i int) (Value, error) {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()
	if len(elements) == 0 {
		return nil, ErrPopFromEmptyList
	}

	pos, ok := ResolveIndex(i, len(elements))
	if !ok {
		return nil, ErrPopIndexOutOfRange
	}

	elem := elements[pos]
	borrow.Set(drain(elements, IntRange{Start: pos, End: pos + 1}))
	return elem, nil
}

// Concat returns a new list containing the elements of l followed by the elements of other,
// other should be a list.
func (l *List) Concat(ctx *Context, other Value) (*List, error) {
	otherList, ok := other.(*List)
	if !ok {
		return nil, fmtUnsupportedOperand("+", l, other)
	}

	elements := l.Elements()
	elements = append(elements, otherList.Elements()...)
	return NewList(elements...), nil
}

// InPlaceConcat appends the elements of other, other should be a list (possibly l itself).
func (l *List) InPlaceConcat(ctx *Context, other Value) error {
	otherList, ok := other.(*List)
	if !ok {
		return fmtUnsupportedOperand("+=", l, other)
	}

	otherElements := otherList.Elements()

	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	borrow.Set(append(borrow.Elements(), otherElements...))
	return nil
}

// Repeat returns a new list containing the elements of l repeated n times, n <= 0 results in an empty list.
func (l *List) Repeat(n int) (*List, error) {
	elements := l.Elements()
	if n <= 0 || len(elements) == 0 {
		return NewList(), nil
	}

	if n > MAX_LIST_LENGTH/len(elements) {
		return nil, ErrRepeatedListTooLong
	}

	repeated := make([]Value, 0, len(elements)*n)
	for i := 0; i < n; i++ {
		repeated = append(repeated, elements...)
	}
	return NewList(repeated...), nil
}

// Repr returns the representation of the list, a list containing itself is represented by [...] at the
// point of recursion.
func (l *List) Repr(ctx *Context) (string, error) {
	if !ctx.enterRepr(l) {
		return "[...]", nil
	}
	defer ctx.leaveRepr(l)

	buf := strings.Builder{}
	buf.WriteByte('[')

	for i, e := range l.Elements() {
		if i > 0 {
			buf.WriteString(", ")
		}
		repr, err := ctx.Runtime().Repr(ctx, e)
		if err != nil {
			return "", err
		}
		buf.WriteString(repr)
	}

	buf.WriteByte(']')
	return buf.String(), nil
}

// drain removes the positions in r, the vacated positions are zeroed so that they do not retain values.
func drain(elements []Value, r IntRange) []Value {
	if r.IsEmpty() {
		return elements
	}

	oldLen := len(elements)
	n := copy(elements[r.Start:], elements[r.End:])
	newLen := r.Start + n
	clear(elements[newLen:oldLen])

	return utils.ShrinkSliceIfWastedCapacity(elements[:newLen], MIN_SHRINKABLE_LIST_LENGTH, LIST_SHRINK_DIVIDER)
}

func replaceRange(elements []Value, r IntRange, values []Value) []Value {
	result := make([]Value, 0, len(elements)-r.Len()+len(values))
	result = append(result, elements[:r.Start]...)
	result = append(result, values...)
	result = append(result, elements[r.End:]...)
	return result
}

// coerceIndex converts an integer-like value into an int, a value too large for an int is out of range.
func coerceIndex(ctx *Context, v Value) (int, error) {
	if i, ok := v.(Int); ok {
		return int(i), nil
	}

	bigInt, err := ctx.Runtime().ToBigInt(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("%w: list indices must be integers or slices, not %s", ErrInvalidArgument, TypeName(v))
	}
	return bigIntToIndex(bigInt)
}

func bigIntToIndex(i *big.Int) (int, error) {
	index, ok := bigToInt(i)
	if !ok {
		return 0, fmt.Errorf("%w: cannot fit '%s' into an index-sized integer", ErrIndexOutOfRange, i.String())
	}
	return index, nil
}
