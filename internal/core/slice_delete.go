package core

// DeleteIndex removes the element at the logical index i.
func (l *List) DeleteIndex(i int) error {
	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()
	pos, ok := ResolveIndex(i, len(elements))
	if !ok {
		return ErrAssignmentOutOfRange
	}

	borrow.Set(drain(elements, IntRange{Start: pos, End: pos + 1}))
	return nil
}

// DeleteSlice removes in place the elements selected by s. The deletion is a single pass over the
// resolved range that does not allocate. A zero step is rejected before any mutation.
func (l *List) DeleteSlice(ctx *Context, s SliceSpec) error {
	forward, stride, strideFits, err := s.stride()
	if err != nil {
		return err
	}

	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	elements := borrow.Elements()
	prevLen := len(elements)

	if forward {
		r := ResolveRange(s.Start, s.Stop, len(elements))
		switch {
		case r.IsEmpty():
		case !strideFits:
			//at most one element at that stride
			elements = drain(elements, IntRange{Start: r.Start, End: r.Start + 1})
		case stride == 1:
			elements = drain(elements, r)
		default:
			elements = deleteSteppedRange(elements, r, stride)
		}
	} else {
		r := ResolveReverseRange(s.Start, s.Stop, len(elements))
		switch {
		case r.IsEmpty():
		case !strideFits:
			elements = drain(elements, IntRange{Start: r.End - 1, End: r.End})
		case stride == 1:
			elements = drain(elements, r)
		default:
			elements = deleteSteppedRangeReverse(elements, r, stride)
		}
	}

	borrow.Set(elements)

	ctx.Logger().Debug().
		Stringer("slice", s).
		Int("deleted", prevLen-len(elements)).
		Msg("slice deletion")
	return nil
}

// DelItem implements deletion by subscription: index is an integer-like value or a SliceSpec.
func (l *List) DelItem(ctx *Context, index Value) error {
	if s, ok := index.(SliceSpec); ok {
		return l.DeleteSlice(ctx, s)
	}

	i, err := coerceIndex(ctx, index)
	if err != nil {
		return err
	}
	return l.DeleteIndex(i)
}

// deleteSteppedRange removes r.Start, r.Start+stride, ... (< r.End). Kept elements are swapped towards
// the front of the range, the deleted ones end up contiguous at the end of the range and are drained at once.
func deleteSteppedRange(elements []Value, r IntRange, stride int) []Value {
	deleted := 0
	nextTarget := r.Start

	for i := r.Start; i < r.End; i++ {
		if i == nextTarget {
			deleted++
			if r.End-nextTarget > stride {
				nextTarget += stride
			} else {
				nextTarget = -1
			}
			continue
		}
		elements[i-deleted], elements[i] = elements[i], elements[i-deleted]
	}

	return drain(elements, IntRange{Start: r.End - deleted, End: r.End})
}

// deleteSteppedRangeReverse removes r.End-1, r.End-1-stride, ... (>= r.Start). It mirrors deleteSteppedRange:
// kept elements are swapped towards the back and the deleted ones are drained from the front of the range.
func deleteSteppedRangeReverse(elements []Value, r IntRange, stride int) []Value {
	deleted := 0
	nextTarget := r.End - 1

	for i := r.End - 1; i >= r.Start; i-- {
		if i == nextTarget {
			deleted++
			if nextTarget-r.Start >= stride {
				nextTarget -= stride
			} else {
				nextTarget = -1
			}
			continue
		}
		elements[i+deleted], elements[i] = elements[i], elements[i+deleted]
	}

	return drain(elements, IntRange{Start: r.Start, End: r.Start + deleted})
}
