package core

// Contains reports whether an element matches needle, see elementsMatch.
func (l *List) Contains(ctx *Context, needle Value) (bool, error) {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	for _, e := range borrow.Elements() {
		match, err := elementsMatch(ctx, e, needle)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of elements matching needle.
func (l *List) Count(ctx *Context, needle Value) (int, error) {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	count := 0
	for _, e := range borrow.Elements() {
		match, err := elementsMatch(ctx, e, needle)
		if err != nil {
			return 0, err
		}
		if match {
			count++
		}
	}
	return count, nil
}

// Index returns the position of the first element matching needle.
func (l *List) Index(ctx *Context, needle Value) (int, error) {
	pos, found, err := l.find(ctx, needle)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, l.notInListError(ctx, needle)
	}
	return pos, nil
}

// Remove removes the first element matching needle. The storage is borrowed for reading during
// the search, it is exclusively borrowed only to delete the element.
func (l *List) Remove(ctx *Context, needle Value) error {
	pos, found, err := l.find(ctx, needle)
	if err != nil {
		return err
	}
	if !found {
		return l.notInListError(ctx, needle)
	}

	borrow := l.storage.BorrowExclusive()
	defer borrow.Release()

	borrow.Set(drain(borrow.Elements(), IntRange{Start: pos, End: pos + 1}))
	return nil
}

func (l *List) find(ctx *Context, needle Value) (int, bool, error) {
	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	for i, e := range borrow.Elements() {
		match, err := elementsMatch(ctx, needle, e)
		if err != nil {
			return 0, false, err
		}
		if match {
			return i, true, nil
		}
	}
	return 0, false, nil
}

func (l *List) notInListError(ctx *Context, needle Value) error {
	repr, err := ctx.Runtime().Repr(ctx, needle)
	if err != nil {
		return err
	}
	return fmtValueNotInList(repr)
}
