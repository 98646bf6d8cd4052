package core

const (
	MAX_COMPARISON_DEPTH = 200
)

// elementsMatch is the matching rule shared by comparisons and searches: a is matched by b if it is the same
// handle or if the runtime considers them equal. The runtime is not called for identical handles.
func elementsMatch(ctx *Context, a, b Value) (bool, error) {
	if Same(a, b) {
		return true, nil
	}
	return ctx.Runtime().Equal(ctx, a, b)
}

// Equal reports whether other is a list with the same length and matching elements. The storages of
// both lists are borrowed for reading during the comparison so a callback mutating one of them is an
// aliasing violation. A pair of lists reached again while it is being compared is considered equal.
func (l *List) Equal(ctx *Context, other Value) (bool, error) {
	otherList, ok := other.(*List)
	if !ok {
		return false, nil
	}
	if l == otherList {
		return true, nil
	}

	if !ctx.enterEquality(l, otherList) {
		return true, nil
	}
	defer ctx.leaveEquality(l, otherList)

	if err := ctx.enterComparison(); err != nil {
		return false, err
	}
	defer ctx.leaveComparison()

	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	otherBorrow := otherList.storage.BorrowShared()
	defer otherBorrow.Release()

	elements := borrow.Elements()
	otherElements := otherBorrow.Elements()

	if len(elements) != len(otherElements) {
		return false, nil
	}

	for i, e := range elements {
		match, err := elementsMatch(ctx, e, otherElements[i])
		if err != nil {
			return false, err
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

func (l *List) NotEqual(ctx *Context, other Value) (bool, error) {
	equal, err := l.Equal(ctx, other)
	if err != nil {
		return false, err
	}
	return !equal, nil
}

// Compare compares the list and other lexicographically: the result is decided by the first pair of
// elements that do not match, or by the lengths if one list is a prefix of the other.
func (l *List) Compare(ctx *Context, op ComparisonOperator, other Value) (bool, error) {
	otherList, ok := other.(*List)
	if !ok {
		return false, fmtUnsupportedOperand(op.String(), l, other)
	}

	if err := ctx.enterComparison(); err != nil {
		return false, err
	}
	defer ctx.leaveComparison()

	borrow := l.storage.BorrowShared()
	defer borrow.Release()

	otherBorrow := otherList.storage.BorrowShared()
	defer otherBorrow.Release()

	elements := borrow.Elements()
	otherElements := otherBorrow.Elements()

	for i := 0; i < len(elements) && i < len(otherElements); i++ {
		match, err := elementsMatch(ctx, elements[i], otherElements[i])
		if err != nil {
			return false, err
		}
		if !match {
			return ctx.Runtime().Compare(ctx, op, elements[i], otherElements[i])
		}
	}

	lenDiff := len(elements) - len(otherElements)
	return cmpResult(op, lenDiff), nil
}

func (l *List) Less(ctx *Context, other Value) (bool, error) {
	return l.Compare(ctx, LessThan, other)
}

func (l *List) LessEqual(ctx *Context, other Value) (bool, error) {
	return l.Compare(ctx, LessOrEqual, other)
}

func (l *List) Greater(ctx *Context, other Value) (bool, error) {
	return l.Compare(ctx, GreaterThan, other)
}

func (l *List) GreaterEqual(ctx *Context, other Value) (bool, error) {
	return l.Compare(ctx, GreaterOrEqual, other)
}
