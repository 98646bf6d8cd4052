package core

// A ListIterator is a cursor over a list. It does not borrow the storage between two calls: the length
// is read again by each call, so elements appended during the iteration are yielded. Once exhausted the
// iterator never yields again, even if the list grows.
type ListIterator struct {
	list      *List
	position  int
	exhausted bool

	current Value
}

func (l *List) Iterator() *ListIterator {
	return &ListIterator{list: l}
}

// Next returns the element at the current position and advances, the boolean result is false
// if there are no more elements.
func (it *ListIterator) Next(ctx *Context) (Value, bool) {
	if it.exhausted {
		return nil, false
	}

	borrow := it.list.storage.BorrowShared()
	defer borrow.Release()

	elements := borrow.Elements()
	if it.position >= len(elements) {
		it.exhausted = true
		it.current = nil
		return nil, false
	}

	it.current = elements[it.position]
	it.position++
	return it.current, true
}

func (it *ListIterator) HasNext(*Context) bool {
	return !it.exhausted && it.position < it.list.Len()
}

// Key returns the index of the element returned by the last call to Next, or None if nothing has been yielded yet.
func (it *ListIterator) Key(*Context) Value {
	if it.position == 0 {
		return None
	}
	return Int(it.position - 1)
}

// Value returns the element returned by the last call to Next.
func (it *ListIterator) Value(*Context) Value {
	return it.current
}

// Position returns the index of the next element to yield.
func (it *ListIterator) Position() int {
	return it.position
}

func (it *ListIterator) Exhausted() bool {
	return it.exhausted
}
