package core

import (
	"errors"
	"fmt"
)

const exclusivelyBorrowed = -1

// A StorageCell is the sole owner of a list's backing slice. Reads go through shared borrows and
// mutations through an exclusive borrow, the cell panics with a *BorrowConflictError if an exclusive
// borrow would overlap any other borrow. The cell is meant for a single goroutine: reentrancy comes
// from callbacks, not from parallelism.
type StorageCell struct {
	elements []Value

	// > 0: number of live shared borrows, exclusivelyBorrowed: one live exclusive borrow.
	borrows int

	// incremented each time an exclusive borrow is released.
	version uint64
}

func newStorageCell(elements []Value) *StorageCell {
	return &StorageCell{elements: elements}
}

// BorrowConflictError is the panic value of an aliasing violation: a logic error in the calling code or
// in a reentrant callback. It is never returned as an ordinary error by list operations.
type BorrowConflictError struct {
	ExclusiveRequested bool
	SharedBorrows      int
	ExclusiveHeld      bool
}

func (e *BorrowConflictError) Error() string {
	switch {
	case e.ExclusiveHeld && e.ExclusiveRequested:
		return "aliasing violation: list storage already mutably borrowed"
	case e.ExclusiveHeld:
		return "aliasing violation: cannot read list storage while it is mutably borrowed"
	default:
		return fmt.Sprintf("aliasing violation: cannot mutate list storage while it is borrowed (%d live borrow(s))", e.SharedBorrows)
	}
}

func (c *StorageCell) BorrowShared() *SharedBorrow {
	if c.borrows == exclusivelyBorrowed {
		panic(&BorrowConflictError{ExclusiveHeld: true})
	}
	c.borrows++
	return &SharedBorrow{cell: c}
}

func (c *StorageCell) BorrowExclusive() *ExclusiveBorrow {
	if c.borrows != 0 {
		panic(&BorrowConflictError{
			ExclusiveRequested: true,
			ExclusiveHeld:      c.borrows == exclusivelyBorrowed,
			SharedBorrows:      max(c.borrows, 0),
		})
	}
	c.borrows = exclusivelyBorrowed
	return &ExclusiveBorrow{cell: c}
}

// Replace puts elements in the storage slot and returns the previous content.
func (c *StorageCell) Replace(elements []Value) []Value {
	borrow := c.BorrowExclusive()
	defer borrow.Release()

	prev := borrow.Elements()
	borrow.Set(elements)
	return prev
}

func (c *StorageCell) Len() int {
	borrow := c.BorrowShared()
	defer borrow.Release()
	return len(borrow.Elements())
}

func (c *StorageCell) Version() uint64 {
	return c.version
}

// IsBorrowed reports whether at least one borrow is live.
func (c *StorageCell) IsBorrowed() bool {
	return c.borrows != 0
}

type SharedBorrow struct {
	cell     *StorageCell
	released bool
}

// Elements returns the borrowed slice, it should not be retained after Release.
func (b *SharedBorrow) Elements() []Value {
	if b.released {
		panic(errBorrowUseAfterRelease)
	}
	return b.cell.elements
}

func (b *SharedBorrow) Release() {
	if b.released {
		return
	}
	b.released = true
	b.cell.borrows--
}

type ExclusiveBorrow struct {
	cell     *StorageCell
	released bool
}

func (b *ExclusiveBorrow) Elements() []Value {
	if b.released {
		panic(errBorrowUseAfterRelease)
	}
	return b.cell.elements
}

func (b *ExclusiveBorrow) Set(elements []Value) {
	if b.released {
		panic(errBorrowUseAfterRelease)
	}
	b.cell.elements = elements
}

func (b *ExclusiveBorrow) Release() {
	if b.released {
		return
	}
	b.released = true
	b.cell.borrows = 0
	b.cell.version++
}

var errBorrowUseAfterRelease = errors.New("list storage borrow used after release")
