package core

import (
	"errors"
	"fmt"
)

// error categories, every error returned by a list operation wraps exactly one of them.
var (
	ErrOutOfRange       = errors.New("out of range")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrMutationConflict = errors.New("mutation conflict")
	ErrUnhashable       = errors.New("unhashable")
)

var (
	ErrIndexOutOfRange      = fmt.Errorf("%w: list index out of range", ErrOutOfRange)
	ErrAssignmentOutOfRange = fmt.Errorf("%w: list assignment index out of range", ErrOutOfRange)
	ErrPopFromEmptyList     = fmt.Errorf("%w: pop from empty list", ErrOutOfRange)
	ErrPopIndexOutOfRange   = fmt.Errorf("%w: pop index out of range", ErrOutOfRange)

	ErrZeroSliceStep         = fmt.Errorf("%w: slice step cannot be zero", ErrInvalidArgument)
	ErrUnsupportedOperand    = fmt.Errorf("%w: unsupported operand type", ErrInvalidArgument)
	ErrExtendedSliceSizeDiff = fmt.Errorf("%w: attempt to assign sequence to extended slice of different size", ErrInvalidArgument)
	ErrNotCallable           = fmt.Errorf("%w: object is not callable", ErrInvalidArgument)
	ErrNotIterable           = fmt.Errorf("%w: object is not iterable", ErrInvalidArgument)
	ErrNotAnInteger          = fmt.Errorf("%w: object cannot be interpreted as an integer", ErrInvalidArgument)
	ErrUnknownMethod         = fmt.Errorf("%w: unknown method", ErrInvalidArgument)
	ErrRepeatedListTooLong   = fmt.Errorf("%w: repeated list is too long", ErrInvalidArgument)
	ErrComparisonTooDeep     = fmt.Errorf("%w: maximum comparison depth exceeded", ErrInvalidArgument)

	ErrValueNotInList = fmt.Errorf("%w: value is not in list", ErrNotFound)

	ErrListModifiedDuringSort = fmt.Errorf("%w: list modified during sort", ErrMutationConflict)

	ErrListUnhashable = fmt.Errorf("%w: unhashable type: 'list'", ErrUnhashable)

	// not a failure, signals the end of an iteration.
	ErrIteratorExhausted = errors.New("iterator exhausted")
)

type ErrorKind int

const (
	UnknownErrorKind ErrorKind = iota
	OutOfRangeKind
	InvalidArgumentKind
	NotFoundKind
	MutationConflictKind
	AliasingViolationKind
	UnhashableKind
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfRangeKind:
		return "OutOfRange"
	case InvalidArgumentKind:
		return "InvalidArgument"
	case NotFoundKind:
		return "NotFound"
	case MutationConflictKind:
		return "MutationConflict"
	case AliasingViolationKind:
		return "AliasingViolation"
	case UnhashableKind:
		return "Unhashable"
	default:
		return "Unknown"
	}
}

// ErrorKindOf returns the category of err, a callback failure that does not wrap any
// category is reported as UnknownErrorKind.
func ErrorKindOf(err error) ErrorKind {
	var conflict *BorrowConflictError

	switch {
	case err == nil:
		return UnknownErrorKind
	case errors.As(err, &conflict):
		return AliasingViolationKind
	case errors.Is(err, ErrMutationConflict):
		return MutationConflictKind
	case errors.Is(err, ErrOutOfRange):
		return OutOfRangeKind
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgumentKind
	case errors.Is(err, ErrNotFound):
		return NotFoundKind
	case errors.Is(err, ErrUnhashable):
		return UnhashableKind
	}
	return UnknownErrorKind
}

func fmtValueNotInList(repr string) error {
	return fmt.Errorf("%s: %w", repr, ErrValueNotInList)
}

func fmtUnsupportedOperand(op string, a, b Value) error {
	return fmt.Errorf("%w for %s: '%s' and '%s'", ErrUnsupportedOperand, op, TypeName(a), TypeName(b))
}
