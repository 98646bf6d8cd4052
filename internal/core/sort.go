package core

import (
	"errors"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/listrt/listrt/internal/utils"
)

type SortOptions struct {
	// Key is an optional callable projecting each element to its sort key.
	Key Value

	// Reverse reverses the sorted elements, the comparisons are not inverted.
	Reverse bool
}

// Sort sorts the list in place by comparing keys with the runtime's < operator. During the sort the
// storage is detached: the list is empty and the key function or the comparisons only see (and mutate)
// a placeholder. If the placeholder has been mutated the sorted elements are discarded, the list keeps
// the result of the mutations and ErrListModifiedDuringSort is returned.
func (l *List) Sort(ctx *Context, opts SortOptions) error {
	logger := ctx.Logger().With().Str("op", "sort").Logger()

	values := l.storage.Replace(nil)
	detachedVersion := l.storage.Version()

	logger.Debug().Int("len", len(values)).Msg("storage detached")

	sortErr := sortDetached(ctx, values, opts)

	if l.storage.Version() != detachedVersion || l.storage.Len() != 0 {
		logger.Warn().Int("placeholderLen", l.storage.Len()).Msg("list modified during sort, sorted elements are discarded")

		if sortErr != nil {
			return errors.Join(sortErr, ErrListModifiedDuringSort)
		}
		return ErrListModifiedDuringSort
	}

	l.storage.Replace(values)
	return sortErr
}

func sortDetached(ctx *Context, values []Value, opts SortOptions) error {
	runtime := ctx.Runtime()
	var keys []Value

	if opts.Key == nil {
		keys = utils.CopySlice(values)
	} else {
		keys = make([]Value, len(values))
		for i, v := range values {
			key, err := runtime.Call(ctx, opts.Key, v)
			if err != nil {
				return err
			}
			keys[i] = key
		}
	}

	if err := quicksort(ctx, keys, values); err != nil {
		return err
	}

	if opts.Reverse {
		utils.Reverse(values)
	}
	return nil
}

type sortPartition struct {
	start, end int
}

// quicksort sorts keys and values in lockstep. The partitions are processed with an explicit stack in the
// same order as a recursive quicksort (left partition first) so that the sequence of comparisons is the same.
func quicksort(ctx *Context, keys, values []Value) error {
	stack := arraystack.New()
	stack.Push(sortPartition{start: 0, end: len(values)})

	for !stack.Empty() {
		top, _ := stack.Pop()
		p := top.(sortPartition)

		if p.end-p.start < 2 {
			continue
		}

		pivot, err := partition(ctx, keys[p.start:p.end], values[p.start:p.end])
		if err != nil {
			return err
		}
		pivot += p.start

		stack.Push(sortPartition{start: pivot + 1, end: p.end})
		stack.Push(sortPartition{start: p.start, end: pivot})
	}

	return nil
}

// partition uses the middle element as pivot and returns its final position.
func partition(ctx *Context, keys, values []Value) (int, error) {
	length := len(values)
	last := length - 1
	pivot := length / 2

	utils.Swap(pivot, last, keys, values)

	storeIndex := 0
	for i := 0; i < last; i++ {
		less, err := ctx.Runtime().Compare(ctx, LessThan, keys[i], keys[last])
		if err != nil {
			return 0, err
		}
		if less {
			utils.Swap(i, storeIndex, keys, values)
			storeIndex++
		}
	}

	utils.Swap(storeIndex, last, keys, values)
	return storeIndex, nil
}
