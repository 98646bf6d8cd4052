package core

import (
	"math"
	"math/big"
	"strings"

	"github.com/listrt/listrt/internal/utils"
)

var bigOne = big.NewInt(1)

// An IntRange is a half-open range of resolved positions.
type IntRange struct {
	Start int
	End   int
}

func (r IntRange) Len() int {
	return max(r.End-r.Start, 0)
}

func (r IntRange) IsEmpty() bool {
	return r.Start >= r.End
}

// ResolveIndex converts a logical index into a position, a negative index is an offset from the end.
// The boolean result is false if the position is not in [0, length).
func ResolveIndex(i int, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

// ResolveSliceBound resolves an optional slice bound against length. An absent bound defaults to 0 for
// a start bound and to length for a stop bound. A bound that cannot be resolved as an index (too large
// for an int or out of range) is clamped to 0 if it is negative and to length otherwise.
func ResolveSliceBound(bound *big.Int, length int, isStart bool) int {
	if bound == nil {
		if isStart {
			return 0
		}
		return length
	}

	if i, ok := bigToInt(bound); ok {
		if pos, ok := ResolveIndex(i, length); ok {
			return pos
		}
	}

	if bound.Sign() < 0 {
		return 0
	}
	return length
}

// ResolveRange composes the resolution of the two bounds, the step is not interpreted.
func ResolveRange(start, stop *big.Int, length int) IntRange {
	return IntRange{
		Start: ResolveSliceBound(start, length, true),
		End:   ResolveSliceBound(stop, length, false),
	}
}

// ResolveReverseRange returns the range covered by a slice with a negative step. Both bounds are shifted
// forward by one so that the range is exclusive around stop (the lower position) and inclusive around
// start, then they are swapped. A raw bound of -1 designates the last element so it resolves to length.
func ResolveReverseRange(start, stop *big.Int, length int) IntRange {
	return IntRange{
		Start: resolveShiftedBound(stop, length, true),
		End:   resolveShiftedBound(start, length, false),
	}
}

func resolveShiftedBound(bound *big.Int, length int, isLower bool) int {
	if bound == nil {
		return ResolveSliceBound(nil, length, isLower)
	}
	if bound.IsInt64() && bound.Int64() == -1 {
		return length
	}
	shifted := new(big.Int).Add(bound, bigOne)
	return ResolveSliceBound(shifted, length, isLower)
}

func bigToInt(i *big.Int) (int, bool) {
	if !i.IsInt64() {
		return 0, false
	}
	v := i.Int64()
	if v < math.MinInt || v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}

// A SliceSpec describes a slice, nil bounds are absent. A nil step means 1.
type SliceSpec struct {
	Start *big.Int
	Stop  *big.Int
	Step  *big.Int
}

func NewSliceSpec(start, stop, step *big.Int) SliceSpec {
	return SliceSpec{Start: start, Stop: stop, Step: step}
}

// IntSlice returns a slice with all bounds present.
func IntSlice(start, stop, step int64) SliceSpec {
	return SliceSpec{Start: big.NewInt(start), Stop: big.NewInt(stop), Step: big.NewInt(step)}
}

func (s SliceSpec) WithoutStart() SliceSpec {
	s.Start = nil
	return s
}

func (s SliceSpec) WithoutStop() SliceSpec {
	s.Stop = nil
	return s
}

func (s SliceSpec) WithoutStep() SliceSpec {
	s.Step = nil
	return s
}

func (s SliceSpec) String() string {
	buf := strings.Builder{}
	buf.WriteString("slice(")
	for i, bound := range []*big.Int{s.Start, s.Stop, s.Step} {
		if i > 0 {
			buf.WriteString(", ")
		}
		if bound == nil {
			buf.WriteString("None")
		} else {
			buf.WriteString(bound.String())
		}
	}
	buf.WriteByte(')')
	return buf.String()
}

// stride returns the direction and the magnitude of the step. strideFits is false if the magnitude does
// not fit an int, in that case at most one element is selected.
func (s SliceSpec) stride() (forward bool, stride int, strideFits bool, err error) {
	if s.Step == nil {
		return true, 1, true, nil
	}

	switch s.Step.Sign() {
	case 0:
		return false, 0, false, ErrZeroSliceStep
	case 1:
		stride, strideFits = bigToInt(s.Step)
		return true, stride, strideFits, nil
	default:
		stride, strideFits = bigToInt(new(big.Int).Neg(s.Step))
		return false, stride, strideFits, nil
	}
}

// resolve returns the range covered by the slice and the stride. If strideFits is false the range is reduced
// to the single selected element.
func (s SliceSpec) resolve(length int) (r IntRange, forward bool, stride int, err error) {
	forward, stride, strideFits, err := s.stride()
	if err != nil {
		return IntRange{}, false, 0, err
	}

	if forward {
		r = ResolveRange(s.Start, s.Stop, length)
	} else {
		r = ResolveReverseRange(s.Start, s.Stop, length)
	}

	if r.IsEmpty() {
		return IntRange{Start: r.Start, End: r.Start}, forward, 1, nil
	}

	if !strideFits {
		if forward {
			r = IntRange{Start: r.Start, End: r.Start + 1}
		} else {
			r = IntRange{Start: r.End - 1, End: r.End}
		}
		stride = 1
	}
	return r, forward, stride, nil
}

// SelectedCount returns the number of positions selected by the slice in a sequence of the given length.
func (s SliceSpec) SelectedCount(length int) (int, error) {
	r, _, stride, err := s.resolve(length)
	if err != nil {
		return 0, err
	}
	return utils.CeilDiv(r.Len(), stride), nil
}

// forEachSelected calls fn with each selected position in traversal order: ascending for a positive step,
// descending for a negative step.
func (s SliceSpec) forEachSelected(length int, fn func(pos int)) error {
	r, forward, stride, err := s.resolve(length)
	if err != nil {
		return err
	}

	if r.IsEmpty() {
		return nil
	}

	//the loops never compute a position past the range so a huge stride cannot overflow.
	if forward {
		for i := r.Start; ; i += stride {
			fn(i)
			if r.End-i <= stride {
				break
			}
		}
	} else {
		for i := r.End - 1; ; i -= stride {
			fn(i)
			if i-r.Start < stride {
				break
			}
		}
	}
	return nil
}
