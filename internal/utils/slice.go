package utils

func CopySlice[T any](s []T) []T {
	sliceCopy := make([]T, len(s))
	copy(sliceCopy, s)

	return sliceCopy
}

func Reverse[T any](slice []T) {
	length := len(slice)

	for i, j := 0, length-1; i < j; i, j = i+1, j-1 {
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// ShrinkSliceIfWastedCapacity returns a copy of s with a smaller capacity if s has at least minLength
// positions of capacity and uses less than 1/divider of it, otherwise s is returned.
func ShrinkSliceIfWastedCapacity[T any](s []T, minLength int, divider int) []T {
	if cap(s) < minLength || len(s) >= cap(s)/divider {
		return s
	}

	shrunk := make([]T, len(s), len(s)+len(s)/divider)
	copy(shrunk, s)
	return shrunk
}

// Swap swaps the elements at i and j in all slices, the slices should have the same length.
func Swap[T any](i, j int, slices ...[]T) {
	for _, s := range slices {
		s[i], s[j] = s[j], s[i]
	}
}
