package utils

import (
	"golang.org/x/exp/constraints"
)

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp returns v bounded by [lower, upper], lower should not be greater than upper.
func Clamp[T constraints.Ordered](v, lower, upper T) T {
	return Min(Max(v, lower), upper)
}

// CeilDiv returns ⌈a/b⌉ for a >= 0 and b > 0.
func CeilDiv[T constraints.Integer](a, b T) T {
	if a == 0 {
		return 0
	}
	return (a-1)/b + 1
}
