package util

import (
	"golang.org/x/exp/slices"
)

// Distinct returns the unique values of in, preserving first-seen order.
func Distinct[T comparable](in []T) []T {
	var out []T
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func Contains[T comparable](src []T, v T) bool {
	return slices.Contains(src, v)
}
