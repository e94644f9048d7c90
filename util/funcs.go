package util

import (
	"fmt"
	"iter"
	"strings"
)

func ConcatIter[A any](iter ...iter.Seq[A]) iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, thisIter := range iter {
			for v := range thisIter {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func MapIter[A, B any](iter iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		for v := range iter {
			if !yield(f(v)) {
				return
			}
		}
	}
}

func Reverse[A any](slice []A) iter.Seq[A] {
	return func(yield func(A) bool) {
		for i := len(slice) - 1; i >= 0; i-- {
			if !yield(slice[i]) {
				return
			}
		}
	}
}

// JoinString renders elems with their String method, separated by sep
func JoinString[S fmt.Stringer](elems []S, sep string) string {
	sb := strings.Builder{}
	for i, elem := range elems {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(elem.String())
	}
	return sb.String()
}
