// Package internal holds helpers shared by the emulator packages.
package internal

import (
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// SortedDefines yields defines ordered by name. When a name is defined
// more than once, the last definition wins.
func SortedDefines(seq iter.Seq2[string, string]) iter.Seq2[string, string] {
	defines := maps.Collect(seq)

	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(defines)) {
			if !yield(name, defines[name]) {
				return
			}
		}
	}
}
