package sim

import (
	"iter"
	"slices"
)

// Label returns the i-th identity label: A..Z, AA, AB, .., AZ, BA, .., ZZ, AAA.
func Label(i int) string {
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}
	slices.Reverse(buf)
	return string(buf)
}

// Labels yields Label(0), Label(1), ... Each call starts over.
func Labels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; ; i++ {
			if !yield(Label(i)) {
				return
			}
		}
	}
}
