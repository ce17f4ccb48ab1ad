package fdreaper

import "sort"

// FirstReapable is the lowest descriptor the sweep may close; 0-2 stay bound
// to the standard streams.
const FirstReapable = 3

// Span is a half-open descriptor interval [Lo, Hi).
type Span struct {
	Lo int
	Hi int
}

// Ranges computes the maximal contiguous close intervals inside [start, stop)
// after removing the excluded descriptors. Excluded values below start are
// ignored. Example: start=3, stop=7, exclude={4} -> [(3,4), (5,7)].
func Ranges(start, stop int, exclude []int) []Span {
	shielded := make([]int, 0, len(exclude))
	for _, fd := range exclude {
		if fd >= start && fd < stop {
			shielded = append(shielded, fd)
		}
	}
	sort.Ints(shielded)

	var spans []Span
	seeker := start
	for _, fd := range shielded {
		if fd < seeker {
			// duplicate shielded descriptor
			continue
		}
		if seeker != fd {
			spans = append(spans, Span{Lo: seeker, Hi: fd})
		}
		seeker = fd + 1
	}
	if seeker < stop {
		spans = append(spans, Span{Lo: seeker, Hi: stop})
	}
	return spans
}
