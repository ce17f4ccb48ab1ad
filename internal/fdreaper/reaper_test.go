//go:build unix

package fdreaper_test

import (
	"reflect"
	"testing"

	"burrow/internal/fdreaper"
)

func TestRanges(t *testing.T) {
	cases := []struct {
		name    string
		start   int
		stop    int
		exclude []int
		want    []fdreaper.Span
	}{
		{
			name:    "single shielded descriptor splits the range",
			start:   3,
			stop:    7,
			exclude: []int{4},
			want:    []fdreaper.Span{{Lo: 3, Hi: 4}, {Lo: 5, Hi: 7}},
		},
		{
			name:  "no exclusions yields one span",
			start: 3,
			stop:  7,
			want:  []fdreaper.Span{{Lo: 3, Hi: 7}},
		},
		{
			name:    "fully shielded range yields nothing",
			start:   3,
			stop:    7,
			exclude: []int{3, 4, 5, 6},
			want:    nil,
		},
		{
			name:    "exclusions below start are ignored",
			start:   3,
			stop:    6,
			exclude: []int{0, 1, 2},
			want:    []fdreaper.Span{{Lo: 3, Hi: 6}},
		},
		{
			name:    "unsorted and duplicate exclusions",
			start:   3,
			stop:    10,
			exclude: []int{7, 4, 4},
			want:    []fdreaper.Span{{Lo: 3, Hi: 4}, {Lo: 5, Hi: 7}, {Lo: 8, Hi: 10}},
		},
		{
			name:    "shielded at both edges",
			start:   3,
			stop:    8,
			exclude: []int{3, 7},
			want:    []fdreaper.Span{{Lo: 4, Hi: 7}},
		},
		{
			name:  "empty range",
			start: 3,
			stop:  3,
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fdreaper.Ranges(tc.start, tc.stop, tc.exclude)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Ranges(%d, %d, %v) = %v, want %v", tc.start, tc.stop, tc.exclude, got, tc.want)
			}
		})
	}
}

func TestSweepLimitPositive(t *testing.T) {
	limit := fdreaper.SweepLimit(1024)
	if limit <= fdreaper.FirstReapable {
		t.Fatalf("sweep limit %d should exceed the first reapable descriptor", limit)
	}
}
