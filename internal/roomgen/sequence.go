// Package roomgen expands an owner's "create many rooms" form into room
// records.  Sequence produces the room numbers and Build stamps the shared
// attributes onto each of them.  Both are pure so the same code serves the
// live preview and the real insert.
package roomgen

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// fallbackStart is used when the start token is not a decimal number.
const fallbackStart = 1

// Sequence returns count room numbers beginning at start.  Every number is
// left padded with zeros to the character length of start, so "01" gives
// "01","02",... and "099" gives "099","100","101".  The width is a floor:
// numbers with more digits than start are never truncated.
//
// A start that is not a plain run of ASCII digits, or whose last number
// would not fit in a uint64, counts from 1 without padding.  count <= 0
// yields an empty slice.
func Sequence(start string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	first, width, ok := parseStart(start)
	if !ok || Overflows(start, count) {
		first, width = fallbackStart, 0
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, pad(strconv.FormatUint(first+uint64(i), 10), width))
	}
	return out
}

// Overflows reports whether start is numeric but start+count-1 exceeds
// the uint64 range.
func Overflows(start string, count int) bool {
	if count <= 0 {
		return false
	}
	first, _, ok := parseStart(start)
	return ok && first > math.MaxUint64-uint64(count-1)
}

// parseStart returns the numeric value of start and its padding width.
func parseStart(start string) (uint64, int, bool) {
	if start == "" {
		return 0, 0, false
	}
	for i := 0; i < len(start); i++ {
		if start[i] < '0' || start[i] > '9' {
			return 0, 0, false
		}
	}
	n, err := strconv.ParseUint(start, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return n, utf8.RuneCountInString(start), true
}

func pad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	b := make([]byte, width)
	zeros := width - len(digits)
	for i := 0; i < zeros; i++ {
		b[i] = '0'
	}
	copy(b[zeros:], digits)
	return string(b)
}
