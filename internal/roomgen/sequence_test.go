package roomgen

import (
	"strconv"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	testCases := []struct {
		name     string
		start    string
		count    int
		expected []string
	}{
		{name: "two digit start", start: "01", count: 5, expected: []string{"01", "02", "03", "04", "05"}},
		{name: "width grows past start", start: "099", count: 3, expected: []string{"099", "100", "101"}},
		{name: "width is a floor not a cap", start: "99", count: 3, expected: []string{"99", "100", "101"}},
		{name: "no padding", start: "7", count: 3, expected: []string{"7", "8", "9"}},
		{name: "zero start", start: "000", count: 2, expected: []string{"000", "001"}},
		{name: "non numeric falls back to 1", start: "abc", count: 2, expected: []string{"1", "2"}},
		{name: "empty start falls back to 1", start: "", count: 2, expected: []string{"1", "2"}},
		{name: "signed start is not numeric", start: "-5", count: 1, expected: []string{"1"}},
		{name: "mixed start is not numeric", start: "A01", count: 1, expected: []string{"1"}},
		{name: "overflow is not numeric", start: "99999999999999999999999", count: 1, expected: []string{"1"}},
		{name: "last number at uint64 max", start: "18446744073709551613", count: 3,
			expected: []string{"18446744073709551613", "18446744073709551614", "18446744073709551615"}},
		{name: "wrap past uint64 falls back to 1", start: "18446744073709551614", count: 4,
			expected: []string{"1", "2", "3", "4"}},
		{name: "zero count", start: "01", count: 0, expected: []string{}},
		{name: "negative count", start: "01", count: -3, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sequence(tc.start, tc.count))
		})
	}
}

func TestSequence_Properties(t *testing.T) {
	starts := []string{"0", "1", "01", "007", "099", "999", "1000", "0001"}
	for _, start := range starts {
		for count := 1; count <= 50; count++ {
			got := Sequence(start, count)
			require.Len(t, got, count, "start=%q count=%d", start, count)

			prev := int64(-1)
			for _, s := range got {
				n, err := strconv.ParseInt(s, 10, 64)
				require.NoError(t, err)
				assert.Greater(t, n, prev, "numbers must strictly increase")
				assert.GreaterOrEqual(t, utf8.RuneCountInString(s), len(start))
				prev = n
			}
		}
	}
}

func TestSequence_Repeatable(t *testing.T) {
	first := Sequence("05", 10)
	second := Sequence("05", 10)
	assert.Equal(t, first, second)

	first[0] = "mutated"
	assert.Equal(t, "05", Sequence("05", 10)[0])
}

func TestOverflows(t *testing.T) {
	assert.False(t, Overflows("01", 50))
	assert.False(t, Overflows("abc", 50))
	assert.False(t, Overflows("18446744073709551615", 1))
	assert.True(t, Overflows("18446744073709551615", 2))
	assert.True(t, Overflows("18446744073709551606", 11))
	assert.False(t, Overflows("18446744073709551606", 10))
	assert.False(t, Overflows("18446744073709551615", 0))
}
