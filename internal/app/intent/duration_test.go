package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		text    string
		want    int
		matched bool
	}{
		{"study for 2 hours", 120, true},
		{"90 minutes", 90, true},
		{"focus for 45m", 45, true},
		{"1.5 hrs of reading", 90, true},
		{"3h deep work", 180, true},
		{"10 mins", 10, true},
		{"plan 100 for me", 100, true},
		{"plan my day", 0, false},
		{"meet at 9", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseDurationMinutes(tc.text)
		assert.Equal(t, tc.matched, ok, "text=%q", tc.text)
		if tc.matched {
			assert.Equal(t, tc.want, got, "text=%q", tc.text)
		}
	}
}

func TestParseDurationHoursWinOverMinutes(t *testing.T) {
	// Both units appear; the hour rule is checked first.
	got, ok := ParseDurationMinutes("2 hours or maybe 30 minutes")
	assert.True(t, ok)
	assert.Equal(t, 120, got)
}
