package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The three rules are mutually exclusive by construction order: hours win
// over minutes, minutes win over a bare 2-3 digit number.
var (
	hoursPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
	minutesPattern    = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m)\b`)
	bareNumberPattern = regexp.MustCompile(`\b(\d{2,3})\b`)
)

// ParseDurationMinutes extracts a minute budget from free text. The second
// return value is false when the text carries no duration; callers supply
// their own default in that case.
func ParseDurationMinutes(text string) (int, bool) {
	text = strings.ToLower(text)

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		hours, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(math.Round(hours * 60)), true
		}
	}

	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err == nil {
			return minutes, true
		}
	}

	if m := bareNumberPattern.FindStringSubmatch(text); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err == nil {
			return minutes, true
		}
	}

	return 0, false
}
