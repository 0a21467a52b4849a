package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the numeric prefix of values such as "12", "5.5h" or " 3e1 videos".
var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseLeadingNumber returns the numeric prefix of value. Trailing unit
// text is ignored; ok is false when value does not start with a number.
func ParseLeadingNumber(value string) (float64, bool) {
	m := leadingNumber.FindString(value)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// PercentDone is completed/total as a whole percentage in [0, 100].
// Units are not normalised: "10h" against "200" is just 10/200.
func PercentDone(completed, total string) int {
	done, ok := ParseLeadingNumber(completed)
	if !ok {
		return 0
	}
	all, ok := ParseLeadingNumber(total)
	if !ok || all == 0 {
		return 0
	}

	percent := math.Floor(done/all*100 + 0.5)
	switch {
	case math.IsNaN(percent) || percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return int(percent)
}

func PercentLeft(completed, total string) int {
	return 100 - PercentDone(completed, total)
}
