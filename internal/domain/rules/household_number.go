package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var householdNumberPattern = regexp.MustCompile(`HH-(\d+)$`)

// FirstHouseholdNumber is allocated when no existing number parses.
const FirstHouseholdNumber = "HH-001"

// NextHouseholdNumber returns HH-<max+1> zero-padded to three digits, where
// max is the highest number among existing values of the form HH-<digits>.
// Values that do not parse are ignored rather than counted as zero.
func NextHouseholdNumber(existing []string) string {
	max := -1
	for _, number := range existing {
		n, ok := ParseHouseholdNumber(number)
		if ok && n > max {
			max = n
		}
	}
	if max < 0 {
		return FirstHouseholdNumber
	}
	return FormatHouseholdNumber(max + 1)
}

// ParseHouseholdNumber extracts the integer part of HH-<digits>.
func ParseHouseholdNumber(number string) (int, bool) {
	m := householdNumberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeHouseholdNumber zero-pads a well-formed HH-<digits> number so
// HH-1 and HH-001 name the same household. Other input is returned as is.
func NormalizeHouseholdNumber(number string) string {
	if !strings.HasPrefix(number, "HH-") {
		return number
	}
	n, ok := ParseHouseholdNumber(number)
	if !ok {
		return number
	}
	return FormatHouseholdNumber(n)
}

// FormatHouseholdNumber renders n as HH-NNN. Numbers above 999 keep all digits.
func FormatHouseholdNumber(n int) string {
	return fmt.Sprintf("HH-%03d", n)
}
