package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Date component bounds accepted by the extractor.
const (
	minYear = 1900
	maxYear = 2100
)

var dateSeparators = regexp.MustCompile(`[\s./]+`)

// ValidDate reports whether the components form an acceptable document date.
// The day check is calendar-naive (1-31 for every month) on purpose: OCR
// noise makes stricter validation reject more real dates than it saves.
func ValidDate(day, month, year int) bool {
	return day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= minYear && year <= maxYear
}

// FormatDate renders components in the record's canonical DD-MM-YYYY form.
func FormatDate(day, month, year int) string {
	return fmt.Sprintf("%02d-%02d-%d", day, month, year)
}

// ParseDate normalizes separators to hyphens, splits into three numeric
// parts, and validates ranges. It accepts any of the separator styles the
// date pattern family matches.
func ParseDate(s string) (day, month, year int, ok bool) {
	normalized := dateSeparators.ReplaceAllString(strings.TrimSpace(s), "-")
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	day, month, year = nums[0], nums[1], nums[2]
	if !ValidDate(day, month, year) {
		return 0, 0, 0, false
	}
	return day, month, year, true
}
