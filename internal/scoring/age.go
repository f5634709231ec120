package scoring

import (
	"strings"
	"time"
)

// dobLayouts are tried in order; the first successful parse wins.
// Day and month accept one or two digits.
var dobLayouts = []string{
	"2006-01-02", // yyyy-MM-dd
	"2006-1-2",   // yyyy-M-d
	"2.1.2006",   // dd.MM.yyyy
	"2/1/2006",   // dd/MM/yyyy
	"1/2/2006",   // MM/dd/yyyy
}

// fallbackLayouts cover the loosely formatted dates that still show up in
// imported registry data.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01",
	"2006",
}

// ParseDOB parses a date-of-birth string. It reports false when the value is
// empty or matches none of the supported formats.
func ParseDOB(dob string) (time.Time, bool) {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return time.Time{}, false
	}

	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, dob); err == nil {
			return t, true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, dob); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// CalculateAge returns the age in whole years as of now, or nil when the
// date of birth is missing or unparseable.
func CalculateAge(dob string, now time.Time) *int {
	born, ok := ParseDOB(dob)
	if !ok {
		return nil
	}

	age := yearsBetween(born, now)
	return &age
}

// yearsBetween counts full calendar years from -> to. Dates in the future
// yield a negative count.
func yearsBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	if ty < fy || (ty == fy && (tm < fm || (tm == fm && td < fd))) {
		return -yearsBetween(to, from)
	}

	years := ty - fy
	if tm < fm || (tm == fm && td < fd) {
		years--
	}
	return years
}
