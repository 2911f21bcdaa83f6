// Package datetime parses RFC 5322 Date/Resent-Date header values,
// including the RFC 822 obsolete forms still common on the wire: two-digit
// years, missing seconds, missing zones, and named (rather than numeric)
// time zones.
package datetime

import (
	"strconv"
	"strings"
	"time"
)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var namedZones = map[string]int{
	"GMT": 0, "UT": 0, "UTC": 0,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

// Parse parses a Date header value. obsolete reports whether any obsolete
// fallback rule (two-digit year, missing seconds, missing or named zone)
// had to be applied; ok reports whether the value parsed at all.
func Parse(s string) (t time.Time, obsolete bool, ok bool) {
	s = strings.TrimSpace(s)
	s = stripWeekdayPrefix(s)

	fields := strings.Fields(s)
	if len(fields) < 4 {
		return time.Time{}, false, false
	}

	day, ok1 := parseDay(fields[0])
	month, ok2 := parseMonth(fields[1])
	if !ok1 || !ok2 {
		return time.Time{}, false, false
	}

	year, yearObsolete, ok3 := parseYear(fields[2])
	if !ok3 {
		return time.Time{}, false, false
	}

	hh, mm, ss, secObsolete, ok4 := parseTime(fields[3])
	if !ok4 {
		return time.Time{}, false, false
	}

	zoneStr := ""
	if len(fields) >= 5 {
		zoneStr = fields[4]
	}
	offset, zoneObsolete, ok5 := parseZone(zoneStr)
	if !ok5 {
		return time.Time{}, false, false
	}

	loc := time.FixedZone("", offset)
	t = time.Date(year, time.Month(month), day, hh, mm, ss, 0, loc)
	obsolete = yearObsolete || secObsolete || zoneObsolete
	return t, obsolete, true
}

func stripWeekdayPrefix(s string) string {
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return s
	}
	prefix := strings.TrimSpace(s[:idx])
	if prefix == "" || !isAlpha(prefix) {
		return s
	}
	return strings.TrimSpace(s[idx+1:])
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseDay(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 || !isDigits(s) {
		return 0, false
	}
	v, _ := strconv.Atoi(s)
	if v < 1 || v > 31 {
		return 0, false
	}
	return v, true
}

func parseMonth(s string) (int, bool) {
	m, ok := months[strings.ToLower(s)]
	return m, ok
}

func parseYear(s string) (year int, obsolete bool, ok bool) {
	switch {
	case len(s) == 4 && isDigits(s):
		v, _ := strconv.Atoi(s)
		return v, false, true
	case len(s) == 2 && isDigits(s):
		v, _ := strconv.Atoi(s)
		if v <= 49 {
			return 2000 + v, true, true
		}
		return 1900 + v, true, true
	default:
		return 0, false, false
	}
}

func atoi2(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 || !isDigits(s) {
		return 0, false
	}
	v, _ := strconv.Atoi(s)
	return v, true
}

func parseTime(s string) (hh, mm, ss int, obsolete bool, ok bool) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 3:
		var ok1, ok2, ok3 bool
		hh, ok1 = atoi2(parts[0])
		mm, ok2 = atoi2(parts[1])
		ss, ok3 = atoi2(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return 0, 0, 0, false, false
		}
		return hh, mm, ss, false, true
	case 2:
		var ok1, ok2 bool
		hh, ok1 = atoi2(parts[0])
		mm, ok2 = atoi2(parts[1])
		if !ok1 || !ok2 {
			return 0, 0, 0, false, false
		}
		return hh, mm, 0, true, true
	default:
		return 0, 0, 0, false, false
	}
}

func parseZone(s string) (offsetSeconds int, obsolete bool, ok bool) {
	if s == "" {
		return 0, true, true
	}
	if off, found := namedZones[strings.ToUpper(s)]; found {
		return off, true, true
	}
	if len(s) == 5 && (s[0] == '+' || s[0] == '-') {
		hh, ok1 := atoi2(s[1:3])
		mm, ok2 := atoi2(s[3:5])
		if ok1 && ok2 {
			sign := 1
			if s[0] == '-' {
				sign = -1
			}
			return sign * (hh*3600 + mm*60), false, true
		}
	}
	return 0, false, false
}
