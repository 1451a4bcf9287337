package processor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// yearMonthRe accepts YYYY-MM or YYYY/MM anywhere in the cell, month with
// one or two digits, year prefixed 20. Two-digit months are tried first
// so "2025-11" never truncates to month 1.
var yearMonthRe = regexp.MustCompile(`(20\d{2})[-/](1[0-2]|0?[1-9])`)

// ParseYearMonth extracts a normalized "YYYY-MM" token from a cell.
// Returns false for cells with no parseable year/month.
func ParseYearMonth(s string) (string, bool) {
	m := yearMonthRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d", m[1], month), true
}

// FormatMMYY reformats "YYYY-MM" to "MM/YY". Unparseable input is
// returned unchanged.
func FormatMMYY(ym string) string {
	y, m, ok := splitYearMonth(ym)
	if !ok {
		return ym
	}
	return fmt.Sprintf("%02d/%02d", m, y%100)
}

// FormatMonthYear reformats "YYYY-MM" to the long "MM/AAAA" display
// variant. Unparseable input is returned unchanged.
func FormatMonthYear(ym string) string {
	y, m, ok := splitYearMonth(ym)
	if !ok {
		return ym
	}
	return fmt.Sprintf("%02d/%04d", m, y)
}

// PrevMonth returns the "YYYY-MM" of the calendar month immediately
// preceding ym, computed by subtracting one day from the first of ym.
func PrevMonth(ym string) string {
	y, m, ok := splitYearMonth(ym)
	if !ok {
		return ym
	}
	first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, 0, -1)
	return fmt.Sprintf("%04d-%02d", prev.Year(), int(prev.Month()))
}

func splitYearMonth(ym string) (year, month int, ok bool) {
	parts := strings.SplitN(ym, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}
