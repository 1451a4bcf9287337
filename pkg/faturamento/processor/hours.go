package processor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

// PendingLabel marks a cell whose value is still awaiting input from the
// branch; it passes through duration formatting unchanged.
const PendingLabel = "Informação pendente"

var pendingKey = textnorm.Normalize(PendingLabel)

var (
	hoursColonRe = regexp.MustCompile(`^\s*([+-]?\d+):\s*(\d{1,2})\s*$`)
	hoursHMRe    = regexp.MustCompile(`(?i)^\s*([+-]?\d+)\s*h\s*(\d{1,2})?\s*m?\s*$`)
)

var sixty = decimal.NewFromInt(60)

// FormatHorasAtrasos normalizes a late-hours cell to a decimal number of
// hours with one decimal place and a comma separator. Accepts "H:MM",
// "Hh MMm" and bare comma-decimal forms; minute overflow carries into
// hours ("1:90" == "2:30"). Pending markers and unparseable values are
// passed through, never an error.
func FormatHorasAtrasos(val string) string {
	if val == "" || textnorm.Normalize(val) == pendingKey {
		return PendingLabel
	}

	s := strings.TrimSpace(val)

	if m := hoursColonRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		return formatHoursMinutes(h, mi)
	}

	if m := hoursHMRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi := 0
		if m[2] != "" {
			mi, _ = strconv.Atoi(m[2])
		}
		return formatHoursMinutes(h, mi)
	}

	// Bare decimal, possibly with a comma separator.
	raw := strings.ReplaceAll(s, " ", "")
	raw = strings.Replace(raw, ",", ".", 1)
	if d, err := decimal.NewFromString(raw); err == nil {
		return decimalHoursString(d)
	}
	return s
}

func formatHoursMinutes(h, mi int) string {
	if mi >= 60 {
		h += mi / 60
		mi = mi % 60
	}
	negative := h < 0
	if negative {
		h = -h
	}
	totalMin := int64(h)*60 + int64(mi)
	d := decimal.NewFromInt(totalMin).DivRound(sixty, 1)
	if negative {
		d = d.Neg()
	}
	return decimalHoursString(d)
}

func decimalHoursString(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(1), ".", ",", 1)
}
