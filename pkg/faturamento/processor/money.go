package processor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyNoise = strings.NewReplacer("R$", "", "r$", "", " ", "", " ", "")

	// Pure thousands-grouped integers, e.g. "1.234" or "1,234,567".
	dotThousands   = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)
)

// ParseBRLMoney converts a raw money cell into an exact decimal. Accepts
// comma or dot decimal separators, "R$" symbols and thousands grouping.
// Invalid or empty input becomes zero, never an error: a malformed cell
// must not abort a billing batch.
func ParseBRLMoney(s string) decimal.Decimal {
	s = currencyNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// Brazilian style: dot thousands, comma decimal.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// US style: comma thousands, dot decimal.
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if commaThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s[:lastComma], ",", "") + "." + s[lastComma+1:]
		}
	case lastDot >= 0:
		if dotThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatBRL renders a decimal with Brazilian formatting: thousands dots,
// comma decimal separator, two places, no currency symbol.
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
