package processor

import (
	"regexp"
	"strings"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

var unitPunctuation = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeUnit canonicalizes a billing unit name for matching: the usual
// case/accent/whitespace folding plus punctuation folding, so
// "Shopping-ABC" and "Shopping ABC " resolve to the same unit.
func NormalizeUnit(s string) string {
	n := textnorm.Normalize(s)
	n = unitPunctuation.ReplaceAllString(n, " ")
	n = strings.Join(strings.Fields(n), " ")
	return n
}

// invalidUnitMarkers are placeholder values that never identify a real
// unit, compared in normalized form.
var invalidUnitMarkers = map[string]struct{}{
	"":                       {},
	"-":                      {},
	"nan":                    {},
	"na":                     {},
	"n/a":                    {},
	"preenchimento pendente": {},
	"pendente":               {},
	"nao informado":          {},
}

// IsValidUnitName reports whether a raw unit cell names an actual unit
// rather than a placeholder marker.
func IsValidUnitName(raw string) bool {
	_, invalid := invalidUnitMarkers[textnorm.Normalize(raw)]
	return !invalid
}
