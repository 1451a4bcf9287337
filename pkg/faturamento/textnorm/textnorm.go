// Package textnorm canonicalizes header and cell text for comparison.
//
// Source spreadsheets arrive with inconsistent casing, accents, non-breaking
// spaces and even literal "&nbsp;" markup in headers, so every comparison in
// the engine goes through these keys rather than raw strings.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceFolder = strings.NewReplacer(
		" ", " ",
		"&nbsp;", " ",
		"\r", " ",
		"\n", " ",
		"\t", " ",
	)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// The same header and value strings recur across thousands of rows, so both
// key functions memoize on their input. Capacities mirror the working set of
// one batch run (a few hundred distinct headers/labels per workbook).
var (
	normCache, _ = lru.New[string, string](512)
	keyCache, _  = lru.New[string, string](256)
)

// CleanSpace folds all whitespace variants (non-breaking space, literal
// &nbsp;, carriage returns, newlines, tabs) to single spaces and trims.
// Case and accents are preserved; this is the header display cleanup.
func CleanSpace(s string) string {
	s = spaceFolder.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize returns the comparable key form of s: accents stripped,
// lower-cased, whitespace collapsed and trimmed.
func Normalize(s string) string {
	if v, ok := normCache.Get(s); ok {
		return v
	}
	out := CleanSpace(s)
	if stripped, _, err := transform.String(accentStripper, out); err == nil {
		out = stripped
	}
	out = strings.ToLower(out)
	normCache.Add(s, out)
	return out
}

// EquivalenceKey further strips every character that is not a lowercase
// letter or digit, for loose token containment checks.
func EquivalenceKey(s string) string {
	if v, ok := keyCache.Get(s); ok {
		return v
	}
	out := nonAlphanumeric.ReplaceAllString(Normalize(s), "")
	keyCache.Add(s, out)
	return out
}
