package faturamento

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/processor"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

// regions are the organizational groupings with their own workbooks.
var regions = []string{"SP1", "SP2", "SP3", "RJ", "NNE"}

// Regions returns the known region codes.
func Regions() []string {
	out := make([]string, len(regions))
	copy(out, regions)
	return out
}

// Unit lists are stable within one batch run, so lookups memoize per
// (dir, region).
var unitListCache, _ = lru.New[string, []string](64)

// ListUnitsForRegion returns the distinct valid unit names found in the
// region's sheet, sorted. Placeholder markers and duplicates (after unit
// normalization) are dropped. A region whose workbook or sheet cannot be
// found yields the underlying typed error.
func ListUnitsForRegion(dir, regiao string, opts Options) ([]string, error) {
	cacheKey := dir + ":" + regiao
	if units, ok := unitListCache.Get(cacheKey); ok {
		return units, nil
	}

	ex := newExtractor(dir, opts)
	wb, err := ex.FindWorkbook(regiao)
	if err != nil {
		return nil, err
	}
	table, _, err := ex.ReadRegionSheet(wb, regiao)
	if err != nil {
		return nil, err
	}

	// Heuristic: the unit column starts with "unidade" or mentions
	// "shopping".
	var unitCol string
	for _, h := range table.Headers {
		n := textnorm.Normalize(h)
		if strings.HasPrefix(n, "unidade") || strings.Contains(n, "shopping") {
			unitCol = h
			break
		}
	}
	if unitCol == "" {
		return nil, nil
	}

	var units []string
	seen := make(map[string]struct{})
	for _, raw := range table.Column(unitCol) {
		raw = strings.TrimSpace(raw)
		if !processor.IsValidUnitName(raw) {
			continue
		}
		nu := processor.NormalizeUnit(raw)
		if nu == "" {
			continue
		}
		if _, dup := seen[nu]; dup {
			continue
		}
		seen[nu] = struct{}{}
		units = append(units, raw)
	}
	sort.Strings(units)

	unitListCache.Add(cacheKey, units)
	return units, nil
}

// SanitizeFilenameUnit turns a unit name into a filesystem-safe token
// for per-unit output files.
func SanitizeFilenameUnit(unidade string) string {
	var b strings.Builder
	for _, r := range unidade {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
