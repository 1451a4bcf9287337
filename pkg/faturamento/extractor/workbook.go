package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

// lockFilePrefix marks Office temporary lock files, always excluded.
const lockFilePrefix = "~$"

// workbookPatterns returns the filename glob patterns for a region, most
// specific naming convention first.
func workbookPatterns(regiao string) []string {
	return []string{
		fmt.Sprintf("*planilha *Medição Mensal*_%s_*.xlsx", regiao),
		fmt.Sprintf("*Medição Mensal*_%s.xlsx", regiao),
		fmt.Sprintf("*Medição*%s*.xlsx", regiao),
	}
}

// FindWorkbook locates the source workbook for a region. Patterns are
// tried in order; among matches the most recently modified file wins.
// When no pattern matches, every workbook in the directory is scanned for
// a sheet named (after normalization) "Faturamento {regiao}". Returns a
// WorkbookNotFoundError when no candidate qualifies.
func (e *Extractor) FindWorkbook(regiao string) (string, error) {
	patterns := workbookPatterns(regiao)

	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(e.dir, pat))
		if err != nil {
			continue
		}
		matches = dropLockFiles(matches)
		if len(matches) == 0 {
			continue
		}
		sortByModTimeDesc(matches)
		return matches[0], nil
	}

	// Fallback: inspect sheet names of every workbook in the directory.
	target := sheetTarget(regiao)
	candidates, _ := filepath.Glob(filepath.Join(e.dir, "*.xlsx"))
	candidates = dropLockFiles(candidates)
	for _, p := range candidates {
		names, err := e.SheetNames(p)
		if err != nil {
			log.WithError(err).Debugf("skipping unreadable workbook %s", p)
			continue
		}
		for _, name := range names {
			n := textnorm.Normalize(name)
			if n == target || strings.Contains(n, target) {
				return p, nil
			}
		}
	}

	return "", &WorkbookNotFoundError{Regiao: regiao, Dir: e.dir, Patterns: patterns}
}

func dropLockFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if strings.HasPrefix(filepath.Base(p), lockFilePrefix) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortByModTimeDesc(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		fi, errI := os.Stat(paths[i])
		fj, errJ := os.Stat(paths[j])
		if errI != nil || errJ != nil {
			return errJ != nil && errI == nil
		}
		return fi.ModTime().After(fj.ModTime())
	})
}
