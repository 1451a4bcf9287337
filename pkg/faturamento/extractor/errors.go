package extractor

import (
	"fmt"
	"strings"
)

// WorkbookNotFoundError indicates no workbook qualified for a region,
// carrying the patterns that were attempted for diagnostics.
type WorkbookNotFoundError struct {
	Regiao   string
	Dir      string
	Patterns []string
}

func (e *WorkbookNotFoundError) Error() string {
	return fmt.Sprintf("workbook for region %q not found in %s (patterns tried: %s)",
		e.Regiao, e.Dir, strings.Join(e.Patterns, ", "))
}

// SheetNotFoundError indicates the expected regional sheet is missing from
// a workbook, enumerating the sheets that do exist.
type SheetNotFoundError struct {
	Path      string
	Regiao    string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in %s (available: %s)",
		"Faturamento "+e.Regiao, e.Path, strings.Join(e.Available, ", "))
}
