package faturamento

import (
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/extractor"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/models"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/processor"
)

// Result is the outcome of one (region, unit, month) extraction.
type Result struct {
	// Rows are the normalized billing lines, ready for display.
	Rows []models.Row `json:"rows"`
	// Recipients are the deduplicated e-mail addresses of the rows.
	Recipients []string `json:"recipients"`
	// Summary carries counts, totals and column bookkeeping.
	Summary models.Summary `json:"summary"`
	// Workbook is the resolved source file path.
	Workbook string `json:"workbook"`
	// SheetName is the resolved regional sheet.
	SheetName string `json:"sheet_name"`
}

// GetRowsFor locates the workbook for regiao under dir, loads its
// regional sheet and returns the rows of unidade for the target issue
// month ym ("YYYY-MM"). Workbook-not-found and sheet-not-found are the
// only hard errors; row-level anomalies degrade per the processor rules.
func GetRowsFor(dir, regiao, ym, unidade string, opts Options) (*Result, error) {
	ex := newExtractor(dir, opts)

	wb, err := ex.FindWorkbook(regiao)
	if err != nil {
		return nil, err
	}

	table, sheetName, err := ex.ReadRegionSheet(wb, regiao)
	if err != nil {
		return nil, err
	}

	rows, recipients, summary := processor.FilterAndPrepare(table, unidade, ym, opts.DisplayColumns)
	return &Result{
		Rows:       rows,
		Recipients: recipients,
		Summary:    summary,
		Workbook:   wb,
		SheetName:  sheetName,
	}, nil
}

// FindWorkbook resolves the source workbook path for a region under dir.
func FindWorkbook(dir, regiao string) (string, error) {
	return extractor.New(dir).FindWorkbook(regiao)
}

func newExtractor(dir string, opts Options) *extractor.Extractor {
	var exOpts []extractor.Option
	if opts.DisableSheetCache {
		exOpts = append(exOpts, extractor.WithoutSheetCache())
	}
	if opts.PersistentCache != nil {
		exOpts = append(exOpts, extractor.WithPersistentCache(opts.PersistentCache))
	}
	return extractor.New(dir, exOpts...)
}
