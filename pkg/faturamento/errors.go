package faturamento

import "github.com/atlasinovacoes/faturamento/pkg/faturamento/extractor"

// The two hard failure conditions of an extraction. Everything else
// (missing columns, malformed cells) degrades inside the processor and
// surfaces through the summary instead.
type (
	// WorkbookNotFoundError means no workbook qualified for the region.
	WorkbookNotFoundError = extractor.WorkbookNotFoundError
	// SheetNotFoundError means the regional sheet is missing from the
	// resolved workbook.
	SheetNotFoundError = extractor.SheetNotFoundError
)
