package models

import "github.com/shopspring/decimal"

// Row is one extracted billing line, keyed by display column name.
// Values are already formatted for presentation (currency, durations,
// derived month columns).
type Row map[string]string

// Summary carries the bookkeeping of one extraction.
type Summary struct {
	// RowCount equals len of the returned row slice.
	RowCount int `json:"row_count"`
	// SumValorMensalFinal is the exact decimal sum of the parsed
	// final values, computed before display formatting.
	SumValorMensalFinal decimal.Decimal `json:"sum_valor_mensal_final"`
	// DisplayColumns lists the columns actually present in the rows.
	DisplayColumns []string `json:"display_columns"`
	// RequestedColumns echoes the caller's whitelist, if any.
	RequestedColumns []string `json:"requested_columns"`
	// MissingColumns lists requested columns absent from the sheet.
	MissingColumns []string `json:"missing_columns"`
	// FallbackUsed is set when the projection had to drop missing columns.
	FallbackUsed bool `json:"fallback_used"`
}

// EmptySummary returns a zeroed summary for empty extractions.
func EmptySummary(requested []string) Summary {
	return Summary{
		SumValorMensalFinal: decimal.Zero,
		RequestedColumns:    requested,
	}
}
