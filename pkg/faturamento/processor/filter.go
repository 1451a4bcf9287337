package processor

import (
	"github.com/shopspring/decimal"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/models"
)

// FilterAndPrepare selects the rows of one unit and issue month and
// normalizes them for display. ym is the target issue month as "YYYY-MM".
// whitelist optionally replaces the default display column set; the two
// derived month columns and the final value are always appended.
//
// A sheet where the unit or issue-month column cannot be resolved yields
// an empty result with a zeroed summary rather than an error, so one
// malformed regional sheet never aborts a whole batch.
func FilterAndPrepare(t *models.Table, unidade, ym string, whitelist []string) ([]models.Row, []string, models.Summary) {
	mapping := MapColumns(t)
	uniCol, hasUni := mapping[FieldUnidade]
	mesCol, hasMes := mapping[FieldMesEmissaoNF]
	if !hasUni || !hasMes {
		return nil, nil, models.EmptySummary(whitelist)
	}

	// Month filter: keep rows whose parsed issue month equals the target.
	var keep []int
	for i, cell := range t.Column(mesCol) {
		if parsed, ok := ParseYearMonth(cell); ok && parsed == ym {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, nil, models.EmptySummary(whitelist)
	}

	// Unit filter on the month-filtered set.
	targetUnit := NormalizeUnit(unidade)
	filtered := keep[:0]
	for _, i := range keep {
		if NormalizeUnit(t.Cell(uniCol, i)) == targetUnit {
			filtered = append(filtered, i)
		}
	}
	keep = filtered
	if len(keep) == 0 {
		return nil, nil, models.EmptySummary(whitelist)
	}

	// The reference month is always the calendar month before the NF
	// issue month, regardless of any reference column in the sheet.
	refDisplay := FormatMMYY(PrevMonth(ym))

	vmfCol, hasVMF := mapping[FieldValorMensalFinal]
	vmfValues := make([]decimal.Decimal, len(keep))
	total := decimal.Zero
	for n, i := range keep {
		v := decimal.Zero
		if hasVMF {
			v = ParseBRLMoney(t.Cell(vmfCol, i))
		}
		vmfValues[n] = v
		total = total.Add(v)
	}

	displayColumns, resolved, missing := resolveDisplay(t, whitelist)

	rows := make([]models.Row, 0, len(keep))
	for n, i := range keep {
		row := make(models.Row, len(displayColumns))
		for _, name := range displayColumns {
			switch name {
			case ColMesEmissaoNF:
				if parsed, ok := ParseYearMonth(t.Cell(mesCol, i)); ok {
					row[name] = FormatMMYY(parsed)
				} else {
					row[name] = FormatMMYY(ym)
				}
			case ColMesReferencia:
				row[name] = refDisplay
			case ColValorMensal:
				row[name] = FormatBRL(vmfValues[n])
			case ColHorasAtrasos:
				row[name] = FormatHorasAtrasos(t.Cell(resolved[name], i))
			default:
				row[name] = t.Cell(resolved[name], i)
			}
		}
		rows = append(rows, row)
	}

	var recipients []string
	if emailCol, ok := mapping[FieldEmailDestinatario]; ok {
		cells := make([]string, 0, len(keep))
		for _, i := range keep {
			cells = append(cells, t.Cell(emailCol, i))
		}
		recipients = CollectRecipients(cells)
	}

	summary := models.Summary{
		RowCount:            len(rows),
		SumValorMensalFinal: total,
		DisplayColumns:      displayColumns,
		RequestedColumns:    whitelist,
		MissingColumns:      missing,
		FallbackUsed:        len(missing) > 0,
	}
	return rows, recipients, summary
}

// resolveDisplay maps requested display names to real headers. Derived
// columns need no header; requested columns absent from the sheet are
// reported as missing and dropped from the output, never fatal.
func resolveDisplay(t *models.Table, whitelist []string) (display []string, resolved map[string]string, missing []string) {
	requested := whitelist
	if len(requested) == 0 {
		requested = DefaultDisplayColumns
	}

	names := make([]string, 0, len(requested)+3)
	seen := make(map[string]struct{}, len(requested)+3)
	for _, name := range requested {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, name := range []string{ColValorMensal, ColMesEmissaoNF, ColMesReferencia} {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	resolved = make(map[string]string, len(names))
	for _, name := range names {
		switch name {
		case ColMesEmissaoNF, ColMesReferencia, ColValorMensal:
			display = append(display, name)
			continue
		}
		header, ok := ResolveDisplayColumn(t, name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		resolved[name] = header
		display = append(display, name)
	}
	return display, resolved, missing
}
