package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/models"
)

func tableWithHeaders(headers ...string) *models.Table {
	rows := [][]string{make([]string, len(headers))}
	return models.NewTable(headers, rows)
}

func TestMapColumnsExact(t *testing.T) {
	table := tableWithHeaders("Unidade", "Mês de emissão da NF", "E-mail", "Valor Mensal Final")

	m := MapColumns(table)

	assert.Equal(t, "Unidade", m[FieldUnidade])
	assert.Equal(t, "Mês de emissão da NF", m[FieldMesEmissaoNF])
	assert.Equal(t, "E-mail", m[FieldEmailDestinatario])
	assert.Equal(t, "Valor Mensal Final", m[FieldValorMensalFinal])
}

func TestMapColumnsNormalizedVariants(t *testing.T) {
	// Accent/case/whitespace noise must not break resolution.
	table := tableWithHeaders("UNIDADE ", "Mes  Emissao NF", "emails", "valor mensal final")

	m := MapColumns(table)

	assert.Equal(t, "UNIDADE ", m[FieldUnidade])
	assert.Equal(t, "Mes  Emissao NF", m[FieldMesEmissaoNF])
	assert.Equal(t, "emails", m[FieldEmailDestinatario])
}

func TestMapColumnsSubstring(t *testing.T) {
	table := tableWithHeaders("Nome da Unidade/Shopping", "Competência NF do mês")

	m := MapColumns(table)

	assert.Equal(t, "Nome da Unidade/Shopping", m[FieldUnidade])
	assert.Equal(t, "Competência NF do mês", m[FieldMesEmissaoNF])
}

func TestMapColumnsIssueMonthAliasFallback(t *testing.T) {
	table := tableWithHeaders("Unidade", "Data (mes emissao nf)")

	m := MapColumns(table)

	assert.Equal(t, "Data (mes emissao nf)", m[FieldMesEmissaoNF])
}

func TestMapColumnsUnresolvedIsAbsent(t *testing.T) {
	table := tableWithHeaders("Coluna A", "Coluna B")

	m := MapColumns(table)

	_, ok := m[FieldUnidade]
	assert.False(t, ok)
	_, ok = m[FieldMesEmissaoNF]
	assert.False(t, ok)
}

func TestMapColumnsIdempotent(t *testing.T) {
	table := tableWithHeaders("Unidade", "Mês emissão NF", "Email", "Valor Final")

	first := MapColumns(table)
	second := MapColumns(table)

	assert.Equal(t, first, second)
}

func TestResolveDisplayColumnSynonyms(t *testing.T) {
	table := tableWithHeaders("Desconto Falta Validado Atlas", "Desc_SLA")

	h, ok := ResolveDisplayColumn(table, "Desc. Falta Validado Atlas")
	assert.True(t, ok)
	assert.Equal(t, "Desconto Falta Validado Atlas", h)

	h, ok = ResolveDisplayColumn(table, SLADescontoCanonical)
	assert.True(t, ok)
	assert.Equal(t, "Desc_SLA", h)
}

func TestResolveDisplayColumnTokenSets(t *testing.T) {
	table := tableWithHeaders("Desc. SLA Ret. (acumulado)", "Valor Equip. do mês")

	h, ok := ResolveDisplayColumn(table, "Desconto SLA Retroativo")
	assert.True(t, ok)
	assert.Equal(t, "Desc. SLA Ret. (acumulado)", h)

	h, ok = ResolveDisplayColumn(table, "Desconto Equipamentos")
	assert.True(t, ok)
	assert.Equal(t, "Valor Equip. do mês", h)
}

func TestResolveDisplayColumnMissing(t *testing.T) {
	table := tableWithHeaders("Unidade")

	_, ok := ResolveDisplayColumn(table, "Categoria")
	assert.False(t, ok)
}
