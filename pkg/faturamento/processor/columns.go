// Package processor maps noisy sheet columns to the canonical billing
// schema and filters/normalizes rows for one unit and reference month.
package processor

import (
	"strings"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/models"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

// Field is a canonical logical column, resolved to varying real headers
// per source file.
type Field string

const (
	FieldUnidade           Field = "Unidade"
	FieldMesEmissaoNF      Field = "Mes_Emissao_NF"
	FieldEmailDestinatario Field = "Email_Destinatario"
	FieldValorMensalFinal  Field = "Valor_Mensal_Final"
	FieldContrato          Field = "Contrato"
	FieldFuncionario       Field = "Funcionario"
	FieldStatus            Field = "Status"
)

// SLADescontoCanonical is the canonical header for the monthly SLA
// discount column, whose real-world spellings vary the most.
const SLADescontoCanonical = "Desconto SLA Mês"

var slaDescontoSynonyms = []string{
	"Desc. SLA Mês", "Desc. SLA Mês / Equip.", "Desc_SLA", "Desconto_SLA_Mes",
	"Desconto_SLA_Mês", "Desconto SLA Mes", "SLA Desconto Mês", "Desconto SLA",
}

// ExtraOptionalColumns are the optional display columns a caller may add
// to the default whitelist.
var ExtraOptionalColumns = []string{
	"Desconto SLA Retroativo", "Desconto Equipamentos", "Prêmio Assiduidade",
	"Outros descontos", "Taxa de prorrogação do prazo pagamento",
	"Valor mensal com prorrogação do prazo pagamento", "Retroativo de dissídio",
	"Parcela (x/x)", "Valor extras validado Atlas",
}

// columnCandidates lists, per canonical field, the header synonyms in
// priority order.
var columnCandidates = map[Field][]string{
	FieldUnidade: {"Unidade", "Shopping", "Unidade/Shopping", "Unid."},
	FieldMesEmissaoNF: {
		"Mês de emissão da NF", "Mês emissão NF", "Mes Emissao NF", "Mes NF",
		"Competencia NF", "Competência NF", "Competencia", "Competência",
	},
	FieldEmailDestinatario: {
		"E-mail", "Email", "E-mails", "Emails", "Contatos", "Destinatários",
	},
	FieldValorMensalFinal: {
		"Valor Mensal Final", "Valor Mensal", "Total Faturamento", "Valor Final",
	},
	FieldContrato:    {"Contrato", "Número do Pedido", "Pedido", "OrderNumber"},
	FieldFuncionario: {"Funcionário", "Colaborador"},
	FieldStatus:      {"Status", "Status do Contrato", "Situação"},
}

// mesEmissaoAliases is the last-resort substring pass for the NF
// issue-month column.
var mesEmissaoAliases = []string{
	"mes de emissao da nf", "mes emissao nf", "mes nf",
}

// Derived display column names.
const (
	ColMesEmissaoNF  = "Mês de emissão da NF"
	ColMesReferencia = "Mês referência para faturamento"
	ColValorMensal   = "Valor Mensal Final"
	ColHorasAtrasos  = "Horas Atrasos"
)

// DefaultDisplayColumns is the canonical display set, in order.
var DefaultDisplayColumns = []string{
	"Unidade", "Categoria", "Fornecedor", "HC Planilha", "Dias Faltas",
	ColHorasAtrasos, "Valor Planilha", "Desc. Falta Validado Atlas",
	"Desc. Atraso Validado Atlas", SLADescontoCanonical, ColValorMensal,
	ColMesReferencia, ColMesEmissaoNF,
}

// displayHeaderSynonyms resolves requested display columns whose real
// headers drift across releases.
var displayHeaderSynonyms = map[string][]string{
	"Desc. Falta Validado Atlas":  {"Desconto Falta Validado Atlas", "Desc_Falta"},
	"Desc. Atraso Validado Atlas": {"Desconto Atraso Validado Atlas", "Desc_Atraso"},
	SLADescontoCanonical:          slaDescontoSynonyms,
	"Desconto SLA Retroativo": {
		"Desc. SLA Retroativo", "Desc SLA Retroativo", "Retroativo SLA",
		"Desc. SLA Ret.", "Desc SLA Ret", "SLA Ret.", "Retro. SLA",
	},
}

// extraTokenSets qualifies a header when all tokens of some set appear in
// its normalized, punctuation-stripped form. Sets are alternative
// phrasings, tried in priority order.
var extraTokenSets = map[string][][]string{
	"Desconto SLA Retroativo": {
		{"sla", "retro"}, {"retroativo", "sla"}, {"desc", "sla", "ret"},
	},
	"Desconto Equipamentos": {{"equip"}, {"equipamentos"}},
}

// Mapping resolves canonical fields to actual table headers; unresolved
// fields are simply absent.
type Mapping map[Field]string

// MapColumns resolves every canonical field against the table's headers.
// Unresolved fields are absent from the result, never an error: a sheet
// without an issue-month column just cannot be month-filtered.
func MapColumns(t *models.Table) Mapping {
	m := make(Mapping, len(columnCandidates))
	for field, candidates := range columnCandidates {
		if header, ok := pickColumn(t, candidates); ok {
			m[field] = header
		}
	}

	// Extra normalization pass for the issue-month column before giving up.
	if _, ok := m[FieldMesEmissaoNF]; !ok {
		for _, h := range t.Headers {
			n := textnorm.Normalize(h)
			for _, alias := range mesEmissaoAliases {
				if strings.Contains(n, alias) {
					m[FieldMesEmissaoNF] = h
					break
				}
			}
			if _, ok := m[FieldMesEmissaoNF]; ok {
				break
			}
		}
	}

	return m
}

// pickColumn tries exact normalized match first, then substring
// containment in table order.
func pickColumn(t *models.Table, candidates []string) (string, bool) {
	normMap := make(map[string]string, len(t.Headers))
	for _, h := range t.Headers {
		n := textnorm.Normalize(h)
		if _, seen := normMap[n]; !seen {
			normMap[n] = h
		}
	}

	for _, cand := range candidates {
		if h, ok := normMap[textnorm.Normalize(cand)]; ok {
			return h, true
		}
	}

	for _, cand := range candidates {
		nc := textnorm.Normalize(cand)
		if nc == "" {
			continue
		}
		for _, h := range t.Headers {
			if strings.Contains(textnorm.Normalize(h), nc) {
				return h, true
			}
		}
	}
	return "", false
}

// findColumnByTokens returns the first header whose equivalence key
// contains every token of some token set.
func findColumnByTokens(t *models.Table, tokenSets [][]string) (string, bool) {
	for _, tokens := range tokenSets {
		keys := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			if k := textnorm.EquivalenceKey(tok); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		for _, h := range t.Headers {
			hk := textnorm.EquivalenceKey(h)
			all := true
			for _, k := range keys {
				if !strings.Contains(hk, k) {
					all = false
					break
				}
			}
			if all {
				return h, true
			}
		}
	}
	return "", false
}

// ResolveDisplayColumn finds the real header for a requested display
// column, trying the name itself, its known synonyms, then token sets.
func ResolveDisplayColumn(t *models.Table, name string) (string, bool) {
	candidates := append([]string{name}, displayHeaderSynonyms[name]...)
	if h, ok := pickColumn(t, candidates); ok {
		return h, true
	}
	if sets, ok := extraTokenSets[name]; ok {
		return findColumnByTokens(t, sets)
	}
	return "", false
}
