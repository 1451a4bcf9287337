// Package faturamento extracts normalized billing rows from regional
// measurement workbooks.
package faturamento

import "github.com/atlasinovacoes/faturamento/pkg/faturamento/cache"

// Options configures an extraction.
type Options struct {
	// DisplayColumns replaces the default display column whitelist.
	// If nil, processor.DefaultDisplayColumns is used.
	DisplayColumns []string
	// DisableSheetCache turns off the in-process sheet cache.
	DisableSheetCache bool
	// PersistentCache, when set, is consulted before reading a workbook
	// and updated after; failures degrade to a plain read.
	PersistentCache *cache.Cache
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{}
}
