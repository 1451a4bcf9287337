// Package extractor locates regional billing workbooks and loads their
// "Faturamento" sheets into string tables.
package extractor

import (
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xuri/excelize/v2"

	"github.com/atlasinovacoes/faturamento/internal/logging"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/cache"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/models"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/textnorm"
)

var log = logging.Log

// sheetNameCacheSize bounds the per-path sheet-name cache. Sheet names
// rarely change within one batch run.
const sheetNameCacheSize = 10

// Extractor reads regional billing workbooks from a directory.
// It keeps an in-process cache of loaded sheets keyed by (path, region)
// and optionally a persistent cache keyed additionally by file mtime.
type Extractor struct {
	dir        string
	sheetNames *lru.Cache[string, []string]
	sheetCache map[string]cachedSheet
	useCache   bool
	persistent *cache.Cache
}

type cachedSheet struct {
	Table     *models.Table `json:"table"`
	SheetName string        `json:"sheet_name"`
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPersistentCache attaches a disk cache that survives across runs.
// Entries are keyed by (path, region, mtime) so a changed source file
// invalidates automatically.
func WithPersistentCache(c *cache.Cache) Option {
	return func(e *Extractor) { e.persistent = c }
}

// WithoutSheetCache disables the in-process sheet cache.
func WithoutSheetCache() Option {
	return func(e *Extractor) { e.useCache = false }
}

// New creates an Extractor over dir.
func New(dir string, opts ...Option) *Extractor {
	names, _ := lru.New[string, []string](sheetNameCacheSize)
	e := &Extractor{
		dir:        dir,
		sheetNames: names,
		sheetCache: make(map[string]cachedSheet),
		useCache:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the directory the extractor scans.
func (e *Extractor) Dir() string { return e.dir }

// SheetNames returns the ordered sheet names of the workbook at path,
// cached per path.
func (e *Extractor) SheetNames(path string) ([]string, error) {
	if names, ok := e.sheetNames.Get(path); ok {
		return names, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	e.sheetNames.Add(path, names)
	return names, nil
}

// sheetTarget returns the normalized sheet name expected for a region.
func sheetTarget(regiao string) string {
	return textnorm.Normalize("Faturamento " + regiao)
}

// resolveSheetName finds the sheet whose normalized name equals or
// contains "faturamento {regiao}".
func (e *Extractor) resolveSheetName(path, regiao string) (string, error) {
	names, err := e.SheetNames(path)
	if err != nil {
		return "", err
	}
	target := sheetTarget(regiao)
	for _, name := range names {
		n := textnorm.Normalize(name)
		if n == target || strings.Contains(n, target) {
			return name, nil
		}
	}
	return "", &SheetNotFoundError{Path: path, Regiao: regiao, Available: names}
}

// ReadRegionSheet loads the regional sheet of the workbook at path into a
// Table. Headers are whitespace-cleaned, missing cells become empty
// strings and every value is trimmed. Returns the table and the resolved
// sheet name.
func (e *Extractor) ReadRegionSheet(path, regiao string) (*models.Table, string, error) {
	key := path + ":" + regiao
	if e.useCache {
		if cs, ok := e.sheetCache[key]; ok {
			return cs.Table, cs.SheetName, nil
		}
	}

	if e.persistent != nil {
		if cs, ok := e.persistentGet(path, regiao); ok {
			if e.useCache {
				e.sheetCache[key] = cs
			}
			return cs.Table, cs.SheetName, nil
		}
	}

	sheetName, err := e.resolveSheetName(path, regiao)
	if err != nil {
		return nil, "", err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	// GetRows yields formatted cell text, never locale-coerced values.
	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("read sheet %q of %s: %w", sheetName, path, err)
	}

	table := buildTable(raw)
	cs := cachedSheet{Table: table, SheetName: sheetName}

	if e.useCache {
		e.sheetCache[key] = cs
	}
	if e.persistent != nil {
		e.persistentSet(path, regiao, cs)
	}
	return table, sheetName, nil
}

// ClearCache drops the in-process sheet cache.
func (e *Extractor) ClearCache() {
	e.sheetCache = make(map[string]cachedSheet)
}

func buildTable(raw [][]string) *models.Table {
	if len(raw) == 0 {
		return models.NewTable(nil, nil)
	}
	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = textnorm.CleanSpace(h)
	}
	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = strings.TrimSpace(v)
		}
		rows = append(rows, row)
	}
	return models.NewTable(headers, rows)
}

func (e *Extractor) persistentKey(path, regiao string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s:%d", path, regiao, info.ModTime().UnixNano()), true
}

func (e *Extractor) persistentGet(path, regiao string) (cachedSheet, bool) {
	key, ok := e.persistentKey(path, regiao)
	if !ok {
		return cachedSheet{}, false
	}
	var cs cachedSheet
	hit, err := e.persistent.Get(key, &cs)
	if err != nil {
		log.WithError(err).Warnf("persistent cache read failed for %s", path)
		return cachedSheet{}, false
	}
	if !hit || cs.Table == nil {
		return cachedSheet{}, false
	}
	log.Debugf("persistent cache hit: %s (%s)", path, regiao)
	return cs, true
}

func (e *Extractor) persistentSet(path, regiao string, cs cachedSheet) {
	key, ok := e.persistentKey(path, regiao)
	if !ok {
		return
	}
	if err := e.persistent.Set(key, cs); err != nil {
		log.WithError(err).Warnf("persistent cache write failed for %s", path)
	}
}
