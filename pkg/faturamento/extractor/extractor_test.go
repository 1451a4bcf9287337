package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/atlasinovacoes/faturamento/pkg/faturamento/cache"
)

// writeWorkbook creates an xlsx file with one regional sheet holding the
// given header row and data rows.
func writeWorkbook(t *testing.T, path, sheetName string, cells [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	f.SetActiveSheet(idx)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	for r, row := range cells {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs %s: %v", path, err)
	}
}

func TestFindWorkbookByPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planilha Medição Mensal_SP1_v2.xlsx")
	writeWorkbook(t, path, "Faturamento SP1", [][]string{{"Unidade"}})

	e := New(dir)
	got, err := e.FindWorkbook("SP1")
	if err != nil {
		t.Fatalf("FindWorkbook failed: %v", err)
	}
	if got != path {
		t.Errorf("FindWorkbook = %s, want %s", got, path)
	}
}

func TestFindWorkbookPrefersNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "planilha Medição Mensal_SP1_old.xlsx")
	newer := filepath.Join(dir, "planilha Medição Mensal_SP1_new.xlsx")
	writeWorkbook(t, older, "Faturamento SP1", [][]string{{"Unidade"}})
	writeWorkbook(t, newer, "Faturamento SP1", [][]string{{"Unidade"}})

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	e := New(dir)
	got, err := e.FindWorkbook("SP1")
	if err != nil {
		t.Fatalf("FindWorkbook failed: %v", err)
	}
	if got != newer {
		t.Errorf("FindWorkbook = %s, want newest %s", got, newer)
	}
}

func TestFindWorkbookExcludesLockFiles(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "~$planilha Medição Mensal_SP1_v1.xlsx")
	if err := os.WriteFile(lock, []byte("lock"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := New(dir)
	_, err := e.FindWorkbook("SP1")
	var nf *WorkbookNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected WorkbookNotFoundError, got %v", err)
	}
}

func TestFindWorkbookFallbackBySheetName(t *testing.T) {
	dir := t.TempDir()
	// Filename matches no pattern; only the sheet name identifies it.
	path := filepath.Join(dir, "relatorio_regional.xlsx")
	writeWorkbook(t, path, "Resumo e Faturamento RJ 2025", [][]string{{"Unidade"}})

	e := New(dir)
	got, err := e.FindWorkbook("RJ")
	if err != nil {
		t.Fatalf("FindWorkbook failed: %v", err)
	}
	if got != path {
		t.Errorf("FindWorkbook = %s, want %s", got, path)
	}
}

func TestFindWorkbookNotFound(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "outro.xlsx"), "Planilha Qualquer", [][]string{{"A"}})

	e := New(dir)
	_, err := e.FindWorkbook("SP1")
	var nf *WorkbookNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected WorkbookNotFoundError, got %v", err)
	}
	if nf.Regiao != "SP1" || len(nf.Patterns) == 0 {
		t.Errorf("error missing diagnostics: %+v", nf)
	}
}

func TestFindWorkbookFallbackSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "corrupt.xlsx"), []byte("not an xlsx"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	good := filepath.Join(dir, "qualquer.xlsx")
	writeWorkbook(t, good, "Faturamento NNE", [][]string{{"Unidade"}})

	e := New(dir)
	got, err := e.FindWorkbook("NNE")
	if err != nil {
		t.Fatalf("FindWorkbook failed: %v", err)
	}
	if got != good {
		t.Errorf("FindWorkbook = %s, want %s", got, good)
	}
}

func TestReadRegionSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP1.xlsx")
	writeWorkbook(t, path, "Faturamento SP1", [][]string{
		{"Unidade ", "Valor Mensal Final", "E-mail"},
		{" Shopping ABC ", "1.500,00", "a@x.com"},
		{"Shopping XYZ", "", ""},
	})

	e := New(dir)
	table, sheetName, err := e.ReadRegionSheet(path, "SP1")
	if err != nil {
		t.Fatalf("ReadRegionSheet failed: %v", err)
	}
	if sheetName != "Faturamento SP1" {
		t.Errorf("sheet name = %q", sheetName)
	}

	want := []string{"Unidade", "Valor Mensal Final", "E-mail"}
	if len(table.Headers) != len(want) {
		t.Fatalf("headers = %v, want %v", table.Headers, want)
	}
	for i, h := range want {
		if table.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	if got := table.Cell("Unidade", 0); got != "Shopping ABC" {
		t.Errorf("cell not trimmed: %q", got)
	}
	if got := table.Cell("E-mail", 1); got != "" {
		t.Errorf("missing cell = %q, want empty string", got)
	}
	if table.RowCount() != 2 {
		t.Errorf("RowCount = %d, want 2", table.RowCount())
	}
}

func TestReadRegionSheetNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP1.xlsx")
	writeWorkbook(t, path, "Outra Aba", [][]string{{"A"}})

	e := New(dir)
	_, _, err := e.ReadRegionSheet(path, "SP1")
	var nf *SheetNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected SheetNotFoundError, got %v", err)
	}
	if len(nf.Available) != 1 || nf.Available[0] != "Outra Aba" {
		t.Errorf("available sheets = %v", nf.Available)
	}
}

func TestReadRegionSheetDuplicateHeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP2.xlsx")
	writeWorkbook(t, path, "Faturamento SP2", [][]string{
		{"Unidade", "Unidade", "Valor"},
		{"first", "second", "10"},
	})

	e := New(dir)
	table, _, err := e.ReadRegionSheet(path, "SP2")
	if err != nil {
		t.Fatalf("ReadRegionSheet failed: %v", err)
	}
	if len(table.Headers) != 2 {
		t.Fatalf("headers = %v, want duplicate dropped", table.Headers)
	}
	// First occurrence wins.
	if got := table.Cell("Unidade", 0); got != "first" {
		t.Errorf("duplicate header cell = %q, want first occurrence", got)
	}
}

func TestReadRegionSheetInProcessCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP1.xlsx")
	writeWorkbook(t, path, "Faturamento SP1", [][]string{{"Unidade"}, {"Shopping ABC"}})

	e := New(dir)
	t1, _, err := e.ReadRegionSheet(path, "SP1")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	t2, _, err := e.ReadRegionSheet(path, "SP1")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if t1 != t2 {
		t.Error("expected cached table instance on second read")
	}
}

func TestReadRegionSheetPersistentCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP1.xlsx")
	writeWorkbook(t, path, "Faturamento SP1", [][]string{{"Unidade"}, {"Shopping ABC"}})

	c, err := cache.New(filepath.Join(dir, ".cache"), 24*time.Hour)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}

	first := New(dir, WithPersistentCache(c))
	if _, _, err := first.ReadRegionSheet(path, "SP1"); err != nil {
		t.Fatalf("first read: %v", err)
	}

	// A fresh extractor (no in-process cache) must hit the disk cache.
	second := New(dir, WithPersistentCache(c), WithoutSheetCache())
	table, sheetName, err := second.ReadRegionSheet(path, "SP1")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if sheetName != "Faturamento SP1" {
		t.Errorf("sheet name from cache = %q", sheetName)
	}
	if got := table.Cell("Unidade", 0); got != "Shopping ABC" {
		t.Errorf("cached cell = %q", got)
	}
}

func TestSheetNamesCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Medição Mensal_SP1.xlsx")
	writeWorkbook(t, path, "Faturamento SP1", [][]string{{"Unidade"}})

	e := New(dir)
	names, err := e.SheetNames(path)
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if len(names) != 1 || names[0] != "Faturamento SP1" {
		t.Errorf("names = %v", names)
	}

	// Second lookup must not need the file anymore.
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	again, err := e.SheetNames(path)
	if err != nil {
		t.Fatalf("cached SheetNames: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("cached names = %v", again)
	}
}
