package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Qty\nhero,32,48,2\ncoin,16,16,1\n", ','},
		{"semicolon", "Name;Width;Height;Qty\nhero;32;48;2\ncoin;16;16;1\n", ';'},
		{"tab", "Name\tWidth\tHeight\tQty\nhero\t32\t48\t2\ncoin\t16\t16\t1\n", '\t'},
		{"pipe", "Name|Width|Height|Qty\nhero|32|48|2\ncoin|16|16|1\n", '|'},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tc.data)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Label", "Width", "Height", "Quantity"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNamesReordered(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{" H ", "Frames", "W", "Sprite"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Label: 3, Width: 2, Height: 0, Quantity: 1}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoQuantityColumn(t *testing.T) {
	mapping, _ := DetectColumns([]string{"file", "width", "height"})
	if mapping.Quantity != -1 {
		t.Errorf("expected no quantity column, got %d", mapping.Quantity)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"hero", "32", "48", "2"})

	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Label != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Height,Qty\nhero,32,48,1\ncoin,16,16,3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(result.Rects))
	}

	hero := result.Rects[0]
	if hero.Label != "hero" || hero.W != 32 || hero.H != 48 {
		t.Errorf("unexpected first rect %+v", *hero)
	}
	if hero.ID == "" {
		t.Error("expected rect to have an ID")
	}

	for i, want := range []string{"coin #1", "coin #2", "coin #3"} {
		if got := result.Rects[i+1].Label; got != want {
			t.Errorf("expected label %q, got %q", want, got)
		}
	}
}

func TestImportCSVFromReader_DistinctRects(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("tile,8,8,2\n"), ',')
	if len(result.Rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(result.Rects))
	}
	if result.Rects[0] == result.Rects[1] || result.Rects[0].ID == result.Rects[1].ID {
		t.Error("expanded copies must be distinct rects")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("hero,32,48,2\ncoin,16,16,1\n"), ',')

	if len(result.Rects) != 3 {
		t.Fatalf("expected 3 rects, got %d (errors: %v)", len(result.Rects), result.Errors)
	}
	if result.Rects[0].W != 32 {
		t.Errorf("expected width 32, got %d", result.Rects[0].W)
	}
}

func TestImportCSVFromReader_UnrecognizedHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Asset,Breite,Hoehe\nhero,32,48\n"), ',')

	if len(result.Rects) != 1 {
		t.Fatalf("expected 1 rect, got %d (errors: %v)", len(result.Rects), result.Errors)
	}
	if !containsWarning(result.Warnings, "Detected header row") {
		t.Errorf("expected header warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_QuantityDefaultsToOne(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("name,w,h\nhero,32,48\n"), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rects) != 1 || result.Rects[0].Label != "hero" {
		t.Fatalf("expected a single 'hero' rect, got %d", len(result.Rects))
	}
}

func TestImportCSVFromReader_FractionalSizesRoundUp(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("name,w,h\nglow,12.2,7.0\n"), ',')

	if len(result.Rects) != 1 {
		t.Fatalf("expected 1 rect, got %d (errors: %v)", len(result.Rects), result.Errors)
	}
	if result.Rects[0].W != 13 || result.Rects[0].H != 7 {
		t.Errorf("expected 13x7, got %dx%d", result.Rects[0].W, result.Rects[0].H)
	}
	if !containsWarning(result.Warnings, "Width '12.2' rounded up to 13") {
		t.Errorf("expected rounding warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid width", "a,wide,10,1", "Invalid width 'wide'"},
		{"missing height", "a,10,,1", "Missing height value"},
		{"invalid quantity", "a,10,10,many", "Invalid quantity 'many'"},
		{"negative", "a,-4,10,1", "must be positive"},
		{"zero quantity", "a,4,10,0", "must be positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader("name,w,h,qty\n"+tc.row+"\n"), ',')
			if len(result.Rects) != 0 {
				t.Errorf("expected no rects, got %d", len(result.Rects))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, result.Errors)
			}
			if !strings.HasPrefix(result.Errors[0], "Line 2:") {
				t.Errorf("expected error to name line 2, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "name,w,h\nok,10,10\nbad,x,10\nalso ok,5,5\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Rects) != 2 {
		t.Errorf("expected 2 valid rects, got %d", len(result.Rects))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestImportCSVFromReader_EmptyRowsAndComments(t *testing.T) {
	data := "name,w,h\n# generated by the exporter\nhero,32,48\n,,\n\ncoin,16,16\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rects) != 2 {
		t.Errorf("expected 2 rects, got %d", len(result.Rects))
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("name,w,h\n,10,10\n"), ',')
	if len(result.Rects) != 1 || result.Rects[0].Label != "Sprite 1" {
		t.Errorf("expected generated label 'Sprite 1', got %+v", result.Rects)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("name,width,qty\nhero,32,1\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("expected missing Height error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyInput(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprites.csv")
	if err := os.WriteFile(path, []byte("Name;Width;Height\nhero;32;48\ncoin;16;16\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Rects) != 2 {
		t.Fatalf("expected 2 rects, got %d (errors: %v)", len(result.Rects), result.Errors)
	}
	if !containsWarning(result.Warnings, "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("   \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty', got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprites.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Sprite", "Width", "Height", "Copies"},
		{"hero", 32, 48, 1},
		{"coin", 16, 16, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(result.Rects))
	}
	if result.Rects[0].Label != "hero" || result.Rects[0].H != 48 {
		t.Errorf("unexpected first rect %+v", *result.Rects[0])
	}
}

func TestImportExcel_InvalidRowNamesRow(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"name", "w", "h"},
		{"bad", "wide", 10},
	})

	result := ImportExcel(path)
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("expected a Row 2 error, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── ImportFile Tests ──────────────────────────────────────

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "list.TXT")
	if err := os.WriteFile(csvPath, []byte("hero,32,48\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportFile(csvPath); len(result.Rects) != 1 {
		t.Errorf("expected 1 rect from text file, got %d (errors: %v)", len(result.Rects), result.Errors)
	}

	xlsx := createTestExcel(t, [][]interface{}{{"hero", 32, 48}})
	if result := ImportFile(xlsx); len(result.Rects) != 1 {
		t.Errorf("expected 1 rect from workbook, got %d (errors: %v)", len(result.Rects), result.Errors)
	}

	result := ImportFile(filepath.Join(dir, "atlas.png"))
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], ".png") {
		t.Errorf("expected unsupported type error, got %v", result.Errors)
	}
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
