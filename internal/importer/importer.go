// Package importer reads sprite lists from CSV, Excel and DXF files.
// Tabular imports support automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SpritePack/internal/model"
)

// ImportResult holds the results of an import operation. Every imported row
// contributes one Rect per unit of quantity.
type ImportResult struct {
	Rects    []*model.Rect
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Quantity is -1 when the file has no quantity column.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "sprite", "frame", "file", "filename", "id", "item"},
	"width":    {"width", "w", "x", "cols", "px width"},
	"height":   {"height", "h", "y", "rows", "px height"},
	"quantity": {"quantity", "qty", "count", "num", "copies", "frames"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (label, width, height, quantity) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		role := roleFor(normalized)
		if role == "" {
			continue
		}
		isHeader = true
		switch role {
		case "label":
			if mapping.Label == -1 {
				mapping.Label = i
			}
		case "width":
			if mapping.Width == -1 {
				mapping.Width = i
			}
		case "height":
			if mapping.Height == -1 {
				mapping.Height = i
			}
		case "quantity":
			if mapping.Quantity == -1 {
				mapping.Quantity = i
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3}, false
	}

	return mapping, true
}

func roleFor(normalized string) string {
	for role, aliases := range headerAliases {
		for _, alias := range aliases {
			if normalized == alias {
				return role
			}
		}
	}
	return ""
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension reads a pixel size. Fractional sizes are rounded up so the
// rect still covers the source image.
func parseDimension(s string) (int, bool, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	return int(math.Ceil(f)), true, nil
}

// rowSpec is one parsed data row before quantity expansion.
type rowSpec struct {
	label string
	w, h  int
	qty   int
}

// parseRow extracts a rowSpec using the given column mapping.
// Returns the row, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, rowCount int) (rowSpec, string, []string) {
	var warnings []string

	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Sprite %d", rowCount+1)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return rowSpec{}, fmt.Sprintf("%s: Missing width value", rowLabel), nil
	}
	width, rounded, err := parseDimension(widthStr)
	if err != nil {
		return rowSpec{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), nil
	}
	if rounded {
		warnings = append(warnings, fmt.Sprintf("%s: Width '%s' rounded up to %d", rowLabel, widthStr, width))
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return rowSpec{}, fmt.Sprintf("%s: Missing height value", rowLabel), nil
	}
	height, rounded, err := parseDimension(heightStr)
	if err != nil {
		return rowSpec{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr), nil
	}
	if rounded {
		warnings = append(warnings, fmt.Sprintf("%s: Height '%s' rounded up to %d", rowLabel, heightStr, height))
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return rowSpec{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
	}

	if width <= 0 || height <= 0 || qty <= 0 {
		return rowSpec{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel), nil
	}

	return rowSpec{label: label, w: width, h: height, qty: qty}, "", warnings
}

// expand turns a row into qty rects. Copies after the first get a "#n" suffix.
func (s rowSpec) expand() []*model.Rect {
	if s.qty == 1 {
		return []*model.Rect{model.NewRect(s.label, s.w, s.h)}
	}
	out := make([]*model.Rect, s.qty)
	for i := range out {
		out[i] = model.NewRect(fmt.Sprintf("%s #%d", s.label, i+1), s.w, s.h)
	}
	return out
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	return reader
}

// ImportCSV imports sprites from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := newCSVReader(bytes.NewReader(data), delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports sprites from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports sprites from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile picks an importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	}
	return ImportResult{
		Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))},
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has a non-numeric width cell.
		if _, _, err := parseDimension(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	parsed := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		spec, errMsg, warnings := parseRow(row, mapping, rowLabel, parsed)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Rects = append(result.Rects, spec.expand()...)
		parsed++
	}

	return result
}
