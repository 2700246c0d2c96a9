package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SpritePack/internal/model"
)

const (
	placementsSheet = "Placements"
	unplacedSheet   = "Unplaced"
	summarySheet    = "Summary"
)

var placementHeaders = []interface{}{"ID", "Label", "Width", "Height", "X", "Y", "Rotated", "Placed Width", "Placed Height"}

// ExportExcel writes a workbook with one row per placed rect, a sheet of
// unplaced rects when there are any, and a summary sheet.
func ExportExcel(path string, result model.PackResult, settings model.PackSettings) error {
	if err := checkResult(result); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRectSheet(f, placementsSheet, result.Placed, headerStyle); err != nil {
		return err
	}

	if len(result.Unplaced) > 0 {
		if _, err := f.NewSheet(unplacedSheet); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
		if err := writeRectSheet(f, unplacedSheet, result.Unplaced, headerStyle); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Tight Width", result.Tight.W},
		{"Tight Height", result.Tight.H},
		{"Bin Width", result.Bin.W},
		{"Bin Height", result.Bin.H},
		{"Winning Ordering", string(result.Heuristic)},
		{"Placed", len(result.Placed)},
		{"Unplaced", len(result.Unplaced)},
		{"Used Area", result.UsedArea()},
		{"Efficiency %", result.Efficiency()},
		{"Max Side", settings.MaxSide},
		{"Allow Rotation", settings.AllowFlip},
		{"Discard Step", settings.DiscardStep},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRectSheet(f *excelize.File, sheet string, rects []*model.Rect, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &placementHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range rects {
		row := []interface{}{r.ID, r.Label, r.W, r.H, r.X, r.Y, r.Flipped, r.PlacedW(), r.PlacedH()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}
