package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SpritePack/internal/model"
)

func TestExportExcel_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	result, settings := buildTestResult(t)
	result.Unplaced = []*model.Rect{model.NewRect("giant", 500, 500)}

	require.NoError(t, ExportExcel(path, result, settings))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{placementsSheet, unplacedSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(placementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Label", rows[0][1])

	found := false
	for _, row := range rows[1:] {
		if row[1] == "banner" {
			found = true
			assert.Equal(t, []string{"80", "40", "60", "0", "TRUE", "40", "80"}, row[2:])
		}
	}
	assert.True(t, found, "banner row missing")

	unplaced, err := f.GetRows(unplacedSheet)
	require.NoError(t, err)
	require.Len(t, unplaced, 2)
	assert.Equal(t, "giant", unplaced[1][1])

	tight, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "100", tight)
}

func TestExportExcel_NoUnplacedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	result, settings := buildTestResult(t)
	require.NoError(t, ExportExcel(path, result, settings))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{placementsSheet, summarySheet}, f.GetSheetList())
}
