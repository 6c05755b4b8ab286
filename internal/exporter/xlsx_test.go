package exporter

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleAnalysis(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetSummary, SheetVariables, SheetGender, SheetWeekday,
		SheetAge, SheetAgeValues, SheetRemovals,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetGender)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "No-shows by gender", rows[0][0])
	assert.Equal(t, []string{"Gender", "Attended", "Not attended", "Total", "No-show ratio"}, rows[1])
	assert.Equal(t, []string{"Female", "8", "2", "10", "0.2"}, rows[2])

	rows, err = f.GetRows(SheetRemovals)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"15", "1", "115", "age_out_of_range"}, rows[3])

	weekdayTotal, err := f.GetCellValue(SheetWeekday, "D3")
	require.NoError(t, err)
	assert.Equal(t, "4", weekdayTotal)
}

func TestWriteXLSX_Charts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleAnalysis(t)))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	charts := 0
	for _, file := range zr.File {
		if strings.HasPrefix(file.Name, "xl/charts/chart") && strings.HasSuffix(file.Name, ".xml") {
			charts++
		}
	}
	assert.Equal(t, 3, charts)
}

func TestWriteXLSX_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, emptyAnalysis(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	ratio, err := f.GetCellValue(SheetGender, "E3")
	require.NoError(t, err)
	assert.Equal(t, "undefined", ratio)
}

func TestWriteXLSX_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "report.xlsx")
	err := WriteXLSX(path, sampleAnalysis(t))
	assert.Error(t, err)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 8, cellValue("Attended", "8"))
	assert.Equal(t, 0.25, cellValue("No-show ratio", "0.2500"))
	assert.Equal(t, "undefined", cellValue("No-show ratio", "undefined"))
	assert.Equal(t, "29872499824296", cellValue("PatientId", "29872499824296"))
}
