package exporter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	apperrors "noshowcli/internal/errors"
	"noshowcli/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary   = "Summary"
	SheetVariables = "Variables"
	SheetGender    = "Gender"
	SheetWeekday   = "Weekday"
	SheetAge       = "Age"
	SheetAgeValues = "AgeValues"
	SheetRemovals  = "Removals"
)

const (
	chartWidth  = 640
	chartHeight = 360
)

// tableRange is where a table landed on a sheet, in 1-based rows
type tableRange struct {
	sheet     string
	headerRow int
	firstRow  int
	lastRow   int
}

func (r tableRange) empty() bool {
	return r.lastRow < r.firstRow
}

// column returns the absolute reference of column col (1-based) over the
// data rows, e.g. Gender!$B$2:$B$3.
func (r tableRange) column(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", r.sheet, name, r.firstRow, name, r.lastRow)
}

// header returns the absolute reference of the header cell of column col
func (r tableRange) header(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d", r.sheet, name, r.headerRow)
}

// xlsxBuilder writes report tables and charts into one workbook
type xlsxBuilder struct {
	f      *excelize.File
	title  int
	head   int
	sheets int
}

func newXLSXBuilder() (*xlsxBuilder, error) {
	f := excelize.NewFile()

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		f.Close()
		return nil, err
	}
	head, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	return &xlsxBuilder{f: f, title: title, head: head}, nil
}

// sheet creates a sheet, reusing the default one for the first call
func (b *xlsxBuilder) sheet(name string) error {
	b.sheets++
	if b.sheets == 1 {
		return b.f.SetSheetName("Sheet1", name)
	}
	_, err := b.f.NewSheet(name)
	return err
}

// writeTable writes the title, header and rows of t starting at row and
// returns where the data landed.
func (b *xlsxBuilder) writeTable(sheet string, row int, t Table) (tableRange, error) {
	titleCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := b.f.SetCellValue(sheet, titleCell, t.Title); err != nil {
		return tableRange{}, err
	}
	if err := b.f.SetCellStyle(sheet, titleCell, titleCell, b.title); err != nil {
		return tableRange{}, err
	}

	headerRow := row + 1
	headerCell, _ := excelize.CoordinatesToCellName(1, headerRow)
	headers := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	if err := b.f.SetSheetRow(sheet, headerCell, &headers); err != nil {
		return tableRange{}, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(t.Headers), headerRow)
	if err := b.f.SetCellStyle(sheet, headerCell, lastHeader, b.head); err != nil {
		return tableRange{}, err
	}

	for i, r := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = cellValue(t.Headers[j], v)
		}
		if err := b.f.SetSheetRow(sheet, cell, &values); err != nil {
			return tableRange{}, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
	if err := b.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return tableRange{}, err
	}

	return tableRange{
		sheet:     sheet,
		headerRow: headerRow,
		firstRow:  headerRow + 1,
		lastRow:   headerRow + len(t.Rows),
	}, nil
}

// columnChart adds a clustered column chart of the given value columns,
// categorised by the first column of the table.
func (b *xlsxBuilder) columnChart(cell, title string, r tableRange, valueCols ...int) error {
	if r.empty() {
		return nil
	}
	series := make([]excelize.ChartSeries, 0, len(valueCols))
	for _, col := range valueCols {
		series = append(series, excelize.ChartSeries{
			Name:       r.header(col),
			Categories: r.column(1),
			Values:     r.column(col),
		})
	}
	return b.f.AddChart(r.sheet, cell, &excelize.Chart{
		Type:      excelize.Col,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	})
}

// cellValue stores counts and statistics as numbers so charts can use
// them. Patient ids stay text.
func cellValue(header, v string) interface{} {
	if header == domain.ColumnPatientID {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// BuildWorkbook lays out the analysis as a workbook with one sheet per
// research question. The caller must close the returned file.
func BuildWorkbook(a *domain.Analysis) (*excelize.File, error) {
	b, err := newXLSXBuilder()
	if err != nil {
		return nil, err
	}
	if err := b.build(a); err != nil {
		b.f.Close()
		return nil, err
	}
	return b.f, nil
}

func (b *xlsxBuilder) build(a *domain.Analysis) error {
	// Summary: overall, profile and cleaning stacked
	if err := b.sheet(SheetSummary); err != nil {
		return err
	}
	row := 1
	for _, t := range []Table{SummaryTable(a), ProfileTable(a.Profile), CleaningTable(a.Cleaning)} {
		r, err := b.writeTable(SheetSummary, row, t)
		if err != nil {
			return err
		}
		row = r.lastRow + 2
		if r.empty() {
			row = r.headerRow + 2
		}
	}

	if err := b.sheet(SheetVariables); err != nil {
		return err
	}
	if _, err := b.writeTable(SheetVariables, 1, VariablesTable(a.Variables)); err != nil {
		return err
	}

	if err := b.sheet(SheetGender); err != nil {
		return err
	}
	gender, err := b.writeTable(SheetGender, 1, GenderTable(a.Gender))
	if err != nil {
		return err
	}
	if err := b.columnChart("G2", "Attendance by gender", gender, 2, 3); err != nil {
		return err
	}

	if err := b.sheet(SheetWeekday); err != nil {
		return err
	}
	weekday, err := b.writeTable(SheetWeekday, 1, WeekdayTable(a.Weekday))
	if err != nil {
		return err
	}
	if err := b.columnChart("G2", "Attendance by weekday", weekday, 2, 3); err != nil {
		return err
	}

	if err := b.sheet(SheetAge); err != nil {
		return err
	}
	stats, err := b.writeTable(SheetAge, 1, AgeStatsTable(a.Age.Stats))
	if err != nil {
		return err
	}
	histTable := AgeHistogramTable(a.Age.Histograms)
	histStart := stats.lastRow + 2
	if stats.empty() {
		histStart = stats.headerRow + 2
	}
	hist, err := b.writeTable(SheetAge, histStart, histTable)
	if err != nil {
		return err
	}
	cols := make([]int, 0, len(histTable.Headers)-1)
	for i := 2; i <= len(histTable.Headers); i++ {
		cols = append(cols, i)
	}
	chartCell, _ := excelize.CoordinatesToCellName(len(histTable.Headers)+2, hist.headerRow)
	if err := b.columnChart(chartCell, "Age histogram", hist, cols...); err != nil {
		return err
	}

	if err := b.sheet(SheetAgeValues); err != nil {
		return err
	}
	if _, err := b.writeTable(SheetAgeValues, 1, AgeValuesTable(a.AgeValueCounts)); err != nil {
		return err
	}

	if err := b.sheet(SheetRemovals); err != nil {
		return err
	}
	if _, err := b.writeTable(SheetRemovals, 1, RemovalsTable(a.Cleaning.Removals)); err != nil {
		return err
	}

	b.f.SetActiveSheet(0)
	return nil
}

// WriteXLSX builds the workbook and saves it to path
func WriteXLSX(path string, a *domain.Analysis) error {
	f, err := BuildWorkbook(a)
	if err != nil {
		return apperrors.NewStorageError("failed to build workbook", err).
			WithContext(apperrors.ContextPath, path)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).
			WithContext(apperrors.ContextPath, path)
	}
	return nil
}
