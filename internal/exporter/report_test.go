package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowcli/pkg/contracts/domain"
)

func findRow(t *testing.T, table Table, first string) []string {
	t.Helper()
	for _, r := range table.Rows {
		if r[0] == first {
			return r
		}
	}
	t.Fatalf("row %q not found in table %s", first, table.Name)
	return nil
}

func TestGenderTable(t *testing.T) {
	table := GenderTable(sampleAnalysis(t).Gender)

	assert.Equal(t, []string{"Gender", "Attended", "Not attended", "Total", "No-show ratio"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Female", "8", "2", "10", "0.2000"}, table.Rows[0])
	assert.Equal(t, []string{"Male", "3", "1", "4", "0.2500"}, table.Rows[1])
}

func TestWeekdayTable(t *testing.T) {
	table := WeekdayTable(sampleAnalysis(t).Weekday)

	assert.Equal(t, domain.ColumnWeekday, table.Headers[0])
	require.Len(t, table.Rows, 7)
	assert.Equal(t, []string{"Monday", "3", "1", "4", "0.2500"}, table.Rows[0])
	assert.Equal(t, []string{"Friday", "8", "2", "10", "0.2000"}, findRow(t, table, "Friday"))
	assert.Equal(t, []string{"Sunday", "0", "0", "0", "undefined"}, table.Rows[6])
}

func TestSummaryTable(t *testing.T) {
	table := SummaryTable(sampleAnalysis(t))

	assert.Equal(t, "14", findRow(t, table, "Appointments")[1])
	assert.Equal(t, "0.2143", findRow(t, table, "No-show ratio")[1])
	assert.Equal(t, "Monday", findRow(t, table, "Highest no-show weekday")[1])
	assert.Equal(t, "run-1", findRow(t, table, "Run ID")[1])
}

func TestSummaryTable_Empty(t *testing.T) {
	table := SummaryTable(emptyAnalysis(t))

	assert.Equal(t, "0", findRow(t, table, "Appointments")[1])
	assert.Equal(t, "undefined", findRow(t, table, "No-show ratio")[1])
	assert.Equal(t, "none", findRow(t, table, "Highest no-show weekday")[1])
}

func TestCleaningTable(t *testing.T) {
	table := CleaningTable(sampleAnalysis(t).Cleaning)

	assert.Equal(t, "16", findRow(t, table, "Input rows")[1])
	assert.Equal(t, "14", findRow(t, table, "Output rows")[1])
	assert.Equal(t, "2", findRow(t, table, "Removed rows")[1])
	assert.Equal(t, "0-100", findRow(t, table, "Age range")[1])
	assert.Equal(t, "2", findRow(t, table, "Removed age_out_of_range")[1])
}

func TestProfileTable(t *testing.T) {
	table := ProfileTable(sampleAnalysis(t).Profile)

	assert.Equal(t, "16", findRow(t, table, "Rows")[1])
	assert.Equal(t, "16", findRow(t, table, "Empty Neighbourhood")[1])
}

func TestVariablesTable(t *testing.T) {
	table := VariablesTable(sampleAnalysis(t).Variables)

	assert.Equal(t, []string{"dependent", domain.ColumnNoShow}, table.Rows[0])
	for _, r := range table.Rows[1:] {
		assert.Equal(t, "independent", r[0])
		assert.NotEqual(t, domain.ColumnAppointmentID, r[1])
	}
}

func TestAgeStatsTable(t *testing.T) {
	table := AgeStatsTable(emptyAnalysis(t).Age.Stats)

	require.Len(t, table.Rows, 3)
	for _, r := range table.Rows {
		assert.Equal(t, "0", r[1])
		assert.Equal(t, "undefined", r[2])
	}

	table = AgeStatsTable(sampleAnalysis(t).Age.Stats)
	all := findRow(t, table, "all")
	assert.Equal(t, "14", all[1])
	assert.Equal(t, "7.00", all[4])  // min
	assert.Equal(t, "61.00", all[8]) // max
}

func TestAgeHistogramTable(t *testing.T) {
	table := AgeHistogramTable(sampleAnalysis(t).Age.Histograms)

	assert.Equal(t, []string{"Age", "all", "attended", "not_attended"}, table.Headers)
	require.Len(t, table.Rows, 21)
	assert.Equal(t, []string{"5-9", "3", "3", "0"}, table.Rows[1])
	assert.Equal(t, []string{"30-34", "8", "8", "0"}, table.Rows[6])
	assert.Equal(t, []string{"40-44", "2", "0", "2"}, table.Rows[8])
	assert.Equal(t, []string{"100", "0", "0", "0"}, table.Rows[20])

	assert.Empty(t, AgeHistogramTable(nil).Rows)
}

func TestRemovalsTable(t *testing.T) {
	table := RemovalsTable(sampleAnalysis(t).Cleaning.Removals)

	assert.Equal(t, [][]string{
		{"14", "1", "-1", "age_out_of_range"},
		{"15", "1", "115", "age_out_of_range"},
	}, table.Rows)
}

func TestReportTables_Order(t *testing.T) {
	var names []string
	for _, table := range ReportTables(sampleAnalysis(t)) {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{
		TableSummary, TableProfile, TableCleaning, TableVariables,
		TableGender, TableAgeStats, TableAgeHist, TableWeekday,
	}, names)
}
