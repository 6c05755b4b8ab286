package exporter

import (
	"sort"

	"noshowcli/pkg/contracts/domain"
)

// Table is a titled grid of report cells shared by every output format
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]string
}

// Table names, also used as XLSX sheet names
const (
	TableSummary   = "Summary"
	TableProfile   = "Profile"
	TableCleaning  = "Cleaning"
	TableVariables = "Variables"
	TableGender    = "Gender"
	TableWeekday   = "Weekday"
	TableAgeStats  = "AgeStats"
	TableAgeHist   = "AgeHistogram"
	TableAgeValues = "AgeValues"
	TableRemovals  = "Removals"
)

var summaryHeaders = []string{"Group", "Attended", "Not attended", "Total", "No-show ratio"}

// SummaryTable reports the overall attendance and the weekday with the
// highest no-show ratio.
func SummaryTable(a *domain.Analysis) Table {
	highest := a.Weekday.HighestNoShow
	if highest == "" {
		highest = "none"
	}
	return Table{
		Name:    TableSummary,
		Title:   "Overall attendance",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Source", a.Source},
			{"Run ID", a.RunID},
			{"Appointments", formatInt(a.Overall.Total)},
			{"Attended", formatInt(a.Overall.Attended)},
			{"Not attended", formatInt(a.Overall.NotAttended)},
			{"No-show ratio", formatRatio(a.Overall.NoShowRatio)},
			{"Highest no-show weekday", highest},
		},
	}
}

// ProfileTable reports data quality of the raw file
func ProfileTable(p domain.DataProfile) Table {
	t := Table{
		Name:    TableProfile,
		Title:   "Data profile",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Rows", formatInt(p.TotalRows)},
			{"Duplicate rows", formatInt(p.DuplicateRows)},
			{"Duplicate patient ids", formatInt(p.DuplicatePatientIDs)},
			{"Duplicate appointment ids", formatInt(p.DuplicateAppointmentIDs)},
		},
	}
	for _, col := range domain.RawColumns {
		if n, ok := p.EmptyCells[col]; ok {
			t.Rows = append(t.Rows, []string{"Empty " + col, formatInt(n)})
		}
	}
	return t
}

// CleaningTable reports what the cleaning stage kept and removed
func CleaningTable(c domain.CleaningAudit) Table {
	t := Table{
		Name:    TableCleaning,
		Title:   "Cleaning",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Input rows", formatInt(c.InputRows)},
			{"Output rows", formatInt(c.OutputRows)},
			{"Removed rows", formatInt(c.RemovedRows)},
			{"Age range", formatInt(c.AgeMin) + "-" + formatInt(c.AgeMax)},
		},
	}

	reasons := make([]string, 0, len(c.RemovedBy))
	for r := range c.RemovedBy {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		t.Rows = append(t.Rows, []string{"Removed " + r, formatInt(c.RemovedBy[domain.RemovalReason(r)])})
	}
	return t
}

// VariablesTable lists the dependent and independent variables
func VariablesTable(v domain.VariablesAnswer) Table {
	t := Table{
		Name:    TableVariables,
		Title:   "Variables",
		Headers: []string{"Role", "Column"},
		Rows:    [][]string{{"dependent", v.Dependent}},
	}
	for _, col := range v.Independent {
		t.Rows = append(t.Rows, []string{"independent", col})
	}
	return t
}

// GenderTable reports attendance per gender
func GenderTable(g domain.GenderAnswer) Table {
	return groupTable(TableGender, "No-shows by gender", domain.ColumnGender, g.Groups)
}

// WeekdayTable reports attendance per appointment weekday
func WeekdayTable(w domain.WeekdayAnswer) Table {
	return groupTable(TableWeekday, "No-shows by weekday", domain.ColumnWeekday, w.Groups)
}

func groupTable(name, title, attribute string, groups []domain.GroupSummary) Table {
	headers := append([]string(nil), summaryHeaders...)
	headers[0] = attribute

	t := Table{Name: name, Title: title, Headers: headers}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{
			g.Group,
			formatInt(g.Attended),
			formatInt(g.NotAttended),
			formatInt(g.Total),
			formatRatio(g.NoShowRatio),
		})
	}
	return t
}

// AgeStatsTable reports descriptive statistics per attendance series.
// Statistics of an empty series are "undefined".
func AgeStatsTable(stats []domain.AgeStats) Table {
	t := Table{
		Name:  TableAgeStats,
		Title: "Age distribution",
		Headers: []string{
			"Series", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max",
			"Lower whisker", "Upper whisker", "Outliers",
		},
	}
	for _, s := range stats {
		row := []string{s.Name, formatInt(s.Count)}
		for _, v := range []float64{s.Mean, s.StdDev, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.LowerWhisker, s.UpperWhisker} {
			if s.Defined {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "undefined")
			}
		}
		row = append(row, formatInt(s.Outliers))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// AgeHistogramTable puts the histograms side by side, one column per
// series. Histograms are built with the same buckets.
func AgeHistogramTable(hists []domain.Histogram) Table {
	t := Table{
		Name:    TableAgeHist,
		Title:   "Age histogram",
		Headers: []string{"Age"},
	}
	if len(hists) == 0 {
		return t
	}
	for _, h := range hists {
		t.Headers = append(t.Headers, h.Name)
	}
	for i, b := range hists[0].Buckets {
		row := []string{b.Label()}
		for _, h := range hists {
			count := 0
			if i < len(h.Buckets) {
				count = h.Buckets[i].Count
			}
			row = append(row, formatInt(count))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// AgeValuesTable reports how many appointments have each age
func AgeValuesTable(counts []domain.ValueCount) Table {
	t := Table{
		Name:    TableAgeValues,
		Title:   "Appointments per age",
		Headers: []string{domain.ColumnAge, "Count"},
	}
	for _, vc := range counts {
		t.Rows = append(t.Rows, []string{formatInt(vc.Value), formatInt(vc.Count)})
	}
	return t
}

// RemovalsTable lists every record dropped by cleaning
func RemovalsTable(removals []domain.Removal) Table {
	t := Table{
		Name:    TableRemovals,
		Title:   "Removed records",
		Headers: []string{"Row", domain.ColumnPatientID, domain.ColumnAge, "Reason"},
	}
	for _, rm := range removals {
		t.Rows = append(t.Rows, []string{
			formatInt(rm.Row), rm.PatientID, formatInt(rm.Age), string(rm.Reason),
		})
	}
	return t
}

// ReportTables returns the tables of the text report in display order
func ReportTables(a *domain.Analysis) []Table {
	return []Table{
		SummaryTable(a),
		ProfileTable(a.Profile),
		CleaningTable(a.Cleaning),
		VariablesTable(a.Variables),
		GenderTable(a.Gender),
		AgeStatsTable(a.Age.Stats),
		AgeHistogramTable(a.Age.Histograms),
		WeekdayTable(a.Weekday),
	}
}
