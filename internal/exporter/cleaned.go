package exporter

import (
	"path/filepath"
	"strings"

	"noshowcli/internal/config"
	"noshowcli/pkg/contracts/domain"
)

// CleanedRow renders a cleaned record in CleanedColumns order
func CleanedRow(rec domain.Appointment) []string {
	return []string{
		rec.PatientID,
		string(rec.Gender),
		formatTimestamp(rec.ScheduledAt),
		formatDate(rec.AppointmentDate),
		formatInt(rec.Age),
		rec.Neighbourhood,
		formatBool(rec.Scholarship),
		formatBool(rec.Hypertension),
		formatBool(rec.Diabetes),
		formatBool(rec.Alcoholism),
		formatInt(rec.Handicap),
		formatInt(rec.SMSReceived),
		formatNoShow(rec.NoShow),
		rec.Weekday.String(),
	}
}

// WriteCleanedCSV writes the cleaned collection to path. The appointment
// id is not part of the cleaned schema.
func (w *CSVWriter) WriteCleanedCSV(path string, records []domain.Appointment) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = CleanedRow(rec)
	}
	return w.WriteCSV(path, WriteOptions{
		Headers:   domain.CleanedColumns,
		Records:   rows,
		BOMPrefix: false,
	})
}

// WriteRemovalsCSV writes the cleaning audit to path
func (w *CSVWriter) WriteRemovalsCSV(path string, removals []domain.Removal) error {
	return w.WriteTable(path, RemovalsTable(removals))
}

// RemovalsPathFor returns the audit file written next to a cleaned file,
// e.g. out/clean.csv -> out/clean_removals.csv.
func RemovalsPathFor(cleanedPath string) string {
	dir := filepath.Dir(cleanedPath)
	base := filepath.Base(cleanedPath)
	ext := filepath.Ext(base)
	if ext == "" {
		return filepath.Join(dir, base+"_"+config.RemovalsCSV)
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_"+config.RemovalsCSV)
}
