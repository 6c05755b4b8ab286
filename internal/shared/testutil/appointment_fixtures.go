package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"noshowcli/pkg/contracts/domain"
)

// RawHeader is the header of the source appointments file
var RawHeader = []string{
	"PatientId", "AppointmentID", "Gender", "ScheduledDay", "AppointmentDay",
	"Age", "Neighbourhood", "Scholarship", "Hipertension", "Diabetes",
	"Alcoholism", "Handcap", "SMS_received", "No-show",
}

// Row is one raw appointments file row, all fields as text
type Row struct {
	PatientID      string
	AppointmentID  string
	Gender         string
	ScheduledDay   string
	AppointmentDay string
	Age            string
	Neighbourhood  string
	Scholarship    string
	Hypertension   string
	Diabetes       string
	Alcoholism     string
	Handicap       string
	SMSReceived    string
	NoShow         string
}

// DefaultRow returns a valid row for an attended appointment on Friday
// 2016-04-29.
func DefaultRow() Row {
	return Row{
		PatientID:      "29872499824296.0",
		AppointmentID:  "5642903",
		Gender:         "F",
		ScheduledDay:   "2016-04-29T18:38:08Z",
		AppointmentDay: "2016-04-29T00:00:00Z",
		Age:            "62",
		Neighbourhood:  "JARDIM DA PENHA",
		Scholarship:    "0",
		Hypertension:   "1",
		Diabetes:       "0",
		Alcoholism:     "0",
		Handicap:       "0",
		SMSReceived:    "0",
		NoShow:         "No",
	}
}

// Fields returns the row values in RawHeader order
func (r Row) Fields() []string {
	return []string{
		r.PatientID, r.AppointmentID, r.Gender, r.ScheduledDay, r.AppointmentDay,
		r.Age, r.Neighbourhood, r.Scholarship, r.Hypertension, r.Diabetes,
		r.Alcoholism, r.Handicap, r.SMSReceived, r.NoShow,
	}
}

// With returns a copy of r after applying fn
func (r Row) With(fn func(*Row)) Row {
	fn(&r)
	return r
}

// CSV renders the header and rows as file content
func CSV(rows ...Row) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(RawHeader)
	for _, r := range rows {
		w.Write(r.Fields())
	}
	w.Flush()
	return sb.String()
}

// WriteCSV writes the rows to noshow.csv in dir and returns its path
func WriteCSV(t *testing.T, dir string, rows ...Row) string {
	t.Helper()
	path := filepath.Join(dir, "noshow.csv")
	if err := os.WriteFile(path, []byte(CSV(rows...)), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// Appointment builds a cleaned record. date is YYYY-MM-DD.
func Appointment(gender domain.Gender, age int, noShow bool, date string) domain.Appointment {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.Appointment{
		PatientID:       "1",
		Gender:          gender,
		ScheduledAt:     day.Add(-48 * time.Hour),
		AppointmentDate: day,
		Age:             age,
		NoShow:          noShow,
		Weekday:         day.Weekday(),
	}
}

// Repeat returns n copies of rec with consecutive row indexes from start
func Repeat(rec domain.Appointment, n, start int) []domain.Appointment {
	out := make([]domain.Appointment, n)
	for i := range out {
		out[i] = rec
		out[i].Row = start + i
	}
	return out
}
