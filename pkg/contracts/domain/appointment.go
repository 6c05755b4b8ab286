package domain

import (
	"time"
)

// Source column names as they appear in the raw appointments file header.
const (
	ColumnPatientID      = "PatientId"
	ColumnAppointmentID  = "AppointmentID"
	ColumnGender         = "Gender"
	ColumnScheduledDay   = "ScheduledDay"
	ColumnAppointmentDay = "AppointmentDay"
	ColumnAge            = "Age"
	ColumnNeighbourhood  = "Neighbourhood"
	ColumnScholarship    = "Scholarship"
	ColumnHypertension   = "Hipertension"
	ColumnDiabetes       = "Diabetes"
	ColumnAlcoholism     = "Alcoholism"
	ColumnHandicap       = "Handcap"
	ColumnSMSReceived    = "SMS_received"
	ColumnNoShowRaw      = "No-show"
	ColumnNoShow         = "no_show"
	ColumnWeekday        = "WeekDay"
)

// RawColumns lists the header of the raw file after the no-show column has
// been renamed to its canonical name.
var RawColumns = []string{
	ColumnPatientID,
	ColumnAppointmentID,
	ColumnGender,
	ColumnScheduledDay,
	ColumnAppointmentDay,
	ColumnAge,
	ColumnNeighbourhood,
	ColumnScholarship,
	ColumnHypertension,
	ColumnDiabetes,
	ColumnAlcoholism,
	ColumnHandicap,
	ColumnSMSReceived,
	ColumnNoShow,
}

// CleanedColumns is the schema of the cleaned collection. AppointmentID is
// intentionally absent.
var CleanedColumns = []string{
	ColumnPatientID,
	ColumnGender,
	ColumnScheduledDay,
	ColumnAppointmentDay,
	ColumnAge,
	ColumnNeighbourhood,
	ColumnScholarship,
	ColumnHypertension,
	ColumnDiabetes,
	ColumnAlcoholism,
	ColumnHandicap,
	ColumnSMSReceived,
	ColumnNoShow,
	ColumnWeekday,
}

// RawAppointment is one row of the source file, keyed by canonical column name.
type RawAppointment struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// Get returns the raw text of a column, or "" when absent.
func (r RawAppointment) Get(column string) string {
	return r.Fields[column]
}

// Gender is the patient gender category.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// Genders lists the known gender categories in report order.
var Genders = []Gender{GenderFemale, GenderMale}

// Weekdays lists the calendar days in report order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Appointment is a cleaned appointment record.
type Appointment struct {
	Row             int          `json:"row"`
	PatientID       string       `json:"patient_id"`
	Gender          Gender       `json:"gender"`
	ScheduledAt     time.Time    `json:"scheduled_at"`
	AppointmentDate time.Time    `json:"appointment_date"`
	Age             int          `json:"age"`
	Neighbourhood   string       `json:"neighbourhood"`
	Scholarship     bool         `json:"scholarship"`
	Hypertension    bool         `json:"hypertension"`
	Diabetes        bool         `json:"diabetes"`
	Alcoholism      bool         `json:"alcoholism"`
	Handicap        int          `json:"handicap"`
	SMSReceived     int          `json:"sms_received"`
	NoShow          bool         `json:"no_show"`
	Weekday         time.Weekday `json:"weekday"`
}

// Attended reports whether the patient showed up.
func (a Appointment) Attended() bool {
	return !a.NoShow
}

// RemovalReason names a cleaning rule that dropped a record.
type RemovalReason string

const (
	RemovalAgeOutOfRange RemovalReason = "age_out_of_range"
)

// Removal is the audit entry for a record dropped during cleaning.
type Removal struct {
	Row       int           `json:"row"`
	PatientID string        `json:"patient_id"`
	Age       int           `json:"age"`
	Reason    RemovalReason `json:"reason"`
}

// CleanResult is the output of the cleaning stage.
type CleanResult struct {
	InputRows int           `json:"input_rows"`
	Records   []Appointment `json:"-"`
	Removals  []Removal     `json:"removals"`
}

// RemovedCount returns the number of rows dropped by cleaning.
func (r CleanResult) RemovedCount() int {
	return len(r.Removals)
}

// RemovedBy counts removals per reason.
func (r CleanResult) RemovedBy() map[RemovalReason]int {
	counts := make(map[RemovalReason]int)
	for _, rm := range r.Removals {
		counts[rm.Reason]++
	}
	return counts
}

// DataProfile summarises data quality of the raw file before cleaning.
type DataProfile struct {
	TotalRows               int            `json:"total_rows"`
	DuplicateRows           int            `json:"duplicate_rows"`
	DuplicatePatientIDs     int            `json:"duplicate_patient_ids"`
	DuplicateAppointmentIDs int            `json:"duplicate_appointment_ids"`
	EmptyCells              map[string]int `json:"empty_cells"`
}

// RawDataset is the parsed but not yet normalized input.
type RawDataset struct {
	Source  string           `json:"source"`
	Rows    []RawAppointment `json:"-"`
	Profile DataProfile      `json:"profile"`
}
