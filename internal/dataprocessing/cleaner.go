package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "noshowcli/internal/errors"
	"noshowcli/pkg/contracts/domain"
)

// Normalize converts raw rows into typed appointments. It stops at the first
// invalid cell and reports its row and column. The appointment id is read
// by the parser but never copied into the result.
func Normalize(rows []domain.RawAppointment) ([]domain.Appointment, error) {
	records := make([]domain.Appointment, 0, len(rows))
	for _, raw := range rows {
		rec, err := normalizeRow(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeRow applies the typed field parsers to one raw row
func normalizeRow(raw domain.RawAppointment) (domain.Appointment, error) {
	var (
		rec domain.Appointment
		err error
	)
	rec.Row = raw.Row

	fail := func(column string, cause error) (domain.Appointment, error) {
		return domain.Appointment{}, apperrors.RowParseError(raw.Row, column, raw.Get(column), cause)
	}

	if rec.PatientID, err = CanonicalPatientID(raw.Get(domain.ColumnPatientID)); err != nil {
		return fail(domain.ColumnPatientID, err)
	}
	if rec.Gender, err = ParseGender(raw.Get(domain.ColumnGender)); err != nil {
		return fail(domain.ColumnGender, err)
	}
	if rec.ScheduledAt, err = ParseTimestamp(raw.Get(domain.ColumnScheduledDay)); err != nil {
		return fail(domain.ColumnScheduledDay, err)
	}
	if rec.AppointmentDate, err = ParseDate(raw.Get(domain.ColumnAppointmentDay)); err != nil {
		return fail(domain.ColumnAppointmentDay, err)
	}
	if rec.Age, err = ParseAge(raw.Get(domain.ColumnAge)); err != nil {
		return fail(domain.ColumnAge, err)
	}
	rec.Neighbourhood = raw.Get(domain.ColumnNeighbourhood)

	flags := []struct {
		column string
		dst    *bool
	}{
		{domain.ColumnScholarship, &rec.Scholarship},
		{domain.ColumnHypertension, &rec.Hypertension},
		{domain.ColumnDiabetes, &rec.Diabetes},
		{domain.ColumnAlcoholism, &rec.Alcoholism},
	}
	for _, f := range flags {
		if *f.dst, err = ParseFlag(raw.Get(f.column)); err != nil {
			return fail(f.column, err)
		}
	}

	if rec.Handicap, err = ParseCount(raw.Get(domain.ColumnHandicap)); err != nil {
		return fail(domain.ColumnHandicap, err)
	}
	if rec.SMSReceived, err = ParseCount(raw.Get(domain.ColumnSMSReceived)); err != nil {
		return fail(domain.ColumnSMSReceived, err)
	}
	if rec.NoShow, err = ParseNoShow(raw.Get(domain.ColumnNoShow)); err != nil {
		return fail(domain.ColumnNoShow, err)
	}

	rec.Weekday = rec.AppointmentDate.Weekday()
	return rec, nil
}

// DeriveWeekday returns a copy of records with Weekday set from the
// appointment date.
func DeriveWeekday(records []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, len(records))
	for i, rec := range records {
		rec.Weekday = rec.AppointmentDate.Weekday()
		out[i] = rec
	}
	return out
}

// FilterAgeRange keeps records with minAge <= age <= maxAge and returns an
// audit entry for every removed record. Ages are never clamped.
func FilterAgeRange(records []domain.Appointment, minAge, maxAge int) ([]domain.Appointment, []domain.Removal) {
	kept := make([]domain.Appointment, 0, len(records))
	var removed []domain.Removal
	for _, rec := range records {
		if rec.Age < minAge || rec.Age > maxAge {
			removed = append(removed, domain.Removal{
				Row:       rec.Row,
				PatientID: rec.PatientID,
				Age:       rec.Age,
				Reason:    domain.RemovalAgeOutOfRange,
			})
			continue
		}
		kept = append(kept, rec)
	}
	return kept, removed
}

// CleanerConfig holds the cleaning policy
type CleanerConfig struct {
	MinAge int
	MaxAge int
}

// DefaultCleanerConfig returns the [0, 100] age policy
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{MinAge: 0, MaxAge: 100}
}

// Cleaner runs the normalization and cleaning steps in order
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// NewCleaner creates a cleaner with the given policy
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger: logger.With(slog.String("component", "cleaner")),
		config: config,
	}
}

// Clean normalizes the raw dataset and then applies CleanRecords
func (c *Cleaner) Clean(ctx context.Context, raw *domain.RawDataset) (*domain.CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := Normalize(raw.Rows)
	if err != nil {
		c.logger.ErrorContext(ctx, "normalization failed",
			slog.String("source", raw.Source),
			slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.DebugContext(ctx, "rows normalized", slog.Int("rows", len(records)))
	return c.CleanRecords(ctx, records)
}

// CleanRecords derives the weekday and removes out-of-range ages. Applying
// it to its own output changes nothing.
func (c *Cleaner) CleanRecords(ctx context.Context, records []domain.Appointment) (*domain.CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept, removed := FilterAgeRange(DeriveWeekday(records), c.config.MinAge, c.config.MaxAge)

	result := &domain.CleanResult{
		InputRows: len(records),
		Records:   kept,
		Removals:  removed,
	}

	c.logger.InfoContext(ctx, "records cleaned",
		slog.Int("input_rows", result.InputRows),
		slog.Int("kept", len(kept)),
		slog.Int("removed", result.RemovedCount()),
		slog.Int("min_age", c.config.MinAge),
		slog.Int("max_age", c.config.MaxAge))

	for _, rm := range removed {
		c.logger.DebugContext(ctx, "record removed",
			slog.Int("row", rm.Row),
			slog.String("patient_id", rm.PatientID),
			slog.Int("age", rm.Age),
			slog.String("reason", string(rm.Reason)))
	}

	return result, nil
}
