package dataprocessing

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "noshowcli/internal/errors"
	"noshowcli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ParseFile reads the appointments file at path. A missing file yields a
// NOT_FOUND error; malformed content yields a PARSING error.
func ParseFile(path string) (*domain.RawDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("input file").
				WithContext(apperrors.ContextPath, path)
		}
		return nil, apperrors.NewStorageError("failed to open input file", err).
			WithContext(apperrors.ContextPath, path)
	}
	defer file.Close()

	return Parse(file, path)
}

// Parse reads comma-separated appointment rows from r. The header must hold
// every expected column in any order; the no-show column is exposed under
// its canonical name. Row indexes in errors are zero-based data rows.
func Parse(r io.Reader, source string) (*domain.RawDataset, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("input file is empty", nil).
			WithContext(apperrors.ContextPath, source)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header", err).
			WithContext(apperrors.ContextPath, source)
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	dataset := &domain.RawDataset{Source: source}
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed row", err).
				WithContext(apperrors.ContextRow, row)
		}
		if len(fields) != len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("expected %d fields, got %d", len(header), len(fields)), nil).
				WithContext(apperrors.ContextRow, row)
		}

		values := make(map[string]string, len(domain.RawColumns))
		for _, col := range domain.RawColumns {
			values[col] = strings.TrimSpace(fields[index[col]])
		}
		dataset.Rows = append(dataset.Rows, domain.RawAppointment{Row: row, Fields: values})
	}

	dataset.Profile = Profile(dataset.Rows)
	return dataset, nil
}

// mapColumns resolves the position of every expected column in header
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == domain.ColumnNoShowRaw {
			name = domain.ColumnNoShow
		}
		if _, dup := index[name]; dup {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate column %q in header", name), nil).
				WithContext(apperrors.ContextColumn, name)
		}
		index[name] = i
	}

	for _, col := range domain.RawColumns {
		if _, ok := index[col]; !ok {
			missing := col
			if col == domain.ColumnNoShow {
				missing = domain.ColumnNoShowRaw
			}
			return nil, apperrors.NewParsingError(fmt.Sprintf("missing column %q in header", missing), nil).
				WithContext(apperrors.ContextColumn, missing)
		}
	}

	return index, nil
}

// Profile reports duplicates and empty cells of the raw rows. Patient ids
// are compared in canonical form when they parse.
func Profile(rows []domain.RawAppointment) domain.DataProfile {
	profile := domain.DataProfile{
		TotalRows:  len(rows),
		EmptyCells: make(map[string]int, len(domain.RawColumns)),
	}
	for _, col := range domain.RawColumns {
		profile.EmptyCells[col] = 0
	}

	seenRows := make(map[string]struct{}, len(rows))
	seenPatients := make(map[string]struct{}, len(rows))
	seenAppointments := make(map[string]struct{}, len(rows))

	var sb strings.Builder
	for _, r := range rows {
		sb.Reset()
		for _, col := range domain.RawColumns {
			v := r.Get(col)
			if v == "" {
				profile.EmptyCells[col]++
			}
			sb.WriteString(v)
			sb.WriteByte(0x1f)
		}

		if markSeen(seenRows, sb.String()) {
			profile.DuplicateRows++
		}

		patient := r.Get(domain.ColumnPatientID)
		if canonical, err := CanonicalPatientID(patient); err == nil {
			patient = canonical
		}
		if markSeen(seenPatients, patient) {
			profile.DuplicatePatientIDs++
		}

		if markSeen(seenAppointments, r.Get(domain.ColumnAppointmentID)) {
			profile.DuplicateAppointmentIDs++
		}
	}

	return profile
}

// markSeen records key and reports whether it was already present
func markSeen(seen map[string]struct{}, key string) bool {
	if _, ok := seen[key]; ok {
		return true
	}
	seen[key] = struct{}{}
	return false
}
