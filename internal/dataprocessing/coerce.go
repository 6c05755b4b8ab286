package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"noshowcli/pkg/contracts/domain"
)

// ErrEmptyValue is returned by the field parsers for blank input
var ErrEmptyValue = errors.New("empty value")

// timestampLayouts are tried in order by ParseTimestamp and ParseDate
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CanonicalPatientID returns the integer text form of a patient id,
// dropping any fractional part: "123.0" and "123" both become "123".
// Large ids written in scientific notation are accepted.
func CanonicalPatientID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyValue
	}

	if intPart, ok := decimalIntegerPart(s); ok {
		return intPart, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("not a number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("not a finite number")
	}
	id := strconv.FormatFloat(math.Trunc(f), 'f', -1, 64)
	if id == "-0" {
		id = "0"
	}
	return id, nil
}

// decimalIntegerPart extracts the integer digits of a plain decimal literal
// such as "-0012.50" without going through float64, so long ids keep every
// digit.
func decimalIntegerPart(s string) (string, bool) {
	sign := ""
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return "", false
	}
	if !allDigits(intPart) || !allDigits(frac) {
		return "", false
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		return "0", true
	}
	return sign + intPart, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseTime parses s with the first matching layout, keeping its zone
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyValue
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time format")
}

// ParseTimestamp parses a scheduling timestamp and returns it in UTC
func ParseTimestamp(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseDate parses a date or timestamp and keeps only the calendar date as
// written, at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseGender accepts F/M and Female/Male in any case
func ParseGender(s string) (domain.Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female":
		return domain.GenderFemale, nil
	case "m", "male":
		return domain.GenderMale, nil
	case "":
		return "", ErrEmptyValue
	}
	return "", fmt.Errorf("unknown gender")
}

// ParseAge parses an integer age. Negative values parse; range policy is
// applied by FilterAgeRange.
func ParseAge(s string) (int, error) {
	return parseInteger(s)
}

// ParseFlag parses a 0/1 indicator, also accepting true/false
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	case "":
		return false, ErrEmptyValue
	}
	return false, fmt.Errorf("expected 0 or 1")
}

// ParseCount parses a non-negative integer
func ParseCount(s string) (int, error) {
	n, err := parseInteger(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

// ParseNoShow maps the source Yes/No answer to true when the patient did
// not attend.
func ParseNoShow(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	case "":
		return false, ErrEmptyValue
	}
	return false, fmt.Errorf("expected Yes or No")
}

// parseInteger accepts plain integers and integral decimals like "45.0"
func parseInteger(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyValue
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range")
	}
	return int(f), nil
}
