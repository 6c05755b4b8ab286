package exporter

import (
	"fmt"
	"strconv"
	"time"

	"noshowcli/pkg/contracts/domain"
)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a flag as 1 or 0, matching the source file encoding
func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// formatRatio formats a ratio with 4 decimals or "undefined"
func formatRatio(r domain.Ratio) string {
	return r.String()
}

// formatNoShow maps the no-show flag back to the source file values
func formatNoShow(noShow bool) string {
	if noShow {
		return "Yes"
	}
	return "No"
}

// formatTimestamp formats an instant as RFC 3339 in UTC
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatDate formats a calendar date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
