package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "noshowcli/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // UTF-8 BOM for Excel
}

// WriteCSV writes data to a CSV file with the given options. Failures are
// returned as STORAGE errors carrying the path.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	fail := func(msg string, err error) error {
		return apperrors.NewStorageError(msg, err).WithContext(apperrors.ContextPath, filePath)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fail("failed to create directory", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return fail("failed to open file", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fail("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fail("failed to write headers", err)
		}
	}

	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fail("failed to write record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fail("failed to flush CSV", err)
	}
	if err := file.Close(); err != nil {
		return fail("failed to close file", err)
	}
	return nil
}

// WriteTable writes a report table as a CSV file
func (w *CSVWriter) WriteTable(filePath string, table Table) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: table.Headers,
		Records: table.Rows,
	})
}
