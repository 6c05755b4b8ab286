package exporter

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	apperrors "noshowcli/internal/errors"
	"noshowcli/pkg/contracts"
	"noshowcli/pkg/contracts/domain"
)

// Document is the JSON report envelope
type Document struct {
	Format   string           `json:"format"`
	Version  string           `json:"version"`
	Analysis *domain.Analysis `json:"analysis"`
}

// EncodeJSON writes the analysis as an indented JSON document.
// Undefined ratios are encoded as null.
func EncodeJSON(w io.Writer, a *domain.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Format:   contracts.ReportFormatVersion,
		Version:  contracts.Version,
		Analysis: a,
	})
}

// WriteJSON writes the JSON report to path
func WriteJSON(path string, a *domain.Analysis) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).
			WithContext(apperrors.ContextPath, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON report", err).
			WithContext(apperrors.ContextPath, path)
	}
	defer file.Close()

	if err := EncodeJSON(file, a); err != nil {
		return apperrors.NewStorageError("failed to encode JSON report", err).
			WithContext(apperrors.ContextPath, path)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close JSON report", err).
			WithContext(apperrors.ContextPath, path)
	}
	return nil
}
