package exporter

import (
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"noshowcli/internal/config"
	apperrors "noshowcli/internal/errors"
	"noshowcli/pkg/contracts/domain"
)

// Artifact is one report output produced by a run
type Artifact struct {
	Format string `json:"format"`
	Path   string `json:"path"`
}

// Options configures which reports an Exporter writes and where
type Options struct {
	Formats []string
	Paths   *config.Paths
	Title   string
	// Stdout receives the text report; os.Stdout when nil
	Stdout io.Writer
}

// Exporter writes the report artifacts of an analysis
type Exporter struct {
	logger  *slog.Logger
	csv     *CSVWriter
	options Options
}

// NewExporter creates an exporter for the given options
func NewExporter(logger *slog.Logger, options Options) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Paths == nil {
		options.Paths = &config.Paths{}
	}
	if options.Title == "" {
		options.Title = config.DefaultReportTitle
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		logger:  logger,
		csv:     NewCSVWriter(logger),
		options: options,
	}
}

func (e *Exporter) wants(format string) bool {
	for _, f := range e.options.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func (e *Exporter) path(name string) string {
	return e.options.Paths.GetReportPath(name)
}

// WriteAll writes every requested report. The text report goes to Stdout;
// the file reports are written concurrently into OutputDir. Artifacts are
// returned in format order.
func (e *Exporter) WriteAll(ctx context.Context, a *domain.Analysis) ([]Artifact, error) {
	for _, f := range e.options.Formats {
		if !isSupported(f) {
			return nil, apperrors.NewAppValidationError("unsupported report format: " + f)
		}
	}

	var artifacts []Artifact

	if e.wants(config.FormatText) {
		if err := WriteText(e.options.Stdout, e.options.Title, a); err != nil {
			return nil, apperrors.NewStorageError("failed to write text report", err)
		}
		artifacts = append(artifacts, Artifact{Format: config.FormatText, Path: "-"})
	}

	if e.wants(config.FormatCSV) || e.wants(config.FormatJSON) || e.wants(config.FormatXLSX) {
		if err := os.MkdirAll(e.options.Paths.OutputDir, 0755); err != nil {
			return nil, apperrors.NewStorageError("failed to create output directory", err).
				WithContext(apperrors.ContextPath, e.options.Paths.OutputDir)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	var csvFiles, jsonFiles, xlsxFiles []Artifact

	if e.wants(config.FormatCSV) {
		g.Go(func() error {
			files, err := e.writeCSVReports(ctx, a)
			csvFiles = files
			return err
		})
	}

	if e.wants(config.FormatJSON) {
		g.Go(func() error {
			path := e.path(config.AnalysisJSON)
			if err := WriteJSON(path, a); err != nil {
				return err
			}
			jsonFiles = []Artifact{{Format: config.FormatJSON, Path: path}}
			return nil
		})
	}

	if e.wants(config.FormatXLSX) {
		g.Go(func() error {
			path := e.path(config.ReportXLSX)
			if err := WriteXLSX(path, a); err != nil {
				return err
			}
			xlsxFiles = []Artifact{{Format: config.FormatXLSX, Path: path}}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.ErrorContext(ctx, "report export failed", slog.String("error", err.Error()))
		return nil, err
	}

	artifacts = append(artifacts, csvFiles...)
	artifacts = append(artifacts, jsonFiles...)
	artifacts = append(artifacts, xlsxFiles...)

	for _, art := range artifacts {
		e.logger.InfoContext(ctx, "report written",
			slog.String("format", art.Format),
			slog.String("path", art.Path))
	}
	return artifacts, nil
}

func (e *Exporter) writeCSVReports(ctx context.Context, a *domain.Analysis) ([]Artifact, error) {
	files := []struct {
		name  string
		table Table
	}{
		{config.GenderSummaryCSV, GenderTable(a.Gender)},
		{config.WeekdaySummaryCSV, WeekdayTable(a.Weekday)},
		{config.AgeHistogramCSV, AgeHistogramTable(a.Age.Histograms)},
		{config.AgeStatsCSV, AgeStatsTable(a.Age.Stats)},
		{config.RemovalsCSV, RemovalsTable(a.Cleaning.Removals)},
	}

	out := make([]Artifact, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := e.path(file.name)
		if err := e.csv.WriteTable(path, file.table); err != nil {
			return nil, err
		}
		out = append(out, Artifact{Format: config.FormatCSV, Path: path})
	}
	return out, nil
}

func isSupported(format string) bool {
	for _, f := range config.SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}
