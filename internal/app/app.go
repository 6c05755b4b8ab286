package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"noshowcli/internal/config"
	"noshowcli/internal/dataprocessing"
	apperrors "noshowcli/internal/errors"
	"noshowcli/internal/exporter"
	"noshowcli/internal/infrastructure"
	"noshowcli/internal/validation"
	"noshowcli/pkg/contracts"
	"noshowcli/pkg/contracts/domain"
)

// Options overrides process-level dependencies, mainly for tests
type Options struct {
	// Logger replaces the global logger built from the configuration
	Logger *slog.Logger
	// Stdout receives the text report; os.Stdout when nil
	Stdout io.Writer
}

// Application wires the pipeline stages for one run
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	validator *validation.FileValidator
	cleaner   *dataprocessing.Cleaner
	analyzer  *dataprocessing.Analyzer
	stdout    io.Writer
	ownLogger bool
}

// AnalyzeResult is the outcome of a full analysis run
type AnalyzeResult struct {
	Analysis  *domain.Analysis
	Artifacts []exporter.Artifact
}

// CleanResult is the outcome of the clean command
type CleanResult struct {
	Clean        *domain.CleanResult
	CleanedPath  string
	RemovalsPath string
}

// NewApplication creates an application from a validated configuration
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	app := &Application{
		Config: cfg,
		Logger: opts.Logger,
		stdout: opts.Stdout,
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}

	if app.Logger == nil {
		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to initialize logger", err)
		}
		app.Logger = logger
		app.ownLogger = true
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	app.Paths = paths
	paths.LogPathResolution(app.Logger)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to create directories", err)
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, app.Logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize OpenTelemetry", err)
	}
	app.OTelProviders = providers

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		providers.Shutdown(context.Background())
		return nil, apperrors.NewConfigError("failed to create pipeline metrics", err)
	}
	app.Metrics = metrics

	app.validator = validation.NewFileValidator(app.Logger)
	app.cleaner = dataprocessing.NewCleaner(app.Logger, dataprocessing.CleanerConfig{
		MinAge: cfg.Analysis.MinAge,
		MaxAge: cfg.Analysis.MaxAge,
	})
	app.analyzer = dataprocessing.NewAnalyzer(app.Logger, dataprocessing.AnalyzerConfig{
		MinAge:      cfg.Analysis.MinAge,
		MaxAge:      cfg.Analysis.MaxAge,
		AgeBinWidth: cfg.Analysis.AgeBinWidth,
	})

	return app, nil
}

// stage runs fn inside a span named after the stage and records its
// duration. It refuses to start when ctx is already done.
func (a *Application) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := a.OTelProviders.Tracer.Start(ctx, "noshow."+name,
		trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	a.Metrics.RecordStage(ctx, name, elapsed)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	a.Logger.DebugContext(ctx, "stage complete",
		slog.String("stage", name),
		slog.Duration("duration", elapsed))
	return nil
}

// load validates and parses the input file
func (a *Application) load(ctx context.Context) (*domain.RawDataset, error) {
	var raw *domain.RawDataset
	err := a.stage(ctx, infrastructure.StageLoad, func(ctx context.Context) error {
		if err := a.validator.ValidateInputFile(a.Paths.InputFile); err != nil {
			return err
		}

		var err error
		raw, err = dataprocessing.ParseFile(a.Paths.InputFile)
		if err != nil {
			a.recordParseError(ctx, err)
			return err
		}

		a.Metrics.RecordLoaded(ctx, len(raw.Rows))
		a.Logger.InfoContext(ctx, "input loaded",
			slog.String("source", raw.Source),
			slog.Int("rows", len(raw.Rows)),
			slog.Int("duplicate_patient_ids", raw.Profile.DuplicatePatientIDs))
		return nil
	})
	return raw, err
}

// clean normalizes and filters the parsed rows
func (a *Application) clean(ctx context.Context, raw *domain.RawDataset) (*domain.CleanResult, error) {
	var cleaned *domain.CleanResult
	err := a.stage(ctx, infrastructure.StageClean, func(ctx context.Context) error {
		var err error
		cleaned, err = a.cleaner.Clean(ctx, raw)
		if err != nil {
			a.recordParseError(ctx, err)
			return err
		}

		a.Metrics.RecordKept(ctx, len(cleaned.Records))
		for reason, n := range cleaned.RemovedBy() {
			a.Metrics.RecordRemoved(ctx, string(reason), n)
		}
		return nil
	})
	return cleaned, err
}

func (a *Application) recordParseError(ctx context.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrTypeParsing {
		return
	}
	column, _ := appErr.Column()
	a.Metrics.RecordParseError(ctx, column)
}

// Analyze runs load, clean, aggregate and report and returns the analysis
// with the written artifacts.
func (a *Application) Analyze(ctx context.Context) (*AnalyzeResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	ctx, span := a.OTelProviders.Tracer.Start(ctx, "noshow.analyze",
		trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	a.Logger.InfoContext(ctx, "analysis started",
		slog.String("input", a.Paths.InputFile),
		slog.String("version", contracts.Version))

	result, err := a.analyze(ctx, runID)
	a.Metrics.RecordRuntime(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	a.Logger.InfoContext(ctx, "analysis finished",
		slog.Int("records", result.Analysis.Overall.Total),
		slog.String("no_show_ratio", result.Analysis.Overall.NoShowRatio.String()),
		slog.Int("artifacts", len(result.Artifacts)))
	return result, nil
}

func (a *Application) analyze(ctx context.Context, runID string) (*AnalyzeResult, error) {
	raw, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	cleaned, err := a.clean(ctx, raw)
	if err != nil {
		return nil, err
	}

	var analysis *domain.Analysis
	err = a.stage(ctx, infrastructure.StageAggregate, func(ctx context.Context) error {
		var err error
		analysis, err = a.analyzer.Analyze(ctx, raw, cleaned)
		return err
	})
	if err != nil {
		return nil, err
	}
	analysis.RunID = runID

	var artifacts []exporter.Artifact
	err = a.stage(ctx, infrastructure.StageReport, func(ctx context.Context) error {
		if a.writesFiles() {
			if err := a.validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
				return err
			}
		}
		exp := exporter.NewExporter(a.Logger, exporter.Options{
			Formats: a.Config.Report.Formats,
			Paths:   a.Paths,
			Title:   a.Config.Report.Title,
			Stdout:  a.stdout,
		})
		var err error
		artifacts, err = exp.WriteAll(ctx, analysis)
		if err != nil {
			return err
		}
		for _, art := range artifacts {
			a.Metrics.RecordReport(ctx, art.Format)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AnalyzeResult{Analysis: analysis, Artifacts: artifacts}, nil
}

// writesFiles reports whether any requested format goes to the output
// directory
func (a *Application) writesFiles() bool {
	for _, f := range a.Config.Report.Formats {
		if f != config.FormatText {
			return true
		}
	}
	return false
}

// Clean loads and cleans the input and writes the cleaned dataset to
// output, with the removals audit next to it.
func (a *Application) Clean(ctx context.Context, output string) (*CleanResult, error) {
	if output == "" {
		output = a.Paths.GetReportPath(config.CleanedDataCSV)
	}

	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := a.OTelProviders.Tracer.Start(ctx, "noshow.clean",
		trace.WithAttributes(attribute.String("run_id", infrastructure.GetRunID(ctx))))
	defer span.End()

	raw, err := a.load(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	cleaned, err := a.clean(ctx, raw)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result := &CleanResult{
		Clean:        cleaned,
		CleanedPath:  output,
		RemovalsPath: exporter.RemovalsPathFor(output),
	}

	err = a.stage(ctx, infrastructure.StageReport, func(ctx context.Context) error {
		writer := exporter.NewCSVWriter(a.Logger)
		if err := writer.WriteCleanedCSV(result.CleanedPath, cleaned.Records); err != nil {
			return err
		}
		a.Metrics.RecordReport(ctx, config.FormatCSV)
		if err := writer.WriteRemovalsCSV(result.RemovalsPath, cleaned.Removals); err != nil {
			return err
		}
		a.Metrics.RecordReport(ctx, config.FormatCSV)
		return nil
	})
	a.Metrics.RecordRuntime(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	a.Logger.InfoContext(ctx, "cleaned dataset written",
		slog.String("path", result.CleanedPath),
		slog.String("removals", result.RemovalsPath),
		slog.Int("records", len(cleaned.Records)),
		slog.Int("removed", cleaned.RemovedCount()))
	return result, nil
}

// Close writes the metrics file, flushes telemetry and closes the log
// file. It is safe to call once per application.
func (a *Application) Close(ctx context.Context) error {
	var errs []error

	if a.OTelProviders != nil {
		if err := a.OTelProviders.WriteMetricsFile(a.Config.Telemetry.MetricsFile); err != nil {
			errs = append(errs, err)
		}
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.ownLogger {
		if err := infrastructure.CloseLogFile(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}

	return errors.Join(errs...)
}
