package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Pipeline stage names used as the "stage" attribute
const (
	StageLoad      = "load"
	StageClean     = "clean"
	StageAggregate = "aggregate"
	StageReport    = "report"
)

// PipelineMetrics holds the counters recorded during one analysis run.
// A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	rowsLoaded     metric.Int64Counter
	rowsKept       metric.Int64Counter
	rowsRemoved    metric.Int64Counter
	parseErrors    metric.Int64Counter
	reportsWritten metric.Int64Counter
	stageDuration  metric.Float64Histogram
	heapAlloc      metric.Int64Gauge
	gcCount        metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"noshow_rows_loaded",
		metric.WithDescription("Data rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsKept, err := meter.Int64Counter(
		"noshow_rows_kept",
		metric.WithDescription("Records that survived cleaning"),
	)
	if err != nil {
		return nil, err
	}

	rowsRemoved, err := meter.Int64Counter(
		"noshow_rows_removed",
		metric.WithDescription("Records removed during cleaning, by reason"),
	)
	if err != nil {
		return nil, err
	}

	parseErrors, err := meter.Int64Counter(
		"noshow_parse_errors",
		metric.WithDescription("Input files rejected with a parsing error"),
	)
	if err != nil {
		return nil, err
	}

	reportsWritten, err := meter.Int64Counter(
		"noshow_reports_written",
		metric.WithDescription("Report artifacts written, by format"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"noshow_stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"noshow_heap_alloc",
		metric.WithDescription("Heap bytes allocated at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"noshow_gc_cycles",
		metric.WithDescription("Completed GC cycles at the end of the run"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		rowsLoaded:     rowsLoaded,
		rowsKept:       rowsKept,
		rowsRemoved:    rowsRemoved,
		parseErrors:    parseErrors,
		reportsWritten: reportsWritten,
		stageDuration:  stageDuration,
		heapAlloc:      heapAlloc,
		gcCount:        gcCount,
	}, nil
}

// RecordLoaded adds n rows read from the input
func (m *PipelineMetrics) RecordLoaded(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.rowsLoaded.Add(ctx, int64(n))
}

// RecordKept adds n records that survived cleaning
func (m *PipelineMetrics) RecordKept(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.rowsKept.Add(ctx, int64(n))
}

// RecordRemoved adds n records removed for reason
func (m *PipelineMetrics) RecordRemoved(ctx context.Context, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsRemoved.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordParseError counts a rejected input file
func (m *PipelineMetrics) RecordParseError(ctx context.Context, column string) {
	if m == nil {
		return
	}
	m.parseErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("column", column)))
}

// RecordReport counts one written artifact
func (m *PipelineMetrics) RecordReport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.reportsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordStage records how long a pipeline stage took
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRuntime snapshots Go runtime memory statistics
func (m *PipelineMetrics) RecordRuntime(ctx context.Context) {
	if m == nil {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.heapAlloc.Record(ctx, int64(ms.HeapAlloc))
	m.gcCount.Record(ctx, int64(ms.NumGC))
}
