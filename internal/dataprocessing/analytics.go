package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"noshowcli/pkg/contracts/domain"
)

// Histogram and statistics names, one per attendance partition
const (
	SeriesAll         = "all"
	SeriesAttended    = "attended"
	SeriesNotAttended = "not_attended"
)

// IndependentVariables are the attributes examined against attendance
var IndependentVariables = []string{
	domain.ColumnGender,
	domain.ColumnScheduledDay,
	domain.ColumnAppointmentDay,
	domain.ColumnAge,
	domain.ColumnNeighbourhood,
	domain.ColumnScholarship,
	domain.ColumnHypertension,
	domain.ColumnDiabetes,
	domain.ColumnAlcoholism,
	domain.ColumnHandicap,
	domain.ColumnSMSReceived,
	domain.ColumnWeekday,
}

// AnalyzerConfig holds the aggregation parameters
type AnalyzerConfig struct {
	MinAge      int
	MaxAge      int
	AgeBinWidth int
}

// DefaultAnalyzerConfig returns 5-year age buckets over [0, 100]
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{MinAge: 0, MaxAge: 100, AgeBinWidth: 5}
}

// Analyzer answers the research questions from a cleaned collection
type Analyzer struct {
	logger *slog.Logger
	config AnalyzerConfig
	now    func() time.Time
}

// NewAnalyzer creates an analyzer with the given configuration
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.AgeBinWidth < 1 {
		config.AgeBinWidth = DefaultAnalyzerConfig().AgeBinWidth
	}
	return &Analyzer{
		logger: logger.With(slog.String("component", "analyzer")),
		config: config,
		now:    time.Now,
	}
}

// Analyze builds the complete analysis of a cleaned dataset. raw may be nil
// when the records did not come from a parsed file. An empty collection
// yields zero counts and undefined ratios.
func (a *Analyzer) Analyze(ctx context.Context, raw *domain.RawDataset, cleaned *domain.CleanResult) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := cleaned.Records
	attended, notAttended := Partition(records)

	analysis := &domain.Analysis{
		GeneratedAt: a.now().UTC(),
		Cleaning: domain.CleaningAudit{
			InputRows:   cleaned.InputRows,
			OutputRows:  len(records),
			RemovedRows: cleaned.RemovedCount(),
			RemovedBy:   cleaned.RemovedBy(),
			Removals:    cleaned.Removals,
			AgeMin:      a.config.MinAge,
			AgeMax:      a.config.MaxAge,
		},
		Overall:        OverallSummary(records),
		AgeValueCounts: AgeValueCounts(records),
		Variables: domain.VariablesAnswer{
			Dependent:   domain.ColumnNoShow,
			Independent: append([]string(nil), IndependentVariables...),
		},
		Gender: domain.GenderAnswer{
			Groups: CountByGender(records).Summaries(),
		},
	}
	if raw != nil {
		analysis.Source = raw.Source
		analysis.Profile = raw.Profile
	}

	series := []struct {
		name    string
		records []domain.Appointment
	}{
		{SeriesAll, records},
		{SeriesAttended, attended},
		{SeriesNotAttended, notAttended},
	}
	for _, s := range series {
		analysis.Age.Stats = append(analysis.Age.Stats, DescribeAges(s.name, s.records))
		analysis.Age.Histograms = append(analysis.Age.Histograms,
			AgeHistogram(s.name, s.records, a.config.AgeBinWidth, a.config.MinAge, a.config.MaxAge))
	}

	weekdays := CountByWeekday(records).Summaries()
	analysis.Weekday = domain.WeekdayAnswer{
		Groups:        weekdays,
		HighestNoShow: HighestRatio(weekdays),
	}

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("records", len(records)),
		slog.Int("attended", len(attended)),
		slog.Int("not_attended", len(notAttended)),
		slog.String("no_show_ratio", analysis.Overall.NoShowRatio.String()),
		slog.String("highest_no_show_weekday", analysis.Weekday.HighestNoShow))

	return analysis, nil
}
