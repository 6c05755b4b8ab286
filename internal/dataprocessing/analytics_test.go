package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowcli/internal/shared/testutil"
	"noshowcli/pkg/contracts/domain"
)

func TestAnalyzer_Analyze(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	analyzer := NewAnalyzer(logger, DefaultAnalyzerConfig())
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	analyzer.now = func() time.Time { return fixed }

	records := append(genderFixture(),
		testutil.Appointment(domain.GenderMale, 70, true, "2016-04-30"),
	)
	cleaned := &domain.CleanResult{
		InputRows: 12,
		Records:   records,
		Removals:  []domain.Removal{{Row: 11, PatientID: "9", Age: 115, Reason: domain.RemovalAgeOutOfRange}},
	}
	raw := &domain.RawDataset{Source: "noshow.csv", Profile: domain.DataProfile{TotalRows: 12}}

	analysis, err := analyzer.Analyze(context.Background(), raw, cleaned)
	require.NoError(t, err)

	assert.Equal(t, fixed, analysis.GeneratedAt)
	assert.Equal(t, "noshow.csv", analysis.Source)
	assert.Equal(t, 12, analysis.Profile.TotalRows)

	assert.Equal(t, 12, analysis.Cleaning.InputRows)
	assert.Equal(t, 11, analysis.Cleaning.OutputRows)
	assert.Equal(t, 1, analysis.Cleaning.RemovedRows)
	assert.Equal(t, 1, analysis.Cleaning.RemovedBy[domain.RemovalAgeOutOfRange])
	assert.Equal(t, 0, analysis.Cleaning.AgeMin)
	assert.Equal(t, 100, analysis.Cleaning.AgeMax)

	assert.Equal(t, 11, analysis.Overall.Total)
	assert.Equal(t, 3, analysis.Overall.NotAttended)

	assert.Equal(t, domain.ColumnNoShow, analysis.Variables.Dependent)
	assert.Contains(t, analysis.Variables.Independent, domain.ColumnGender)
	assert.Contains(t, analysis.Variables.Independent, domain.ColumnWeekday)
	assert.NotContains(t, analysis.Variables.Independent, domain.ColumnAppointmentID)

	require.Len(t, analysis.Gender.Groups, 2)
	female := analysis.Gender.Groups[0]
	assert.Equal(t, "Female", female.Group)
	assert.InDelta(t, 0.2, female.NoShowRatio.Value, 1e-9)
	male := analysis.Gender.Groups[1]
	assert.Equal(t, 1, male.Total)
	assert.InDelta(t, 1.0, male.NoShowRatio.Value, 1e-9)

	require.Len(t, analysis.Age.Stats, 3)
	assert.Equal(t, []string{SeriesAll, SeriesAttended, SeriesNotAttended},
		[]string{analysis.Age.Stats[0].Name, analysis.Age.Stats[1].Name, analysis.Age.Stats[2].Name})
	assert.Equal(t, 11, analysis.Age.Stats[0].Count)
	assert.Equal(t, 8, analysis.Age.Stats[1].Count)
	assert.Equal(t, 3, analysis.Age.Stats[2].Count)

	require.Len(t, analysis.Age.Histograms, 3)
	assert.Equal(t, 11, analysis.Age.Histograms[0].Total)
	assert.Equal(t, 8, analysis.Age.Histograms[1].Total)
	assert.Equal(t, 3, analysis.Age.Histograms[2].Total)

	require.Len(t, analysis.Weekday.Groups, 7)
	// Friday and Saturday both have every appointment missed
	assert.Equal(t, "Friday", analysis.Weekday.HighestNoShow)

	assert.Equal(t, []domain.ValueCount{{Value: 30, Count: 2}, {Value: 40, Count: 8}, {Value: 70, Count: 1}}, analysis.AgeValueCounts)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "analysis complete")
	testutil.AssertLogAttr(t, logs, "highest_no_show_weekday", "Friday")
}

func TestAnalyzer_EmptyCollection(t *testing.T) {
	analysis, err := NewAnalyzer(nil, DefaultAnalyzerConfig()).Analyze(context.Background(), nil, &domain.CleanResult{})
	require.NoError(t, err)

	assert.Empty(t, analysis.Source)
	assert.Zero(t, analysis.Overall.Total)
	assert.False(t, analysis.Overall.NoShowRatio.Defined)
	for _, g := range append(analysis.Gender.Groups, analysis.Weekday.Groups...) {
		assert.Zero(t, g.Total)
		assert.False(t, g.NoShowRatio.Defined)
	}
	assert.Empty(t, analysis.Weekday.HighestNoShow)
	for _, s := range analysis.Age.Stats {
		assert.False(t, s.Defined)
	}
}

func TestAnalyzer_CustomBins(t *testing.T) {
	analyzer := NewAnalyzer(nil, AnalyzerConfig{MinAge: 0, MaxAge: 99, AgeBinWidth: 10})

	analysis, err := analyzer.Analyze(context.Background(), nil, &domain.CleanResult{Records: ages(5, 15, 99)})
	require.NoError(t, err)

	h := analysis.Age.Histograms[0]
	assert.Equal(t, 10, h.BinWidth)
	assert.Len(t, h.Buckets, 10)
	assert.Equal(t, 1, h.Buckets[9].Count)
}

func TestAnalyzer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(nil, DefaultAnalyzerConfig()).Analyze(ctx, nil, &domain.CleanResult{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_FromFile(t *testing.T) {
	rows := []testutil.Row{
		testutil.DefaultRow().With(func(r *testutil.Row) { r.Age = "-1" }),
		testutil.DefaultRow().With(func(r *testutil.Row) { r.PatientID = "123.0"; r.NoShow = "Yes" }),
		testutil.DefaultRow().With(func(r *testutil.Row) { r.PatientID = "123"; r.Gender = "M" }),
		testutil.DefaultRow().With(func(r *testutil.Row) { r.Age = "115" }),
	}
	path := testutil.WriteCSV(t, t.TempDir(), rows...)
	ctx := context.Background()

	raw, err := ParseFile(path)
	require.NoError(t, err)
	cleaned, err := NewCleaner(nil, DefaultCleanerConfig()).Clean(ctx, raw)
	require.NoError(t, err)
	analysis, err := NewAnalyzer(nil, DefaultAnalyzerConfig()).Analyze(ctx, raw, cleaned)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.Cleaning.RemovedRows)
	assert.Equal(t, 2, analysis.Cleaning.OutputRows)
	assert.Zero(t, analysis.Profile.DuplicateRows)
	assert.Equal(t, 2, analysis.Profile.DuplicatePatientIDs)
	assert.Equal(t, 3, analysis.Profile.DuplicateAppointmentIDs)
	assert.Equal(t, "123", cleaned.Records[0].PatientID)
	assert.Equal(t, cleaned.Records[0].PatientID, cleaned.Records[1].PatientID)
	assert.Equal(t, "Friday", analysis.Weekday.HighestNoShow)
}
