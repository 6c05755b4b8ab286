package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"noshowcli/internal/dataprocessing"
	"noshowcli/internal/shared/testutil"
	"noshowcli/pkg/contracts/domain"
)

// sampleAnalysis analyzes a small dataset: 10 women on Friday 2016-04-29
// (2 no-shows), 4 men on Monday 2016-05-02 (1 no-show) and two
// out-of-range ages.
func sampleAnalysis(t *testing.T) *domain.Analysis {
	t.Helper()

	var records []domain.Appointment
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderFemale, 30, false, "2016-04-29"), 8, 0)...)
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderFemale, 42, true, "2016-04-29"), 2, 8)...)
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderMale, 7, false, "2016-05-02"), 3, 10)...)
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderMale, 61, true, "2016-05-02"), 1, 13)...)
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderMale, -1, false, "2016-05-02"), 1, 14)...)
	records = append(records, testutil.Repeat(testutil.Appointment(domain.GenderFemale, 115, true, "2016-05-02"), 1, 15)...)

	logger, _ := testutil.NewTestLogger(t)
	ctx := context.Background()

	cleaned, err := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig()).CleanRecords(ctx, records)
	require.NoError(t, err)

	raw := &domain.RawDataset{
		Source: "noshow.csv",
		Profile: domain.DataProfile{
			TotalRows:  len(records),
			EmptyCells: map[string]int{domain.ColumnNeighbourhood: 16},
		},
	}
	analysis, err := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig()).Analyze(ctx, raw, cleaned)
	require.NoError(t, err)

	analysis.RunID = "run-1"
	analysis.GeneratedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return analysis
}

// emptyAnalysis analyzes a dataset with no records
func emptyAnalysis(t *testing.T) *domain.Analysis {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	analysis, err := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig()).
		Analyze(context.Background(), nil, &domain.CleanResult{})
	require.NoError(t, err)
	return analysis
}
