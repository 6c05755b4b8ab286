// Package dataprocessing turns the raw appointments file into cleaned
// records and the aggregates that answer the no-show research questions.
//
// # Pipeline
//
// The stages run once, in order, each returning new values:
//
//  1. ParseFile / Parse: delimited text to domain.RawAppointment rows plus a
//     domain.DataProfile of duplicates and empty cells
//  2. Normalize: typed field parsers, appointment id dropped
//  3. DeriveWeekday and FilterAgeRange, wrapped by Cleaner.CleanRecords
//  4. CountByGender, CountByWeekday, AgeHistogram and DescribeAges,
//     combined by Analyzer.Analyze into a domain.Analysis
//
// # Usage
//
//	raw, err := dataprocessing.ParseFile("noshow.csv")
//	if err != nil {
//	    return err
//	}
//	cleaned, err := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig()).Clean(ctx, raw)
//	if err != nil {
//	    return err
//	}
//	analysis, err := dataprocessing.NewAnalyzer(logger, dataprocessing.DefaultAnalyzerConfig()).Analyze(ctx, raw, cleaned)
//
// Parsing failures are *errors.AppError values of type PARSING carrying the
// zero-based data row and the column name. The aggregation functions never
// fail; groups without records report undefined ratios.
package dataprocessing
