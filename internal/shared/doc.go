// Package shared holds helpers used by more than one package of the
// noshow tool.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records for
//     assertions on log output
//   - appointment fixtures: raw CSV rows with a valid default, writers
//     for temporary input files, and cleaned domain.Appointment builders
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteCSV(t, t.TempDir(), testutil.DefaultRow())
//	    // ...
//	    testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing in this package is imported by production code.
package shared
