// Package app wires configuration, logging, telemetry and the pipeline
// stages into a single batch run.
//
// # Pipeline
//
// Analyze runs four stages, each inside its own span with its duration
// recorded in the noshow_stage_duration histogram:
//
//	1. load       validate the input path and parse the CSV file
//	2. clean      normalize rows, derive the weekday, drop out-of-range ages
//	3. aggregate  answer the research questions
//	4. report     write the requested report artifacts
//
// Clean runs the first two stages and writes the cleaned dataset instead
// of a report.
//
// # Usage
//
//	application, err := app.NewApplication(cfg, app.Options{})
//	if err != nil {
//	    return err
//	}
//	defer application.Close(ctx)
//	result, err := application.Analyze(ctx)
//
// # Error Handling
//
// Errors are returned as *errors.AppError where the failure is
// classified (NOT_FOUND, PARSING, STORAGE, CONFIG). The app does not call
// os.Exit; the command decides the exit code.
package app
