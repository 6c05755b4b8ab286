// Package exporter is the reporting layer. It turns a finished
// domain.Analysis into report artifacts and never sees raw records.
//
// Every format is built from the same Table values (see report.go):
//
//   - text: tablewriter tables written to stdout
//   - csv: one file per table (gender, weekday, age histogram, age stats, removals)
//   - json: analysis.json, with undefined ratios encoded as null
//   - xlsx: a workbook with one sheet per research question and column charts
//
// The CSVWriter also writes the cleaned dataset for the clean command.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger, exporter.Options{
//		Formats:   []string{"text", "json"},
//		OutputDir: "reports",
//	})
//	artifacts, err := exp.WriteAll(ctx, analysis)
package exporter
