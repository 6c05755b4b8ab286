package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowcli/internal/config"
	"noshowcli/internal/infrastructure"
	"noshowcli/internal/shared/testutil"
	"noshowcli/pkg/contracts"
)

// inTempDir runs the test from an empty working directory so default
// paths and config lookups stay inside it
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		infrastructure.ResetLoggerForTesting()
	})
	return dir
}

func run(t *testing.T, args ...string) (ExitCode, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func sampleInput(t *testing.T, dir string) string {
	t.Helper()
	base := testutil.DefaultRow()
	return testutil.WriteCSV(t, dir,
		base,
		base.With(func(r *testutil.Row) {
			r.AppointmentID = "5642904"
			r.NoShow = "Yes"
		}),
		base.With(func(r *testutil.Row) {
			r.AppointmentID = "5642905"
			r.Age = "-1"
		}),
	)
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := run(t, "version")

	assert.Equal(t, exitCodeSuccess, code)
	assert.Contains(t, stdout, contracts.GetVersionString())
}

func TestVersionCommand_JSON(t *testing.T) {
	code, stdout, _ := run(t, "version", "--json")
	require.Equal(t, exitCodeSuccess, code)

	var info contracts.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, contracts.Version, info.Version)
	assert.Equal(t, contracts.ReportFormatVersion, info.ReportFormat)
}

func TestRootCommand_Help(t *testing.T) {
	code, stdout, _ := run(t)

	assert.Equal(t, exitCodeSuccess, code)
	assert.Contains(t, stdout, "analyze")
	assert.Contains(t, stdout, "clean")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := inTempDir(t)
	input := sampleInput(t, dir)
	out := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "noshow.prom")

	code, stdout, stderr := run(t, "analyze",
		"--input", input,
		"--out", out,
		"--format", "text,json,csv",
		"--metrics-file", metrics,
	)
	require.Equal(t, exitCodeSuccess, code, stderr)

	assert.Contains(t, stdout, config.DefaultReportTitle)
	assert.Contains(t, stdout, "0.5000")
	assert.FileExists(t, filepath.Join(out, config.AnalysisJSON))
	assert.FileExists(t, filepath.Join(out, config.GenderSummaryCSV))
	assert.FileExists(t, metrics)
	assert.Contains(t, stderr, "wrote json report")
}

func TestAnalyzeCommand_AgePolicyFlags(t *testing.T) {
	dir := inTempDir(t)
	input := sampleInput(t, dir)
	out := filepath.Join(dir, "out")

	code, _, stderr := run(t, "analyze",
		"--input", input, "--out", out, "--format", "json",
		"--min-age=-5", "--max-age", "100",
	)
	require.Equal(t, exitCodeError, code)
	assert.Contains(t, stderr, "invalid configuration")

	code, _, stderr = run(t, "analyze",
		"--input", input, "--out", out, "--format", "json",
		"--min-age", "0", "--max-age", "61",
	)
	require.Equal(t, exitCodeSuccess, code, stderr)

	content, err := os.ReadFile(filepath.Join(out, config.AnalysisJSON))
	require.NoError(t, err)
	var doc struct {
		Analysis struct {
			Cleaning struct {
				RemovedRows int `json:"removed_rows"`
				AgeMax      int `json:"age_max"`
			} `json:"cleaning"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Equal(t, 3, doc.Analysis.Cleaning.RemovedRows)
	assert.Equal(t, 61, doc.Analysis.Cleaning.AgeMax)
}

func TestAnalyzeCommand_MissingInput(t *testing.T) {
	dir := inTempDir(t)

	code, _, stderr := run(t, "analyze", "--input", filepath.Join(dir, "nope.csv"))

	assert.Equal(t, exitCodeError, code)
	assert.Contains(t, stderr, "NOT_FOUND")
}

func TestAnalyzeCommand_ParseError(t *testing.T) {
	dir := inTempDir(t)
	input := testutil.WriteCSV(t, dir, testutil.DefaultRow().With(func(r *testutil.Row) {
		r.Gender = "X"
	}))

	code, _, stderr := run(t, "analyze", "--input", input)

	assert.Equal(t, exitCodeError, code)
	assert.Contains(t, stderr, "PARSING")
	assert.Contains(t, stderr, "Gender")
}

func TestAnalyzeCommand_UnknownFormat(t *testing.T) {
	dir := inTempDir(t)
	input := sampleInput(t, dir)

	code, _, stderr := run(t, "analyze", "--input", input, "--format", "pdf")

	assert.Equal(t, exitCodeError, code)
	assert.Contains(t, stderr, "CONFIG")
}

func TestAnalyzeCommand_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	input := sampleInput(t, dir)
	out := filepath.Join(dir, "from-config")

	cfgFile := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"paths:\n  input_file: "+input+"\n  output_dir: "+out+"\nreport:\n  formats: [json]\n"), 0644))

	code, stdout, stderr := run(t, "analyze", "--config", cfgFile)
	require.Equal(t, exitCodeSuccess, code, stderr)

	assert.NotContains(t, stdout, config.DefaultReportTitle)
	assert.FileExists(t, filepath.Join(out, config.AnalysisJSON))
}

func TestCleanCommand(t *testing.T) {
	dir := inTempDir(t)
	input := sampleInput(t, dir)
	output := filepath.Join(dir, "clean", "appointments.csv")

	code, stdout, stderr := run(t, "clean", "--input", input, "--output", output)
	require.Equal(t, exitCodeSuccess, code, stderr)

	assert.Contains(t, stdout, "kept records: 2")
	assert.Contains(t, stdout, "removed rows: 1")
	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(dir, "clean", "appointments_removals.csv"))
}
