package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"noshowcli/internal/app"
	"noshowcli/internal/config"
)

type analyzeOptions struct {
	input       string
	outputDir   string
	formats     []string
	minAge      int
	maxAge      int
	binWidth    int
	metricsFile string
	traceFile   string
}

type AnalyzeCmd struct {
	global *globalOptions
	opts   analyzeOptions
}

func NewAnalyzeCmd(global *globalOptions) *AnalyzeCmd {
	return &AnalyzeCmd{global: global}
}

func (c *AnalyzeCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Clean the appointments file and report no-show ratios",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.addFlags(cmd.Flags())
	return cmd
}

func (c *AnalyzeCmd) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.opts.input, "input", "i", config.DefaultInputFile, "appointments CSV file")
	fs.StringVarP(&c.opts.outputDir, "out", "o", "reports", "directory for report files")
	fs.StringSliceVarP(&c.opts.formats, "format", "f", []string{config.FormatText}, "report formats: text, csv, json, xlsx")
	fs.IntVar(&c.opts.minAge, "min-age", config.DefaultMinAge, "lowest valid age")
	fs.IntVar(&c.opts.maxAge, "max-age", config.DefaultMaxAge, "highest valid age")
	fs.IntVar(&c.opts.binWidth, "bin-width", config.DefaultAgeBinWidth, "age histogram bucket width")
	fs.StringVar(&c.opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	fs.StringVar(&c.opts.traceFile, "trace-file", "", "enable tracing and write spans to this file")
}

// apply overrides cfg with the flags set on the command line
func (c *AnalyzeCmd) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("input") {
		cfg.Paths.InputFile = c.opts.input
	}
	if fs.Changed("out") {
		cfg.Paths.OutputDir = c.opts.outputDir
	}
	if fs.Changed("format") {
		cfg.Report.Formats = c.opts.formats
	}
	if fs.Changed("min-age") {
		cfg.Analysis.MinAge = c.opts.minAge
	}
	if fs.Changed("max-age") {
		cfg.Analysis.MaxAge = c.opts.maxAge
	}
	if fs.Changed("bin-width") {
		cfg.Analysis.AgeBinWidth = c.opts.binWidth
	}
	if fs.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = c.opts.metricsFile
		cfg.Telemetry.EnableMetrics = true
	}
	if fs.Changed("trace-file") {
		cfg.Telemetry.TraceFile = c.opts.traceFile
		cfg.Telemetry.EnableTracing = true
	}
}

func (c *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cmd.Flags(), cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	application, err := app.NewApplication(cfg, app.Options{Stdout: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, runErr := application.Analyze(ctx)
	if err := application.Close(ctx); err != nil {
		application.Logger.WarnContext(ctx, "shutdown incomplete", slog.String("error", err.Error()))
	}
	if runErr != nil {
		return runErr
	}

	for _, art := range result.Artifacts {
		if art.Format == config.FormatText {
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s report: %s\n", art.Format, art.Path)
	}
	return nil
}
