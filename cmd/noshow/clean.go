package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"noshowcli/internal/app"
	"noshowcli/internal/config"
)

type CleanCmd struct {
	global *globalOptions
	input  string
	output string
	minAge int
	maxAge int
}

func NewCleanCmd(global *globalOptions) *CleanCmd {
	return &CleanCmd{global: global}
}

func (c *CleanCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Write the cleaned dataset and the removals audit",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	cmd.Flags().StringVarP(&c.input, "input", "i", config.DefaultInputFile, "appointments CSV file")
	cmd.Flags().StringVarP(&c.output, "output", "o", config.CleanedDataCSV, "cleaned CSV file")
	cmd.Flags().IntVar(&c.minAge, "min-age", config.DefaultMinAge, "lowest valid age")
	cmd.Flags().IntVar(&c.maxAge, "max-age", config.DefaultMaxAge, "highest valid age")
	return cmd
}

func (c *CleanCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if fs.Changed("input") {
		cfg.Paths.InputFile = c.input
	}
	if fs.Changed("min-age") {
		cfg.Analysis.MinAge = c.minAge
	}
	if fs.Changed("max-age") {
		cfg.Analysis.MaxAge = c.maxAge
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	application, err := app.NewApplication(cfg, app.Options{Stdout: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, runErr := application.Clean(ctx, c.output)
	if err := application.Close(ctx); err != nil {
		application.Logger.WarnContext(ctx, "shutdown incomplete", slog.String("error", err.Error()))
	}
	if runErr != nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "input rows:   %d\n", result.Clean.InputRows)
	fmt.Fprintf(out, "kept records: %d\n", len(result.Clean.Records))
	fmt.Fprintf(out, "removed rows: %d\n", result.Clean.RemovedCount())
	fmt.Fprintf(out, "cleaned data: %s\n", result.CleanedPath)
	fmt.Fprintf(out, "removals:     %s\n", result.RemovalsPath)
	return nil
}
