package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"noshowcli/pkg/contracts"
)

type VersionCmd struct {
	asJSON bool
}

func NewVersionCmd() *VersionCmd {
	return &VersionCmd{}
}

func (c *VersionCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(contracts.GetVersionInfo())
			}
			line := contracts.GetFullVersionString()
			if contracts.IsPrerelease() {
				line += " [pre-release]"
			}
			_, err := fmt.Fprintln(out, line)
			return err
		},
	}
	cmd.Flags().BoolVar(&c.asJSON, "json", false, "print version information as JSON")
	return cmd
}
