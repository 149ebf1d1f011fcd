package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of csv-extractor",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.ran = true
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", toolName, version)
		},
	}
}
