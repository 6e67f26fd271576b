package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/countdown/pkg/countdown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The logger and config are not needed here.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := countdown.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "countdown %s (go %s)\n", info.Version, info.GoVersion)
			return nil
		},
	}
}
