package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ivansreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ivansreport",
		Short: "Convert carrier export files into PDF reports",
		Long: `ivansreport converts flat carrier export files (IVANS downloads, .dat or .txt)
into paginated, printable PDF reports.

The encoding (UTF-8 or Windows-1252), the field delimiter ("???", "|", tab or
runs of spaces) and the presence of a header row are detected automatically.
Every conversion is recorded in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
