// Package main provides the entry point for the revlens CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revlens/revlens/cmd/revlens/commands"
	"github.com/revlens/revlens/pkg/version"
)

var quiet bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "revlens",
		Short: "Revlens - review changed files between two revisions",
		Long: `Revlens analyzes the files that changed between two git revisions,
including uncommitted work, and reports security, performance and
quality findings per file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewBranchesCommand())
	rootCmd.AddCommand(commands.NewCommitsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "revlens %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
