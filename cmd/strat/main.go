package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/cli"
	"github.com/example/strat/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "strat",
		Short:   "strat - staged search-strategy builder for literature reviews",
		Version: version.String(),
		Long: `strat walks a research idea through a staged pipeline of reviewable
artifacts - problem framing, research questions, concept blocks, database
queries, screening criteria - ending in an exportable protocol. Every draft
waits for explicit approval before downstream stages unlock.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ProjectCmd())
	rootCmd.AddCommand(cli.StageCmd())
	rootCmd.AddCommand(cli.ArtifactCmd())
	rootCmd.AddCommand(cli.QueryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
