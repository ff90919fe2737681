package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/core/synth"
	"github.com/example/strat/internal/models"
	"github.com/example/strat/internal/wire"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Work with search queries",
	Long:  "Render queries from approved concept blocks and vet query syntax",
}

var queryDialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported database dialects",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := wire.Synthesizer().Registry()
		fmt.Printf("\n%-18s %s\n", "DIALECT", "RECOMMENDED MAX LENGTH")
		fmt.Println("──────────────────────────────────────────")
		for _, id := range registry.IDs() {
			d, _ := registry.Get(id)
			fmt.Printf("%-18s %d\n", id, d.RecommendedMaxLength())
		}
		fmt.Println()
		return nil
	},
}

var queryBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render queries from the approved concept blocks without persisting",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		databases, _ := cmd.Flags().GetStringSlice("databases")

		art, found, err := wire.PipelineService().GetArtifact(cliContext(), projectID, models.TypeSearchConceptBlocks)
		if err != nil {
			return renderError(err)
		}
		if !found {
			return fmt.Errorf("project %s has no %s yet; run search-concept-expansion first",
				projectID, models.TypeSearchConceptBlocks)
		}

		var blocks models.SearchConceptBlocks
		if err := json.Unmarshal(art.Payload, &blocks); err != nil {
			return fmt.Errorf("failed to parse concept blocks: %w", err)
		}
		queryPlan := blocks.ToQueryPlan()

		if len(databases) == 0 {
			databases = wire.Cfg().DefaultDatabases
		}
		for _, database := range databases {
			result, err := wire.Synthesizer().Synthesize(queryPlan, database)
			if err != nil {
				fmt.Printf("%s %s: %v\n", failMark, database, err)
				continue
			}
			fmt.Printf("\n── %s (%s, %d terms) ──\n",
				strings.ToUpper(database), result.Report.Category, result.Report.TermCount)
			fmt.Println(result.Query)
			for _, issue := range result.Issues {
				fmt.Printf("%s %s\n", warnMark, issue)
			}
			for _, warning := range result.Report.Warnings {
				fmt.Printf("%s %s\n", warnMark, warning)
			}
		}
		return nil
	},
}

var queryGateCmd = &cobra.Command{
	Use:   "gate [query]",
	Short: "Vet a query string against a dialect's syntax rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, _ := cmd.Flags().GetString("dialect")

		d, ok := wire.Synthesizer().Registry().Get(database)
		if !ok {
			return fmt.Errorf("unknown dialect %q", database)
		}

		issues := synth.Gate(args[0], d)
		if len(issues) == 0 {
			fmt.Printf("%s Query passes the %s syntax gate\n", okMark, database)
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("%s %s\n", failMark, issue)
		}
		return fmt.Errorf("%d syntax finding(s)", len(issues))
	},
}

// QueryCmd returns the query command
func QueryCmd() *cobra.Command {
	queryBuildCmd.Flags().StringP("project", "p", "", "Project ID")
	queryBuildCmd.Flags().StringSliceP("databases", "d", nil, "Databases to render (default: configured set)")
	queryBuildCmd.MarkFlagRequired("project")

	queryGateCmd.Flags().StringP("dialect", "d", "", "Target dialect")
	queryGateCmd.MarkFlagRequired("dialect")

	queryCmd.AddCommand(queryDialectsCmd)
	queryCmd.AddCommand(queryBuildCmd)
	queryCmd.AddCommand(queryGateCmd)

	return queryCmd
}
