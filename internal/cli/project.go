package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/ports/primary"
	"github.com/example/strat/internal/wire"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage research projects",
	Long:  "Create, list, and inspect research-strategy projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [research idea]",
	Short: "Create a project from a raw research idea",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := strings.Join(args, " ")
		title, _ := cmd.Flags().GetString("title")

		resp, err := wire.PipelineService().CreateProject(cliContext(), primary.CreateProjectRequest{
			SeedInput: seed,
			Title:     title,
		})
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("%s Created project %s\n", okMark, resp.ProjectID)
		renderStageResult(resp.Result)
		fmt.Printf("\nNext: strat artifact show -p %s ProjectContext\n", resp.ProjectID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := wire.PipelineService().ListProjects(cliContext())
		if err != nil {
			return renderError(err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found")
			return nil
		}

		fmt.Printf("\n%-20s %s\n", "ID", "CREATED")
		fmt.Println("────────────────────────────────────────────")
		for _, p := range projects {
			fmt.Printf("%-20s %s\n", p.ID, p.CreatedAt)
		}
		fmt.Println()
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:   "status [project-id]",
	Short: "Show stage progress for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := wire.PipelineService().ProjectStatus(cliContext(), args[0])
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("\nProject: %s\n", status.ProjectID)
		fmt.Printf("Progress: %.0f%% (%d/%d stages)\n",
			status.ProgressPct, len(status.CompletedStages), status.TotalStages)
		for _, stage := range status.CompletedStages {
			fmt.Printf("  %s %s\n", okMark, stage)
		}
		if status.IsComplete {
			fmt.Printf("\n%s Pipeline complete\n", okMark)
			return nil
		}
		if len(status.NextStages) == 0 {
			fmt.Printf("\n%s No stage is runnable; approve or regenerate pending drafts\n", warnMark)
			return nil
		}
		fmt.Println("\nAvailable next:")
		for _, stage := range status.NextStages {
			fmt.Printf("  strat stage run %s -p %s\n", stage, status.ProjectID)
		}
		return nil
	},
}

// ProjectCmd returns the project command
func ProjectCmd() *cobra.Command {
	projectCreateCmd.Flags().StringP("title", "t", "", "Override the derived project title")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectStatusCmd)

	return projectCmd
}
