package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/ports/primary"
	"github.com/example/strat/internal/wire"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Run pipeline stages",
	Long:  "Run stages against a project and inspect what is runnable next",
}

var stageRunCmd = &cobra.Command{
	Use:   "run [stage]",
	Short: "Run a stage, producing reviewable drafts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		revise, _ := cmd.Flags().GetBool("revise")
		rawInputs, _ := cmd.Flags().GetStringArray("input")

		inputs, err := parseKeyValues(rawInputs)
		if err != nil {
			return err
		}

		result, err := wire.PipelineService().RunStage(cliContext(), primary.RunStageRequest{
			ProjectID: projectID,
			Stage:     args[0],
			Inputs:    inputs,
			Revise:    revise,
		})
		if err != nil {
			return renderError(err)
		}

		renderStageResult(result)
		return nil
	},
}

var stageNextCmd = &cobra.Command{
	Use:   "next",
	Short: "List stages that can run now",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")

		next, err := wire.PipelineService().NextAvailableStages(cliContext(), projectID)
		if err != nil {
			return renderError(err)
		}

		if len(next) == 0 {
			fmt.Println("No stage is runnable; approve or regenerate pending drafts")
			return nil
		}
		for _, stage := range next {
			fmt.Println(stage)
		}
		return nil
	},
}

var stageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stages and their dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("\n%-26s %-42s %s\n", "STAGE", "REQUIRES", "PRODUCES")
		fmt.Println(strings.Repeat("─", 100))
		for _, def := range wire.StageRegistry().All() {
			requires := strings.Join(def.Requires, ", ")
			if requires == "" {
				requires = "-"
			}
			fmt.Printf("%-26s %-42s %s\n", def.Name, requires, strings.Join(def.Produces, ", "))
		}
		fmt.Println()
		return nil
	},
}

// StageCmd returns the stage command
func StageCmd() *cobra.Command {
	stageRunCmd.Flags().StringP("project", "p", "", "Project ID")
	stageRunCmd.Flags().StringArrayP("input", "i", nil, "Stage input as key=value (repeatable)")
	stageRunCmd.Flags().Bool("revise", false, "Acknowledge replacing approved outputs with a fresh draft")
	stageRunCmd.MarkFlagRequired("project")

	stageNextCmd.Flags().StringP("project", "p", "", "Project ID")
	stageNextCmd.MarkFlagRequired("project")

	stageCmd.AddCommand(stageRunCmd)
	stageCmd.AddCommand(stageNextCmd)
	stageCmd.AddCommand(stageListCmd)

	return stageCmd
}
