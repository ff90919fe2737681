package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/strat/internal/ports/primary"
	"github.com/example/strat/internal/wire"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Review artifacts",
	Long:  "Show, approve, and reject the drafts a stage produced",
}

var artifactShowCmd = &cobra.Command{
	Use:   "show [artifact-type]",
	Short: "Show an artifact and its payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")

		art, found, err := wire.PipelineService().GetArtifact(cliContext(), projectID, args[0])
		if err != nil {
			return renderError(err)
		}
		if !found {
			return fmt.Errorf("artifact %s not found for project %s", args[0], projectID)
		}

		fmt.Printf("\nArtifact: %s\n", art.ArtifactType)
		fmt.Printf("Status:   %s\n", art.Status)
		fmt.Printf("Version:  %d\n", art.Version)
		fmt.Printf("Updated:  %s\n", art.UpdatedAt)
		if art.UserNotes != "" {
			fmt.Printf("Notes:    %s\n", art.UserNotes)
		}

		var pretty json.RawMessage = art.Payload
		indented, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render payload: %w", err)
		}
		fmt.Printf("\n%s\n", indented)
		return nil
	},
}

var artifactApproveCmd = &cobra.Command{
	Use:   "approve [artifact-type]",
	Short: "Approve a draft, optionally editing fields first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		notes, _ := cmd.Flags().GetString("notes")
		rawEdits, _ := cmd.Flags().GetStringArray("edit")

		edits, err := parseEdits(rawEdits)
		if err != nil {
			return err
		}

		art, err := wire.PipelineService().ApproveArtifact(cliContext(), primary.ApproveArtifactRequest{
			ProjectID:    projectID,
			ArtifactType: args[0],
			Edits:        edits,
			Notes:        notes,
		})
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("%s Approved %s (v%d)\n", okMark, art.ArtifactType, art.Version)
		return nil
	},
}

var artifactRejectCmd = &cobra.Command{
	Use:   "reject [artifact-type]",
	Short: "Reject a draft so the stage can be re-run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		notes, _ := cmd.Flags().GetString("notes")

		art, err := wire.PipelineService().RejectArtifact(cliContext(), primary.RejectArtifactRequest{
			ProjectID:    projectID,
			ArtifactType: args[0],
			Notes:        notes,
		})
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("%s Rejected %s (v%d); re-run its stage to regenerate\n", failMark, art.ArtifactType, art.Version)
		return nil
	},
}

// ArtifactCmd returns the artifact command
func ArtifactCmd() *cobra.Command {
	for _, c := range []*cobra.Command{artifactShowCmd, artifactApproveCmd, artifactRejectCmd} {
		c.Flags().StringP("project", "p", "", "Project ID")
		c.MarkFlagRequired("project")
	}
	artifactApproveCmd.Flags().StringArrayP("edit", "e", nil, "Field edit as field=value (repeatable)")
	artifactApproveCmd.Flags().StringP("notes", "n", "", "Reviewer notes")
	artifactRejectCmd.Flags().StringP("notes", "n", "", "Rejection rationale")

	artifactCmd.AddCommand(artifactShowCmd)
	artifactCmd.AddCommand(artifactApproveCmd)
	artifactCmd.AddCommand(artifactRejectCmd)

	return artifactCmd
}
