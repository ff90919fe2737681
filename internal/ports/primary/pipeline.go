// Package primary defines the primary ports (driving interfaces) of the
// application: what a presentation layer may call. Presentation code must
// not write artifacts behind the orchestrator's back.
package primary

import (
	"context"
	"encoding/json"
)

// PipelineService defines the primary port for the staged review workflow.
type PipelineService interface {
	// CreateProject allocates a project and immediately runs the
	// project-setup stage on the seed input, returning its draft.
	CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResponse, error)

	// RunStage executes a registered stage for a project. Prerequisite
	// artifact types must be approved. Soft validation findings come
	// back on the StageResult next to a persisted, inspectable draft;
	// only infrastructure failures abort the call.
	RunStage(ctx context.Context, req RunStageRequest) (*StageResult, error)

	// ApproveArtifact merges edits into the current draft, marks it
	// approved, and persists it under an incremented version.
	ApproveArtifact(ctx context.Context, req ApproveArtifactRequest) (*Artifact, error)

	// RejectArtifact marks the current draft rejected.
	RejectArtifact(ctx context.Context, req RejectArtifactRequest) (*Artifact, error)

	// NextAvailableStages lists every stage whose prerequisites are
	// approved and whose outputs are not yet fully approved.
	NextAvailableStages(ctx context.Context, projectID string) ([]string, error)

	// GetArtifact retrieves one artifact slot.
	GetArtifact(ctx context.Context, projectID, artifactType string) (*Artifact, bool, error)

	// ListProjects lists all projects, newest first.
	ListProjects(ctx context.Context) ([]*Project, error)

	// ProjectStatus summarizes stage progress for a project.
	ProjectStatus(ctx context.Context, projectID string) (*ProjectStatus, error)
}

// Artifact represents an artifact at the port boundary.
type Artifact struct {
	ProjectID    string
	ArtifactType string
	Status       string
	Payload      json.RawMessage
	Version      int
	CreatedAt    string
	UpdatedAt    string
	UserNotes    string
}

// Project represents a project at the port boundary.
type Project struct {
	ID        string
	CreatedAt string
}

// CreateProjectRequest contains parameters for creating a project.
type CreateProjectRequest struct {
	SeedInput string // raw research idea
	Title     string // optional title override
}

// CreateProjectResponse contains the result of creating a project.
type CreateProjectResponse struct {
	ProjectID string
	Result    *StageResult
}

// RunStageRequest contains parameters for running a stage.
type RunStageRequest struct {
	ProjectID string
	Stage     string
	Inputs    map[string]string
	// Revise acknowledges that approved outputs of this stage are to be
	// superseded by a fresh draft.
	Revise bool
}

// StageResult is what a stage run hands back for human review.
type StageResult struct {
	Stage            string
	Drafts           []*Artifact
	Prompts          []string
	ValidationErrors []string
	HandlerMetadata  map[string]string
}

// ApproveArtifactRequest contains parameters for approving a draft.
// Edits is a sparse field-overwrite map merged into the payload.
type ApproveArtifactRequest struct {
	ProjectID    string
	ArtifactType string
	Edits        map[string]json.RawMessage
	Notes        string
}

// RejectArtifactRequest contains parameters for rejecting a draft.
type RejectArtifactRequest struct {
	ProjectID    string
	ArtifactType string
	Notes        string
}

// ProjectStatus summarizes a project's progress through the stage graph.
type ProjectStatus struct {
	ProjectID       string
	CompletedStages []string
	NextStages      []string
	TotalStages     int
	ProgressPct     float64
	IsComplete      bool
}
