package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/core/artifact"
	"github.com/example/strat/internal/core/pipeline"
	"github.com/example/strat/internal/ports/primary"
	"github.com/example/strat/internal/ports/secondary"
)

// PipelineServiceImpl implements the PipelineService interface. All writes
// to a project's artifacts happen under that project's lock, so a stage
// run observes its own writes and two concurrent runs serialize.
type PipelineServiceImpl struct {
	projectRepo  secondary.ProjectRepository
	artifactRepo secondary.ArtifactRepository
	registry     *pipeline.Registry
	handlers     map[string]StageHandler

	locks sync.Map // projectID -> *sync.Mutex
}

// NewPipelineService creates a new PipelineService with injected dependencies.
func NewPipelineService(
	projectRepo secondary.ProjectRepository,
	artifactRepo secondary.ArtifactRepository,
	registry *pipeline.Registry,
	handlers map[string]StageHandler,
) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		projectRepo:  projectRepo,
		artifactRepo: artifactRepo,
		registry:     registry,
		handlers:     handlers,
	}
}

func (s *PipelineServiceImpl) lock(projectID string) func() {
	mu, _ := s.locks.LoadOrStore(projectID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// CreateProject allocates a project and runs project-setup on the seed input.
func (s *PipelineServiceImpl) CreateProject(ctx context.Context, req primary.CreateProjectRequest) (*primary.CreateProjectResponse, error) {
	if strings.TrimSpace(req.SeedInput) == "" {
		return nil, apperr.Validation("seed input must not be empty")
	}

	projectID := "proj-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := s.projectRepo.Create(ctx, &secondary.ProjectRecord{ID: projectID}); err != nil {
		return nil, err
	}

	inputs := map[string]string{"seed": req.SeedInput}
	if req.Title != "" {
		inputs["title"] = req.Title
	}
	result, err := s.RunStage(ctx, primary.RunStageRequest{
		ProjectID: projectID,
		Stage:     StageProjectSetup,
		Inputs:    inputs,
	})
	if err != nil {
		return nil, err
	}

	return &primary.CreateProjectResponse{ProjectID: projectID, Result: result}, nil
}

// RunStage executes one stage for a project.
func (s *PipelineServiceImpl) RunStage(ctx context.Context, req primary.RunStageRequest) (*primary.StageResult, error) {
	// 1. Resolve the stage and the project
	def, ok := s.registry.Get(req.Stage)
	if !ok {
		return nil, apperr.NotFound("unknown stage %q", req.Stage)
	}
	handler, ok := s.handlers[req.Stage]
	if !ok {
		return nil, apperr.Configuration("stage %q has no handler", req.Stage)
	}
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	// 2. All reads and writes below happen under the project lock
	unlock := s.lock(req.ProjectID)
	defer unlock()

	records, err := s.artifactRepo.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*secondary.ArtifactRecord, len(records))
	approved := make(map[string]bool)
	for _, record := range records {
		byType[record.ArtifactType] = record
		if artifact.Status(record.Status) == artifact.StatusApproved {
			approved[record.ArtifactType] = true
		}
	}

	// 3. Preconditions: every required input must be approved
	if missing := def.MissingRequirements(approved); len(missing) > 0 {
		return nil, apperr.Precondition(req.Stage, missing)
	}

	// 4. Re-running over an approved output requires explicit acknowledgment
	for _, produced := range def.Produces {
		existing, ok := byType[produced]
		if !ok {
			continue
		}
		if guard := artifact.CanRedraft(artifact.Status(existing.Status), req.Revise); !guard.Allowed {
			return nil, apperr.Validation("%s: %s", produced, guard.Reason)
		}
	}

	// 5. Run the handler
	hc := HandlerContext{
		ProjectID: req.ProjectID,
		SeedInput: req.Inputs["seed"],
		Inputs:    req.Inputs,
		Required:  make(map[string][]byte, len(def.Requires)),
		Optional:  make(map[string][]byte),
	}
	for _, required := range def.Requires {
		hc.Required[required] = byType[required].Payload
	}
	for artifactType, record := range byType {
		if !approved[artifactType] || containsType(def.Requires, artifactType) {
			continue
		}
		hc.Optional[artifactType] = record.Payload
	}

	handlerResult, err := handler.Run(ctx, hc)
	if err != nil {
		return nil, err
	}

	// 6. Persist every produced payload as a draft, soft findings included
	result := &primary.StageResult{
		Stage:            req.Stage,
		Prompts:          handlerResult.Prompts,
		ValidationErrors: handlerResult.ValidationErrors,
		HandlerMetadata:  handlerResult.Metadata,
	}
	for _, produced := range def.Produces {
		payload, ok := handlerResult.Payloads[produced]
		if !ok {
			return nil, apperr.External(req.Stage,
				fmt.Errorf("handler produced no %s payload", produced))
		}

		baseVersion := 0
		if existing, ok := byType[produced]; ok {
			baseVersion = existing.Version
		}
		record := &secondary.ArtifactRecord{
			ProjectID:    req.ProjectID,
			ArtifactType: produced,
			Status:       string(artifact.InitialStatus()),
			Payload:      payload,
			Version:      artifact.NextVersion(baseVersion),
		}
		if err := s.artifactRepo.Put(ctx, record, baseVersion); err != nil {
			return nil, err
		}

		stored, _, err := s.artifactRepo.Get(ctx, req.ProjectID, produced)
		if err != nil {
			return nil, err
		}
		result.Drafts = append(result.Drafts, toPortArtifact(stored))
	}

	return result, nil
}

// ApproveArtifact merges edits into the draft and marks it approved.
func (s *PipelineServiceImpl) ApproveArtifact(ctx context.Context, req primary.ApproveArtifactRequest) (*primary.Artifact, error) {
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	unlock := s.lock(req.ProjectID)
	defer unlock()

	record, found, err := s.artifactRepo.Get(ctx, req.ProjectID, req.ArtifactType)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("artifact %s not found for project %s", req.ArtifactType, req.ProjectID)
	}

	// An approved slot means another approval landed after the caller
	// read the draft; the conflict is retryable after a reload.
	if artifact.Status(record.Status) == artifact.StatusApproved {
		return nil, apperr.Concurrency(req.ProjectID, req.ArtifactType, record.Version)
	}
	if guard := artifact.CanApprove(artifact.Status(record.Status)); !guard.Allowed {
		return nil, apperr.Validation("%s: %s", req.ArtifactType, guard.Reason)
	}

	payload := record.Payload
	if len(req.Edits) > 0 {
		payload, err = mergeEdits(record.Payload, req.Edits)
		if err != nil {
			return nil, err
		}
	}

	baseVersion := record.Version
	record.Status = string(artifact.StatusApproved)
	record.Payload = payload
	record.Version = artifact.NextVersion(baseVersion)
	if req.Notes != "" {
		record.UserNotes = req.Notes
	}
	if err := s.artifactRepo.Put(ctx, record, baseVersion); err != nil {
		return nil, err
	}

	stored, _, err := s.artifactRepo.Get(ctx, req.ProjectID, req.ArtifactType)
	if err != nil {
		return nil, err
	}
	return toPortArtifact(stored), nil
}

// RejectArtifact marks the current draft rejected.
func (s *PipelineServiceImpl) RejectArtifact(ctx context.Context, req primary.RejectArtifactRequest) (*primary.Artifact, error) {
	if err := s.ensureProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	unlock := s.lock(req.ProjectID)
	defer unlock()

	record, found, err := s.artifactRepo.Get(ctx, req.ProjectID, req.ArtifactType)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("artifact %s not found for project %s", req.ArtifactType, req.ProjectID)
	}

	if guard := artifact.CanReject(artifact.Status(record.Status)); !guard.Allowed {
		return nil, apperr.Validation("%s: %s", req.ArtifactType, guard.Reason)
	}

	baseVersion := record.Version
	record.Status = string(artifact.StatusRejected)
	record.Version = artifact.NextVersion(baseVersion)
	if req.Notes != "" {
		record.UserNotes = req.Notes
	}
	if err := s.artifactRepo.Put(ctx, record, baseVersion); err != nil {
		return nil, err
	}

	stored, _, err := s.artifactRepo.Get(ctx, req.ProjectID, req.ArtifactType)
	if err != nil {
		return nil, err
	}
	return toPortArtifact(stored), nil
}

// NextAvailableStages lists the stages whose prerequisites are approved and
// whose outputs are not yet fully approved.
func (s *PipelineServiceImpl) NextAvailableStages(ctx context.Context, projectID string) ([]string, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	approved, err := s.approvedTypes(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.registry.NextAvailable(approved), nil
}

// GetArtifact retrieves one artifact slot.
func (s *PipelineServiceImpl) GetArtifact(ctx context.Context, projectID, artifactType string) (*primary.Artifact, bool, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, false, err
	}
	record, found, err := s.artifactRepo.Get(ctx, projectID, artifactType)
	if err != nil || !found {
		return nil, false, err
	}
	return toPortArtifact(record), true, nil
}

// ListProjects lists all projects, newest first.
func (s *PipelineServiceImpl) ListProjects(ctx context.Context) ([]*primary.Project, error) {
	records, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]*primary.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, &primary.Project{ID: record.ID, CreatedAt: record.CreatedAt})
	}
	return projects, nil
}

// ProjectStatus summarizes stage progress for a project.
func (s *PipelineServiceImpl) ProjectStatus(ctx context.Context, projectID string) (*primary.ProjectStatus, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	approved, err := s.approvedTypes(ctx, projectID)
	if err != nil {
		return nil, err
	}

	status := &primary.ProjectStatus{
		ProjectID:  projectID,
		NextStages: s.registry.NextAvailable(approved),
	}
	defs := s.registry.All()
	status.TotalStages = len(defs)
	for _, def := range defs {
		complete := true
		for _, produced := range def.Produces {
			if !approved[produced] {
				complete = false
				break
			}
		}
		if complete {
			status.CompletedStages = append(status.CompletedStages, def.Name)
		}
	}
	if status.TotalStages > 0 {
		status.ProgressPct = 100 * float64(len(status.CompletedStages)) / float64(status.TotalStages)
	}
	status.IsComplete = len(status.CompletedStages) == status.TotalStages
	return status, nil
}

func (s *PipelineServiceImpl) ensureProject(ctx context.Context, projectID string) error {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("project %s not found", projectID)
	}
	return nil
}

func (s *PipelineServiceImpl) approvedTypes(ctx context.Context, projectID string) (map[string]bool, error) {
	records, err := s.artifactRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	approved := make(map[string]bool)
	for _, record := range records {
		if artifact.Status(record.Status) == artifact.StatusApproved {
			approved[record.ArtifactType] = true
		}
	}
	return approved, nil
}

// mergeEdits applies a sparse field-overwrite map on top of the stored
// payload. Unknown fields are rejected rather than silently added.
func mergeEdits(payload []byte, edits map[string]json.RawMessage) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperr.Validation("stored payload is not a JSON object: %v", err)
	}
	for field, value := range edits {
		if _, ok := doc[field]; !ok {
			return nil, apperr.Validation("unknown payload field %q", field)
		}
		doc[field] = value
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to merge edits: %w", err)
	}
	return merged, nil
}

func toPortArtifact(record *secondary.ArtifactRecord) *primary.Artifact {
	return &primary.Artifact{
		ProjectID:    record.ProjectID,
		ArtifactType: record.ArtifactType,
		Status:       record.Status,
		Payload:      json.RawMessage(record.Payload),
		Version:      record.Version,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
		UserNotes:    record.UserNotes,
	}
}

func containsType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// Ensure PipelineServiceImpl implements the interface
var _ primary.PipelineService = (*PipelineServiceImpl)(nil)
