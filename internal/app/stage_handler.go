package app

import "context"

// HandlerContext carries everything a stage handler may read: the approved
// inputs the stage declared, any other approved artifacts of the project,
// and the caller-supplied inputs.
type HandlerContext struct {
	ProjectID string
	SeedInput string
	Inputs    map[string]string
	// Required holds the approved payloads of the stage's declared
	// inputs, keyed by artifact type.
	Required map[string][]byte
	// Optional holds every other approved payload of the project.
	// Handlers enrich their output with these when present.
	Optional map[string][]byte
}

// HandlerResult is what a stage handler hands back to the orchestrator.
// ValidationErrors are soft findings: the payloads are persisted as drafts
// regardless so the human can inspect and fix them.
type HandlerResult struct {
	Payloads         map[string][]byte
	Prompts          []string
	ValidationErrors []string
	Metadata         map[string]string
}

// StageHandler produces the draft payloads of one stage. Hard failures
// (infrastructure, malformed stored payloads) return an error; content
// problems go into HandlerResult.ValidationErrors.
type StageHandler interface {
	Run(ctx context.Context, hc HandlerContext) (*HandlerResult, error)
}
