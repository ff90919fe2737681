// Package generation contains proposer implementations that draft stage
// payloads. The heuristic proposer is fully offline and deterministic; an
// LLM-backed proposer would implement the same port.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/core/draft"
	"github.com/example/strat/internal/models"
	"github.com/example/strat/internal/ports/secondary"
)

// GeneratorName identifies the heuristic proposer in artifact provenance.
const GeneratorName = "heuristic-local"

// HeuristicProposer implements secondary.Proposer with the deterministic
// draft builders. Same inputs always yield the same proposal.
type HeuristicProposer struct{}

// NewHeuristicProposer creates a new offline proposer.
func NewHeuristicProposer() *HeuristicProposer {
	return &HeuristicProposer{}
}

// Propose drafts the payloads a stage produces from its approved inputs.
func (p *HeuristicProposer) Propose(ctx context.Context, req secondary.ProposalRequest) (*secondary.Proposal, error) {
	payloads := make(map[string][]byte)

	switch req.Stage {
	case "project-setup":
		projectCtx := draft.BuildProjectContext(req.SeedInput)
		if req.Inputs["title"] != "" {
			projectCtx.Title = req.Inputs["title"]
		}
		if err := marshalInto(payloads, models.TypeProjectContext, projectCtx); err != nil {
			return nil, err
		}

	case "problem-framing":
		var projectCtx models.ProjectContext
		if err := unmarshalRequired(req, models.TypeProjectContext, &projectCtx); err != nil {
			return nil, err
		}
		framing, concepts := draft.BuildProblemFraming(projectCtx)
		if err := marshalInto(payloads, models.TypeProblemFraming, framing); err != nil {
			return nil, err
		}
		if err := marshalInto(payloads, models.TypeConceptModel, concepts); err != nil {
			return nil, err
		}

	case "research-questions":
		var framing models.ProblemFraming
		var concepts models.ConceptModel
		if err := unmarshalRequired(req, models.TypeProblemFraming, &framing); err != nil {
			return nil, err
		}
		if err := unmarshalRequired(req, models.TypeConceptModel, &concepts); err != nil {
			return nil, err
		}
		set := draft.BuildResearchQuestions(framing, concepts)
		if err := marshalInto(payloads, models.TypeResearchQuestionSet, set); err != nil {
			return nil, err
		}

	case "search-concept-expansion":
		var concepts models.ConceptModel
		if err := unmarshalRequired(req, models.TypeConceptModel, &concepts); err != nil {
			return nil, err
		}
		blocks := draft.BuildSearchConceptBlocks(concepts)
		if err := marshalInto(payloads, models.TypeSearchConceptBlocks, blocks); err != nil {
			return nil, err
		}

	case "screening-criteria":
		var rqs models.ResearchQuestionSet
		var framing models.ProblemFraming
		if err := unmarshalRequired(req, models.TypeResearchQuestionSet, &rqs); err != nil {
			return nil, err
		}
		if err := unmarshalRequired(req, models.TypeProblemFraming, &framing); err != nil {
			return nil, err
		}
		criteria := draft.BuildScreeningCriteria(rqs, &framing)
		if err := marshalInto(payloads, models.TypeScreeningCriteria, criteria); err != nil {
			return nil, err
		}

	default:
		return nil, apperr.Configuration("no heuristic generator for stage %q", req.Stage)
	}

	return &secondary.Proposal{
		Payloads:  payloads,
		Generator: GeneratorName,
		Mode:      "offline",
	}, nil
}

func unmarshalRequired(req secondary.ProposalRequest, artifactType string, dst any) error {
	raw, ok := req.RequiredPayloads[artifactType]
	if !ok {
		return apperr.Validation("proposal request for %q missing %s payload", req.Stage, artifactType)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("malformed %s payload: %v", artifactType, err)
	}
	return nil
}

func marshalInto(payloads map[string][]byte, artifactType string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", artifactType, err)
	}
	payloads[artifactType] = raw
	return nil
}

// Ensure HeuristicProposer implements the interface
var _ secondary.Proposer = (*HeuristicProposer)(nil)
