package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/strat/internal/adapters/generation"
	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/models"
	"github.com/example/strat/internal/ports/secondary"
)

func TestHeuristicProposer_ProjectSetup(t *testing.T) {
	proposer := generation.NewHeuristicProposer()

	proposal, err := proposer.Propose(context.Background(), secondary.ProposalRequest{
		Stage:     "project-setup",
		SeedInput: "Machine learning for early sepsis detection in hospital wards.",
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if proposal.Generator != generation.GeneratorName {
		t.Errorf("generator = %q", proposal.Generator)
	}

	raw, ok := proposal.Payloads[models.TypeProjectContext]
	if !ok {
		t.Fatal("missing ProjectContext payload")
	}
	var projectCtx models.ProjectContext
	if err := json.Unmarshal(raw, &projectCtx); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if projectCtx.Title == "" || len(projectCtx.InitialKeywords) == 0 {
		t.Errorf("thin draft: %+v", projectCtx)
	}
}

func TestHeuristicProposer_ProblemFramingProducesTwoPayloads(t *testing.T) {
	proposer := generation.NewHeuristicProposer()
	projectCtx, _ := json.Marshal(models.ProjectContext{
		Title:           "Sepsis Detection",
		InitialKeywords: []string{"sepsis", "detection"},
	})

	proposal, err := proposer.Propose(context.Background(), secondary.ProposalRequest{
		Stage:            "problem-framing",
		RequiredPayloads: map[string][]byte{models.TypeProjectContext: projectCtx},
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	for _, want := range []string{models.TypeProblemFraming, models.TypeConceptModel} {
		if _, ok := proposal.Payloads[want]; !ok {
			t.Errorf("missing %s payload", want)
		}
	}
}

func TestHeuristicProposer_ScreeningCriteriaUseFramingScope(t *testing.T) {
	proposer := generation.NewHeuristicProposer()
	rqs, _ := json.Marshal(models.ResearchQuestionSet{
		Questions: []models.ResearchQuestion{
			{ID: "rq_1", Text: "What is known?", Priority: models.PriorityMustHave},
		},
	})
	framing, _ := json.Marshal(models.ProblemFraming{
		ProblemStatement: "Sepsis is detected too late.",
		ScopeIn:          []string{"Adult ICU patients"},
		ScopeOut:         []string{"Veterinary studies"},
	})

	proposal, err := proposer.Propose(context.Background(), secondary.ProposalRequest{
		Stage: "screening-criteria",
		RequiredPayloads: map[string][]byte{
			models.TypeResearchQuestionSet: rqs,
			models.TypeProblemFraming:      framing,
		},
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	var criteria models.ScreeningCriteria
	if err := json.Unmarshal(proposal.Payloads[models.TypeScreeningCriteria], &criteria); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !containsEntry(criteria.InclusionCriteria, "Studies within scope: Adult ICU patients") {
		t.Errorf("inclusion = %v, want scope-in entry", criteria.InclusionCriteria)
	}
	if !containsEntry(criteria.ExclusionCriteria, "Studies outside scope: Veterinary studies") {
		t.Errorf("exclusion = %v, want scope-out entry", criteria.ExclusionCriteria)
	}

	// The framing is a declared stage input, not an optional enrichment.
	_, err = proposer.Propose(context.Background(), secondary.ProposalRequest{
		Stage:            "screening-criteria",
		RequiredPayloads: map[string][]byte{models.TypeResearchQuestionSet: rqs},
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func containsEntry(entries []string, want string) bool {
	for _, entry := range entries {
		if entry == want {
			return true
		}
	}
	return false
}

func TestHeuristicProposer_MissingInputRejected(t *testing.T) {
	proposer := generation.NewHeuristicProposer()

	_, err := proposer.Propose(context.Background(), secondary.ProposalRequest{
		Stage: "research-questions",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestHeuristicProposer_UnknownStage(t *testing.T) {
	proposer := generation.NewHeuristicProposer()

	_, err := proposer.Propose(context.Background(), secondary.ProposalRequest{Stage: "database-query-plan"})
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}
