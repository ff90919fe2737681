package app

import (
	"time"

	"github.com/example/strat/internal/core/pipeline"
	"github.com/example/strat/internal/core/synth"
	"github.com/example/strat/internal/models"
	"github.com/example/strat/internal/ports/secondary"
)

// Stage names. Each stage consumes approved artifacts and drafts new ones;
// the dependency graph below is validated acyclic at registration.
const (
	StageProjectSetup           = "project-setup"
	StageProblemFraming         = "problem-framing"
	StageResearchQuestions      = "research-questions"
	StageSearchConceptExpansion = "search-concept-expansion"
	StageDatabaseQueryPlan      = "database-query-plan"
	StageScreeningCriteria      = "screening-criteria"
	StageStrategyExport         = "strategy-export"
)

// NewStageRegistry declares the research-strategy pipeline. Registration
// panics on a malformed graph; the graph below is fixed at compile time.
func NewStageRegistry() *pipeline.Registry {
	r := pipeline.NewRegistry()
	r.MustRegister(pipeline.Definition{
		Name:     StageProjectSetup,
		Produces: []string{models.TypeProjectContext},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageProblemFraming,
		Requires: []string{models.TypeProjectContext},
		Produces: []string{models.TypeProblemFraming, models.TypeConceptModel},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageResearchQuestions,
		Requires: []string{models.TypeProblemFraming, models.TypeConceptModel},
		Produces: []string{models.TypeResearchQuestionSet},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageSearchConceptExpansion,
		Requires: []string{models.TypeConceptModel, models.TypeResearchQuestionSet},
		Produces: []string{models.TypeSearchConceptBlocks},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageDatabaseQueryPlan,
		Requires: []string{models.TypeSearchConceptBlocks},
		Produces: []string{models.TypeDatabaseQueryPlan},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageScreeningCriteria,
		Requires: []string{models.TypeProblemFraming, models.TypeResearchQuestionSet},
		Produces: []string{models.TypeScreeningCriteria},
	})
	r.MustRegister(pipeline.Definition{
		Name:     StageStrategyExport,
		Requires: []string{models.TypeDatabaseQueryPlan, models.TypeScreeningCriteria},
		Produces: []string{models.TypeStrategyExportBundle},
	})
	return r
}

// NewStageHandlers wires one handler per registered stage. The generative
// stages run the proposer (falling back to the deterministic one on
// failure); query synthesis and export are fully deterministic.
func NewStageHandlers(
	proposer secondary.Proposer,
	fallback secondary.Proposer,
	synthesizer *synth.Synthesizer,
	databases []string,
	proposerTimeout time.Duration,
) map[string]StageHandler {
	generative := func(stage string) StageHandler {
		return &generativeHandler{
			stage:    stage,
			proposer: proposer,
			fallback: fallback,
			timeout:  proposerTimeout,
		}
	}
	return map[string]StageHandler{
		StageProjectSetup:           generative(StageProjectSetup),
		StageProblemFraming:         generative(StageProblemFraming),
		StageResearchQuestions:      generative(StageResearchQuestions),
		StageSearchConceptExpansion: generative(StageSearchConceptExpansion),
		StageScreeningCriteria:      generative(StageScreeningCriteria),
		StageDatabaseQueryPlan:      &queryPlanHandler{synthesizer: synthesizer, databases: databases},
		StageStrategyExport:         &exportHandler{},
	}
}
