package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/core/draft"
	"github.com/example/strat/internal/core/plan"
	"github.com/example/strat/internal/core/synth"
	"github.com/example/strat/internal/models"
	"github.com/example/strat/internal/ports/secondary"
)

// generativeHandler drafts payloads through the configured proposer. When
// the proposer fails or times out, the deterministic fallback takes over
// so a stage run never dies on an unreachable generator.
type generativeHandler struct {
	stage    string
	proposer secondary.Proposer
	fallback secondary.Proposer
	timeout  time.Duration
}

func (h *generativeHandler) Run(ctx context.Context, hc HandlerContext) (*HandlerResult, error) {
	req := secondary.ProposalRequest{
		Stage:            h.stage,
		ProjectID:        hc.ProjectID,
		SeedInput:        hc.SeedInput,
		Inputs:           hc.Inputs,
		RequiredPayloads: hc.Required,
	}

	proposal, usedFallback, err := h.propose(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &HandlerResult{
		Payloads: proposal.Payloads,
		Prompts:  []string{"Review the draft, edit fields as needed, then approve or reject."},
		Metadata: map[string]string{
			"generator": proposal.Generator,
			"mode":      proposal.Mode,
		},
	}
	if proposal.Notes != "" {
		result.Metadata["notes"] = proposal.Notes
	}
	if usedFallback {
		result.Prompts = append(result.Prompts,
			"The configured generator was unavailable; this draft came from the offline fallback.")
	}
	return result, nil
}

func (h *generativeHandler) propose(ctx context.Context, req secondary.ProposalRequest) (*secondary.Proposal, bool, error) {
	callCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	proposal, err := h.proposer.Propose(callCtx, req)
	if err == nil {
		return proposal, false, nil
	}
	if h.fallback == nil || h.fallback == h.proposer {
		return nil, false, err
	}

	proposal, fbErr := h.fallback.Propose(ctx, req)
	if fbErr != nil {
		return nil, false, fmt.Errorf("proposer failed (%v); fallback also failed: %w", err, fbErr)
	}
	return proposal, true, nil
}

// databaseNotes carries operator guidance per database, mirroring how each
// platform actually accepts queries.
var databaseNotes = map[string]string{
	"pubmed":          "Copy to the PubMed search UI. Consider adding MeSH terms.",
	"scopus":          "Copy to the Scopus advanced search UI.",
	"arxiv":           "Usable with the arXiv API search_query parameter.",
	"openalex":        "Usable with the OpenAlex works search endpoint.",
	"semanticscholar": "Usable with the Semantic Scholar paper search endpoint.",
	"crossref":        "Usable with the Crossref works query endpoint.",
}

// queryPlanHandler renders the approved concept blocks into one query per
// configured database. Externally supplied candidate queries (for example
// from a model) are admitted only through the syntax gate.
type queryPlanHandler struct {
	synthesizer *synth.Synthesizer
	databases   []string
}

func (h *queryPlanHandler) Run(ctx context.Context, hc HandlerContext) (*HandlerResult, error) {
	raw, ok := hc.Required[models.TypeSearchConceptBlocks]
	if !ok {
		return nil, apperr.Validation("stage %q missing %s payload", StageDatabaseQueryPlan, models.TypeSearchConceptBlocks)
	}
	var blocks models.SearchConceptBlocks
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, apperr.Validation("malformed %s payload: %v", models.TypeSearchConceptBlocks, err)
	}

	queryPlan := blocks.ToQueryPlan()
	result := &HandlerResult{
		Metadata: map[string]string{"generator": "synthesizer", "mode": "deterministic"},
	}

	databases := h.databases
	if len(hc.Inputs) > 0 && hc.Inputs["databases"] != "" {
		databases = splitList(hc.Inputs["databases"])
	}

	var queries []models.DatabaseQuery
	for _, database := range databases {
		query, issues, skipped := h.buildQuery(queryPlan, database, hc.Inputs)
		for _, issue := range issues {
			result.ValidationErrors = append(result.ValidationErrors,
				fmt.Sprintf("%s: %s", database, issue))
		}
		if skipped {
			continue
		}
		queries = append(queries, query)
	}

	payload, err := json.Marshal(models.DatabaseQueryPlan{Queries: queries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query plan: %w", err)
	}
	result.Payloads = map[string][]byte{models.TypeDatabaseQueryPlan: payload}
	result.Prompts = append(result.Prompts,
		"Review each query before running it against its database.",
		"Queries flagged by the syntax gate need manual correction.")
	return result, nil
}

// buildQuery renders or vets one database's query. skipped reports that no
// query could be produced at all (unknown database).
func (h *queryPlanHandler) buildQuery(queryPlan plan.QueryPlan, database string, inputs map[string]string) (models.DatabaseQuery, []string, bool) {
	d, ok := h.synthesizer.Registry().Get(database)
	if !ok {
		return models.DatabaseQuery{}, []string{"unknown database dialect"}, true
	}

	// An externally supplied candidate bypasses synthesis but not the gate
	if candidate := inputs["query:"+database]; candidate != "" {
		var issues []string
		for _, issue := range synth.Gate(candidate, d) {
			issues = append(issues, issue.String())
		}
		query := models.DatabaseQuery{
			Database:     database,
			QueryString:  candidate,
			Source:       models.QuerySourceExternal,
			Complexity:   synth.Analyze(queryPlan, candidate, d),
			GateFindings: issues,
			Notes:        databaseNotes[database],
		}
		return query, issues, false
	}

	res, err := h.synthesizer.Synthesize(queryPlan, database)
	if err != nil {
		return models.DatabaseQuery{}, []string{err.Error()}, true
	}
	var issues []string
	for _, issue := range res.Issues {
		issues = append(issues, issue.String())
	}
	query := models.DatabaseQuery{
		Database:     database,
		QueryString:  res.Query,
		Source:       models.QuerySourceSynthesizer,
		Complexity:   res.Report,
		GateFindings: issues,
		Notes:        databaseNotes[database],
	}
	return query, issues, false
}

// exportHandler aggregates the approved strategy into the shareable
// Markdown summary and YAML protocol.
type exportHandler struct{}

func (h *exportHandler) Run(ctx context.Context, hc HandlerContext) (*HandlerResult, error) {
	var in draft.ExportInputs
	if err := unmarshalPayload(hc.Required, models.TypeDatabaseQueryPlan, &in.QueryPlan); err != nil {
		return nil, err
	}
	if err := unmarshalPayload(hc.Required, models.TypeScreeningCriteria, &in.Screening); err != nil {
		return nil, err
	}

	sources := []string{models.TypeDatabaseQueryPlan, models.TypeScreeningCriteria}
	optional := map[string]any{
		models.TypeProjectContext:      &in.Context,
		models.TypeProblemFraming:      &in.Framing,
		models.TypeConceptModel:        &in.Concepts,
		models.TypeResearchQuestionSet: &in.Questions,
		models.TypeSearchConceptBlocks: &in.Blocks,
	}
	for artifactType, dst := range optional {
		raw, ok := hc.Optional[artifactType]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, apperr.Validation("malformed %s payload: %v", artifactType, err)
		}
		sources = append(sources, artifactType)
	}
	sort.Strings(sources)

	protocol, err := draft.BuildProtocolYAML(in)
	if err != nil {
		return nil, err
	}
	bundle := models.StrategyExportBundle{
		MarkdownSummary: draft.BuildStrategySummary(in),
		ProtocolYAML:    string(protocol),
		SourceArtifacts: sources,
	}
	payload, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export bundle: %w", err)
	}

	return &HandlerResult{
		Payloads: map[string][]byte{models.TypeStrategyExportBundle: payload},
		Prompts: []string{
			"Review the Markdown summary for completeness.",
			"The YAML protocol is ready for registration or sharing.",
		},
		Metadata: map[string]string{"generator": "exporter", "mode": "deterministic"},
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func unmarshalPayload(payloads map[string][]byte, artifactType string, dst any) error {
	raw, ok := payloads[artifactType]
	if !ok {
		return apperr.Validation("stage %q missing %s payload", StageStrategyExport, artifactType)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("malformed %s payload: %v", artifactType, err)
	}
	return nil
}
