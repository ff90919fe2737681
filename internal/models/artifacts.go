// Package models defines the payload schemas written by the stage
// handlers. Each payload is an opaque JSON blob to the store and the
// orchestrator; the producing handler owns its shape and versioning.
package models

import (
	"github.com/example/strat/internal/core/plan"
	"github.com/example/strat/internal/core/synth"
)

// Artifact type discriminators. One slot exists per (project, type).
const (
	TypeProjectContext       = "ProjectContext"
	TypeProblemFraming       = "ProblemFraming"
	TypeConceptModel         = "ConceptModel"
	TypeResearchQuestionSet  = "ResearchQuestionSet"
	TypeSearchConceptBlocks  = "SearchConceptBlocks"
	TypeDatabaseQueryPlan    = "DatabaseQueryPlan"
	TypeScreeningCriteria    = "ScreeningCriteria"
	TypeStrategyExportBundle = "StrategyExportBundle"
)

// ProjectContext captures the refined framing of the raw research idea.
type ProjectContext struct {
	Title            string            `json:"title"`
	ShortDescription string            `json:"short_description"`
	Discipline       string            `json:"discipline,omitempty"`
	Subfield         string            `json:"subfield,omitempty"`
	ApplicationArea  string            `json:"application_area,omitempty"`
	Constraints      map[string]string `json:"constraints,omitempty"`
	InitialKeywords  []string          `json:"initial_keywords,omitempty"`
}

// ProblemFraming states the problem, goals, and scope boundaries.
type ProblemFraming struct {
	ProblemStatement string   `json:"problem_statement"`
	Goals            []string `json:"goals,omitempty"`
	ScopeIn          []string `json:"scope_in,omitempty"`
	ScopeOut         []string `json:"scope_out,omitempty"`
	Stakeholders     []string `json:"stakeholders,omitempty"`
}

// Concept is one node of the concept model.
type Concept struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// ConceptRelation links two concepts.
type ConceptRelation struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Kind   string `json:"kind"`
}

// ConceptModel decomposes the problem into concepts and relations.
type ConceptModel struct {
	Concepts  []Concept         `json:"concepts"`
	Relations []ConceptRelation `json:"relations,omitempty"`
}

// Research question priorities.
const (
	PriorityMustHave   = "must_have"
	PriorityNiceToHave = "nice_to_have"
)

// ResearchQuestion is one reviewable question with its concept links.
type ResearchQuestion struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Type             string   `json:"type"`
	LinkedConceptIDs []string `json:"linked_concept_ids,omitempty"`
	Priority         string   `json:"priority"`
}

// ResearchQuestionSet groups the questions of a project.
type ResearchQuestionSet struct {
	Questions []ResearchQuestion `json:"questions"`
}

// SearchConceptBlock is the reviewable precursor of a concept group:
// synonyms to OR together, noise terms to exclude.
type SearchConceptBlock struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Description   string   `json:"description,omitempty"`
	TermsIncluded []string `json:"terms_included"`
	TermsExcluded []string `json:"terms_excluded,omitempty"`
}

// SearchConceptBlocks is the full set of blocks for a project.
type SearchConceptBlocks struct {
	Blocks []SearchConceptBlock `json:"blocks"`
}

// ToQueryPlan converts the approved blocks into the synthesizer's plan
// model. Terms default to keyword classification; phrase detection and
// quote stripping happen in the term constructor.
func (b SearchConceptBlocks) ToQueryPlan() plan.QueryPlan {
	var p plan.QueryPlan
	for _, block := range b.Blocks {
		group := plan.ConceptGroup{Label: block.Label}
		for _, text := range block.TermsIncluded {
			group.Included = append(group.Included, plan.NewSearchTerm(text, plan.FieldKeyword))
		}
		for _, text := range block.TermsExcluded {
			group.Excluded = append(group.Excluded, plan.NewSearchTerm(text, plan.FieldKeyword))
		}
		p.AddGroup(group)
	}
	return p
}

// Provenance of a database query string.
const (
	QuerySourceSynthesizer = "synthesizer"
	QuerySourceExternal    = "external"
)

// DatabaseQuery is one database's rendered boolean query plus its
// complexity assessment and syntax-gate findings.
type DatabaseQuery struct {
	Database     string                 `json:"database"`
	QueryString  string                 `json:"query_string"`
	Source       string                 `json:"source"`
	Complexity   synth.ComplexityReport `json:"complexity"`
	GateFindings []string               `json:"gate_findings,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
}

// DatabaseQueryPlan holds the per-database queries of a project.
type DatabaseQueryPlan struct {
	Queries []DatabaseQuery `json:"queries"`
}

// ScreeningCriteria lists the inclusion and exclusion rules for study
// selection.
type ScreeningCriteria struct {
	InclusionCriteria []string `json:"inclusion_criteria"`
	ExclusionCriteria []string `json:"exclusion_criteria"`
}

// StrategyExportBundle aggregates the approved strategy into shareable
// documents.
type StrategyExportBundle struct {
	MarkdownSummary string   `json:"markdown_summary"`
	ProtocolYAML    string   `json:"protocol_yaml"`
	SourceArtifacts []string `json:"source_artifacts"`
}
