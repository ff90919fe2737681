// Package synth turns a structured query plan into a dialect-specific
// boolean query string. This is part of the Functional Core - the same
// (plan, dialect) input always yields a byte-identical query, so plans can
// be re-rendered across dialects for comparison and re-synthesized after
// edits for diffing.
package synth

import (
	"fmt"

	"github.com/example/strat/internal/core/dialect"
	"github.com/example/strat/internal/core/plan"
)

// Issue is a soft validation finding. It travels with the result instead
// of aborting the call, so a flawed draft stays inspectable.
type Issue struct {
	Message string
	Token   string // offending token, when positional
	Offset  int    // byte offset of Token in the query, -1 otherwise
}

func (i Issue) String() string {
	if i.Token == "" {
		return i.Message
	}
	return fmt.Sprintf("%s (token %q at offset %d)", i.Message, i.Token, i.Offset)
}

func planIssue(format string, args ...any) Issue {
	return Issue{Message: fmt.Sprintf(format, args...), Offset: -1}
}

// Result bundles the synthesized query with its complexity report.
type Result struct {
	Query  string
	Report ComplexityReport
	Issues []Issue
}

// Synthesizer renders query plans against a dialect registry.
type Synthesizer struct {
	registry *dialect.Registry
}

// New builds a synthesizer over the given registry.
func New(registry *dialect.Registry) *Synthesizer {
	return &Synthesizer{registry: registry}
}

// Registry exposes the synthesizer's dialect registry.
func (s *Synthesizer) Registry() *dialect.Registry { return s.registry }

// Synthesize renders the plan for one dialect. Structural plan problems
// yield an invalid report and no query. A syntactically suspect query is
// still returned alongside its gate findings: the deterministic builder
// only emits what the dialect's own formatters produce, so a gate hit
// there points at a dialect defect, not a plan defect.
func (s *Synthesizer) Synthesize(p plan.QueryPlan, dialectID string) (Result, error) {
	d, ok := s.registry.Get(dialectID)
	if !ok {
		return Result{}, fmt.Errorf("synth: unknown dialect %q", dialectID)
	}

	issues := validatePlan(p)
	if len(issues) > 0 {
		return Result{
			Report: ComplexityReport{Category: CategoryInvalid},
			Issues: issues,
		}, nil
	}

	query := build(p, d)
	issues = append(issues, Gate(query, d)...)
	report := Analyze(p, query, d)

	return Result{Query: query, Report: report, Issues: issues}, nil
}

func validatePlan(p plan.QueryPlan) []Issue {
	if len(p.Groups) == 0 {
		return []Issue{planIssue("empty plan: no concept groups")}
	}
	var issues []Issue
	for i, g := range p.Groups {
		if err := g.Validate(); err != nil {
			issues = append(issues, planIssue("group %d: %v", i+1, err))
		}
	}
	return issues
}

// build renders each group's OR clause, appends its exclusion clause, and
// AND-joins the groups in plan order.
func build(p plan.QueryPlan, d dialect.Dialect) string {
	groups := make([]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		included := make([]string, 0, len(g.Included))
		for _, term := range g.Included {
			included = append(included, d.FormatTerm(term))
		}
		clause := d.JoinOr(included)

		if len(g.Excluded) > 0 {
			excluded := make([]string, 0, len(g.Excluded))
			for _, term := range g.Excluded {
				excluded = append(excluded, d.FormatTerm(term))
			}
			if not := d.FormatExclusion(excluded); not != "" {
				clause = clause + " " + not
			}
		}
		groups = append(groups, clause)
	}
	return d.JoinAnd(groups)
}
