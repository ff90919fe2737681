package draft

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/strat/internal/models"
)

// ExportInputs collects the approved artifacts that feed the export bundle.
// QueryPlan and Screening are the gate for running the export stage; the
// rest enrich the summary when present.
type ExportInputs struct {
	Context   *models.ProjectContext
	Framing   *models.ProblemFraming
	Concepts  *models.ConceptModel
	Questions *models.ResearchQuestionSet
	Blocks    *models.SearchConceptBlocks
	QueryPlan models.DatabaseQueryPlan
	Screening models.ScreeningCriteria
}

// BuildStrategySummary renders a human-readable Markdown summary of the
// full strategy.
func BuildStrategySummary(in ExportInputs) string {
	var b strings.Builder

	title := "Untitled Project"
	if in.Context != nil && in.Context.Title != "" {
		title = in.Context.Title
	}
	fmt.Fprintf(&b, "# Strategy Summary: %s\n", title)

	if in.Framing != nil {
		b.WriteString("\n## Problem Framing\n")
		b.WriteString(in.Framing.ProblemStatement + "\n")
		if len(in.Framing.Goals) > 0 {
			b.WriteString("\n### Goals\n")
			for _, g := range in.Framing.Goals {
				b.WriteString("- " + g + "\n")
			}
		}
	}

	if in.Concepts != nil && len(in.Concepts.Concepts) > 0 {
		b.WriteString("\n## Concepts\n")
		for _, c := range head(in.Concepts.Concepts, 20) {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Label, c.Type)
		}
	}

	if in.Questions != nil && len(in.Questions.Questions) > 0 {
		b.WriteString("\n## Research Questions\n")
		for _, q := range in.Questions.Questions {
			b.WriteString("- " + q.Text + "\n")
		}
	}

	if in.Blocks != nil && len(in.Blocks.Blocks) > 0 {
		b.WriteString("\n## Search Concept Blocks\n")
		for _, blk := range in.Blocks.Blocks {
			fmt.Fprintf(&b, "- %s: %s\n", blk.Label, strings.Join(head(blk.TermsIncluded, 6), ", "))
		}
	}

	b.WriteString("\n## Database Queries\n")
	for _, q := range in.QueryPlan.Queries {
		fmt.Fprintf(&b, "\n### %s\n", strings.ToUpper(q.Database))
		b.WriteString("```\n" + q.QueryString + "\n```\n")
		fmt.Fprintf(&b, "Complexity: %s (%d terms across %d groups)\n",
			q.Complexity.Category, q.Complexity.TermCount, q.Complexity.GroupCount)
	}

	b.WriteString("\n## Screening Criteria\n\n### Inclusion\n")
	for _, c := range in.Screening.InclusionCriteria {
		b.WriteString("- " + c + "\n")
	}
	b.WriteString("\n### Exclusion\n")
	for _, c := range in.Screening.ExclusionCriteria {
		b.WriteString("- " + c + "\n")
	}

	return b.String()
}

type protocolQuery struct {
	Database   string `yaml:"database"`
	Query      string `yaml:"query"`
	Source     string `yaml:"source"`
	Complexity string `yaml:"complexity"`
	Notes      string `yaml:"notes,omitempty"`
}

type protocolDoc struct {
	Title             string          `yaml:"title"`
	ProblemStatement  string          `yaml:"problem_statement,omitempty"`
	ResearchQuestions []string        `yaml:"research_questions,omitempty"`
	Queries           []protocolQuery `yaml:"queries"`
	Inclusion         []string        `yaml:"inclusion_criteria"`
	Exclusion         []string        `yaml:"exclusion_criteria"`
}

// BuildProtocolYAML renders a machine-readable review protocol covering the
// queries and screening criteria.
func BuildProtocolYAML(in ExportInputs) ([]byte, error) {
	doc := protocolDoc{
		Title:     "Untitled Project",
		Inclusion: in.Screening.InclusionCriteria,
		Exclusion: in.Screening.ExclusionCriteria,
	}
	if in.Context != nil {
		doc.Title = in.Context.Title
	}
	if in.Framing != nil {
		doc.ProblemStatement = in.Framing.ProblemStatement
	}
	if in.Questions != nil {
		for _, q := range in.Questions.Questions {
			doc.ResearchQuestions = append(doc.ResearchQuestions, q.Text)
		}
	}
	for _, q := range in.QueryPlan.Queries {
		doc.Queries = append(doc.Queries, protocolQuery{
			Database:   q.Database,
			Query:      q.QueryString,
			Source:     q.Source,
			Complexity: string(q.Complexity.Category),
			Notes:      q.Notes,
		})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling protocol: %w", err)
	}
	return out, nil
}
