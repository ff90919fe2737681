package synth

import (
	"fmt"

	"github.com/example/strat/internal/core/dialect"
	"github.com/example/strat/internal/core/plan"
)

// Category grades the expected breadth of a query.
type Category string

const (
	CategoryVeryBroad  Category = "very_broad"
	CategoryBroad      Category = "broad"
	CategoryModerate   Category = "moderate"
	CategoryNarrow     Category = "narrow"
	CategoryVeryNarrow Category = "very_narrow"
	CategoryInvalid    Category = "invalid"
)

// ComplexityReport is a heuristic breadth and length assessment of a
// synthesized query.
type ComplexityReport struct {
	Category            Category `json:"category"`
	TermCount           int      `json:"term_count"`
	GroupCount          int      `json:"group_count"`
	CharacterLength     int      `json:"character_length"`
	AvgTermsPerGroup    float64  `json:"avg_terms_per_group"`
	Warnings            []string `json:"warnings,omitempty"`
	ExceedsDialectLimit bool     `json:"exceeds_dialect_limit"`
}

// Analyze grades the plan against fixed breakpoints. Few groups with many
// synonyms read broad; many AND-ed groups read narrow.
func Analyze(p plan.QueryPlan, query string, d dialect.Dialect) ComplexityReport {
	termCount := p.TermCount()
	groupCount := len(p.Groups)
	avg := 0.0
	if groupCount > 0 {
		avg = float64(termCount) / float64(groupCount)
	}

	report := ComplexityReport{
		Category:         categorize(groupCount, avg),
		TermCount:        termCount,
		GroupCount:       groupCount,
		CharacterLength:  len(query),
		AvgTermsPerGroup: avg,
	}

	if excluded := p.ExcludedCount(); excluded > 5 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d excluded terms will further narrow results", excluded))
	}
	if limit := d.RecommendedMaxLength(); report.CharacterLength > limit {
		report.ExceedsDialectLimit = true
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("query length %d exceeds the recommended limit of %d characters; simplify or split the search",
				report.CharacterLength, limit))
	}
	return report
}

func categorize(groupCount int, avgTermsPerGroup float64) Category {
	switch {
	case groupCount == 0:
		return CategoryInvalid
	case groupCount == 1:
		switch {
		case avgTermsPerGroup > 15:
			return CategoryVeryBroad
		case avgTermsPerGroup > 8:
			return CategoryBroad
		default:
			return CategoryModerate
		}
	case groupCount >= 6:
		return CategoryVeryNarrow
	case groupCount >= 4:
		return CategoryNarrow
	default: // 2-3 groups
		if avgTermsPerGroup > 10 {
			return CategoryBroad
		}
		return CategoryModerate
	}
}
