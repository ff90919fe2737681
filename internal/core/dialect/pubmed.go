package dialect

import (
	"strings"

	"github.com/example/strat/internal/core/plan"
)

// pubmedDialect renders PubMed/MEDLINE syntax: double-quoted phrases,
// bracketed field tags, parenthesized OR groups, AND on its own line.
//
// Example:
//
//	("heart attack"[Title/Abstract] OR "myocardial infarction"[MeSH Terms])
//	AND
//	aspirin[Title/Abstract]
type pubmedDialect struct{}

func (pubmedDialect) FormatTerm(term plan.SearchTerm) string {
	base := quoteIfPhrase(term)
	switch term.Field {
	case plan.FieldControlledVocab:
		return base + "[MeSH Terms]"
	case plan.FieldKeyword:
		return base + "[Title/Abstract]"
	default:
		return base + "[All Fields]"
	}
}

func (pubmedDialect) JoinOr(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

func (pubmedDialect) JoinAnd(groups []string) string {
	return strings.Join(groups, "\nAND\n")
}

func (d pubmedDialect) FormatExclusion(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return "NOT " + d.JoinOr(terms)
}

func (pubmedDialect) Denylist() []string {
	return []string{"TITLE-ABS-KEY", "ANDNOT", "all:", "ti:", "abs:"}
}

func (pubmedDialect) AllowedFieldTags() []string {
	return []string{"[Title/Abstract]", "[MeSH Terms]", "[All Fields]"}
}

// PubMed truncates queries beyond 4000 characters.
func (pubmedDialect) RecommendedMaxLength() int { return 4000 }
