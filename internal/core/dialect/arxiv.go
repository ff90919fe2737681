package dialect

import (
	"strings"

	"github.com/example/strat/internal/core/plan"
)

// arxivDialect renders arXiv API syntax: colon-prefixed field tags and the
// ANDNOT boolean operator. arXiv has no controlled vocabulary, so every
// field class maps to the all: tag.
type arxivDialect struct{}

func (arxivDialect) FormatTerm(term plan.SearchTerm) string {
	return "all:" + quoteIfPhrase(term)
}

func (arxivDialect) JoinOr(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

func (arxivDialect) JoinAnd(groups []string) string {
	return strings.Join(groups, " AND ")
}

func (d arxivDialect) FormatExclusion(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	clause := d.JoinOr(terms)
	if len(terms) == 1 {
		clause = "(" + clause + ")"
	}
	return "ANDNOT " + clause
}

func (arxivDialect) Denylist() []string {
	return []string{"TITLE-ABS-KEY", "[Title/Abstract]", "[MeSH Terms]", " NOT "}
}

func (arxivDialect) AllowedFieldTags() []string {
	return []string{"all:", "ti:", "abs:"}
}

func (arxivDialect) RecommendedMaxLength() int { return 1000 }
