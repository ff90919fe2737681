package dialect

import (
	"strings"

	"github.com/example/strat/internal/core/plan"
)

// plainDialect renders the untagged boolean syntax shared by OpenAlex,
// Semantic Scholar, and CrossRef: quoted phrases, parenthesized OR groups,
// a literal AND join, and a plain NOT clause. Field restriction is handled
// by those APIs through filters, not the query string.
type plainDialect struct {
	id string
}

func (plainDialect) FormatTerm(term plan.SearchTerm) string {
	return quoteIfPhrase(term)
}

func (plainDialect) JoinOr(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

func (plainDialect) JoinAnd(groups []string) string {
	return strings.Join(groups, " AND ")
}

func (d plainDialect) FormatExclusion(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	clause := d.JoinOr(terms)
	if len(terms) == 1 {
		clause = "(" + clause + ")"
	}
	return "NOT " + clause
}

func (plainDialect) Denylist() []string {
	return []string{"TITLE-ABS-KEY", "[Title/Abstract]", "[MeSH Terms]", "ANDNOT", "all:"}
}

func (plainDialect) AllowedFieldTags() []string { return nil }

func (plainDialect) RecommendedMaxLength() int { return 2048 }
