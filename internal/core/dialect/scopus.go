package dialect

import (
	"strings"

	"github.com/example/strat/internal/core/plan"
)

// scopusDialect renders Scopus advanced-search syntax. Field restriction
// is the TITLE-ABS-KEY() wrapper, applied once around each OR-list rather
// than once per term.
//
// Example:
//
//	TITLE-ABS-KEY("deep learning" OR "neural networks") AND TITLE-ABS-KEY(diabetes)
type scopusDialect struct{}

func (scopusDialect) FormatTerm(term plan.SearchTerm) string {
	// The wrapper carries the field restriction; terms stay bare.
	return quoteIfPhrase(term)
}

func (scopusDialect) JoinOr(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return "TITLE-ABS-KEY(" + strings.Join(terms, " OR ") + ")"
}

func (scopusDialect) JoinAnd(groups []string) string {
	return strings.Join(groups, " AND ")
}

func (scopusDialect) FormatExclusion(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return "AND NOT TITLE-ABS-KEY(" + strings.Join(terms, " OR ") + ")"
}

func (scopusDialect) Denylist() []string {
	return []string{"[Title/Abstract]", "[MeSH Terms]", "[All Fields]", "ANDNOT", "all:"}
}

func (scopusDialect) AllowedFieldTags() []string {
	return []string{"TITLE-ABS-KEY"}
}

// Very long queries break the Scopus advanced-search UI.
func (scopusDialect) RecommendedMaxLength() int { return 2000 }
