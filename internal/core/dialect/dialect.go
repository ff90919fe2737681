// Package dialect contains the per-database query syntax rules.
// This is part of the Functional Core - dialects are immutable, stateless
// formatters with no I/O.
package dialect

import "github.com/example/strat/internal/core/plan"

// Dialect translates structured plan pieces into one target database's
// boolean syntax. The Denylist, AllowedFieldTags, and RecommendedMaxLength
// methods feed the synthesizer's syntax gate and complexity report; the
// formatting methods never consult them.
type Dialect interface {
	// FormatTerm renders a single term with phrase quoting and the
	// dialect's field-tag notation.
	FormatTerm(term plan.SearchTerm) string

	// JoinOr combines formatted terms into one OR clause using the
	// dialect's grouping convention.
	JoinOr(terms []string) string

	// JoinAnd combines OR clauses with the dialect's AND separator.
	JoinAnd(groups []string) string

	// FormatExclusion renders a NOT clause from formatted excluded terms.
	// An empty input returns the empty string.
	FormatExclusion(terms []string) string

	// Denylist returns substrings that must never appear in output for
	// this dialect. Hits indicate a formatter defect or a foreign string.
	Denylist() []string

	// AllowedFieldTags returns the field tags this dialect accepts, in
	// the notation the tag scanner recognizes. Empty means untagged.
	AllowedFieldTags() []string

	// RecommendedMaxLength returns the advisory query length limit.
	RecommendedMaxLength() int
}

func quoteIfPhrase(term plan.SearchTerm) string {
	if term.IsPhrase {
		return `"` + term.Text + `"`
	}
	return term.Text
}
