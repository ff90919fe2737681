package synth

import (
	"regexp"
	"strings"

	"github.com/example/strat/internal/core/dialect"
)

// Each pattern captures the tag token in group 1. The colon pattern only
// matches at token starts (string start, whitespace, or an opening paren)
// so a colon inside a quoted phrase does not read as a field tag.
var (
	bracketTagPattern = regexp.MustCompile(`(\[[^\[\]]*\])`)
	colonTagPattern   = regexp.MustCompile(`(?:^|[\s(])([a-z]+:)`)
	wrapperTagPattern = regexp.MustCompile(`([A-Z][A-Z-]+)\(`)
)

// Gate scans a candidate query for the dialect's denied tokens and for
// field tags outside its allowed set. It exists primarily to vet strings
// proposed by an external generator before they replace the deterministic
// build; a clean pass is a syntax guarantee, not a semantic one.
func Gate(query string, d dialect.Dialect) []Issue {
	var issues []Issue

	for _, denied := range d.Denylist() {
		from := 0
		for {
			idx := strings.Index(query[from:], denied)
			if idx < 0 {
				break
			}
			at := from + idx
			issues = append(issues, Issue{
				Message: "denied token",
				Token:   denied,
				Offset:  at,
			})
			from = at + len(denied)
		}
	}

	issues = append(issues, scanFieldTags(query, d.AllowedFieldTags())...)
	return issues
}

// scanFieldTags checks every tag-shaped token in the query against the
// allowed set. The tag notation is inferred from the set itself: bracket
// suffixes, colon prefixes, or uppercase wrapper functions. Dialects with
// no declared tags skip the scan; their foreign notations are covered by
// the denylist.
func scanFieldTags(query string, allowed []string) []Issue {
	if len(allowed) == 0 {
		return nil
	}

	permitted := make(map[string]bool, len(allowed))
	for _, tag := range allowed {
		permitted[tag] = true
	}

	var pattern *regexp.Regexp
	switch {
	case strings.HasPrefix(allowed[0], "["):
		pattern = bracketTagPattern
	case strings.HasSuffix(allowed[0], ":"):
		pattern = colonTagPattern
	default:
		pattern = wrapperTagPattern
	}

	var issues []Issue
	for _, loc := range pattern.FindAllStringSubmatchIndex(query, -1) {
		token := query[loc[2]:loc[3]]
		if !permitted[token] {
			issues = append(issues, Issue{
				Message: "field tag not allowed by dialect",
				Token:   token,
				Offset:  loc[2],
			})
		}
	}
	return issues
}
