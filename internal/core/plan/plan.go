// Package plan contains the structured query plan model.
// This is part of the Functional Core - pure value objects, no I/O.
package plan

import (
	"strings"

	"github.com/example/strat/internal/apperr"
)

// FieldClass identifies which search field a term targets.
type FieldClass string

const (
	// FieldKeyword searches title/abstract/keyword fields.
	FieldKeyword FieldClass = "keyword"
	// FieldControlledVocab searches a controlled vocabulary (MeSH, Emtree).
	FieldControlledVocab FieldClass = "controlled"
	// FieldAny searches all fields.
	FieldAny FieldClass = "any"
)

// SearchTerm is an atomic search unit.
type SearchTerm struct {
	Text     string
	Field    FieldClass
	IsPhrase bool
}

// NewSearchTerm builds a term, stripping embedded quote characters and
// marking multi-word text as a phrase.
func NewSearchTerm(text string, field FieldClass) SearchTerm {
	clean := strings.TrimSpace(strings.ReplaceAll(text, `"`, ""))
	return SearchTerm{
		Text:     clean,
		Field:    field,
		IsPhrase: strings.ContainsAny(clean, " \t"),
	}
}

// NewPhrase builds a term with phrase treatment forced on, regardless of
// whitespace content.
func NewPhrase(text string, field FieldClass) SearchTerm {
	term := NewSearchTerm(text, field)
	term.IsPhrase = true
	return term
}

// ConceptGroup is a set of synonymous terms combined with OR, optionally
// paired with excluded terms.
type ConceptGroup struct {
	Label    string
	Included []SearchTerm
	Excluded []SearchTerm
}

// Validate rejects groups with no included terms. A group holding only
// exclusions must never render as an empty parenthesis pair.
func (g ConceptGroup) Validate() error {
	if len(g.Included) == 0 {
		label := g.Label
		if label == "" {
			label = "(unnamed)"
		}
		return apperr.Validation("concept group %s has no included terms", label)
	}
	return nil
}

// QueryPlan is an ordered sequence of concept groups. Insertion order is
// the AND-join order of the rendered query.
type QueryPlan struct {
	Groups []ConceptGroup
}

// AddGroup appends a group, preserving AND order.
func (p *QueryPlan) AddGroup(g ConceptGroup) {
	p.Groups = append(p.Groups, g)
}

// TermCount returns the total number of included terms across all groups.
func (p QueryPlan) TermCount() int {
	total := 0
	for _, g := range p.Groups {
		total += len(g.Included)
	}
	return total
}

// ExcludedCount returns the total number of excluded terms across all groups.
func (p QueryPlan) ExcludedCount() int {
	total := 0
	for _, g := range p.Groups {
		total += len(g.Excluded)
	}
	return total
}
