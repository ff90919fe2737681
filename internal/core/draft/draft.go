// Package draft builds deterministic draft artifacts from prior approved
// artifacts. Everything here is a pure transformation with no I/O, so the
// same inputs always produce the same draft. These builders back the
// offline proposer and serve as the fallback when an external proposer
// fails.
package draft

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/example/strat/internal/models"
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]`)
	wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]{4,}`)
)

// TitleFromText derives a short title from free text: first sentence,
// title-cased, capped at 80 characters.
func TitleFromText(text string) string {
	first := sentenceEnd.Split(strings.TrimSpace(text), 2)[0]
	first = strings.TrimSpace(first)
	if len(first) > 120 {
		first = first[:120]
	}
	title := titleCase(first)
	if len(title) > 80 {
		title = title[:80]
	}
	if title == "" {
		return "Untitled Project"
	}
	return title
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractKeywords pulls up to ten distinct lowercase words of five or more
// characters, preserving first-seen order.
func ExtractKeywords(text string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]bool, len(tokens))
	var keywords []string
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		keywords = append(keywords, t)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

// BuildProjectContext drafts a ProjectContext from a raw research idea.
func BuildProjectContext(seedInput string) models.ProjectContext {
	return models.ProjectContext{
		Title:            TitleFromText(seedInput),
		ShortDescription: strings.TrimSpace(seedInput),
		Constraints:      map[string]string{},
		InitialKeywords:  ExtractKeywords(seedInput),
	}
}

// BuildProblemFraming drafts a ProblemFraming and ConceptModel from an
// approved ProjectContext.
func BuildProblemFraming(ctx models.ProjectContext) (models.ProblemFraming, models.ConceptModel) {
	framing := models.ProblemFraming{
		ProblemStatement: fmt.Sprintf(
			"The research aims to investigate %s by examining key factors, relationships, and outcomes.",
			strings.ToLower(ctx.Title)),
		ScopeIn:      []string{"Academic literature", "Empirical studies", "Recent publications (last 10 years)"},
		ScopeOut:     []string{"Non-peer-reviewed sources", "Opinion pieces"},
		Stakeholders: []string{"Researchers", "Practitioners"},
	}

	if len(ctx.InitialKeywords) == 0 {
		framing.Goals = []string{"Explore the problem domain"}
	} else {
		for _, kw := range head(ctx.InitialKeywords, 3) {
			framing.Goals = append(framing.Goals, "Understand the role of "+kw)
		}
	}

	var concepts []models.Concept
	for i, kw := range head(ctx.InitialKeywords, 5) {
		concepts = append(concepts, models.Concept{
			ID:          fmt.Sprintf("concept_%d", i),
			Label:       titleCase(kw),
			Description: "Key concept: " + kw,
			Type:        "domain_concept",
		})
	}

	return framing, models.ConceptModel{Concepts: concepts}
}

// BuildResearchQuestions drafts three to five research questions from the
// framing and concept model using fixed templates.
func BuildResearchQuestions(framing models.ProblemFraming, concepts models.ConceptModel) models.ResearchQuestionSet {
	base := make([]string, 0, 5)
	for _, c := range head(concepts.Concepts, 5) {
		base = append(base, c.Label)
	}
	if len(base) == 0 {
		base = []string{"Core Phenomenon"}
	}

	var texts []string
	if framing.ProblemStatement != "" {
		texts = append(texts, fmt.Sprintf("How does %s relate to outcomes described in the problem statement?", base[0]))
	}
	templates := []string{
		"What factors influence %s adoption or effectiveness?",
		"What mechanisms link %s to observed performance or quality measures?",
		"How can %s be optimized to improve reliability or consistency?",
		"What are the barriers and facilitators to integrating %s in practice?",
	}
	for i, tmpl := range templates {
		if len(base) < i+2 {
			break
		}
		texts = append(texts, fmt.Sprintf(tmpl, base[i+1]))
	}

	linked := make([]string, 0, 2)
	for _, c := range head(concepts.Concepts, 2) {
		linked = append(linked, c.ID)
	}

	var questions []models.ResearchQuestion
	for i, text := range texts {
		qType := "explanatory"
		if i == 0 {
			qType = "descriptive"
		}
		priority := models.PriorityNiceToHave
		if i < 3 {
			priority = models.PriorityMustHave
		}
		questions = append(questions, models.ResearchQuestion{
			ID:               fmt.Sprintf("rq_%d", i),
			Text:             text,
			Type:             qType,
			LinkedConceptIDs: linked,
			Priority:         priority,
		})
	}
	return models.ResearchQuestionSet{Questions: questions}
}

// BuildSearchConceptBlocks drafts one concept block per concept with simple
// surface variations of the label (lowercase, hyphenated, plural).
func BuildSearchConceptBlocks(concepts models.ConceptModel) models.SearchConceptBlocks {
	var blocks []models.SearchConceptBlock
	for i, concept := range head(concepts.Concepts, 6) {
		label := concept.Label
		terms := []string{label, strings.ToLower(label), strings.ReplaceAll(label, " ", "-")}
		if !strings.HasSuffix(label, "s") {
			terms = append(terms, label+"s")
		}
		blocks = append(blocks, models.SearchConceptBlock{
			ID:            fmt.Sprintf("block_%d", i),
			Label:         label,
			Description:   concept.Description,
			TermsIncluded: dedupeSorted(terms),
		})
	}
	return models.SearchConceptBlocks{Blocks: blocks}
}

// BuildScreeningCriteria drafts inclusion and exclusion criteria from the
// research questions and, when available, the framing scope.
func BuildScreeningCriteria(rqs models.ResearchQuestionSet, framing *models.ProblemFraming) models.ScreeningCriteria {
	var inclusion []string

	mustHave := 0
	for _, q := range rqs.Questions {
		if q.Priority == models.PriorityMustHave {
			mustHave++
		}
	}
	if mustHave > 0 {
		inclusion = append(inclusion, fmt.Sprintf("Studies addressing primary research questions (n=%d)", mustHave))
	}
	if framing != nil {
		for _, item := range head(framing.ScopeIn, 3) {
			inclusion = append(inclusion, "Studies within scope: "+item)
		}
	}
	inclusion = append(inclusion,
		"Peer-reviewed publications (journal articles, conference papers)",
		"Original research studies (empirical data)",
		"Full-text available for quality assessment",
		"Published in English (or specify other languages as needed)",
		"Scholarly publications (excludes preprints unless from reputable archives)",
	)

	exclusion := []string{
		"Non-scholarly sources (blogs, forums, social media, press releases)",
		"Opinion pieces, editorials, and commentaries without empirical data",
		"Books, book chapters, and theses (unless specifically relevant)",
	}
	if framing != nil {
		for _, item := range head(framing.ScopeOut, 5) {
			exclusion = append(exclusion, "Studies outside scope: "+item)
		}
	}
	exclusion = append(exclusion,
		"Studies without clear methodology",
		"Studies with insufficient detail to assess quality",
		"Duplicate publications (same study, different venues)",
		"Studies not available in full text",
		"Retracted publications",
		"Studies not addressing the research questions despite keyword matches",
	)

	return models.ScreeningCriteria{
		InclusionCriteria: inclusion,
		ExclusionCriteria: exclusion,
	}
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func dedupeSorted(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
