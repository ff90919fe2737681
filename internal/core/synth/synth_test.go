package synth

import (
	"strings"
	"testing"

	"github.com/example/strat/internal/core/dialect"
	"github.com/example/strat/internal/core/plan"
)

func cardiologyPlan() plan.QueryPlan {
	var p plan.QueryPlan
	p.AddGroup(plan.ConceptGroup{
		Label: "Population",
		Included: []plan.SearchTerm{
			plan.NewSearchTerm("heart attack", plan.FieldKeyword),
			plan.NewSearchTerm("myocardial infarction", plan.FieldControlledVocab),
		},
	})
	p.AddGroup(plan.ConceptGroup{
		Label:    "Treatment",
		Included: []plan.SearchTerm{plan.NewSearchTerm("aspirin", plan.FieldKeyword)},
	})
	return p
}

func TestSynthesizePubMed(t *testing.T) {
	s := New(dialect.Builtin())

	res, err := s.Synthesize(cardiologyPlan(), dialect.PubMed)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	want := `("heart attack"[Title/Abstract] OR "myocardial infarction"[MeSH Terms])` +
		"\nAND\n" + "aspirin[Title/Abstract]"
	if res.Query != want {
		t.Errorf("Query =\n%q\nwant\n%q", res.Query, want)
	}
	if len(res.Issues) != 0 {
		t.Errorf("Issues = %v, want none", res.Issues)
	}

	// The single-term Treatment group must render unwrapped.
	if strings.Contains(res.Query, "(aspirin") {
		t.Error("single-term group gained an enclosing wrapper")
	}
}

func TestSynthesizeScopus(t *testing.T) {
	s := New(dialect.Builtin())

	res, err := s.Synthesize(cardiologyPlan(), dialect.Scopus)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	want := `TITLE-ABS-KEY("heart attack" OR "myocardial infarction") AND TITLE-ABS-KEY(aspirin)`
	if res.Query != want {
		t.Errorf("Query = %q, want %q", res.Query, want)
	}
	if n := strings.Count(res.Query, "TITLE-ABS-KEY"); n != 2 {
		t.Errorf("wrapper count = %d, want one per group", n)
	}
	if !strings.Contains(res.Query, " AND ") {
		t.Error("groups must be joined with a literal AND token")
	}
}

func TestSynthesizePubMedExcludesPerGroup(t *testing.T) {
	s := New(dialect.Builtin())
	p := cardiologyPlan()
	p.Groups[0].Excluded = []plan.SearchTerm{plan.NewSearchTerm("mice", plan.FieldKeyword)}

	res, err := s.Synthesize(p, dialect.PubMed)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	// The exclusion attaches to its own group, ahead of the AND join,
	// and a single excluded term stays unwrapped.
	want := `("heart attack"[Title/Abstract] OR "myocardial infarction"[MeSH Terms]) NOT mice[Title/Abstract]` +
		"\nAND\n" + "aspirin[Title/Abstract]"
	if res.Query != want {
		t.Errorf("Query =\n%q\nwant\n%q", res.Query, want)
	}
}

func TestSynthesizeDeterminism(t *testing.T) {
	s := New(dialect.Builtin())
	p := cardiologyPlan()

	for _, id := range s.Registry().IDs() {
		first, err := s.Synthesize(p, id)
		if err != nil {
			t.Fatalf("Synthesize(%s) error = %v", id, err)
		}
		second, err := s.Synthesize(p, id)
		if err != nil {
			t.Fatalf("Synthesize(%s) error = %v", id, err)
		}
		if first.Query != second.Query {
			t.Errorf("dialect %s: repeated synthesis diverged:\n%q\n%q", id, first.Query, second.Query)
		}
	}
}

func TestSynthesizeOutputPassesOwnGate(t *testing.T) {
	s := New(dialect.Builtin())
	p := cardiologyPlan()
	p.Groups[0].Excluded = []plan.SearchTerm{plan.NewSearchTerm("animal model", plan.FieldKeyword)}

	for _, id := range s.Registry().IDs() {
		res, err := s.Synthesize(p, id)
		if err != nil {
			t.Fatalf("Synthesize(%s) error = %v", id, err)
		}
		if len(res.Issues) != 0 {
			t.Errorf("dialect %s flagged its own deterministic output: %v", id, res.Issues)
		}
		d, _ := s.Registry().Get(id)
		for _, denied := range d.Denylist() {
			if strings.Contains(res.Query, denied) {
				t.Errorf("dialect %s output contains denied token %q: %s", id, denied, res.Query)
			}
		}
	}
}

func TestSynthesizeRejectsEmptyPlan(t *testing.T) {
	s := New(dialect.Builtin())

	res, err := s.Synthesize(plan.QueryPlan{}, dialect.PubMed)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if res.Query != "" {
		t.Errorf("Query = %q, want empty", res.Query)
	}
	if len(res.Issues) == 0 {
		t.Fatal("empty plan produced no issues")
	}
	if res.Report.Category != CategoryInvalid {
		t.Errorf("Category = %q, want invalid", res.Report.Category)
	}
}

func TestSynthesizeAccumulatesGroupErrors(t *testing.T) {
	s := New(dialect.Builtin())

	var p plan.QueryPlan
	p.AddGroup(plan.ConceptGroup{Label: "Empty One"})
	p.AddGroup(plan.ConceptGroup{Label: "Empty Two"})

	res, err := s.Synthesize(p, dialect.PubMed)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(res.Issues) != 2 {
		t.Errorf("Issues = %v, want one per empty group", res.Issues)
	}
	if res.Query != "" {
		t.Errorf("Query = %q, want empty for invalid plan", res.Query)
	}
}

func TestSynthesizeUnknownDialect(t *testing.T) {
	s := New(dialect.Builtin())
	if _, err := s.Synthesize(cardiologyPlan(), "embase"); err == nil {
		t.Error("unknown dialect should be a hard error")
	}
}

func TestGateFlagsForeignStrings(t *testing.T) {
	r := dialect.Builtin()
	pubmed, _ := r.Get(dialect.PubMed)

	// An externally proposed candidate using Scopus notation must be caught.
	candidate := `TITLE-ABS-KEY(diabetes) AND insulin[Title/Abstract]`
	issues := Gate(candidate, pubmed)
	if len(issues) == 0 {
		t.Fatal("gate missed a foreign wrapper token")
	}
	found := false
	for _, issue := range issues {
		if issue.Token == "TITLE-ABS-KEY" && issue.Offset == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want TITLE-ABS-KEY at offset 0", issues)
	}
}

func TestGateFlagsUnknownFieldTag(t *testing.T) {
	r := dialect.Builtin()
	pubmed, _ := r.Get(dialect.PubMed)

	issues := Gate(`aspirin[Author]`, pubmed)
	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", issues)
	}
	if issues[0].Token != "[Author]" || issues[0].Offset != 7 {
		t.Errorf("issue = %+v, want [Author] at offset 7", issues[0])
	}
}

func TestGateIgnoresColonInsidePhrase(t *testing.T) {
	r := dialect.Builtin()
	arxiv, _ := r.Get(dialect.Arxiv)

	// A colon inside a quoted phrase is punctuation, not a field tag.
	issues := Gate(`all:"covid: a review" AND ti:vaccines`, arxiv)
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}

	// A tag-shaped token at a token start is still checked.
	issues = Gate(`all:covid AND author:smith`, arxiv)
	if len(issues) != 1 || issues[0].Token != "author:" {
		t.Errorf("issues = %v, want author: flagged", issues)
	}
}

func TestGateAppliesToExclusions(t *testing.T) {
	r := dialect.Builtin()
	pubmed, _ := r.Get(dialect.PubMed)

	// Excluded terms get the same tag scrutiny as included ones.
	issues := Gate(`aspirin[Title/Abstract] NOT mice[Species]`, pubmed)
	if len(issues) != 1 || issues[0].Token != "[Species]" {
		t.Errorf("issues = %v, want [Species] flagged", issues)
	}
}
