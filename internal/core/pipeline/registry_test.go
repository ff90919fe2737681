package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/example/strat/internal/apperr"
)

func researchDefs() []Definition {
	return []Definition{
		{Name: "project-setup", Produces: []string{"ProjectContext"}},
		{Name: "problem-framing", Requires: []string{"ProjectContext"}, Produces: []string{"ProblemFraming", "ConceptModel"}},
		{Name: "research-questions", Requires: []string{"ProblemFraming", "ConceptModel"}, Produces: []string{"ResearchQuestionSet"}},
		{Name: "search-concept-expansion", Requires: []string{"ConceptModel", "ResearchQuestionSet"}, Produces: []string{"SearchConceptBlocks"}},
		{Name: "database-query-plan", Requires: []string{"SearchConceptBlocks"}, Produces: []string{"DatabaseQueryPlan"}},
		{Name: "screening-criteria", Requires: []string{"ResearchQuestionSet"}, Produces: []string{"ScreeningCriteria"}},
		{Name: "strategy-export", Requires: []string{"DatabaseQueryPlan", "ScreeningCriteria"}, Produces: []string{"StrategyExportBundle"}},
	}
}

func loadedRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, def := range researchDefs() {
		if err := r.Register(def); err != nil {
			t.Fatalf("Register(%s) failed: %v", def.Name, err)
		}
	}
	return r
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := loadedRegistry(t)
	err := r.Register(Definition{Name: "project-setup", Produces: []string{"Other"}})
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("duplicate Register = %v, want ErrConfiguration", err)
	}
}

func TestRegisterRejectsCycles(t *testing.T) {
	r := loadedRegistry(t)

	// StrategyExportBundle feeding back into ProjectContext closes a loop.
	err := r.Register(Definition{
		Name:     "loopback",
		Requires: []string{"StrategyExportBundle"},
		Produces: []string{"ProjectContext"},
	})
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("cyclic Register = %v, want ErrConfiguration", err)
	}

	// The rejected definition must not leak into the registry.
	if _, ok := r.Get("loopback"); ok {
		t.Error("rejected stage is still registered")
	}
	if got := len(r.All()); got != 7 {
		t.Errorf("len(All()) = %d, want 7", got)
	}
}

func TestSelfCycleRejected(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{
		Name:     "refine",
		Requires: []string{"Draft"},
		Produces: []string{"Draft"},
	})
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("self-cycle Register = %v, want ErrConfiguration", err)
	}
}

func TestNextAvailable(t *testing.T) {
	r := loadedRegistry(t)

	tests := []struct {
		name     string
		approved []string
		want     []string
	}{
		{
			name: "fresh project",
			want: []string{"project-setup"},
		},
		{
			name:     "context approved",
			approved: []string{"ProjectContext"},
			want:     []string{"problem-framing"},
		},
		{
			name:     "framing approved",
			approved: []string{"ProjectContext", "ProblemFraming", "ConceptModel"},
			want:     []string{"research-questions"},
		},
		{
			name: "questions approved unlocks two branches",
			approved: []string{
				"ProjectContext", "ProblemFraming", "ConceptModel", "ResearchQuestionSet",
			},
			want: []string{"search-concept-expansion", "screening-criteria"},
		},
		{
			name: "everything approved",
			approved: []string{
				"ProjectContext", "ProblemFraming", "ConceptModel", "ResearchQuestionSet",
				"SearchConceptBlocks", "DatabaseQueryPlan", "ScreeningCriteria", "StrategyExportBundle",
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approved := map[string]bool{}
			for _, a := range tt.approved {
				approved[a] = true
			}
			got := r.NextAvailable(approved)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NextAvailable() = %v, want %v", got, tt.want)
			}

			// Soundness: every surfaced stage has its requirements met.
			for _, name := range got {
				def, ok := r.Get(name)
				if !ok {
					t.Fatalf("NextAvailable returned unknown stage %s", name)
				}
				if missing := def.MissingRequirements(approved); len(missing) > 0 {
					t.Errorf("stage %s surfaced with missing requirements %v", name, missing)
				}
			}
		})
	}
}

func TestMissingRequirements(t *testing.T) {
	def := Definition{
		Name:     "research-questions",
		Requires: []string{"ProblemFraming", "ConceptModel"},
		Produces: []string{"ResearchQuestionSet"},
	}
	got := def.MissingRequirements(map[string]bool{"ProblemFraming": true})
	if !reflect.DeepEqual(got, []string{"ConceptModel"}) {
		t.Errorf("MissingRequirements = %v, want [ConceptModel]", got)
	}
}
