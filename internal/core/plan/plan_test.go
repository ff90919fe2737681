package plan

import (
	"errors"
	"testing"

	"github.com/example/strat/internal/apperr"
)

func TestNewSearchTerm(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		field      FieldClass
		wantText   string
		wantPhrase bool
	}{
		{
			name:       "single word is not a phrase",
			text:       "aspirin",
			field:      FieldKeyword,
			wantText:   "aspirin",
			wantPhrase: false,
		},
		{
			name:       "multi word becomes a phrase",
			text:       "heart attack",
			field:      FieldKeyword,
			wantText:   "heart attack",
			wantPhrase: true,
		},
		{
			name:       "embedded quotes are stripped",
			text:       `"machine learning"`,
			field:      FieldControlledVocab,
			wantText:   "machine learning",
			wantPhrase: true,
		},
		{
			name:       "surrounding whitespace is trimmed",
			text:       "  diabetes  ",
			field:      FieldAny,
			wantText:   "diabetes",
			wantPhrase: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := NewSearchTerm(tt.text, tt.field)
			if term.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", term.Text, tt.wantText)
			}
			if term.IsPhrase != tt.wantPhrase {
				t.Errorf("IsPhrase = %v, want %v", term.IsPhrase, tt.wantPhrase)
			}
			if term.Field != tt.field {
				t.Errorf("Field = %q, want %q", term.Field, tt.field)
			}
		})
	}
}

func TestNewPhraseForcesPhrase(t *testing.T) {
	term := NewPhrase("aspirin", FieldKeyword)
	if !term.IsPhrase {
		t.Error("NewPhrase should mark single words as phrases")
	}
}

func TestConceptGroupValidate(t *testing.T) {
	valid := ConceptGroup{
		Label:    "Treatment",
		Included: []SearchTerm{NewSearchTerm("aspirin", FieldKeyword)},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	empty := ConceptGroup{Label: "Population"}
	err := empty.Validate()
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Validate() = %v, want ErrValidation", err)
	}

	// A group with only exclusions is still invalid.
	onlyExcluded := ConceptGroup{
		Label:    "Noise",
		Excluded: []SearchTerm{NewSearchTerm("mice", FieldKeyword)},
	}
	if err := onlyExcluded.Validate(); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Validate() = %v, want ErrValidation", err)
	}
}

func TestQueryPlanCounts(t *testing.T) {
	var p QueryPlan
	p.AddGroup(ConceptGroup{
		Label: "Population",
		Included: []SearchTerm{
			NewSearchTerm("elderly", FieldKeyword),
			NewSearchTerm("older adults", FieldKeyword),
		},
		Excluded: []SearchTerm{NewSearchTerm("pediatric", FieldKeyword)},
	})
	p.AddGroup(ConceptGroup{
		Label:    "Condition",
		Included: []SearchTerm{NewSearchTerm("diabetes", FieldControlledVocab)},
	})

	if got := p.TermCount(); got != 3 {
		t.Errorf("TermCount() = %d, want 3", got)
	}
	if got := p.ExcludedCount(); got != 1 {
		t.Errorf("ExcludedCount() = %d, want 1", got)
	}
	if len(p.Groups) != 2 {
		t.Errorf("len(Groups) = %d, want 2", len(p.Groups))
	}
}
