package chunker

import (
	"reflect"
	"strings"
	"testing"

	"textsplit/internal/domain"
)

func TestSplitUnits(t *testing.T) {
	tests := []struct {
		name     string
		by       domain.SplitBy
		input    string
		expected []string
	}{
		{"words", domain.SplitByWord, "one two  three", []string{"one ", "two  ", "three"}},
		{"words leading space", domain.SplitByWord, "  one two\n", []string{"  one ", "two\n"}},
		{"words blank", domain.SplitByWord, " \t\n", nil},
		{"sentences", domain.SplitBySentence, "Hi there. How are you? Fine!", []string{"Hi there. ", "How are you? ", "Fine!"}},
		{"sentence abbreviation", domain.SplitBySentence, "See e.g.this one. Next", []string{"See e.g.this one. ", "Next"}},
		{"sentence ellipsis", domain.SplitBySentence, "Wait... what?!  Ok", []string{"Wait... ", "what?!  ", "Ok"}},
		{"sentence blank", domain.SplitBySentence, "   ", nil},
		{"passages", domain.SplitByPassage, "first\nstill first\n\nsecond\n\n\n\nthird", []string{"first\nstill first\n\n", "second\n\n\n\n", "third"}},
		{"passage leading blank", domain.SplitByPassage, "\n\nbody", []string{"\n\nbody"}},
		{"pages", domain.SplitByPage, "page one\fpage two\f", []string{"page one\f", "page two\f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitUnits(tt.input, tt.by)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitUnits(%q, %s) = %q, want %q", tt.input, tt.by, got, tt.expected)
			}
			if len(got) > 0 && strings.Join(got, "") != tt.input {
				t.Errorf("units of %q do not join back to the input", tt.input)
			}
		})
	}
}
