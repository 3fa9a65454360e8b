package geology

import (
	"reflect"
	"testing"
)

func TestLegendTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple code", "CI", []string{"CI"}},
		{"hyphen composite", "CI-CH", []string{"CI", "CH"}},
		{"range with to", "CI to CL", []string{"CI", "CL"}},
		{"slash composite", "GW/GM", []string{"GW", "GM"}},
		{"comma list", "SM, SC", []string{"SM", "SC"}},
		{"padded", "  CH  ", []string{"CH"}},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegendTokens(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LegendTokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrimarySymbol(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"CI", "C"},
		{"CH", "C"},
		{"SW", "S"},
		{"GP", "G"},
		{"ML", "M"},
		{"OH", "O"},
		{"Pt", "Pt"},
		{"pt", "Pt"},
		{"XX", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PrimarySymbol(tt.token); got != tt.want {
			t.Errorf("PrimarySymbol(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestSortBySeverity(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"clays ascend plasticity", []string{"CH", "CL", "CI"}, []string{"CL", "CI", "CH"}},
		{"gravels ascend grading", []string{"GC", "GW"}, []string{"GW", "GC"}},
		{"unranked keep order after ranked", []string{"XX", "CL", "YY"}, []string{"CL", "XX", "YY"}},
		{"already sorted stays", []string{"CL", "CI"}, []string{"CL", "CI"}},
		{"single", []string{"CH"}, []string{"CH"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortBySeverity(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortBySeverity(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortBySeverity_DoesNotMutateInput(t *testing.T) {
	input := []string{"CH", "CL"}
	SortBySeverity(input)
	if input[0] != "CH" {
		t.Error("SortBySeverity must not mutate its input")
	}
}

func TestQualifierPhrase(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
		want     string
	}{
		{"single code", "CH", "CH", "high plasticity"},
		{"plasticity range merges", "CL", "CH", "low to high plasticity"},
		{"intermediate range", "CI", "CH", "intermediate to high plasticity"},
		{"grading code", "GW", "GW", "well-graded"},
		{"mixed falls back to first", "GW", "CH", "well-graded"},
		{"unknown yields empty", "XX", "XX", ""},
		{"unknown min falls back to max", "XX", "CH", "high plasticity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualifierPhrase(tt.min, tt.max); got != tt.want {
				t.Errorf("QualifierPhrase(%q, %q) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestColorFor(t *testing.T) {
	if got := ColorFor("CH"); got != "#8B4513" {
		t.Errorf("ColorFor(CH) = %q, want #8B4513", got)
	}
	if got := ColorFor(" CH "); got != "#8B4513" {
		t.Errorf("ColorFor should trim whitespace, got %q", got)
	}
	if got := ColorFor("nope"); got != DefaultColor {
		t.Errorf("ColorFor(unknown) = %q, want default %q", got, DefaultColor)
	}
}

func TestLegend(t *testing.T) {
	legend := Legend()
	if len(legend) != 17 {
		t.Fatalf("legend has %d entries, want 17", len(legend))
	}
	for _, e := range legend {
		if e.Color == "" {
			t.Errorf("entry %s has no color", e.Code)
		}
		if e.Color == DefaultColor {
			t.Errorf("entry %s resolved to the default color", e.Code)
		}
	}
}
