package geology

import (
	"testing"

	"github.com/quarrydev/strata/internal/errors"
)

// makeRow builds a complete valid raw row with overrides applied.
func makeRow(overrides map[string]string) Row {
	row := Row{
		"PROJ_ID":        "P-100",
		"POINT_ID":       "BH01",
		"TOP":            "0.0",
		"BASE":           "1.5",
		"Legend":         "CI",
		"Description":    "Stiff clay",
		"Classification": "CI",
		"Origin1":        "Fill",
		"Color":          "red brown",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestNormalizeRows_HappyPath(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"TOP": " 0.0 ", "BASE": " 1.5 ", "Legend": " CI "}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "1.5", "BASE": "3.0"}),
	}

	result, err := NormalizeRows(rows)
	if err != nil {
		t.Fatalf("NormalizeRows failed: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("got %d skipped rows, want 0", len(result.Skipped))
	}

	first := result.Records[0]
	if first.LegendCode != "CI" {
		t.Errorf("LegendCode = %q, want trimmed %q", first.LegendCode, "CI")
	}
	if first.TopDepth != 0.0 || first.BaseDepth != 1.5 {
		t.Errorf("depths = (%v, %v), want (0, 1.5)", first.TopDepth, first.BaseDepth)
	}
	if first.RowIndex != 0 || result.Records[1].RowIndex != 1 {
		t.Error("RowIndex must preserve input order")
	}
}

func TestNormalizeRows_MissingColumns(t *testing.T) {
	// Scenario: a CSV without the Origin1 column fails the whole run,
	// naming exactly the absent column.
	row := makeRow(nil)
	delete(row, "Origin1")

	_, err := NormalizeRows([]Row{row})
	if err == nil {
		t.Fatal("expected MISSING_COLUMNS error")
	}

	gErr, ok := err.(*errors.GeoError)
	if !ok || gErr.Code != errors.ErrMissingColumns {
		t.Fatalf("got %v, want MISSING_COLUMNS", err)
	}

	missing := gErr.Details["missing_columns"].([]string)
	if len(missing) != 1 || missing[0] != "Origin1" {
		t.Errorf("missing = %v, want [Origin1]", missing)
	}
}

func TestNormalizeRows_MissingColumns_Multiple(t *testing.T) {
	row := makeRow(nil)
	delete(row, "TOP")
	delete(row, "Color")

	_, err := NormalizeRows([]Row{row})
	gErr, ok := err.(*errors.GeoError)
	if !ok {
		t.Fatalf("got %v, want GeoError", err)
	}

	// Contract order: TOP before Color
	missing := gErr.Details["missing_columns"].([]string)
	if len(missing) != 2 || missing[0] != "TOP" || missing[1] != "Color" {
		t.Errorf("missing = %v, want [TOP Color]", missing)
	}
}

func TestNormalizeRows_InvalidRowsSkipped(t *testing.T) {
	// Scenario: one bad row among nine valid ones is skipped and reported;
	// the run does not abort.
	rows := make([]Row, 0, 10)
	for i := 0; i < 4; i++ {
		rows = append(rows, makeRow(nil))
	}
	rows = append(rows, makeRow(map[string]string{"TOP": "2.0", "BASE": "1.0"})) // BASE <= TOP
	for i := 0; i < 5; i++ {
		rows = append(rows, makeRow(nil))
	}

	result, err := NormalizeRows(rows)
	if err != nil {
		t.Fatalf("NormalizeRows failed: %v", err)
	}

	if len(result.Records) != 9 {
		t.Errorf("got %d records, want 9", len(result.Records))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skipped, want 1", len(result.Skipped))
	}
	if result.Skipped[0].Index != 4 {
		t.Errorf("skipped index = %d, want 4", result.Skipped[0].Index)
	}
}

func TestNormalizeRows_RowRejections(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{"non-numeric TOP", map[string]string{"TOP": "abc"}},
		{"non-numeric BASE", map[string]string{"BASE": ""}},
		{"BASE equals TOP", map[string]string{"TOP": "1.0", "BASE": "1.0"}},
		{"BASE below TOP", map[string]string{"TOP": "3.0", "BASE": "2.0"}},
		{"empty Legend", map[string]string{"Legend": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeRows([]Row{makeRow(tt.overrides)})
			if err != nil {
				t.Fatalf("NormalizeRows failed: %v", err)
			}
			if len(result.Records) != 0 {
				t.Errorf("got %d records, want 0", len(result.Records))
			}
			if len(result.Skipped) != 1 {
				t.Errorf("got %d skipped, want 1", len(result.Skipped))
			}
		})
	}
}

func TestNormalizeRows_ClampsNegativeTop(t *testing.T) {
	result, err := NormalizeRows([]Row{makeRow(map[string]string{"TOP": "-0.05", "BASE": "1.0"})})
	if err != nil {
		t.Fatalf("NormalizeRows failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Records[0].TopDepth != 0 {
		t.Errorf("TopDepth = %v, want clamped 0", result.Records[0].TopDepth)
	}
}

func TestNormalizeRows_EmptyInput(t *testing.T) {
	result, err := NormalizeRows(nil)
	if err != nil {
		t.Fatalf("NormalizeRows failed: %v", err)
	}
	if len(result.Records) != 0 || len(result.Skipped) != 0 {
		t.Error("empty input should yield an empty result")
	}
}
