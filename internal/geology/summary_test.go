package geology

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/quarrydev/strata/internal/errors"
)

func TestSummarize_ScenarioTwoBoreholeFill(t *testing.T) {
	// Two depth-overlapping fill clays (CI, CL) in BH01 and BH02 form a
	// single unit F1 whose extent lists both boreholes.
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "0.3", "Legend": "CI"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "0", "BASE": "0.3", "Legend": "CL"}),
	}

	result, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if len(result.Summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(result.Summaries))
	}

	s := result.Summaries[0]
	if s.UnitCode != "F1" {
		t.Errorf("UnitCode = %q, want F1", s.UnitCode)
	}
	if !reflect.DeepEqual(result.Units[0].Classifications, []string{"CI", "CL"}) {
		t.Errorf("Classifications = %v, want [CI CL]", result.Units[0].Classifications)
	}
	want := "Encountered from approximately 0.0 to 0.3 mbgl in BH01, BH02."
	if s.ExtentText != want {
		t.Errorf("ExtentText = %q, want %q", s.ExtentText, want)
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "0", "BASE": "1.2", "Legend": "CI", "Origin1": "Fill"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "1.0", "Legend": "CL", "Origin1": "Fill"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "1.0", "BASE": "4.0", "Legend": "GW", "Origin1": "Residual"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "1.2", "BASE": "3.8", "Legend": "SM", "Origin1": "Residual"}),
		makeRow(map[string]string{"POINT_ID": "BH03", "TOP": "0.4", "BASE": "2.2", "Legend": "CH", "Origin1": "Alluvium"}),
	}

	first, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	second, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	// Byte-identical output under fixed tie-break rules.
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("repeated runs must produce byte-identical output")
	}
}

func TestSummarize_TableOrderByOriginPriority(t *testing.T) {
	// Input order is deliberately scrambled: the table orders Fill,
	// Residual, Alluvium, Colluvium, Unknown, with ascending sequences.
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "4", "BASE": "6", "Legend": "CH", "Origin1": "Alluvium"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "8", "BASE": "9", "Legend": "SM", "Origin1": "mystery"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "2", "BASE": "4", "Legend": "CI", "Origin1": "Residual"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "2", "Legend": "GW", "Origin1": "Fill"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "6", "BASE": "8", "Legend": "CL", "Origin1": "Colluvium"}),
	}

	result, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	var codes []string
	for _, s := range result.Summaries {
		codes = append(codes, s.UnitCode)
	}
	want := []string{"F1", "R1", "AL1", "CO1", "U1"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
}

func TestSummarize_BoreholeFilter(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "1", "Legend": "CI"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "0", "BASE": "1", "Legend": "CL"}),
		makeRow(map[string]string{"POINT_ID": "BH03", "TOP": "0", "BASE": "1", "Legend": "CH"}),
	}

	result, err := Summarize(rows, Options{Boreholes: []string{"BH01", "BH03"}})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !reflect.DeepEqual(result.Boreholes, []string{"BH01", "BH03"}) {
		t.Errorf("Boreholes = %v, want [BH01 BH03]", result.Boreholes)
	}
	for _, rec := range result.Records {
		if rec.BoreholeID == "BH02" {
			t.Error("filtered borehole BH02 must not appear in records")
		}
	}
}

func TestSummarize_FilterIdempotent(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "1", "Legend": "CI"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "0", "BASE": "1", "Legend": "GW", "Origin1": "Residual"}),
	}
	opts := Options{Boreholes: []string{"BH01"}}

	first, err := Summarize(rows, opts)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	second, err := Summarize(rows, opts)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("running twice on the identical subset must be identical")
	}
}

func TestSummarize_EmptySelection(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01"}),
	}

	_, err := Summarize(rows, Options{Boreholes: []string{"BH99"}})
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("got %v, want EMPTY_SELECTION", err)
	}

	_, err = Summarize(nil, Options{})
	if !errors.Is(err, errors.ErrEmptySelection) {
		t.Errorf("empty input: got %v, want EMPTY_SELECTION", err)
	}
}

func TestSummarize_SkippedRowsReported(t *testing.T) {
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01"}),
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "5", "BASE": "4"}),
	}

	result, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].Index != 1 {
		t.Errorf("Skipped = %v, want the second row reported", result.Skipped)
	}
	if len(result.Records) != 1 {
		t.Errorf("got %d records, want 1", len(result.Records))
	}
}

func TestSummarize_AllBoreholesWording(t *testing.T) {
	// Scenario: a unit present in all three boreholes uses the "all
	// boreholes" wording; a subset unit lists IDs.
	rows := []Row{
		makeRow(map[string]string{"POINT_ID": "BH01", "TOP": "0", "BASE": "1", "Legend": "CI"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "0", "BASE": "1.1", "Legend": "CL"}),
		makeRow(map[string]string{"POINT_ID": "BH03", "TOP": "0", "BASE": "0.9", "Legend": "CH"}),
		makeRow(map[string]string{"POINT_ID": "BH02", "TOP": "5", "BASE": "7", "Legend": "GW", "Origin1": "Residual"}),
	}

	result, err := Summarize(rows, Options{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if len(result.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(result.Summaries))
	}

	fill := result.Summaries[0]
	if fill.ExtentText != "Encountered from approximately 0.0 to 1.1 mbgl in all boreholes." {
		t.Errorf("fill extent = %q", fill.ExtentText)
	}

	residual := result.Summaries[1]
	if residual.ExtentText != "Encountered from approximately 5.0 to 7.0 mbgl in BH02." {
		t.Errorf("residual extent = %q", residual.ExtentText)
	}
}
