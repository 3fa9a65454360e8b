package geology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quarrydev/strata/internal/errors"
)

// RequiredColumns lists the CSV columns the pipeline needs, in contract
// order. Column names are case-sensitive.
var RequiredColumns = []string{
	"PROJ_ID",
	"POINT_ID",
	"TOP",
	"BASE",
	"Legend",
	"Description",
	"Classification",
	"Origin1",
	"Color",
}

// NormalizeResult holds the outcome of row normalization.
type NormalizeResult struct {
	// Records are the accepted layer records in input order
	Records []LayerRecord `json:"records"`

	// Skipped lists rejected rows with reasons; the run continues past them
	Skipped []SkippedRow `json:"skipped,omitempty"`
}

// NormalizeRows validates and coerces raw rows into LayerRecords.
//
// Missing required columns are fatal for the whole run and reported as a
// MISSING_COLUMNS error listing every absent name. Individual malformed rows
// (non-numeric TOP/BASE, BASE <= TOP, empty Legend) are skipped and recorded,
// never aborting the run. The input is not mutated.
func NormalizeRows(rows []Row) (*NormalizeResult, error) {
	if len(rows) > 0 {
		if missing := missingColumns(rows[0]); len(missing) > 0 {
			return nil, errors.NewMissingColumns(missing)
		}
	}

	result := &NormalizeResult{
		Records: make([]LayerRecord, 0, len(rows)),
	}

	for i, row := range rows {
		rec, reason := normalizeRow(row, i)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Index: i, Reason: reason})
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// missingColumns returns required column names absent from the row,
// preserving contract order.
func missingColumns(row Row) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := row[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// normalizeRow coerces a single raw row. A non-empty reason means the row
// is rejected.
func normalizeRow(row Row, index int) (LayerRecord, string) {
	top, err := strconv.ParseFloat(strings.TrimSpace(row["TOP"]), 64)
	if err != nil {
		return LayerRecord{}, fmt.Sprintf("TOP is not numeric: %q", row["TOP"])
	}
	base, err := strconv.ParseFloat(strings.TrimSpace(row["BASE"]), 64)
	if err != nil {
		return LayerRecord{}, fmt.Sprintf("BASE is not numeric: %q", row["BASE"])
	}

	// Depths below ground level are non-negative; clamp small survey
	// artifacts at the surface.
	if top < 0 {
		top = 0
	}

	if base <= top {
		return LayerRecord{}, fmt.Sprintf("BASE (%v) must be greater than TOP (%v)", base, top)
	}

	legend := strings.TrimSpace(row["Legend"])
	if legend == "" {
		return LayerRecord{}, "Legend must not be empty"
	}

	return LayerRecord{
		ProjectID:      strings.TrimSpace(row["PROJ_ID"]),
		BoreholeID:     strings.TrimSpace(row["POINT_ID"]),
		TopDepth:       top,
		BaseDepth:      base,
		LegendCode:     legend,
		Description:    strings.TrimSpace(row["Description"]),
		Classification: strings.TrimSpace(row["Classification"]),
		Origin:         strings.TrimSpace(row["Origin1"]),
		Color:          strings.TrimSpace(row["Color"]),
		RowIndex:       index,
	}, ""
}
