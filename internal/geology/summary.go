package geology

import (
	"github.com/quarrydev/strata/internal/errors"
)

// Options configures a pipeline run. Zero values fall back to the package
// defaults, so Options{} is a valid configuration.
type Options struct {
	// OverlapFraction is the grouping depth-overlap threshold (default 0.5)
	OverlapFraction float64

	// AllBoreholesMin gates the "in all boreholes" extent wording (default 3)
	AllBoreholesMin int

	// Keywords overrides DefaultQualifierKeywords for description synthesis
	Keywords []string

	// Boreholes restricts the run to the given borehole IDs. Empty means all.
	Boreholes []string
}

// Result is the complete output of one pipeline run.
type Result struct {
	// Records are the filtered, normalized layer records in input order
	// (pass-through for raw display/export)
	Records []LayerRecord `json:"records"`

	// Skipped lists rejected input rows
	Skipped []SkippedRow `json:"skipped,omitempty"`

	// Boreholes are the distinct borehole IDs in the run, first-seen order
	Boreholes []string `json:"boreholes"`

	// Units are the grouped geological units
	Units []*GeologicalUnit `json:"units"`

	// Summaries is the ordered subsurface conditions summary table
	Summaries []UnitSummary `json:"summaries"`
}

// Summarize runs the full pipeline: normalize rows, filter by borehole,
// group into units, synthesize descriptions and extents, and assemble the
// ordered summary table. It is a pure function of (rows, opts); running it
// twice on the same input yields identical output.
func Summarize(rows []Row, opts Options) (*Result, error) {
	normalized, err := NormalizeRows(rows)
	if err != nil {
		return nil, err
	}

	records := filterBoreholes(normalized.Records, opts.Boreholes)
	if len(records) == 0 {
		return nil, errors.NewEmptySelection()
	}

	var boreholes []string
	for _, rec := range records {
		if !containsString(boreholes, rec.BoreholeID) {
			boreholes = append(boreholes, rec.BoreholeID)
		}
	}

	units := GroupUnits(records, GroupOptions{OverlapFraction: opts.OverlapFraction})

	summaries := make([]UnitSummary, 0, len(units))
	// GroupUnits already emits units in display-priority origin order with
	// ascending per-origin sequence, which is exactly the table order.
	for _, u := range units {
		minDepth, maxDepth, unitBoreholes, extent := Extent(u, len(boreholes), opts.AllBoreholesMin)
		summaries = append(summaries, UnitSummary{
			UnitCode:    u.Code,
			Description: Describe(u, opts.Keywords),
			ExtentText:  extent,
			BoreholeIDs: unitBoreholes,
			MinDepth:    minDepth,
			MaxDepth:    maxDepth,
			Origin:      u.Origin,
			Sequence:    u.Sequence,
		})
	}

	return &Result{
		Records:   records,
		Skipped:   normalized.Skipped,
		Boreholes: boreholes,
		Units:     units,
		Summaries: summaries,
	}, nil
}

// filterBoreholes returns records whose borehole ID is in the selection,
// preserving input order. An empty selection keeps everything.
func filterBoreholes(records []LayerRecord, selection []string) []LayerRecord {
	if len(selection) == 0 {
		return records
	}
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	filtered := make([]LayerRecord, 0, len(records))
	for _, rec := range records {
		if selected[rec.BoreholeID] {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
