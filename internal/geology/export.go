package geology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quarrydev/strata/internal/errors"
)

// SummaryColumns is the flat CSV header for the summary table.
var SummaryColumns = []string{"Unit", "Description", "Extent", "Min_Depth", "Max_Depth", "Boreholes"}

// boreholeListSep separates borehole IDs inside the Boreholes CSV cell.
const boreholeListSep = "; "

// SummaryRows renders summaries as CSV rows, header included. Depths render
// with one decimal place, matching the rounding applied by the extent
// calculator.
func SummaryRows(summaries []UnitSummary) [][]string {
	rows := make([][]string, 0, len(summaries)+1)
	rows = append(rows, SummaryColumns)
	for _, s := range summaries {
		rows = append(rows, []string{
			s.UnitCode,
			s.Description,
			s.ExtentText,
			strconv.FormatFloat(s.MinDepth, 'f', 1, 64),
			strconv.FormatFloat(s.MaxDepth, 'f', 1, 64),
			strings.Join(s.BoreholeIDs, boreholeListSep),
		})
	}
	return rows
}

// ParseSummaryRows reads summary CSV rows (header included) back into
// UnitSummary values. Round-trips with SummaryRows: unit code, description
// and depth bounds are preserved exactly.
func ParseSummaryRows(rows [][]string) ([]UnitSummary, error) {
	if len(rows) == 0 {
		return nil, errors.NewInvalidRequest("summary CSV is empty")
	}
	if len(rows[0]) != len(SummaryColumns) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("summary CSV header must have %d columns", len(SummaryColumns)))
	}

	summaries := make([]UnitSummary, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(SummaryColumns) {
			return nil, errors.NewInvalidRow(i, fmt.Sprintf("expected %d columns, got %d", len(SummaryColumns), len(row)))
		}
		minDepth, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, errors.NewInvalidRow(i, fmt.Sprintf("Min_Depth is not numeric: %q", row[3]))
		}
		maxDepth, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, errors.NewInvalidRow(i, fmt.Sprintf("Max_Depth is not numeric: %q", row[4]))
		}

		var boreholes []string
		if row[5] != "" {
			boreholes = strings.Split(row[5], boreholeListSep)
		}

		summaries = append(summaries, UnitSummary{
			UnitCode:    row[0],
			Description: row[1],
			ExtentText:  row[2],
			MinDepth:    minDepth,
			MaxDepth:    maxDepth,
			BoreholeIDs: boreholes,
		})
	}
	return summaries, nil
}

// RecordRows renders normalized layer records as raw-data CSV rows
// mirroring the input column contract, header included.
func RecordRows(records []LayerRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, RequiredColumns)
	for _, r := range records {
		rows = append(rows, []string{
			r.ProjectID,
			r.BoreholeID,
			strconv.FormatFloat(r.TopDepth, 'f', -1, 64),
			strconv.FormatFloat(r.BaseDepth, 'f', -1, 64),
			r.LegendCode,
			r.Description,
			r.Classification,
			r.Origin,
			r.Color,
		})
	}
	return rows
}
