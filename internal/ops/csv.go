package ops

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/quarrydev/strata/internal/errors"
	"github.com/quarrydev/strata/internal/geology"
)

// ReadRows parses CSV input into the pipeline's row shape. The first record
// is the header; every later record becomes a map keyed by header name.
// Column presence is not enforced here; the normalizer owns that contract.
func ReadRows(r io.Reader) ([]geology.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewInvalidRequest("CSV input is empty")
	}
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to read CSV header: %v", err))
	}

	// Strip a UTF-8 BOM from exports produced by spreadsheet tools.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []geology.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("malformed CSV: %v", err))
		}

		row := make(geology.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadRows reads CSV rows from a file on disk.
func LoadRows(path string) ([]geology.Row, error) {
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	file, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := err.(*errors.GeoError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(err)
	}
	defer file.Close()

	return ReadRows(file)
}

// WriteSummaryCSV writes the flat summary-table shape to w.
func WriteSummaryCSV(w io.Writer, summaries []geology.UnitSummary) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(geology.SummaryRows(summaries)); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// WriteRecordsCSV writes normalized layer records back out in the input
// column contract.
func WriteRecordsCSV(w io.Writer, records []geology.LayerRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(geology.RecordRows(records)); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
