package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quarrydev/strata/internal/config"
	"github.com/quarrydev/strata/internal/db"
	"github.com/quarrydev/strata/internal/errors"
	"github.com/quarrydev/strata/internal/geology"
)

// SummarizeInput contains parameters for the Summarize operation.
type SummarizeInput struct {
	Path      string        // read rows from this CSV file
	Rows      []geology.Row // or supply rows directly
	Boreholes []string      // optional borehole filter
	Save      bool          // archive the run
	ProjectID string        // optional, defaults to the first record's project
	Source    string        // optional provenance note, defaults to Path
}

// SummarizeOutput contains the result of the Summarize operation.
type SummarizeOutput struct {
	RunID  string          `json:"run_id,omitempty"`
	Result *geology.Result `json:"result"`
}

// Summarize runs the full pipeline over CSV rows and optionally archives
// the outcome as a run.
func Summarize(database *sql.DB, cfg *config.Config, input SummarizeInput) (*SummarizeOutput, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	rows := input.Rows
	if len(rows) == 0 && input.Path != "" {
		loaded, err := LoadRows(input.Path)
		if err != nil {
			return nil, err
		}
		rows = loaded
	}
	if len(rows) == 0 {
		return nil, errors.NewInvalidRequest("no input rows: provide a CSV path or rows")
	}

	if cfg.MaxRows > 0 && len(rows) > cfg.MaxRows {
		return nil, errors.NewTooManyRows(cfg.MaxRows, len(rows))
	}

	result, err := geology.Summarize(rows, geology.Options{
		OverlapFraction: cfg.OverlapFraction,
		AllBoreholesMin: cfg.AllBoreholesMin,
		Keywords:        cfg.QualifierKeywords,
		Boreholes:       input.Boreholes,
	})
	if err != nil {
		return nil, err
	}

	out := &SummarizeOutput{Result: result}
	if !input.Save {
		return out, nil
	}

	if database == nil {
		return nil, errors.NewInvalidRequest("saving a run requires the archive database")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	projectID := input.ProjectID
	if projectID == "" && len(result.Records) > 0 {
		projectID = result.Records[0].ProjectID
	}
	source := input.Source
	if source == "" {
		source = input.Path
	}

	run := &db.Run{
		ID:           id,
		ProjectID:    optionalString(projectID),
		Source:       optionalString(source),
		Boreholes:    result.Boreholes,
		RowCount:     len(result.Records),
		SkippedCount: len(result.Skipped),
		CreatedAt:    time.Now().Unix(),
		Units:        result.Summaries,
	}
	if err := db.InsertRun(database, run); err != nil {
		return nil, err
	}

	out.RunID = id
	return out, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// optionalString converts "" to nil for nullable columns.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
