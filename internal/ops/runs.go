package ops

import (
	"database/sql"

	"github.com/quarrydev/strata/internal/db"
)

// ListRunsInput contains parameters for the ListRuns operation.
type ListRunsInput struct {
	ProjectID string // optional filter
	Limit     int    // default: 20, max: 100
	Offset    int    // default: 0
}

// ListRunsOutput contains the result of the ListRuns operation.
type ListRunsOutput struct {
	Items      []*db.Run  `json:"items"`
	Pagination Pagination `json:"pagination"`
	Sort       string     `json:"sort"`
}

// ListRuns retrieves archived runs newest-first with pagination.
func ListRuns(database *sql.DB, input ListRunsInput) (*ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	runs, total, err := db.ListRuns(database, input.ProjectID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if runs == nil {
		runs = []*db.Run{}
	}

	hasMore := offset+len(runs) < total

	return &ListRunsOutput{
		Items: runs,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

// FetchRun retrieves an archived run with its unit summaries.
func FetchRun(database *sql.DB, id string, includeDeleted bool) (*db.Run, error) {
	canonical, err := ValidateRunID(id)
	if err != nil {
		return nil, err
	}
	return db.GetRunByID(database, canonical, includeDeleted)
}

// DeleteRun soft-deletes an archived run.
func DeleteRun(database *sql.DB, id string) error {
	canonical, err := ValidateRunID(id)
	if err != nil {
		return err
	}
	return db.SoftDeleteRun(database, canonical)
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge hard-deletes all soft-deleted runs.
func Purge(database *sql.DB) (*PurgeOutput, error) {
	purged, err := db.PurgeRuns(database)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{Purged: purged}, nil
}
