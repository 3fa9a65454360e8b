package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/quarrydev/strata/internal/errors"
	"github.com/quarrydev/strata/internal/geology"
)

// Run is one archived summarization: the input shape that produced it and
// the resulting unit summaries, keyed by ULID.
type Run struct {
	ID           string                `json:"id"`
	ProjectID    *string               `json:"project_id,omitempty"`
	Source       *string               `json:"source,omitempty"`
	Boreholes    []string              `json:"boreholes"`
	RowCount     int                   `json:"row_count"`
	SkippedCount int                   `json:"skipped_count"`
	CreatedAt    int64                 `json:"created_at"`
	DeletedAt    *int64                `json:"deleted_at,omitempty"`
	Units        []geology.UnitSummary `json:"units,omitempty"`
}

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.GeoError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertRun stores a run and its unit summaries in a single transaction.
func InsertRun(db *sql.DB, r *Run) error {
	boreholesJSON, err := json.Marshal(r.Boreholes)
	if err != nil {
		return errors.NewInternal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (
			id, project_id, source, boreholes_json,
			row_count, skipped_count, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
	`
	_, err = tx.Exec(query,
		r.ID, toNullString(r.ProjectID), toNullString(r.Source), string(boreholesJSON),
		r.RowCount, r.SkippedCount, r.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	unitQuery := `
		INSERT INTO run_units (
			run_id, seq, unit_code, origin, description, extent,
			min_depth, max_depth, boreholes_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, u := range r.Units {
		unitBoreholes, err := json.Marshal(u.BoreholeIDs)
		if err != nil {
			return errors.NewInternal(err)
		}
		_, err = tx.Exec(unitQuery,
			r.ID, i, u.UnitCode, string(u.Origin), u.Description, u.ExtentText,
			u.MinDepth, u.MaxDepth, string(unitBoreholes),
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetRunByID retrieves a run and its unit summaries by ULID.
// If includeDeleted is false, soft-deleted runs are excluded.
func GetRunByID(db *sql.DB, id string, includeDeleted bool) (*Run, error) {
	query := `
		SELECT id, project_id, source, boreholes_json,
			row_count, skipped_count, created_at, deleted_at
		FROM runs
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	units, err := getRunUnits(db, id)
	if err != nil {
		return nil, err
	}
	r.Units = units

	return r, nil
}

// getRunUnits loads unit summaries for a run in stored sequence order.
func getRunUnits(db *sql.DB, runID string) ([]geology.UnitSummary, error) {
	query := `
		SELECT unit_code, origin, description, extent,
			min_depth, max_depth, boreholes_json, seq
		FROM run_units
		WHERE run_id = ?
		ORDER BY seq ASC
	`
	rows, err := db.Query(query, runID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var units []geology.UnitSummary
	for rows.Next() {
		var (
			u             geology.UnitSummary
			origin        string
			boreholesJSON string
			seq           int
		)
		err := rows.Scan(
			&u.UnitCode, &origin, &u.Description, &u.ExtentText,
			&u.MinDepth, &u.MaxDepth, &boreholesJSON, &seq,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		u.Origin = geology.Origin(origin)
		u.Sequence = seq + 1
		if err := json.Unmarshal([]byte(boreholesJSON), &u.BoreholeIDs); err != nil {
			return nil, errors.NewInternal(err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return units, nil
}

// ListRuns returns runs newest-first, without their unit summaries, plus the
// total count matching the filter. An empty projectID matches all runs.
func ListRuns(db *sql.DB, projectID string, limit, offset int) ([]*Run, int, error) {
	where := "deleted_at IS NULL"
	args := []any{}
	if projectID != "" {
		where += " AND project_id = ?"
		args = append(args, projectID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM runs WHERE " + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, project_id, source, boreholes_json,
			row_count, skipped_count, created_at, deleted_at
		FROM runs
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRunRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return runs, total, nil
}

// SoftDeleteRun marks a run as deleted by setting deleted_at.
func SoftDeleteRun(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// PurgeRuns hard-deletes soft-deleted runs and their units, returning the
// number of runs removed.
func PurgeRuns(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM run_units
		WHERE run_id IN (SELECT id FROM runs WHERE deleted_at IS NOT NULL)
	`)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	result, err := tx.Exec("DELETE FROM runs WHERE deleted_at IS NOT NULL")
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(purged), nil
}

// scanRun scans a single row into a Run (units not included).
func scanRun(row *sql.Row) (*Run, error) {
	var (
		r             Run
		projectID     sql.NullString
		source        sql.NullString
		boreholesJSON string
		deletedAt     sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &projectID, &source, &boreholesJSON,
		&r.RowCount, &r.SkippedCount, &r.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	return finishRunScan(&r, projectID, source, boreholesJSON, deletedAt)
}

// scanRunRows is the *sql.Rows variant of scanRun.
func scanRunRows(rows *sql.Rows) (*Run, error) {
	var (
		r             Run
		projectID     sql.NullString
		source        sql.NullString
		boreholesJSON string
		deletedAt     sql.NullInt64
	)

	err := rows.Scan(
		&r.ID, &projectID, &source, &boreholesJSON,
		&r.RowCount, &r.SkippedCount, &r.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	return finishRunScan(&r, projectID, source, boreholesJSON, deletedAt)
}

func finishRunScan(r *Run, projectID, source sql.NullString, boreholesJSON string, deletedAt sql.NullInt64) (*Run, error) {
	r.ProjectID = fromNullString(projectID)
	r.Source = fromNullString(source)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}
	if boreholesJSON != "" {
		if err := json.Unmarshal([]byte(boreholesJSON), &r.Boreholes); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
