package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/quarrydev/strata/internal/config"
	"github.com/quarrydev/strata/internal/errors"
)

// ExportFormat selects the export file shape.
type ExportFormat string

const (
	ExportCSV      ExportFormat = "csv" // flat summary table
	ExportMarkdown ExportFormat = "md"  // rendered report
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	RunID  string       // required
	Path   string       // optional, default: ~/.strata/exports/run-<id>-<timestamp>.<ext>
	Format ExportFormat // default: csv
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes an archived run to disk as a summary CSV or markdown report.
func Export(database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	format := input.Format
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportMarkdown {
		return nil, errors.NewInvalidRequest("format must be one of: csv, md")
	}
	ext := "." + string(format)

	run, err := FetchRun(database, input.RunID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(run.ID, now, ext)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default) for security
	if err := ValidatePath(exportPath, PathCheckWrite, ext, cfg); err != nil {
		return nil, err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to temp file first, then atomic rename to preserve existing file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	switch format {
	case ExportCSV:
		if err := WriteSummaryCSV(file, run.Units); err != nil {
			return nil, err
		}
	case ExportMarkdown:
		if _, err := file.WriteString(BuildReport(run)); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	// Ensure file is written
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// Finalize export by renaming temp file into place.
	//
	// Note: On Windows, os.Rename fails if the destination exists. We intentionally
	// fail safely (preserving the existing file) instead of doing a non-atomic
	// delete+rename that could lose the original if rename fails.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(run.Units),
		ExportedAt: now.Unix(),
	}, nil
}

// defaultExportPath generates the default export path.
// Format: ~/.strata/exports/run-<id>-<timestamp>.<ext>
func defaultExportPath(runID string, now time.Time, ext string) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	timestamp := now.Format("2006-01-02T150405")
	filename := fmt.Sprintf("run-%s-%s%s", SanitizeForFilename(runID), timestamp, ext)
	return filepath.Join(exportsDir, filename), nil
}
