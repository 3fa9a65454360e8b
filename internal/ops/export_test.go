package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quarrydev/strata/internal/config"
	"github.com/quarrydev/strata/internal/errors"
)

func unsafeCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return cfg
}

func TestExport_SummaryCSV(t *testing.T) {
	database := testDB(t)

	out, err := Summarize(database, nil, SummarizeInput{Rows: sampleRows(), Save: true})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "summary.csv")
	exported, err := Export(database, unsafeCfg(), ExportInput{RunID: out.RunID, Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if exported.Path != path {
		t.Errorf("Path = %q, want %q", exported.Path, path)
	}
	if exported.Count != len(out.Result.Summaries) {
		t.Errorf("Count = %d, want %d", exported.Count, len(out.Result.Summaries))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Unit,Description,Extent,") {
		t.Errorf("export missing header: %q", content)
	}
	if !strings.Contains(content, "F1") {
		t.Errorf("export missing unit row: %q", content)
	}
}

func TestExport_MarkdownReport(t *testing.T) {
	database := testDB(t)

	out, err := Summarize(database, nil, SummarizeInput{Rows: sampleRows(), Save: true})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.md")
	if _, err := Export(database, unsafeCfg(), ExportInput{
		RunID:  out.RunID,
		Path:   path,
		Format: ExportMarkdown,
	}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Table 3-1: Summary of Geological Units") {
		t.Errorf("report missing table heading: %q", content)
	}
	if !strings.Contains(content, "Extent of Units") {
		t.Errorf("report missing extent section: %q", content)
	}
}

func TestExport_WrongExtension(t *testing.T) {
	database := testDB(t)

	out, err := Summarize(database, nil, SummarizeInput{Rows: sampleRows(), Save: true})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "summary.txt")
	_, err = Export(database, unsafeCfg(), ExportInput{RunID: out.RunID, Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("got %v, want INVALID_REQUEST", err)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	database := testDB(t)

	_, err := Export(database, unsafeCfg(), ExportInput{
		RunID:  "01HZX3M8Q9N5T7V2W4Y6B8D0F2",
		Format: "xlsx",
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("got %v, want INVALID_REQUEST", err)
	}
}

func TestExport_MissingRun(t *testing.T) {
	database := testDB(t)

	path := filepath.Join(t.TempDir(), "summary.csv")
	_, err := Export(database, unsafeCfg(), ExportInput{
		RunID: "01HZX3M8Q9N5T7V2W4Y6B8D0F2",
		Path:  path,
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}

func TestExport_PreservesExistingOnFailure(t *testing.T) {
	database := testDB(t)

	out, err := Summarize(database, nil, SummarizeInput{Rows: sampleRows(), Save: true})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	// Symlink destination is rejected and the target stays intact.
	dir := t.TempDir()
	target := filepath.Join(dir, "real.csv")
	if err := os.WriteFile(target, []byte("original"), 0600); err != nil {
		t.Fatalf("write target: %v", err)
	}
	link := filepath.Join(dir, "link.csv")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := Export(database, unsafeCfg(), ExportInput{RunID: out.RunID, Path: link}); err == nil {
		t.Fatal("export to symlink must fail")
	}

	data, err := os.ReadFile(target)
	if err != nil || string(data) != "original" {
		t.Errorf("target clobbered: %q, %v", data, err)
	}
}
