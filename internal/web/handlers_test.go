package web

import (
	"bytes"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quarrydev/strata/internal/db"
	"github.com/quarrydev/strata/internal/geology"
	"github.com/quarrydev/strata/internal/ops"
)

func testServer(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	srv := NewServer(database, nil, "test", "127.0.0.1", 0)
	return srv.Handler, database
}

func archiveRun(t *testing.T, database *sql.DB) string {
	t.Helper()
	row := func(bh, top, base, legend string) geology.Row {
		return geology.Row{
			"PROJ_ID": "P-100", "POINT_ID": bh, "TOP": top, "BASE": base,
			"Legend": legend, "Description": "", "Classification": legend,
			"Origin1": "Fill", "Color": "",
		}
	}
	out, err := ops.Summarize(database, nil, ops.SummarizeInput{
		Rows: []geology.Row{
			row("BH01", "0", "0.3", "CI"),
			row("BH02", "0", "0.3", "CL"),
		},
		Save: true,
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	return out.RunID
}

func TestRootRedirects(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/runs" {
		t.Errorf("Location = %q, want /runs", loc)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
}

func TestRunsPage(t *testing.T) {
	handler, database := testServer(t)
	id := archiveRun(t, database)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, id) {
		t.Errorf("run list missing run id %s", id)
	}
	if !strings.Contains(body, "BH01, BH02") {
		t.Errorf("run list missing boreholes:\n%s", body)
	}
}

func TestUploadCSV(t *testing.T) {
	handler, _ := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("csv", "layers.csv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = part.Write([]byte("PROJ_ID,POINT_ID,TOP,BASE,Legend,Description,Classification,Origin1,Color\n" +
		"P-100,BH01,0,0.3,CI,Stiff CLAY,CI,Fill,red brown\n"))
	_ = mw.WriteField("project", "P-100")
	mw.Close()

	req := httptest.NewRequest("POST", "/runs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/runs/") || len(loc) <= len("/runs/") {
		t.Fatalf("Location = %q, want /runs/<id>", loc)
	}

	// The archived run renders on its detail page.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", loc, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("detail status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "F1") {
		t.Errorf("detail missing unit code")
	}
}

func TestUploadCSV_MissingFile(t *testing.T) {
	handler, _ := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("project", "P-100")
	mw.Close()

	req := httptest.NewRequest("POST", "/runs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetailPage(t *testing.T) {
	handler, database := testServer(t)
	id := archiveRun(t, database)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs/"+id, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Table 3-1: Summary of Geological Units") {
		t.Errorf("detail missing report table heading")
	}
	if !strings.Contains(body, "F1") {
		t.Errorf("detail missing unit code")
	}
	if !strings.Contains(body, "/runs/"+id+"/summary.csv") {
		t.Errorf("detail missing CSV download link")
	}
}

func TestDetailPage_NotFound(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs/01HZX3M8Q9N5T7V2W4Y6B8D0F2", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSummaryCSVDownload(t *testing.T) {
	handler, database := testServer(t)
	id := archiveRun(t, database)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs/"+id+"/summary.csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Unit,Description,Extent,") {
		t.Errorf("CSV missing header row:\n%s", rec.Body.String())
	}
}

func TestDeleteRun(t *testing.T) {
	handler, database := testServer(t)
	id := archiveRun(t, database)

	req := httptest.NewRequest("DELETE", "/runs/"+id, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The deleted run no longer appears on the detail page.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/runs/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted run status = %d, want 404", rec.Code)
	}
}

func TestPurgeRequiresConfirm(t *testing.T) {
	handler, _ := testServer(t)

	req := httptest.NewRequest("POST", "/runs/purge", strings.NewReader("confirm=false"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLegendPage(t *testing.T) {
	handler, _ := testServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/legend", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "CH") || !strings.Contains(body, "High plasticity clay") {
		t.Errorf("legend missing USCS entries")
	}
}
