package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/quarrydev/strata/internal/config"
	"github.com/quarrydev/strata/internal/errors"
	"github.com/quarrydev/strata/internal/geology"
	"github.com/quarrydev/strata/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleRuns handles GET /runs — list archived runs.
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")

	input := ops.ListRunsInput{
		ProjectID: project,
		Limit:     parseIntParam(r, "limit", 20),
		Offset:    parseIntParam(r, "offset", 0),
	}

	result, err := ops.ListRuns(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "runs", RunsPageData{
		PageData: PageData{
			Title:   "Runs",
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Project:    project,
	})
}

// maxUploadBytes caps the size of an uploaded layer CSV.
const maxUploadBytes = 10 << 20

// HandleUpload handles POST /runs — summarize an uploaded layer CSV and
// archive the run.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid upload: a CSV file is required"))
		return
	}

	file, header, err := r.FormFile("csv")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("csv file field is required"))
		return
	}
	defer file.Close()

	rows, err := ops.ReadRows(file)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	output, err := ops.Summarize(h.db, h.cfg, ops.SummarizeInput{
		Rows:      rows,
		Save:      true,
		ProjectID: r.FormValue("project"),
		Source:    header.Filename,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusCreated, output)
		return
	}

	http.Redirect(w, r, "/runs/"+output.RunID, http.StatusSeeOther)
}

// HandleDetail handles GET /runs/{id} — view a single run's report.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("run ID is required"))
		return
	}

	run, err := ops.FetchRun(h.db, id, parseBoolParam(r, "include_deleted"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	rendered := renderMarkdown(ops.BuildReport(run))

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   "Run " + shortID(run.ID),
			Version: h.renderer.version,
			Nav:     "runs",
		},
		Run:        run,
		ReportHTML: rendered,
	})
}

// HandleSummaryCSV handles GET /runs/{id}/summary.csv — download the
// flat summary table.
func (h *Handlers) HandleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := ops.FetchRun(h.db, id, false)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "summary-"+run.ID+".csv"))
	if err := ops.WriteSummaryCSV(w, run.Units); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}

// HandleDelete handles DELETE /runs/{id} and POST /runs/{id}/delete —
// soft-delete a run.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("run ID is required"))
		return
	}

	if err := ops.DeleteRun(h.db, id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/runs")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": true,
			"id":      id,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/runs", http.StatusFound)
}

// HandlePurge handles POST /runs/purge — permanently delete soft-deleted runs.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	result, err := ops.Purge(h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	message := fmt.Sprintf("Purged %d run(s)", result.Purged)

	// HTMX request: return HTML fragment
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(message) + `</div>`))
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"purged":  result.Purged,
			"message": message,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/runs", http.StatusFound)
}

// HandleLegend handles GET /legend — USCS classification legend.
func (h *Handlers) HandleLegend(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "legend", LegendPageData{
		PageData: PageData{
			Title:   "Legend",
			Version: h.renderer.version,
			Nav:     "legend",
		},
		Entries: geology.Legend(),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// shortID truncates a ULID for page titles.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
