package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/echome/internal/history"
	"github.com/starford/echome/internal/pipeline"
)

// Runner triggers a batch run. *pipeline.Pipeline satisfies it; tests
// substitute a stub.
type Runner interface {
	RunBatch(ctx context.Context) (*pipeline.Report, error)
}

// Handler holds API route handlers.
type Handler struct {
	runner Runner
	ledger history.Ledger
}

// NewHandler creates a new Handler. The ledger may be nil, in which
// case history endpoints report empty results.
func NewHandler(runner Runner, ledger history.Ledger) *Handler {
	return &Handler{runner: runner, ledger: ledger}
}

// Run handles POST /api/run.
//
//	@Summary		Trigger a batch run over the remote input folder
//	@Tags			runs
//	@Produce		json
//	@Success		200	{object}	pipeline.Report
//	@Failure		500	{object}	pipeline.Report
//	@Security		BearerAuth
//	@Router			/run [post]
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.RunBatch(r.Context())
	if err != nil {
		slog.Error("batch run failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListRuns handles GET /api/runs.
//
//	@Summary		List recent runs, newest first
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Success		200		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs := []history.Run{}
	if h.ledger != nil {
		var err error
		runs, err = h.ledger.ListRuns(limit)
		if err != nil {
			slog.Error("list runs failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		if runs == nil {
			runs = []history.Run{}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": len(runs),
	})
}

// RunFiles handles GET /api/runs/{id}/files.
//
//	@Summary		List the per-file records of one run
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		int	true	"Run ID"
//	@Success		200	{object}	map[string]any
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/runs/{id}/files [get]
func (h *Handler) RunFiles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid run id"))
		return
	}

	files := []history.FileRecord{}
	if h.ledger != nil {
		files, err = h.ledger.RunFiles(id)
		if err != nil {
			slog.Error("run files failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		if files == nil {
			files = []history.FileRecord{}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
	})
}
