package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/taskpanel/internal/details"
	"github.com/me/taskpanel/internal/logging"
	"github.com/me/taskpanel/pkg/model"
)

// PanelSource produces the details panel of a task instance.
type PanelSource interface {
	Panel(ctx context.Context, taskID, runID string) (*details.Panel, error)
}

// UI serves the details panel as an HTML fragment.
type UI struct {
	panels PanelSource
	logger *slog.Logger
}

// New creates a new UI handler.
func New(panels PanelSource, logger *slog.Logger) *UI {
	return &UI{
		panels: panels,
		logger: logging.Component(logger, "ui"),
	}
}

// HandleDetails renders the details panel fragment.
func (ui *UI) HandleDetails(w http.ResponseWriter, r *http.Request) {
	tid := chi.URLParam(r, "tid")
	rid := chi.URLParam(r, "rid")

	panel, err := ui.panels.Panel(r.Context(), tid, rid)
	if err != nil {
		var apiErr *model.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Code == model.ErrNotFound:
			ui.renderStatus(w, http.StatusNotFound, "error", apiErr.Message)
		case errors.As(err, &apiErr) && apiErr.Code == model.ErrValidation:
			ui.renderStatus(w, http.StatusBadRequest, "error", apiErr.Message)
		default:
			ui.logger.Error("details panel failed", "task_id", tid, "run_id", rid, "error", err)
			ui.renderStatus(w, http.StatusInternalServerError, "error", "Failed to load task instance")
		}
		return
	}
	ui.renderStatus(w, http.StatusOK, "details", panel)
}

func (ui *UI) renderStatus(w http.ResponseWriter, status int, template string, data any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
