package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/taskpanel/internal/tally"
	"github.com/me/taskpanel/pkg/model"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	tid := chi.URLParam(r, "tid")

	task, err := s.store.GetTask(r.Context(), tid)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	if task == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("task", tid))
		return
	}
	respondOK(w, reqID, task)
}

func (s *Server) handleGetDetails(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	tid := chi.URLParam(r, "tid")
	rid := chi.URLParam(r, "rid")

	panel, err := s.details.Panel(r.Context(), tid, rid)
	if err != nil {
		s.logger.Debug("details failed", "task_id", tid, "run_id", rid, "error", err)
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, panel)
}

type tallyRequest struct {
	MappedStates map[string]int `json:"mapped_states"`
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req tallyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid request body", model.FieldError{Message: err.Error()}))
		return
	}

	summary, err := tally.Mapped(req.MappedStates)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, summary)
}
