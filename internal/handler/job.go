package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// JobHandler serves the /jobs resource.
type JobHandler struct {
	service *service.JobService
	logger  *slog.Logger
}

func NewJobHandler(svc *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		service: svc,
		logger:  logger,
	}
}

// jobID reads the {id} URL parameter. A value that isn't an integer can't
// name any job, so it is reported as NotFound rather than as bad input.
func jobID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NotFound("job", "id", raw)
	}
	return id, nil
}

// HandleList searches jobs.
//
// HTTP: GET /jobs?search=eng&min_salary=50000&min_equity=0.01
// RESPONSE: {"jobs": [{"id": 1, "title": "...", "company_handle": "..."}]}
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := model.JobFilter{Search: queryString(r, "search")}

	var err error
	if f.MinSalary, err = queryFloat(r, "min_salary"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if f.MinEquity, err = queryFloat(r, "min_equity"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	jobs, err := h.service.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// HTTP: GET /jobs/{id}
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// HTTP: POST /jobs (admin only)
// REQUEST BODY: {"title": "Yogi", "salary": 50000, "equity": 0.1, "company_handle": "LLL"}
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var nj model.NewJob
	if err := decodeJSON(w, r, &nj); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.service.Create(r.Context(), nj)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"job": job})
}

// HTTP: PATCH /jobs/{id} (admin only)
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var patch model.JobPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// HTTP: DELETE /jobs/{id} (admin only)
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Job Deleted!!!"})
}
