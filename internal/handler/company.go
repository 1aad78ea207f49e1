package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// CompanyHandler serves the /companies resource.
//
// HANDLER RESPONSIBILITIES:
// Parse the request (URL params, query string, JSON body), call the service,
// and translate the result into JSON. No business rules live here: the
// min/max employee check, trimming and NotFound all come from the service.
type CompanyHandler struct {
	service *service.CompanyService
	logger  *slog.Logger
}

func NewCompanyHandler(svc *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: svc,
		logger:  logger,
	}
}

// HandleList searches companies.
//
// HTTP: GET /companies?search=net&min_employees=10&max_employees=500
// RESPONSE: {"companies": [{"handle": "...", "name": "..."}]}
func (h *CompanyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := model.CompanyFilter{Search: queryString(r, "search")}

	var err error
	if f.MinEmployees, err = queryInt(r, "min_employees"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if f.MaxEmployees, err = queryInt(r, "max_employees"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	companies, err := h.service.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// HandleGet returns one company with its jobs.
//
// HTTP: GET /companies/{handle}
func (h *CompanyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.Get(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

// HandleCreate adds a company.
//
// HTTP: POST /companies (admin only)
// REQUEST BODY: {"handle": "LLL", "name": "Lulu Lemon", "num_employees": 12, ...}
func (h *CompanyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var nc model.NewCompany
	if err := decodeJSON(w, r, &nc); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	company, err := h.service.Create(r.Context(), nc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"company": company})
}

// HandleUpdate applies a partial update. Only the fields present in the body
// change; the handle itself is not patchable.
//
// HTTP: PATCH /companies/{handle} (admin only)
func (h *CompanyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.CompanyPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	company, err := h.service.Update(r.Context(), chi.URLParam(r, "handle"), patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

// HandleDelete removes a company and, through the foreign key, its jobs.
//
// HTTP: DELETE /companies/{handle} (admin only)
func (h *CompanyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "handle")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Company Deleted!!!"})
}
