package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// UserHandler serves the /users resource. Who may call each route is decided
// by the auth guards mounted in the router, not here.
//
// model.User tags its password hash json:"-", so any user value can be
// written straight to the response.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// HTTP: GET /users (logged in)
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// HTTP: GET /users/{username} (logged in)
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleCreate registers a new account.
//
// HTTP: POST /users
// REQUEST BODY: {"username": "sam", "password": "...", "first_name": "...", "last_name": "...", "email": "..."}
//
// is_admin is optional and defaults to false.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var nu model.NewUser
	if err := decodeJSON(w, r, &nu); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.service.Create(r.Context(), nu)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// HTTP: PATCH /users/{username} (that user only)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "username"), patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HTTP: DELETE /users/{username} (that user only)
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User Deleted!!!"})
}
