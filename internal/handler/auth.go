package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// AuthHandler exchanges credentials for a bearer token.
//
// DEPENDENCY CHAIN:
//   - auth *service.AuthService → looks up the user, checks bcrypt, signs the JWT
//
// The token is returned in the body rather than a cookie. Clients send it
// back as "Authorization: Bearer <token>".
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// HandleLogin verifies a username and password.
//
// HTTP: POST /login
// REQUEST BODY: {"username": "sam", "password": "..."}
// RESPONSE:     {"token": "eyJhbGciOi..."}
//
// Unknown users and wrong passwords get the same 401 body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
