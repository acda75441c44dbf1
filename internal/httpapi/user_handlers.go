package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"gridcert.org/internal/audit"
	"gridcert.org/internal/auth"
	"gridcert.org/internal/user"
	"gridcert.org/internal/validate"
)

type loginRequest struct {
	// The session endpoint historically takes the email under the
	// "username" key; kept for client compatibility.
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"accessToken"`
	User        *user.User `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req user.RegistrationData
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.users.Register(r.Context(), req)
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, r, verr)
		case errors.Is(err, auth.ErrConflict):
			writeError(w, r, http.StatusConflict, "email already registered")
		default:
			writeError(w, r, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "user.registered", map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
	})
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		// Invalid credentials and unknown accounts answer identically.
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(u.ID, u.OrganizationID, u.Roles, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "user.login", map[string]any{
		"user_id": u.ID,
	})
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, User: u})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	u, err := a.users.Find(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) handleUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/user/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	// A denied lookup and a missing account answer identically so the
	// endpoint cannot be used to probe which user ids exist.
	target, err := a.users.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "access denied")
		return
	}
	if !auth.CanAccessUser(p, target.ID, target.OrganizationID) {
		writeError(w, r, http.StatusUnauthorized, "access denied")
		return
	}
	writeJSON(w, http.StatusOK, target)
}
