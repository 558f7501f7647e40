package http

import (
	"net/http"
	"strings"

	"github.com/Tijigui/fintrack/internal/auth"
	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string       `json:"token"`
	Profile core.Profile `json:"profile"`
}

func validateCredentials(email, password string) error {
	verr := &core.ValidationError{Fields: map[string]string{}}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		verr.Fields["email"] = "must be a valid email address"
	}
	if len(password) < 8 {
		verr.Fields["password"] = "must be at least 8 characters"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := validateCredentials(req.Email, req.Password); err != nil {
		writeErr(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	profile, err := s.store.CreateProfile(r.Context(), core.Profile{
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}

	token, err := s.auth.Issue(profile.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Registered profile",
		applog.FieldUserID, profile.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Profile: profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	profile, err := s.store.FindProfileByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(profile.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.Issue(profile.ID)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Profile: profile})
}
