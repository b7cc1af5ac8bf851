package cmd

import (
	"log/slog"
	"net/http"
	"strconv"

	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
)

const stateCookieName = "opevents_oauth_state"

func (s *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	url, state, err := s.svc.Auth.LoginURL(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.IsProduction(),
	})
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *apiServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	// The provider reports rejection in the redirect itself.
	if provErr := query.Get("error"); provErr != "" {
		description := query.Get("error_description")
		if description == "" {
			description = provErr
		}
		logging.Warn(ctx, "login rejected by provider",
			slog.String("error", provErr),
			slog.String("description", description),
		)
		writeJSONError(w, http.StatusUnauthorized, description)
		return
	}

	if cookie, err := r.Cookie(stateCookieName); err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		writeJSONError(w, http.StatusUnauthorized, "estado de autenticación no válido")
		return
	}

	session, err := s.svc.Auth.CompleteLogin(ctx, query.Get("code"))
	if err != nil {
		logging.Warn(ctx, "login failed", slog.Any("err", errs.Loggable(err)))
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/auth", MaxAge: -1})
	http.SetCookie(w, s.sessionCookie(session.ID, int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *apiServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := s.svc.Auth.Logout(r.Context(), sessionID); err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	http.SetCookie(w, s.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type meResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JobTitle string `json:"job_title,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

func (s *apiServer) handleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "sesión no válida o expirada")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ID:       session.UserID,
		Name:     session.Name,
		Email:    session.Email,
		JobTitle: session.JobTitle,
		Photo:    session.Photo,
	})
}

func (s *apiServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		domain = s.cfg.Graph.UserDomain
	}

	maxResults := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "max debe ser un número positivo")
			return
		}
		maxResults = n
	}

	users, err := s.svc.Directory.SearchUsers(r.Context(), domain, maxResults)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}
