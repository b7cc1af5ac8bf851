package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"opevents/internal/bootstrap"
	"opevents/internal/bootstrap/config"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

const (
	sessionCookieName  = "opevents_session"
	sessionPurgePeriod = 30 * time.Minute
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		api := &apiServer{cfg: app.Config, svc: svc}

		server := &http.Server{
			Addr:    app.Config.HTTP.Addr,
			Handler: api.router(),
			BaseContext: func(_ net.Listener) context.Context {
				return ctx
			},
		}

		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go api.purgeSessionsLoop(runCtx)

		errCh := make(chan error, 1)
		go func() {
			logging.Info(runCtx, "http server started", slog.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			logging.Error(runCtx, "http server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve http api")
		case <-runCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		logging.Info(ctx, "http server stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	cfg config.Config
	svc *services
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverPanic)
	r.Use(s.logRequests)

	r.Get("/auth/login", s.handleLogin)
	r.Get("/auth/callback", s.handleCallback)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/me", s.handleMe)
		r.Get("/users", s.handleUsers)

		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleCaptureEvent)
		r.Patch("/events/{id}", s.handleUpdateEvent)

		r.Get("/reports/summary", s.handleReportSummary)
		r.Get("/reports/pareto", s.handleReportPareto)
		r.Get("/reports/trend", s.handleReportTrend)
		r.Get("/reports/insights", s.handleReportInsights)
		r.Get("/reports/export", s.handleReportExport)

		r.Get("/catalog", s.handleGetCatalog)
		r.Post("/catalog/categories", s.handleAddCategory)
		r.Patch("/catalog/categories/{name}", s.handleRenameCategory)
		r.Delete("/catalog/categories/{name}", s.handleRemoveCategory)
		r.Post("/catalog/categories/{name}/causes", s.handleAddCause)
		r.Patch("/catalog/categories/{name}/causes/{cause}", s.handleRenameCause)
		r.Delete("/catalog/categories/{name}/causes/{cause}", s.handleRemoveCause)
		r.Post("/catalog/reset", s.handleResetCatalog)

		r.Get("/diagnostics/connection", s.handleDiagnoseConnection)
		r.Get("/diagnostics/columns", s.handleDiagnoseColumns)
	})

	return r
}

// purgeSessionsLoop removes expired sessions periodically for as long
// as the server runs.
func (s *apiServer) purgeSessionsLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := s.svc.Auth.PurgeExpired(ctx)
			if err != nil {
				logging.Warn(ctx, "session purge failed", slog.Any("err", errs.Loggable(err)))
				continue
			}
			if purged > 0 {
				logging.Info(ctx, "expired sessions purged", slog.Int64("count", purged))
			}
		}
	}
}

type sessionCtxKey struct{}

// requireSession resolves the session cookie before any /api handler
// runs. With authentication disabled the auth service hands back a
// fixed local user, so handlers always see a session.
func (s *apiServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessionID = cookie.Value
		}

		session, err := s.svc.Auth.Current(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, ports.ErrSessionNotFound) {
				writeJSONError(w, http.StatusUnauthorized, "sesión no válida o expirada")
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session)))
	})
}

func sessionFrom(ctx context.Context) (ports.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(ports.Session)
	return session, ok
}

func (s *apiServer) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Error(r.Context(), "handler panic",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
				)
				writeJSONError(w, http.StatusInternalServerError, "error interno del servidor")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Info(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (s *apiServer) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.IsProduction(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// statusForError maps domain failures onto HTTP statuses; anything
// unrecognized is a 500.
func statusForError(err error) int {
	var authErr *ports.AuthError
	var remoteErr *ports.RemoteError
	var cfgErr *ports.ConfigError

	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "is required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
