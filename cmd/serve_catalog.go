package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	domaincatalog "opevents/internal/domain/catalog"
)

// pathParam decodes a chi route parameter. The router matches on the
// raw path, so catalog names carrying slashes or accents arrive
// percent-escaped and must be unescaped before lookup.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func catalogErrorStatus(err error) int {
	switch {
	case errors.Is(err, domaincatalog.ErrCategoryNotFound),
		errors.Is(err, domaincatalog.ErrCauseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domaincatalog.ErrCategoryExists),
		errors.Is(err, domaincatalog.ErrCauseExists):
		return http.StatusConflict
	case errors.Is(err, domaincatalog.ErrEmptyName):
		return http.StatusBadRequest
	default:
		return statusForError(err)
	}
}

func (s *apiServer) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.svc.Catalog.Get(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type nameRequest struct {
	Name string `json:"name"`
}

func decodeName(r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", false
	}
	return req.Name, true
}

func (s *apiServer) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	if err := s.svc.Catalog.AddCategory(r.Context(), name); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

func (s *apiServer) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	oldName := pathParam(r, "name")
	newName, ok := decodeName(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	if err := s.svc.Catalog.RenameCategory(r.Context(), oldName, newName); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Catalog.RemoveCategory(r.Context(), pathParam(r, "name")); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleAddCause(w http.ResponseWriter, r *http.Request) {
	category := pathParam(r, "name")
	cause, ok := decodeName(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	if err := s.svc.Catalog.AddCause(r.Context(), category, cause); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

func (s *apiServer) handleRenameCause(w http.ResponseWriter, r *http.Request) {
	category := pathParam(r, "name")
	oldCause := pathParam(r, "cause")
	newCause, ok := decodeName(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	if err := s.svc.Catalog.RenameCause(r.Context(), category, oldCause, newCause); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleRemoveCause(w http.ResponseWriter, r *http.Request) {
	category := pathParam(r, "name")
	cause := pathParam(r, "cause")
	if err := s.svc.Catalog.RemoveCause(r.Context(), category, cause); err != nil {
		writeJSONError(w, catalogErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleResetCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Catalog.Reset(r.Context()); err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *apiServer) handleDiagnoseConnection(w http.ResponseWriter, r *http.Request) {
	message, err := s.svc.Repo.TestConnection(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *apiServer) handleDiagnoseColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := s.svc.Repo.DescribeSchema(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": columns, "count": len(columns)})
}
