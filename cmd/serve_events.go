package cmd

import (
	"encoding/json"
	"errors"
	"net/http"

	"opevents/internal/domain/event"
	eventsuc "opevents/internal/usecase/events"
)

func (s *apiServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Events.List(r.Context())
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

type fieldViolationResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (s *apiServer) handleCaptureEvent(w http.ResponseWriter, r *http.Request) {
	var input eventsuc.CaptureInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}

	result, err := s.svc.Events.Capture(r.Context(), input)
	if err != nil {
		var verr *event.ValidationError
		if errors.As(err, &verr) {
			violations := make([]fieldViolationResponse, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				violations = append(violations, fieldViolationResponse{Field: f.Field, Message: f.Message})
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  verr.Error(),
				"fields": violations,
			})
			return
		}
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *apiServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var patch event.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSONError(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}

	if err := s.svc.Events.Update(r.Context(), id, patch); err != nil {
		if errors.Is(err, event.ErrInvalidStatus) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
