package cmd

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"opevents/internal/domain/event"
	reportsuc "opevents/internal/usecase/reports"
)

// reportFilter parses the shared report query parameters: from/to as
// yyyy-mm-dd over the detection date, plus exact project and status.
func reportFilter(r *http.Request) (reportsuc.Filter, error) {
	var f reportsuc.Filter
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, fmt.Errorf("from %q no es una fecha válida (yyyy-mm-dd)", raw)
		}
		f.From = &t
	}
	if raw := query.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, fmt.Errorf("to %q no es una fecha válida (yyyy-mm-dd)", raw)
		}
		f.To = &t
	}
	f.Project = query.Get("project")
	if raw := query.Get("status"); raw != "" {
		status := event.Status(raw)
		if !status.Valid() {
			return f, fmt.Errorf("status %q no es válido", raw)
		}
		f.Status = status
	}
	return f, nil
}

func (s *apiServer) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.svc.Reports.Summary(r.Context(), filter)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handleReportPareto(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = event.FieldCause
	}

	rows, err := s.svc.Reports.Pareto(r.Context(), filter, field)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *apiServer) handleReportTrend(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, totals, err := s.svc.Reports.Trend(r.Context(), filter)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "totals": totals})
}

const defaultInsightsTop = 5

// handleReportInsights returns the most frequent causes and projects
// over the filtered event set.
func (s *apiServer) handleReportInsights(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	topN := defaultInsightsTop
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "top debe ser un número positivo")
			return
		}
		topN = n
	}

	causes, err := s.svc.Reports.CountBy(r.Context(), filter, event.FieldCause, topN)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	projects, err := s.svc.Reports.CountBy(r.Context(), filter, event.FieldProjectNumber, topN)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"top_causes":   causes,
		"top_projects": projects,
	})
}

func (s *apiServer) handleReportExport(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.svc.Reports.Export(r.Context(), filter)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}

	filename := fmt.Sprintf("eventos_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
