package event

import (
	"time"
)

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Logical field keys. These are the application-level names the remote
// list repository translates to internal column names and back; they are
// also the JSON keys of the HTTP API.
const (
	FieldReporter         = "persona_detecta"
	FieldCategory         = "tipo_impacto"
	FieldCause            = "causa"
	FieldProjectNumber    = "numero_proyecto"
	FieldPartNumber       = "numero_parte"
	FieldAssignee         = "responsable"
	FieldComments         = "comentarios"
	FieldDetectedAt       = "fecha_hallazgo"
	FieldCorrectiveAction = "accion_correctiva"
	FieldPreventiveAction = "accion_preventiva"
	FieldPlannedAt        = "fecha_plan"
	FieldClosedAt         = "fecha_real_cierre"
	FieldStatus           = "status"
)

// Event is one recorded operational issue. The remote list store owns
// the record; instances here are request-scoped copies. DetectedAt is
// set at capture time and never mutated afterwards.
type Event struct {
	ID               string     `json:"id,omitempty"`
	Reporter         string     `json:"persona_detecta"`
	Category         string     `json:"tipo_impacto"`
	Cause            string     `json:"causa"`
	ProjectNumber    string     `json:"numero_proyecto"`
	PartNumber       string     `json:"numero_parte"`
	Assignee         string     `json:"responsable"`
	Comments         string     `json:"comentarios,omitempty"`
	DetectedAt       time.Time  `json:"fecha_hallazgo"`
	Status           Status     `json:"status"`
	CorrectiveAction string     `json:"accion_correctiva,omitempty"`
	PreventiveAction string     `json:"accion_preventiva,omitempty"`
	PlannedAt        *time.Time `json:"fecha_plan,omitempty"`
	ClosedAt         *time.Time `json:"fecha_real_cierre,omitempty"`
}

// Fields renders the event as logical-key fields for the repository.
// Zero-valued optional fields are omitted so creation requests carry
// only what the operator filled in.
func (e Event) Fields() map[string]any {
	fields := map[string]any{
		FieldReporter:      e.Reporter,
		FieldCategory:      e.Category,
		FieldCause:         e.Cause,
		FieldProjectNumber: e.ProjectNumber,
		FieldPartNumber:    e.PartNumber,
		FieldAssignee:      e.Assignee,
		FieldStatus:        string(e.Status),
	}
	if e.Comments != "" {
		fields[FieldComments] = e.Comments
	}
	if !e.DetectedAt.IsZero() {
		fields[FieldDetectedAt] = e.DetectedAt
	}
	if e.CorrectiveAction != "" {
		fields[FieldCorrectiveAction] = e.CorrectiveAction
	}
	if e.PreventiveAction != "" {
		fields[FieldPreventiveAction] = e.PreventiveAction
	}
	if e.PlannedAt != nil {
		fields[FieldPlannedAt] = *e.PlannedAt
	}
	if e.ClosedAt != nil {
		fields[FieldClosedAt] = *e.ClosedAt
	}
	return fields
}

// FromFields rebuilds an event from logical-key fields as returned by
// the repository. Unknown keys are ignored here; the repository keeps
// them available for diagnostics.
func FromFields(id string, fields map[string]any) Event {
	e := Event{ID: id}
	e.Reporter = stringField(fields, FieldReporter)
	e.Category = stringField(fields, FieldCategory)
	e.Cause = stringField(fields, FieldCause)
	e.ProjectNumber = stringField(fields, FieldProjectNumber)
	e.PartNumber = stringField(fields, FieldPartNumber)
	e.Assignee = stringField(fields, FieldAssignee)
	e.Comments = stringField(fields, FieldComments)
	e.CorrectiveAction = stringField(fields, FieldCorrectiveAction)
	e.PreventiveAction = stringField(fields, FieldPreventiveAction)
	e.Status = Status(stringField(fields, FieldStatus))
	if t, ok := timeField(fields, FieldDetectedAt); ok {
		e.DetectedAt = t
	}
	if t, ok := timeField(fields, FieldPlannedAt); ok {
		e.PlannedAt = &t
	}
	if t, ok := timeField(fields, FieldClosedAt); ok {
		e.ClosedAt = &t
	}
	return e
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func timeField(fields map[string]any, key string) (time.Time, bool) {
	v, ok := fields[key]
	if !ok {
		return time.Time{}, false
	}
	switch value := v.(type) {
	case time.Time:
		return value, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
