package event

import "time"

// Patch carries the remediation and status fields the management flow
// may change after capture. Nil members are left untouched by the
// store; only the supplied subset is translated and submitted.
type Patch struct {
	Cause            *string    `json:"causa,omitempty"`
	Assignee         *string    `json:"responsable,omitempty"`
	Comments         *string    `json:"comentarios,omitempty"`
	Status           *Status    `json:"status,omitempty"`
	CorrectiveAction *string    `json:"accion_correctiva,omitempty"`
	PreventiveAction *string    `json:"accion_preventiva,omitempty"`
	PlannedAt        *time.Time `json:"fecha_plan,omitempty"`
	ClosedAt         *time.Time `json:"fecha_real_cierre,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields renders only the supplied members as logical-key fields.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Cause != nil {
		fields[FieldCause] = *p.Cause
	}
	if p.Assignee != nil {
		fields[FieldAssignee] = *p.Assignee
	}
	if p.Comments != nil {
		fields[FieldComments] = *p.Comments
	}
	if p.Status != nil {
		fields[FieldStatus] = string(*p.Status)
	}
	if p.CorrectiveAction != nil {
		fields[FieldCorrectiveAction] = *p.CorrectiveAction
	}
	if p.PreventiveAction != nil {
		fields[FieldPreventiveAction] = *p.PreventiveAction
	}
	if p.PlannedAt != nil {
		fields[FieldPlannedAt] = *p.PlannedAt
	}
	if p.ClosedAt != nil {
		fields[FieldClosedAt] = *p.ClosedAt
	}
	return fields
}
