package msgraph

import (
	"testing"
	"time"

	"opevents/internal/domain/event"
)

func TestToListFieldsTranslatesAndSerializes(t *testing.T) {
	detected := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)

	out := toListFields(map[string]any{
		event.FieldReporter:   "Ana",
		event.FieldCategory:   "Retrabajo",
		event.FieldDetectedAt: detected,
		"unknown_key":         "dropped",
		event.FieldComments:   nil,
	})

	if out["field_6"] != "Ana" {
		t.Fatalf("field_6 = %v, want Ana", out["field_6"])
	}
	if out["field_7"] != "Retrabajo" {
		t.Fatalf("field_7 = %v", out["field_7"])
	}
	if out["field_14"] != "2026-05-01T14:00:00Z" {
		t.Fatalf("field_14 = %v, want RFC 3339 text", out["field_14"])
	}
	if _, ok := out["unknown_key"]; ok {
		t.Fatalf("unknown key survived translation")
	}
	if _, ok := out["field_11"]; ok {
		t.Fatalf("nil value survived translation")
	}
}

func TestFromListFieldsReversesAndPassesThrough(t *testing.T) {
	out := fromListFields(map[string]any{
		"field_10":         "Falla de equipo",
		"Status":           "Open",
		"AccionCorrectiva": "Ajuste de torque",
		"id":               "42",
		"@odata.etag":      "etag",
	})

	if out[event.FieldCause] != "Falla de equipo" {
		t.Fatalf("cause = %v", out[event.FieldCause])
	}
	if out[event.FieldStatus] != "Open" {
		t.Fatalf("status = %v", out[event.FieldStatus])
	}
	if out[event.FieldCorrectiveAction] != "Ajuste de torque" {
		t.Fatalf("corrective action = %v", out[event.FieldCorrectiveAction])
	}
	if out["id"] != "42" {
		t.Fatalf("unmapped id key did not pass through: %v", out["id"])
	}
	if out["@odata.etag"] != "etag" {
		t.Fatalf("odata key did not pass through")
	}
}

func TestFieldRoundTrip(t *testing.T) {
	planned := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e := event.Event{
		Reporter:      "Ana",
		Category:      "Retrabajo",
		Cause:         "Error de ensamble",
		ProjectNumber: "PX-1",
		PartNumber:    "PN-2",
		Assignee:      "Luis",
		Comments:      "turno 2",
		DetectedAt:    time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC),
		Status:        event.StatusInProgress,
		PlannedAt:     &planned,
	}

	back := event.FromFields("7", fromListFields(toListFields(e.Fields())))

	if back.ID != "7" {
		t.Fatalf("ID = %q", back.ID)
	}
	if back.Reporter != e.Reporter || back.Cause != e.Cause || back.Status != e.Status {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if !back.DetectedAt.Equal(e.DetectedAt) {
		t.Fatalf("DetectedAt = %v, want %v", back.DetectedAt, e.DetectedAt)
	}
	if back.PlannedAt == nil || !back.PlannedAt.Equal(planned) {
		t.Fatalf("PlannedAt = %v, want %v", back.PlannedAt, planned)
	}
}
