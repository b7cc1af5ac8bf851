package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domaincatalog "opevents/internal/domain/catalog"
	"opevents/internal/domain/event"
	"opevents/internal/ports"
)

type fakeCatalog struct {
	cat domaincatalog.Catalog
	err error
}

func (f *fakeCatalog) Get(_ context.Context) (domaincatalog.Catalog, error) {
	if f.err != nil {
		return domaincatalog.Catalog{}, f.err
	}
	return f.cat, nil
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{cat: domaincatalog.Default()}
}

type fakeRepo struct {
	created []event.Event
	patches map[string]event.Patch
	events  []event.Event
	err     error
}

func (f *fakeRepo) Create(_ context.Context, e event.Event) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, e)
	return "101", nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]event.Event, error) {
	return f.events, f.err
}

func (f *fakeRepo) Update(_ context.Context, id string, patch event.Patch) error {
	if f.err != nil {
		return f.err
	}
	if f.patches == nil {
		f.patches = make(map[string]event.Patch)
	}
	f.patches[id] = patch
	return nil
}

func (f *fakeRepo) DescribeSchema(_ context.Context) ([]ports.ListColumn, error) { return nil, nil }
func (f *fakeRepo) TestConnection(_ context.Context) (string, error)            { return "", nil }

type fakeMailer struct {
	sent []ports.MailRecipient
	err  error
}

func (f *fakeMailer) Notify(_ context.Context, _ event.Event, recipient ports.MailRecipient) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, recipient)
	return "Email enviado a " + recipient.Email, nil
}

func validInput() CaptureInput {
	return CaptureInput{
		Reporter:      "Ana Flores",
		Category:      "Retrabajo",
		Cause:         "Error de ensamble",
		ProjectNumber: "PX-100",
		PartNumber:    "PN-555",
		Assignee:      "Luis Pérez",
		AssigneeEmail: "luis@example.com",
		Comments:      "Turno 2",
	}
}

func TestCaptureCreatesOpenEvent(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMailer{}, defaultCatalog())
	fixed := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Capture(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if result.ID != "101" {
		t.Fatalf("Capture() id = %q", result.ID)
	}
	if result.NotificationSent {
		t.Fatalf("notification sent without notify flag")
	}

	if len(repo.created) != 1 {
		t.Fatalf("created events = %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Status != event.StatusOpen {
		t.Fatalf("Status = %q, want Open", created.Status)
	}
	if !created.DetectedAt.Equal(fixed) {
		t.Fatalf("DetectedAt = %v, want %v", created.DetectedAt, fixed)
	}
}

func TestCaptureCollectsAllViolations(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMailer{}, defaultCatalog())

	input := CaptureInput{
		ProjectNumber: strings.Repeat("X", 11),
		PartNumber:    "PN-1",
		AssigneeEmail: "not-an-email",
		Comments:      strings.Repeat("c", 301),
	}

	_, err := svc.Capture(context.Background(), input)
	if err == nil {
		t.Fatalf("Capture() expected validation error")
	}

	var verr *event.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Capture() error type = %T", err)
	}
	// Missing reporter/category/cause/assignee plus long project,
	// bad email and long comments.
	if len(verr.Fields) != 7 {
		t.Fatalf("violations = %d (%v), want 7", len(verr.Fields), verr.Fields)
	}

	byField := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		byField[f.Field] = f.Message
	}
	if msg := byField["Número de Proyecto"]; !strings.Contains(msg, "10") {
		t.Fatalf("project violation = %q", msg)
	}
	if msg := byField["Correo del Responsable"]; msg != "no es un correo válido" {
		t.Fatalf("email violation = %q", msg)
	}
	if msg := byField["Persona que detecta hallazgo"]; msg != "es obligatorio" {
		t.Fatalf("reporter violation = %q", msg)
	}
}

func TestCaptureRejectsCategoryOutsideCatalog(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMailer{}, defaultCatalog())

	input := validInput()
	input.Category = "Inundación"
	input.Cause = "Lluvia"

	_, err := svc.Capture(context.Background(), input)

	var verr *event.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Capture() error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 1 {
		t.Fatalf("violations = %v, want only the category", verr.Fields)
	}
	if verr.Fields[0].Field != "Tipo de Impacto" || verr.Fields[0].Message != "no está en el catálogo" {
		t.Fatalf("violation = %+v", verr.Fields[0])
	}
	if len(repo.created) != 0 {
		t.Fatalf("created events = %d, want 0", len(repo.created))
	}
}

func TestCaptureRejectsCauseFromOtherCategory(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMailer{}, defaultCatalog())

	input := validInput()
	// Valid cause, but it belongs to Paro de Ensamble, not Retrabajo.
	input.Cause = "Falla de equipo"

	_, err := svc.Capture(context.Background(), input)

	var verr *event.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Capture() error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "Causa" {
		t.Fatalf("violations = %v, want only the cause", verr.Fields)
	}
	if verr.Fields[0].Message != "no corresponde al tipo de impacto seleccionado" {
		t.Fatalf("cause violation = %q", verr.Fields[0].Message)
	}
}

func TestCaptureFailsWhenCatalogUnavailable(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMailer{}, &fakeCatalog{err: errors.New("disk gone")})

	_, err := svc.Capture(context.Background(), validInput())
	if err == nil || !strings.Contains(err.Error(), "load catalog") {
		t.Fatalf("Capture() error = %v, want catalog load failure", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("created events = %d, want 0", len(repo.created))
	}
}

func TestCaptureValidationFailureSavesNothing(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMailer{}, defaultCatalog())

	if _, err := svc.Capture(context.Background(), CaptureInput{}); err == nil {
		t.Fatalf("Capture() expected error")
	}
	if len(repo.created) != 0 {
		t.Fatalf("created events = %d, want 0", len(repo.created))
	}
}

func TestCaptureNotifiesAssignee(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(&fakeRepo{}, mailer, defaultCatalog())

	input := validInput()
	input.Notify = true

	result, err := svc.Capture(context.Background(), input)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if !result.NotificationSent {
		t.Fatalf("NotificationSent = false")
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Email != "luis@example.com" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
}

func TestCaptureSurvivesNotificationFailure(t *testing.T) {
	repo := &fakeRepo{}
	mailer := &fakeMailer{err: errors.New("smtp relay down")}
	svc := NewService(repo, mailer, defaultCatalog())

	input := validInput()
	input.Notify = true

	result, err := svc.Capture(context.Background(), input)
	if err != nil {
		t.Fatalf("Capture() error = %v, capture must not fail on mail", err)
	}
	if result.ID != "101" || len(repo.created) != 1 {
		t.Fatalf("event not captured: %+v", result)
	}
	if result.NotificationSent {
		t.Fatalf("NotificationSent = true after mailer failure")
	}
	if !strings.Contains(result.NotificationMessage, "smtp relay down") {
		t.Fatalf("NotificationMessage = %q", result.NotificationMessage)
	}
}

func TestUpdateValidatesInput(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMailer{}, defaultCatalog())
	ctx := context.Background()

	if err := svc.Update(ctx, "", event.Patch{}); err == nil {
		t.Fatalf("Update() expected error for empty id")
	}
	if err := svc.Update(ctx, "5", event.Patch{}); err == nil {
		t.Fatalf("Update() expected error for empty patch")
	}

	bad := event.Status("Reopened")
	if err := svc.Update(ctx, "5", event.Patch{Status: &bad}); !errors.Is(err, event.ErrInvalidStatus) {
		t.Fatalf("Update(bad status) error = %v", err)
	}

	good := event.StatusClosed
	if err := svc.Update(ctx, "5", event.Patch{Status: &good}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if patch, ok := repo.patches["5"]; !ok || patch.Status == nil || *patch.Status != event.StatusClosed {
		t.Fatalf("patch not forwarded: %+v", repo.patches)
	}
}
