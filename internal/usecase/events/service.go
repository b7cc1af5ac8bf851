package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"opevents/internal/bootstrap/logging"
	domaincatalog "opevents/internal/domain/catalog"
	"opevents/internal/domain/event"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

// CatalogProvider supplies the current impact/cause taxonomy so captures
// only accept values the catalog knows.
type CatalogProvider interface {
	Get(ctx context.Context) (domaincatalog.Catalog, error)
}

// Service covers the capture and management flows over the remote
// event store, with an optional notification to the assignee.
type Service struct {
	repo     ports.EventRepository
	mailer   ports.Mailer
	catalog  CatalogProvider
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo ports.EventRepository, mailer ports.Mailer, catalog CatalogProvider) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		catalog:  catalog,
		validate: validator.New(),
		now:      time.Now,
	}
}

// CaptureInput is the capture form. The length bounds match the list
// store's column widths.
type CaptureInput struct {
	Reporter      string `json:"persona_detecta" validate:"required"`
	Category      string `json:"tipo_impacto" validate:"required"`
	Cause         string `json:"causa" validate:"required"`
	ProjectNumber string `json:"numero_proyecto" validate:"required,max=10"`
	PartNumber    string `json:"numero_parte" validate:"required,max=15"`
	Assignee      string `json:"responsable" validate:"required"`
	AssigneeEmail string `json:"responsable_email" validate:"omitempty,email"`
	Comments      string `json:"comentarios" validate:"max=300"`
	Notify        bool   `json:"notify"`
}

type CaptureResult struct {
	ID                  string `json:"id"`
	NotificationSent    bool   `json:"notification_sent"`
	NotificationMessage string `json:"notification_message,omitempty"`
}

// Capture validates the form (reporting every violated field at once),
// creates the event with detection timestamp now and status Open, and
// optionally notifies the assignee. A failed notification does not
// undo the capture; its message is surfaced alongside the new id.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (CaptureResult, error) {
	if ctx == nil {
		return CaptureResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return CaptureResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return CaptureResult{}, errors.New("event repository is required")
	}

	if err := s.validateInput(ctx, input); err != nil {
		return CaptureResult{}, err
	}

	e := event.Event{
		Reporter:      input.Reporter,
		Category:      input.Category,
		Cause:         input.Cause,
		ProjectNumber: input.ProjectNumber,
		PartNumber:    input.PartNumber,
		Assignee:      input.Assignee,
		Comments:      input.Comments,
		DetectedAt:    s.now().UTC(),
		Status:        event.StatusOpen,
	}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return CaptureResult{}, err
	}
	e.ID = id

	result := CaptureResult{ID: id}
	if input.Notify && s.mailer != nil && input.AssigneeEmail != "" {
		msg, err := s.mailer.Notify(ctx, e, ports.MailRecipient{
			Email: input.AssigneeEmail,
			Name:  input.Assignee,
		})
		if err != nil {
			logging.Warn(ctx, "event captured but notification failed",
				slog.String("event_id", id),
				slog.Any("err", errs.Loggable(err)),
			)
			result.NotificationMessage = err.Error()
		} else {
			result.NotificationSent = true
			result.NotificationMessage = msg
		}
	}

	return result, nil
}

func (s *Service) List(ctx context.Context) ([]event.Event, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	return s.repo.ListAll(ctx)
}

// Update submits the supplied remediation/status subset for one event.
func (s *Service) Update(ctx context.Context, id string, patch event.Patch) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if id == "" {
		return errors.New("event id is required")
	}
	if patch.IsEmpty() {
		return errors.New("no fields to update")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return event.ErrInvalidStatus
	}
	return s.repo.Update(ctx, id, patch)
}

// Capture-form labels shown to the operator, keyed by struct field.
var fieldLabels = map[string]string{
	"Reporter":      "Persona que detecta hallazgo",
	"Category":      "Tipo de Impacto",
	"Cause":         "Causa",
	"ProjectNumber": "Número de Proyecto",
	"PartNumber":    "Número de Parte / Número de Plano",
	"Assignee":      "Responsable",
	"AssigneeEmail": "Correo del Responsable",
	"Comments":      "Comentarios",
}

// validateInput collects every violation into one ValidationError so
// the form can list all of them at once; nothing is saved partially.
// Category and cause must also exist in the catalog, matching the
// selectable options of the capture form.
func (s *Service) validateInput(ctx context.Context, input CaptureInput) error {
	verr := &event.ValidationError{}

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errs.Wrap(err, "validate capture input")
		}
		for _, fe := range fieldErrs {
			label, ok := fieldLabels[fe.Field()]
			if !ok {
				label = fe.Field()
			}
			verr.Fields = append(verr.Fields, event.FieldViolation{
				Field:   label,
				Message: violationMessage(fe),
			})
		}
	}

	if err := s.checkCatalogMembership(ctx, input, verr); err != nil {
		return err
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// checkCatalogMembership appends violations for a category or cause the
// catalog does not know. Empty values are skipped; the required rule
// already reports those.
func (s *Service) checkCatalogMembership(ctx context.Context, input CaptureInput, verr *event.ValidationError) error {
	if s.catalog == nil || input.Category == "" {
		return nil
	}

	cat, err := s.catalog.Get(ctx)
	if err != nil {
		return errs.Wrap(err, "load catalog")
	}

	if !cat.HasCategory(input.Category) {
		verr.Fields = append(verr.Fields, event.FieldViolation{
			Field:   fieldLabels["Category"],
			Message: "no está en el catálogo",
		})
		return nil
	}
	if input.Cause != "" && !cat.HasCause(input.Category, input.Cause) {
		verr.Fields = append(verr.Fields, event.FieldViolation{
			Field:   fieldLabels["Cause"],
			Message: "no corresponde al tipo de impacto seleccionado",
		})
	}
	return nil
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "max":
		return "excede el máximo de " + fe.Param() + " caracteres"
	case "email":
		return "no es un correo válido"
	default:
		return "no es válido"
	}
}
