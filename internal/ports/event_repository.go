package ports

import (
	"context"

	"opevents/internal/domain/event"
)

// ListColumn describes one remote-store column for diagnostic display.
type ListColumn struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// EventRepository persists events in the remote list store. The store
// is authoritative; there is no delete operation. All business
// filtering happens after retrieval.
type EventRepository interface {
	Create(ctx context.Context, e event.Event) (string, error)
	ListAll(ctx context.Context) ([]event.Event, error)
	Update(ctx context.Context, id string, patch event.Patch) error
	DescribeSchema(ctx context.Context) ([]ListColumn, error)
	TestConnection(ctx context.Context) (string, error)
}
