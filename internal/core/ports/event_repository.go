package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// EventFilter narrows an event listing.
type EventFilter struct {
	UnassignedOnly   bool
	SupportContactID *int64 // only events handled by this support account
}

// EventRepository persists events.
type EventRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
	// Create assigns the new ID to event.
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
}
