package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateEventInput carries the raw fields of a new event.
type CreateEventInput struct {
	ContractID int64
	Start      string
	End        string
	Location   string
	Attendees  string
	Notes      string
}

// UpdateEventInput is a partial update. SupportContactID set to nil
// unassigns the event.
type UpdateEventInput struct {
	Start            domain.Optional[string]
	End              domain.Optional[string]
	Location         domain.Optional[string]
	Attendees        domain.Optional[string]
	Notes            domain.Optional[string]
	SupportContactID domain.Optional[*int64]
}

// ListEventsInput carries the optional listing filters. MineOnly restricts
// the listing to events assigned to the caller.
type ListEventsInput struct {
	UnassignedOnly bool
	MineOnly       bool
}

// EventService manages events.
type EventService interface {
	Create(ctx context.Context, actor *domain.Identity, input CreateEventInput) (*domain.Event, error)
	List(ctx context.Context, actor *domain.Identity, input ListEventsInput) ([]*domain.Event, error)
	Update(ctx context.Context, actor *domain.Identity, id int64, input UpdateEventInput) (*domain.Event, error)
}
