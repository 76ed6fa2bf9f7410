package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/policy"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/sanitize"
)

const (
	maxAttendees      = 999999
	maxLocationLength = 255
	maxNotesLength    = 2000
)

type EventService struct {
	events    ports.EventRepository
	contracts ports.ContractRepository
	clients   ports.ClientRepository
	accounts  ports.AccountRepository
	log       zerolog.Logger
}

func NewEventService(events ports.EventRepository, contracts ports.ContractRepository, clients ports.ClientRepository, accounts ports.AccountRepository, log zerolog.Logger) *EventService {
	return &EventService{
		events:    events,
		contracts: contracts,
		clients:   clients,
		accounts:  accounts,
		log:       log,
	}
}

// Create schedules an event for a signed contract of one of the caller's
// clients. New events have no support contact.
func (s *EventService) Create(ctx context.Context, actor *domain.Identity, in ports.CreateEventInput) (*domain.Event, error) {
	if err := policy.CanCreateEvent(actor, nil, nil); err != nil {
		return nil, err
	}

	event := &domain.Event{ContractID: in.ContractID}
	var err error
	if event.Start, err = sanitize.ValidateTimestamp(in.Start); err != nil {
		return nil, field("start", err)
	}
	if event.End, err = sanitize.ValidateTimestamp(in.End); err != nil {
		return nil, field("end", err)
	}
	if err := checkSchedule(event); err != nil {
		return nil, err
	}
	if event.Attendees, err = parseAttendees(in.Attendees); err != nil {
		return nil, err
	}
	event.Location = sanitize.SanitizeString(in.Location, maxLocationLength, false)
	event.Notes = sanitize.SanitizeString(in.Notes, maxNotesLength, false)

	contract, err := s.contracts.FindByID(ctx, in.ContractID)
	if err != nil {
		return nil, lookupErr("contract", in.ContractID, err)
	}
	client, err := s.clients.FindByID(ctx, contract.ClientID)
	if err != nil {
		return nil, lookupErr("client", contract.ClientID, err)
	}
	if err := policy.CanCreateEvent(actor, contract, client); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, writeErr("create event", err)
	}

	s.log.Info().Int64("event_id", event.ID).Int64("contract_id", event.ContractID).Msg("event created")
	return event, nil
}

// List returns every event, or only the unassigned ones, or only the ones
// assigned to the caller. Both filters may be combined.
func (s *EventService) List(ctx context.Context, actor *domain.Identity, in ports.ListEventsInput) ([]*domain.Event, error) {
	if err := policy.CanList(actor); err != nil {
		return nil, err
	}

	filter := ports.EventFilter{UnassignedOnly: in.UnassignedOnly}
	if in.MineOnly {
		id := actor.AccountID
		filter.SupportContactID = &id
	}

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w: %w", domain.ErrPersistence, err)
	}
	return nonNil(events), nil
}

// Update applies the provided fields. Changing the support contact is
// reserved to management and the new contact must be a support account.
func (s *EventService) Update(ctx context.Context, actor *domain.Identity, id int64, in ports.UpdateEventInput) (*domain.Event, error) {
	if err := policy.CanUpdateEvent(actor, nil); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("event", id, err)
	}
	if err := policy.CanUpdateEvent(actor, event); err != nil {
		return nil, err
	}

	if raw, ok := in.Start.Get(); ok {
		if event.Start, err = sanitize.ValidateTimestamp(raw); err != nil {
			return nil, field("start", err)
		}
	}
	if raw, ok := in.End.Get(); ok {
		if event.End, err = sanitize.ValidateTimestamp(raw); err != nil {
			return nil, field("end", err)
		}
	}
	if err := checkSchedule(event); err != nil {
		return nil, err
	}
	if raw, ok := in.Attendees.Get(); ok {
		if event.Attendees, err = parseAttendees(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := in.Location.Get(); ok {
		event.Location = sanitize.SanitizeString(raw, maxLocationLength, false)
	}
	if raw, ok := in.Notes.Get(); ok {
		event.Notes = sanitize.SanitizeString(raw, maxNotesLength, false)
	}

	if contactID, ok := in.SupportContactID.Get(); ok {
		if err := policy.CanAssignSupport(actor); err != nil {
			return nil, err
		}
		if contactID != nil {
			if err := s.checkSupportContact(ctx, *contactID); err != nil {
				return nil, err
			}
			v := *contactID
			contactID = &v
		}
		event.SupportContactID = contactID
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, writeErr("update event", err)
	}

	s.log.Info().Int64("event_id", event.ID).Int64("actor_id", actor.AccountID).Msg("event updated")
	return event, nil
}

func (s *EventService) checkSupportContact(ctx context.Context, id int64) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return lookupErr("account", id, err)
	}
	if account.Role != domain.RoleSupport {
		return fmt.Errorf("%w: account %d is not a support account", domain.ErrInvalidState, id)
	}
	return nil
}

func checkSchedule(e *domain.Event) error {
	if e.End.Before(e.Start) {
		return &domain.ValidationError{Field: "end", Reason: "must not be before start"}
	}
	return nil
}

// parseAttendees reads an attendee count; a blank value means none.
func parseAttendees(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := sanitize.ValidateInteger(raw, 0, maxAttendees)
	if err != nil {
		return 0, field("attendees", err)
	}
	return n, nil
}
