package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/policy"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/sanitize"
)

const (
	maxFullNameLength    = 100
	maxCompanyNameLength = 100
)

type ClientService struct {
	clients ports.ClientRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewClientService(clients ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a client owned by the calling commercial.
func (s *ClientService) Create(ctx context.Context, actor *domain.Identity, in ports.CreateClientInput) (*domain.Client, error) {
	if err := policy.CanCreateClient(actor); err != nil {
		return nil, err
	}

	fullName := sanitize.SanitizeString(in.FullName, maxFullNameLength, false)
	if fullName == "" {
		return nil, required("full_name")
	}
	email, err := sanitize.ValidateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone, err := sanitize.ValidatePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	now := s.now()
	client := &domain.Client{
		FullName:           fullName,
		Email:              email,
		Phone:              phone,
		CompanyName:        sanitize.SanitizeString(in.CompanyName, maxCompanyNameLength, false),
		CreationDate:       now,
		LastContactDate:    now,
		OwningCommercialID: actor.AccountID,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, writeErr("create client", err)
	}

	s.log.Info().Int64("client_id", client.ID).Int64("commercial_id", actor.AccountID).Msg("client created")
	return client, nil
}

func (s *ClientService) List(ctx context.Context, actor *domain.Identity) ([]*domain.Client, error) {
	if err := policy.CanList(actor); err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w: %w", domain.ErrPersistence, err)
	}
	return nonNil(clients), nil
}

// Update applies the provided fields and refreshes the last contact date.
func (s *ClientService) Update(ctx context.Context, actor *domain.Identity, id int64, in ports.UpdateClientInput) (*domain.Client, error) {
	if err := policy.CanUpdateClient(actor, nil); err != nil {
		return nil, err
	}

	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("client", id, err)
	}
	if err := policy.CanUpdateClient(actor, client); err != nil {
		return nil, err
	}

	if raw, ok := in.FullName.Get(); ok {
		client.FullName = sanitize.SanitizeString(raw, maxFullNameLength, false)
		if client.FullName == "" {
			return nil, required("full_name")
		}
	}
	if raw, ok := in.Email.Get(); ok {
		if client.Email, err = sanitize.ValidateEmail(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := in.Phone.Get(); ok {
		if client.Phone, err = sanitize.ValidatePhone(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := in.CompanyName.Get(); ok {
		client.CompanyName = sanitize.SanitizeString(raw, maxCompanyNameLength, false)
	}

	client.LastContactDate = s.now()
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, writeErr("update client", err)
	}

	s.log.Info().Int64("client_id", client.ID).Int64("commercial_id", actor.AccountID).Msg("client updated")
	return client, nil
}
