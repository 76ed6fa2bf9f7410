package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateClientInput carries the raw fields of a new client.
type CreateClientInput struct {
	FullName    string
	Email       string
	Phone       string
	CompanyName string
}

// UpdateClientInput is a partial update. An explicit empty phone or company
// name clears the field.
type UpdateClientInput struct {
	FullName    domain.Optional[string]
	Email       domain.Optional[string]
	Phone       domain.Optional[string]
	CompanyName domain.Optional[string]
}

// ClientService manages clients.
type ClientService interface {
	Create(ctx context.Context, actor *domain.Identity, input CreateClientInput) (*domain.Client, error)
	List(ctx context.Context, actor *domain.Identity) ([]*domain.Client, error)
	Update(ctx context.Context, actor *domain.Identity, id int64, input UpdateClientInput) (*domain.Client, error)
}
