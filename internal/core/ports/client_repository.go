package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// ClientRepository persists clients.
type ClientRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	// Create assigns the new ID to client.
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
}
