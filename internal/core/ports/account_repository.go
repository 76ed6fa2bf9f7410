package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// AccountRepository persists staff accounts. Lookups of a missing row return
// domain.ErrNotFound; a duplicate username or email returns domain.ErrConflict.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Count(ctx context.Context) (int64, error)
	// Create assigns the new ID to account.
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
}
