package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateAccountInput carries the raw fields of a new account.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateAccountInput is a partial update; absent fields are left untouched.
type UpdateAccountInput struct {
	Username domain.Optional[string]
	Email    domain.Optional[string]
	Password domain.Optional[string]
	Role     domain.Optional[string]
}

// AccountService manages staff accounts.
type AccountService interface {
	// Bootstrap creates the first management account. It needs no actor and
	// fails with domain.ErrConflict once any account exists.
	Bootstrap(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Create(ctx context.Context, actor *domain.Identity, input CreateAccountInput) (*domain.Account, error)
	List(ctx context.Context, actor *domain.Identity) ([]*domain.Account, error)
	Update(ctx context.Context, actor *domain.Identity, id int64, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, actor *domain.Identity, id int64) error
}
