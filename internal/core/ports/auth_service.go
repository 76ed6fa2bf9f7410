package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// AuthService logs staff in and out and resolves tokens to identities.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (domain.Identity, bool)
	WhoAmI(ctx context.Context, actor *domain.Identity) (*domain.Account, error)
}
