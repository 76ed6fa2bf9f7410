package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/policy"
	"github.com/epicevents/crm/internal/core/ports"
)

// AuthService implements login, logout and identity resolution.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   ports.Hasher
	tokens   ports.Authenticator
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(accounts ports.AccountRepository, hasher ports.Hasher, tokens ports.Authenticator, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

// Login checks the credentials and issues a session token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, lookupErr("account", 0, err)
	}

	if !s.hasher.Verify(account.PasswordDigest, password) {
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, account.Identity(), s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("account_id", account.ID).Str("role", string(account.Role)).Msg("login succeeded")
	return token, account, nil
}

// Logout revokes the token so it can no longer be resolved.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, ok := s.tokens.Verify(ctx, token); !ok {
		return domain.ErrNotAuthenticated
	}
	return s.tokens.Revoke(ctx, token)
}

// Resolve turns a token into the caller identity. The role is re-read from
// the account so a role change or a deletion takes effect immediately.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Identity, bool) {
	if token == "" {
		return domain.Identity{}, false
	}
	identity, ok := s.tokens.Verify(ctx, token)
	if !ok {
		return domain.Identity{}, false
	}

	account, err := s.accounts.FindByID(ctx, identity.AccountID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Int64("account_id", identity.AccountID).Msg("identity lookup failed")
		}
		return domain.Identity{}, false
	}
	return account.Identity(), true
}

// WhoAmI returns the caller's own account.
func (s *AuthService) WhoAmI(ctx context.Context, actor *domain.Identity) (*domain.Account, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, actor.AccountID)
	if err != nil {
		return nil, lookupErr("account", actor.AccountID, err)
	}
	return account, nil
}
