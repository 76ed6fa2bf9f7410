package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/policy"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/sanitize"
)

type AccountService struct {
	accounts ports.AccountRepository
	hasher   ports.Hasher
	sink     ports.EventSink
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, hasher ports.Hasher, sink ports.EventSink, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		sink:     sink,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Bootstrap creates the very first account, which is always management.
func (s *AccountService) Bootstrap(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	n, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w: %w", domain.ErrPersistence, err)
	}
	if n > 0 {
		return nil, fmt.Errorf("bootstrap: accounts %w", domain.ErrConflict)
	}

	in.Role = string(domain.RoleManagement)
	account, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.sink, s.log, domain.Notice{
		Kind:       domain.NoticeAccountCreated,
		Message:    fmt.Sprintf("superuser %q created", account.Username),
		Severity:   domain.SeverityInfo,
		SubjectID:  account.ID,
		OccurredAt: account.CreatedAt,
	})
	return account, nil
}

func (s *AccountService) Create(ctx context.Context, actor *domain.Identity, in ports.CreateAccountInput) (*domain.Account, error) {
	if err := policy.CanManageAccounts(actor); err != nil {
		return nil, err
	}

	account, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.sink, s.log, domain.Notice{
		Kind:       domain.NoticeAccountCreated,
		Message:    fmt.Sprintf("account %q (%s) created", account.Username, account.Role),
		Severity:   domain.SeverityInfo,
		ActorID:    actor.AccountID,
		SubjectID:  account.ID,
		OccurredAt: account.CreatedAt,
	})
	return account, nil
}

func (s *AccountService) create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	username, err := sanitize.ValidateUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := sanitize.ValidateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := sanitize.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, 0, username, email); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		Username:       username,
		Email:          email,
		PasswordDigest: digest,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, writeErr("create account", err)
	}

	s.log.Info().Int64("account_id", account.ID).Str("role", string(role)).Msg("account created")
	return account, nil
}

func (s *AccountService) List(ctx context.Context, actor *domain.Identity) ([]*domain.Account, error) {
	if err := policy.CanList(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w: %w", domain.ErrPersistence, err)
	}
	return nonNil(accounts), nil
}

// Update applies the provided fields only. A new password is re-hashed and a
// new role is checked against the known roles.
func (s *AccountService) Update(ctx context.Context, actor *domain.Identity, id int64, in ports.UpdateAccountInput) (*domain.Account, error) {
	if err := policy.CanManageAccounts(actor); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("account", id, err)
	}

	var username, email string
	if raw, ok := in.Username.Get(); ok {
		if username, err = sanitize.ValidateUsername(raw); err != nil {
			return nil, err
		}
		if username != account.Username {
			account.Username = username
		} else {
			username = ""
		}
	}
	if raw, ok := in.Email.Get(); ok {
		if email, err = sanitize.ValidateEmail(raw); err != nil {
			return nil, err
		}
		if email != account.Email {
			account.Email = email
		} else {
			email = ""
		}
	}
	if raw, ok := in.Role.Get(); ok {
		if account.Role, err = domain.ParseRole(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := in.Password.Get(); ok {
		if err := sanitize.ValidatePassword(raw); err != nil {
			return nil, err
		}
		if account.PasswordDigest, err = s.hasher.Hash(raw); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.ensureUnique(ctx, account.ID, username, email); err != nil {
		return nil, err
	}

	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, writeErr("update account", err)
	}

	s.log.Info().Int64("account_id", account.ID).Int64("actor_id", actor.AccountID).Msg("account updated")
	notify(ctx, s.sink, s.log, domain.Notice{
		Kind:       domain.NoticeAccountUpdated,
		Message:    fmt.Sprintf("account %q updated", account.Username),
		Severity:   domain.SeverityInfo,
		ActorID:    actor.AccountID,
		SubjectID:  account.ID,
		OccurredAt: account.UpdatedAt,
	})
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	if err := policy.CanManageAccounts(actor); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return lookupErr("account", id, err)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return writeErr("delete account", err)
	}

	s.log.Info().Int64("account_id", id).Int64("actor_id", actor.AccountID).Msg("account deleted")
	notify(ctx, s.sink, s.log, domain.Notice{
		Kind:       domain.NoticeAccountDeleted,
		Message:    fmt.Sprintf("account %q deleted", account.Username),
		Severity:   domain.SeverityWarning,
		ActorID:    actor.AccountID,
		SubjectID:  id,
		OccurredAt: s.now(),
	})
	return nil
}

// ensureUnique rejects a username or email already used by another account.
// Empty values are not checked.
func (s *AccountService) ensureUnique(ctx context.Context, selfID int64, username, email string) error {
	if username != "" {
		existing, err := s.accounts.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return fmt.Errorf("username %q: %w", username, domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check username: %w: %w", domain.ErrPersistence, err)
		}
	}
	if email != "" {
		existing, err := s.accounts.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return fmt.Errorf("email %q: %w", email, domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check email: %w: %w", domain.ErrPersistence, err)
		}
	}
	return nil
}
