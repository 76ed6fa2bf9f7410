package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
)

func newAuthFixture() (*AuthService, *stubAccountRepo, *stubAuthenticator) {
	accounts := newStubAccountRepo()
	tokens := newStubAuthenticator()
	svc := NewAuthService(accounts, stubHasher{}, tokens, time.Hour, zerolog.Nop())
	return svc, accounts, tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, accounts, tokens := newAuthFixture()
	alice := accounts.seed("alice", domain.RoleCommercial)

	token, account, err := svc.Login(context.Background(), " alice ", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if account.ID != alice.ID {
		t.Fatalf("expected account %d, got %d", alice.ID, account.ID)
	}
	if tokens.lastTTL != time.Hour {
		t.Fatalf("expected ttl 1h, got %s", tokens.lastTTL)
	}
	if got := tokens.issued[token]; got.AccountID != alice.ID || got.Role != domain.RoleCommercial {
		t.Fatalf("unexpected identity in token: %+v", got)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, accounts, _ := newAuthFixture()
	accounts.seed("alice", domain.RoleCommercial)

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, _, err := svc.Login(context.Background(), "ghost", "Secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Resolve_UsesCurrentRole(t *testing.T) {
	svc, accounts, _ := newAuthFixture()
	bob := accounts.seed("bob", domain.RoleSupport)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "bob", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	accounts.byID[bob.ID].Role = domain.RoleManagement

	id, ok := svc.Resolve(ctx, token)
	if !ok {
		t.Fatalf("expected token to resolve")
	}
	if id.Role != domain.RoleManagement {
		t.Fatalf("expected refreshed role management, got %s", id.Role)
	}
}

func TestAuthService_Resolve_DeletedAccount(t *testing.T) {
	svc, accounts, _ := newAuthFixture()
	bob := accounts.seed("bob", domain.RoleSupport)
	ctx := context.Background()

	token, _, _ := svc.Login(ctx, "bob", "Secret123")
	delete(accounts.byID, bob.ID)

	if _, ok := svc.Resolve(ctx, token); ok {
		t.Fatalf("expected token of a deleted account to be rejected")
	}
}

func TestAuthService_Resolve_Garbage(t *testing.T) {
	svc, _, _ := newAuthFixture()

	for _, token := range []string{"", "not-a-token"} {
		if _, ok := svc.Resolve(context.Background(), token); ok {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, accounts, _ := newAuthFixture()
	accounts.seed("alice", domain.RoleCommercial)
	ctx := context.Background()

	token, _, _ := svc.Login(ctx, "alice", "Secret123")
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := svc.Resolve(ctx, token); ok {
		t.Fatalf("expected revoked token to be rejected")
	}
	if err := svc.Logout(ctx, token); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated on second logout, got %v", err)
	}
}

func TestAuthService_WhoAmI(t *testing.T) {
	svc, accounts, _ := newAuthFixture()
	alice := accounts.seed("alice", domain.RoleCommercial)

	account, err := svc.WhoAmI(context.Background(), identity(alice))
	if err != nil {
		t.Fatalf("WhoAmI returned error: %v", err)
	}
	if account.Username != "alice" {
		t.Fatalf("unexpected account: %+v", account)
	}

	if _, err := svc.WhoAmI(context.Background(), nil); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
