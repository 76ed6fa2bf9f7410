package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func newAccountFixture() (*AccountService, *stubAccountRepo, *recordingSink) {
	accounts := newStubAccountRepo()
	sink := &recordingSink{}
	svc := NewAccountService(accounts, stubHasher{}, sink, zerolog.Nop())
	svc.now = fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return svc, accounts, sink
}

func validAccountInput(username, role string) ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Username: username,
		Email:    username + "@Epic.Test",
		Password: "Str0ngPass",
		Role:     role,
	}
}

func TestAccountService_Create_Success(t *testing.T) {
	svc, accounts, sink := newAccountFixture()
	boss := accounts.seed("boss", domain.RoleManagement)

	account, err := svc.Create(context.Background(), identity(boss), validAccountInput("carol", "Support"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if account.ID == 0 {
		t.Fatalf("expected an ID to be assigned")
	}
	if account.Role != domain.RoleSupport {
		t.Fatalf("expected role support, got %s", account.Role)
	}
	if account.Email != "carol@epic.test" {
		t.Fatalf("expected normalised email, got %q", account.Email)
	}
	if account.PasswordDigest != "hashed:Str0ngPass" {
		t.Fatalf("expected password to be hashed, got %q", account.PasswordDigest)
	}
	if len(sink.notices) != 1 || sink.notices[0].Kind != domain.NoticeAccountCreated {
		t.Fatalf("expected one account_created notice, got %+v", sink.notices)
	}
	if sink.notices[0].ActorID != boss.ID || sink.notices[0].SubjectID != account.ID {
		t.Fatalf("unexpected notice ids: %+v", sink.notices[0])
	}
}

func TestAccountService_NonManagementForbidden(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleCommercial, domain.RoleSupport} {
		svc, accounts, sink := newAccountFixture()
		actor := accounts.seed("actor", role)
		target := accounts.seed("target", domain.RoleSupport)
		ctx := context.Background()

		if _, err := svc.Create(ctx, identity(actor), validAccountInput("dave", "support")); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s create: expected ErrForbidden, got %v", role, err)
		}
		in := ports.UpdateAccountInput{Role: domain.Some("management")}
		if _, err := svc.Update(ctx, identity(actor), target.ID, in); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s update: expected ErrForbidden, got %v", role, err)
		}
		if err := svc.Delete(ctx, identity(actor), target.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s delete: expected ErrForbidden, got %v", role, err)
		}
		if len(accounts.byID) != 2 || accounts.byID[target.ID].Role != domain.RoleSupport {
			t.Fatalf("%s: accounts must be unchanged", role)
		}
		if len(sink.notices) != 0 {
			t.Fatalf("%s: expected no notices, got %d", role, len(sink.notices))
		}
	}
}

func TestAccountService_Create_Unauthenticated(t *testing.T) {
	svc, _, _ := newAccountFixture()

	if _, err := svc.Create(context.Background(), nil, validAccountInput("dave", "support")); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAccountService_Create_Validation(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))

	cases := map[string]ports.CreateAccountInput{
		"short username": {Username: "ab", Email: "ab@epic.test", Password: "Str0ngPass", Role: "support"},
		"bad email":      {Username: "dave", Email: "dave", Password: "Str0ngPass", Role: "support"},
		"weak password":  {Username: "dave", Email: "dave@epic.test", Password: "password", Role: "support"},
		"unknown role":   {Username: "dave", Email: "dave@epic.test", Password: "Str0ngPass", Role: "admin"},
	}
	for name, in := range cases {
		if _, err := svc.Create(context.Background(), boss, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
	if len(accounts.byID) != 1 {
		t.Fatalf("expected nothing persisted, got %d accounts", len(accounts.byID))
	}
}

func TestAccountService_Create_DuplicateUsernameOrEmail(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	ctx := context.Background()

	if _, err := svc.Create(ctx, boss, validAccountInput("boss", "support")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on username, got %v", err)
	}

	in := validAccountInput("other", "support")
	in.Email = "boss@epic.test"
	if _, err := svc.Create(ctx, boss, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on email, got %v", err)
	}
}

func TestAccountService_Update_PartialFields(t *testing.T) {
	svc, accounts, sink := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	target := accounts.seed("carol", domain.RoleSupport)

	in := ports.UpdateAccountInput{
		Password: domain.Some("N3wPassword"),
		Role:     domain.Some("commercial"),
	}
	account, err := svc.Update(context.Background(), boss, target.ID, in)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if account.Role != domain.RoleCommercial {
		t.Fatalf("expected role commercial, got %s", account.Role)
	}
	if account.PasswordDigest != "hashed:N3wPassword" {
		t.Fatalf("expected re-hashed password, got %q", account.PasswordDigest)
	}
	if account.Username != "carol" || account.Email != "carol@epic.test" {
		t.Fatalf("absent fields must be untouched: %+v", account)
	}
	if len(sink.notices) != 1 || sink.notices[0].Kind != domain.NoticeAccountUpdated {
		t.Fatalf("expected one account_updated notice, got %+v", sink.notices)
	}
}

func TestAccountService_Update_EmptyRequiredField(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	target := accounts.seed("carol", domain.RoleSupport)

	in := ports.UpdateAccountInput{Email: domain.Some("")}
	if _, err := svc.Update(context.Background(), boss, target.ID, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAccountService_Update_KeepOwnUsername(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	target := accounts.seed("carol", domain.RoleSupport)
	accounts.seed("dave", domain.RoleSupport)
	ctx := context.Background()

	if _, err := svc.Update(ctx, boss, target.ID, ports.UpdateAccountInput{Username: domain.Some("carol")}); err != nil {
		t.Fatalf("re-submitting own username must succeed, got %v", err)
	}
	if _, err := svc.Update(ctx, boss, target.ID, ports.UpdateAccountInput{Username: domain.Some("dave")}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAccountService_Update_NotFound(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))

	if _, err := svc.Update(context.Background(), boss, 999, ports.UpdateAccountInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountService_Update_StoreFailure(t *testing.T) {
	svc, accounts, sink := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	target := accounts.seed("carol", domain.RoleSupport)
	accounts.updateErr = errStoreDown

	_, err := svc.Update(context.Background(), boss, target.ID, ports.UpdateAccountInput{Role: domain.Some("commercial")})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(sink.notices) != 0 {
		t.Fatalf("no notice may be emitted for a failed write")
	}
}

func TestAccountService_Delete(t *testing.T) {
	svc, accounts, sink := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	target := accounts.seed("carol", domain.RoleSupport)
	ctx := context.Background()

	if err := svc.Delete(ctx, boss, target.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := accounts.byID[target.ID]; ok {
		t.Fatalf("expected account to be removed")
	}
	if len(sink.notices) != 1 || sink.notices[0].Kind != domain.NoticeAccountDeleted {
		t.Fatalf("expected one account_deleted notice, got %+v", sink.notices)
	}
	if err := svc.Delete(ctx, boss, target.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAccountService_SinkFailureIsNonFatal(t *testing.T) {
	svc, accounts, sink := newAccountFixture()
	boss := identity(accounts.seed("boss", domain.RoleManagement))
	sink.err = errors.New("sink unavailable")

	if _, err := svc.Create(context.Background(), boss, validAccountInput("carol", "support")); err != nil {
		t.Fatalf("sink failure must not fail the operation, got %v", err)
	}
	if len(accounts.byID) != 2 {
		t.Fatalf("expected account to be persisted")
	}
}

func TestAccountService_List(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	support := identity(accounts.seed("carol", domain.RoleSupport))
	accounts.seed("boss", domain.RoleManagement)

	list, err := svc.List(context.Background(), support)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(list))
	}
}

func TestAccountService_Bootstrap(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	ctx := context.Background()

	account, err := svc.Bootstrap(ctx, validAccountInput("root", "support"))
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if account.Role != domain.RoleManagement {
		t.Fatalf("superuser must be management, got %s", account.Role)
	}

	if _, err := svc.Bootstrap(ctx, validAccountInput("root2", "management")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict once accounts exist, got %v", err)
	}
	if len(accounts.byID) != 1 {
		t.Fatalf("expected a single account, got %d", len(accounts.byID))
	}
}
