package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/api/middleware"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// newContext builds an echo context for a JSON request. A non-nil identity is
// injected the way the Auth middleware does it.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.ContextIdentity, identity)
		c.Set(middleware.ContextToken, "token-1")
	}
	return c, rec
}

func manager() *domain.Identity {
	return &domain.Identity{AccountID: 1, Role: domain.RoleManagement}
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (string, *domain.Account, error)
	logoutFn func(ctx context.Context, token string) error
	whoAmIFn func(ctx context.Context, actor *domain.Identity) (*domain.Account, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (domain.Identity, bool) {
	return domain.Identity{}, false
}

func (s *stubAuthService) WhoAmI(ctx context.Context, actor *domain.Identity) (*domain.Account, error) {
	return s.whoAmIFn(ctx, actor)
}

type stubAccountService struct {
	ports.AccountService
	createFn func(ctx context.Context, actor *domain.Identity, input ports.CreateAccountInput) (*domain.Account, error)
	updateFn func(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateAccountInput) (*domain.Account, error)
	deleteFn func(ctx context.Context, actor *domain.Identity, id int64) error
}

func (s *stubAccountService) Create(ctx context.Context, actor *domain.Identity, input ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubAccountService) Update(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubAccountService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubClientService struct {
	ports.ClientService
	listFn   func(ctx context.Context, actor *domain.Identity) ([]*domain.Client, error)
	updateFn func(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateClientInput) (*domain.Client, error)
}

func (s *stubClientService) List(ctx context.Context, actor *domain.Identity) ([]*domain.Client, error) {
	return s.listFn(ctx, actor)
}

func (s *stubClientService) Update(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateClientInput) (*domain.Client, error) {
	return s.updateFn(ctx, actor, id, input)
}

type stubContractService struct {
	ports.ContractService
	createFn func(ctx context.Context, actor *domain.Identity, input ports.CreateContractInput) (*domain.Contract, error)
	listFn   func(ctx context.Context, actor *domain.Identity, input ports.ListContractsInput) ([]*domain.Contract, error)
	updateFn func(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateContractInput) (*domain.Contract, error)
}

func (s *stubContractService) Create(ctx context.Context, actor *domain.Identity, input ports.CreateContractInput) (*domain.Contract, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubContractService) List(ctx context.Context, actor *domain.Identity, input ports.ListContractsInput) ([]*domain.Contract, error) {
	return s.listFn(ctx, actor, input)
}

func (s *stubContractService) Update(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateContractInput) (*domain.Contract, error) {
	return s.updateFn(ctx, actor, id, input)
}

type stubEventService struct {
	ports.EventService
	createFn func(ctx context.Context, actor *domain.Identity, input ports.CreateEventInput) (*domain.Event, error)
	listFn   func(ctx context.Context, actor *domain.Identity, input ports.ListEventsInput) ([]*domain.Event, error)
	updateFn func(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateEventInput) (*domain.Event, error)
}

func (s *stubEventService) Create(ctx context.Context, actor *domain.Identity, input ports.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubEventService) List(ctx context.Context, actor *domain.Identity, input ports.ListEventsInput) ([]*domain.Event, error) {
	return s.listFn(ctx, actor, input)
}

func (s *stubEventService) Update(ctx context.Context, actor *domain.Identity, id int64, input ports.UpdateEventInput) (*domain.Event, error) {
	return s.updateFn(ctx, actor, id, input)
}
