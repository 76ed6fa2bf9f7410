package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	"github.com/epicevents/crm/internal/infrastructure/notify"
	"github.com/epicevents/crm/internal/infrastructure/security"
)

// newTestRouter wires the real services over the in-memory store and
// bootstraps the "boss" management account.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()

	accounts := memory.NewAccountRepository()
	clients := memory.NewClientRepository()
	contracts := memory.NewContractRepository()
	events := memory.NewEventRepository()

	hasher := security.NewBcryptHasher(4)
	tokens := security.NewJWTAuthenticator("test-secret", memory.NewRevocationList(), log)
	sink := notify.NewLogSink(log)

	accountService := service.NewAccountService(accounts, hasher, sink, log)
	_, err := accountService.Bootstrap(context.Background(), ports.CreateAccountInput{
		Username: "boss",
		Email:    "boss@epic.test",
		Password: "Secret123",
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	return NewRouter(Services{
		Auth:      service.NewAuthService(accounts, hasher, tokens, time.Hour, log),
		Accounts:  accountService,
		Clients:   service.NewClientService(clients, log),
		Contracts: service.NewContractService(contracts, clients, sink, log),
		Events:    service.NewEventService(events, contracts, clients, accounts, log),
	}, nil, log)
}

func call(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec := call(e, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"Secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: no token in %s", username, rec.Body.String())
	}
	return resp.Token
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// One router per package: the prometheus middleware registers its collectors
// globally.
func TestRouter_Workflow(t *testing.T) {
	e := newTestRouter(t)

	expectStatus(t, call(e, http.MethodGet, "/health", "", ""), http.StatusOK)
	expectStatus(t, call(e, http.MethodGet, "/health/ready", "", ""), http.StatusOK)
	expectStatus(t, call(e, http.MethodGet, "/v1/clients", "", ""), http.StatusUnauthorized)
	expectStatus(t, call(e, http.MethodGet, "/v1/clients", "garbage", ""), http.StatusUnauthorized)
	expectStatus(t, call(e, http.MethodPost, "/auth/login", "", `{"username":"boss","password":"Wrong123"}`), http.StatusUnauthorized)

	boss := login(t, e, "boss")

	rec := call(e, http.MethodPost, "/v1/accounts", boss,
		`{"username":"carla","email":"carla@epic.test","password":"Secret123","role":"commercial"}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = call(e, http.MethodPost, "/v1/accounts", boss,
		`{"username":"carla","email":"other@epic.test","password":"Secret123","role":"support"}`)
	expectStatus(t, rec, http.StatusConflict)

	carla := login(t, e, "carla")
	expectStatus(t, call(e, http.MethodGet, "/v1/accounts", carla, ""), http.StatusOK)
	expectStatus(t, call(e, http.MethodDelete, "/v1/accounts/1", carla, ""), http.StatusForbidden)

	rec = call(e, http.MethodPost, "/v1/clients", carla,
		`{"full_name":"Kevin Casey","email":"kevin@startup.io","phone":"+33 6 12 34 56 78","company_name":"Cool Startup"}`)
	expectStatus(t, rec, http.StatusCreated)

	// Only commercials create clients.
	rec = call(e, http.MethodPost, "/v1/clients", boss, `{"full_name":"Jane Doe","email":"jane@corp.io"}`)
	expectStatus(t, rec, http.StatusForbidden)

	rec = call(e, http.MethodPost, "/v1/contracts", boss, `{"client_id":1,"total_amount":"1 000,00","remaining_amount":500}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = call(e, http.MethodPost, "/v1/contracts", boss, `{"client_id":42,"total_amount":"10","remaining_amount":"10"}`)
	expectStatus(t, rec, http.StatusNotFound)

	// Events need a signed contract.
	rec = call(e, http.MethodPost, "/v1/events", carla,
		`{"contract_id":1,"start":"2026-06-04 13:00:00","end":"2026-06-05 02:00:00","attendees":75}`)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	expectStatus(t, call(e, http.MethodPatch, "/v1/contracts/1", carla, `{"status":"signed"}`), http.StatusOK)
	expectStatus(t, call(e, http.MethodPatch, "/v1/contracts/1", carla, `{"status":"unsigned"}`), http.StatusUnprocessableEntity)

	rec = call(e, http.MethodPost, "/v1/events", carla,
		`{"contract_id":1,"start":"2026-06-04 13:00:00","end":"2026-06-05 02:00:00","attendees":75}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = call(e, http.MethodGet, "/v1/events?unassigned=true", boss, "")
	expectStatus(t, rec, http.StatusOK)
	var listed []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil || len(listed) != 1 {
		t.Fatalf("expected one unassigned event, got %s", rec.Body.String())
	}

	expectStatus(t, call(e, http.MethodPost, "/auth/logout", carla, ""), http.StatusNoContent)
	expectStatus(t, call(e, http.MethodGet, "/auth/whoami", carla, ""), http.StatusUnauthorized)
	expectStatus(t, call(e, http.MethodGet, "/auth/whoami", boss, ""), http.StatusOK)

	expectStatus(t, call(e, http.MethodGet, "/metrics", "", ""), http.StatusOK)
}
