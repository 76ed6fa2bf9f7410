package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("store down")

type stubAccountRepo struct {
	byID      map[int64]*domain.Account
	nextID    int64
	updateErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

// seed stores an account directly, bypassing the service.
func (r *stubAccountRepo) seed(username string, role domain.Role) *domain.Account {
	a := &domain.Account{Username: username, Email: username + "@epic.test", PasswordDigest: "hashed:Secret123", Role: role}
	_ = r.Create(context.Background(), a)
	return a
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Username == username {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byID {
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.nextID++
	a.ID = r.nextID
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubClientRepo struct {
	byID      map[int64]*domain.Client
	nextID    int64
	createErr error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byID: make(map[int64]*domain.Client)}
}

func (r *stubClientRepo) seed(owner int64) *domain.Client {
	c := &domain.Client{FullName: "Kevin Casey", Email: "kevin@startup.io", OwningCommercialID: owner}
	_ = r.Create(context.Background(), c)
	return c
}

func (r *stubClientRepo) FindByID(_ context.Context, id int64) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

type stubContractRepo struct {
	byID   map[int64]*domain.Contract
	nextID int64
}

func newStubContractRepo() *stubContractRepo {
	return &stubContractRepo{byID: make(map[int64]*domain.Contract)}
}

func (r *stubContractRepo) seed(clientID int64, status domain.ContractStatus) *domain.Contract {
	c := &domain.Contract{
		ClientID:        clientID,
		TotalAmount:     mustAmount("1000"),
		RemainingAmount: mustAmount("1000"),
		Status:          status,
	}
	_ = r.Create(context.Background(), c)
	return c
}

func (r *stubContractRepo) FindByID(_ context.Context, id int64) (*domain.Contract, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

// List applies the same filters the real stores use.
func (r *stubContractRepo) List(_ context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	var out []*domain.Contract
	for _, c := range r.byID {
		if f.Signed != nil && c.Signed() != *f.Signed {
			continue
		}
		if f.Paid != nil && c.Paid() != *f.Paid {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubContractRepo) Create(_ context.Context, c *domain.Contract) error {
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubContractRepo) Update(_ context.Context, c *domain.Contract) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

type stubEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{byID: make(map[int64]*domain.Event)}
}

func (r *stubEventRepo) seed(contractID int64, support *int64) *domain.Event {
	start := time.Date(2026, 6, 4, 13, 0, 0, 0, time.UTC)
	e := &domain.Event{ContractID: contractID, Start: start, End: start.Add(4 * time.Hour), SupportContactID: support}
	_ = r.Create(context.Background(), e)
	return e
}

func (r *stubEventRepo) FindByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEventRepo) List(_ context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.byID {
		if f.UnassignedOnly && !e.Unassigned() {
			continue
		}
		if f.SupportContactID != nil && !e.AssignedTo(*f.SupportContactID) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) error {
	r.nextID++
	e.ID = r.nextID
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubEventRepo) Update(_ context.Context, e *domain.Event) error {
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Security and notice stubs
// ---------------------------------------------------------------------------

// stubHasher "hashes" by prefixing, which is enough to tell digests from
// plain text in assertions.
type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (stubHasher) Verify(digest, plain string) bool { return digest == "hashed:"+plain }

type stubAuthenticator struct {
	issued  map[string]domain.Identity
	revoked map[string]bool
	lastTTL time.Duration
}

func newStubAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{issued: make(map[string]domain.Identity), revoked: make(map[string]bool)}
}

func (a *stubAuthenticator) Issue(_ context.Context, id domain.Identity, ttl time.Duration) (string, error) {
	token := "token-" + strings.Repeat("x", len(a.issued)+1)
	a.issued[token] = id
	a.lastTTL = ttl
	return token, nil
}

func (a *stubAuthenticator) Verify(_ context.Context, token string) (domain.Identity, bool) {
	id, ok := a.issued[token]
	if !ok || a.revoked[token] {
		return domain.Identity{}, false
	}
	return id, true
}

func (a *stubAuthenticator) Revoke(_ context.Context, token string) error {
	a.revoked[token] = true
	return nil
}

type recordingSink struct {
	notices []domain.Notice
	err     error
}

func (s *recordingSink) Notify(_ context.Context, n domain.Notice) error {
	if s.err != nil {
		return s.err
	}
	s.notices = append(s.notices, n)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func identity(a *domain.Account) *domain.Identity {
	id := a.Identity()
	return &id
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustAmount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
