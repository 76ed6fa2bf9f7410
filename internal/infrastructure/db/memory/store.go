// Package memory keeps every entity in process memory. It backs the
// "memory" store driver used for local runs and demos; nothing survives a
// restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// table is an ID-keyed collection of copies of T.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// list returns the rows accepted by keep, ordered by ID.
func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id, row := range t.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, cmp.Compare[int64])

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

type AccountRepository struct {
	t *table[domain.Account]
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{t: newTable[domain.Account]()}
}

func (r *AccountRepository) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.t.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return r.findOne(func(a domain.Account) bool { return a.Username == username })
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.findOne(func(a domain.Account) bool { return a.Email == email })
}

func (r *AccountRepository) findOne(match func(domain.Account) bool) (*domain.Account, error) {
	rows := r.t.list(match)
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	return &rows[0], nil
}

func (r *AccountRepository) List(_ context.Context) ([]*domain.Account, error) {
	return pointers(r.t.list(nil)), nil
}

func (r *AccountRepository) Count(_ context.Context) (int64, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return int64(len(r.t.rows)), nil
}

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if r.taken(0, a) {
		return domain.ErrConflict
	}
	r.t.nextID++
	a.ID = r.t.nextID
	r.t.rows[a.ID] = *a
	return nil
}

func (r *AccountRepository) Update(_ context.Context, a *domain.Account) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if _, ok := r.t.rows[a.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taken(a.ID, a) {
		return domain.ErrConflict
	}
	r.t.rows[a.ID] = *a
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, id int64) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if _, ok := r.t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.t.rows, id)
	return nil
}

// taken reports whether another account already uses a's username or email.
// The caller holds the write lock.
func (r *AccountRepository) taken(selfID int64, a *domain.Account) bool {
	for id, other := range r.t.rows {
		if id != selfID && (other.Username == a.Username || other.Email == a.Email) {
			return true
		}
	}
	return false
}

type ClientRepository struct {
	t *table[domain.Client]
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{t: newTable[domain.Client]()}
}

func (r *ClientRepository) FindByID(_ context.Context, id int64) (*domain.Client, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	return pointers(r.t.list(nil)), nil
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) error {
	insert(r.t, func(id int64) domain.Client {
		c.ID = id
		return *c
	})
	return nil
}

func (r *ClientRepository) Update(_ context.Context, c *domain.Client) error {
	return replace(r.t, c.ID, *c)
}

type ContractRepository struct {
	t *table[domain.Contract]
}

func NewContractRepository() *ContractRepository {
	return &ContractRepository{t: newTable[domain.Contract]()}
}

func (r *ContractRepository) FindByID(_ context.Context, id int64) (*domain.Contract, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *ContractRepository) List(_ context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	return pointers(r.t.list(func(c domain.Contract) bool {
		if f.Signed != nil && c.Signed() != *f.Signed {
			return false
		}
		if f.Paid != nil && c.Paid() != *f.Paid {
			return false
		}
		return true
	})), nil
}

func (r *ContractRepository) Create(_ context.Context, c *domain.Contract) error {
	insert(r.t, func(id int64) domain.Contract {
		c.ID = id
		return *c
	})
	return nil
}

func (r *ContractRepository) Update(_ context.Context, c *domain.Contract) error {
	return replace(r.t, c.ID, *c)
}

type EventRepository struct {
	t *table[domain.Event]
}

func NewEventRepository() *EventRepository {
	return &EventRepository{t: newTable[domain.Event]()}
}

func (r *EventRepository) FindByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := r.t.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return detachEvent(e), nil
}

func (r *EventRepository) List(_ context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	rows := r.t.list(func(e domain.Event) bool {
		if f.UnassignedOnly && !e.Unassigned() {
			return false
		}
		if f.SupportContactID != nil && !e.AssignedTo(*f.SupportContactID) {
			return false
		}
		return true
	})
	out := make([]*domain.Event, 0, len(rows))
	for _, e := range rows {
		out = append(out, detachEvent(e))
	}
	return out, nil
}

func (r *EventRepository) Create(_ context.Context, e *domain.Event) error {
	insert(r.t, func(id int64) domain.Event {
		e.ID = id
		return *detachEvent(*e)
	})
	return nil
}

func (r *EventRepository) Update(_ context.Context, e *domain.Event) error {
	return replace(r.t, e.ID, *detachEvent(*e))
}

// detachEvent copies e including the support contact pointer so callers
// never share memory with the table.
func detachEvent(e domain.Event) *domain.Event {
	if e.SupportContactID != nil {
		id := *e.SupportContactID
		e.SupportContactID = &id
	}
	return &e
}

// insert stores the row built by withID under the next free ID.
func insert[T any](t *table[T], withID func(id int64) T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.rows[t.nextID] = withID(t.nextID)
}

func replace[T any](t *table[T], id int64, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	t.rows[id] = row
	return nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out
}
