package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// ContractFilter narrows a contract listing. Nil fields do not filter.
type ContractFilter struct {
	Signed *bool // true = signed only, false = unsigned only
	Paid   *bool // true = remaining == 0, false = remaining > 0
}

// ContractRepository persists contracts.
type ContractRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]*domain.Contract, error)
	// Create assigns the new ID to contract.
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
}
