package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateContractInput carries the raw fields of a new contract. Amounts are
// parsed by the service ("1 234,56" is accepted).
type CreateContractInput struct {
	ClientID        int64
	TotalAmount     string
	RemainingAmount string
}

// UpdateContractInput is a partial update.
type UpdateContractInput struct {
	TotalAmount     domain.Optional[string]
	RemainingAmount domain.Optional[string]
	Status          domain.Optional[string]
}

// ListContractsInput carries the optional listing filters.
type ListContractsInput struct {
	Signed *bool
	Paid   *bool
}

// ContractService manages contracts.
type ContractService interface {
	Create(ctx context.Context, actor *domain.Identity, input CreateContractInput) (*domain.Contract, error)
	List(ctx context.Context, actor *domain.Identity, input ListContractsInput) ([]*domain.Contract, error)
	Update(ctx context.Context, actor *domain.Identity, id int64, input UpdateContractInput) (*domain.Contract, error)
}
