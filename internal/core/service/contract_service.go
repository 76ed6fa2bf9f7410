package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/policy"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/sanitize"
)

type ContractService struct {
	contracts ports.ContractRepository
	clients   ports.ClientRepository
	sink      ports.EventSink
	log       zerolog.Logger
	now       func() time.Time
}

func NewContractService(contracts ports.ContractRepository, clients ports.ClientRepository, sink ports.EventSink, log zerolog.Logger) *ContractService {
	return &ContractService{
		contracts: contracts,
		clients:   clients,
		sink:      sink,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create opens an unsigned contract for an existing client.
func (s *ContractService) Create(ctx context.Context, actor *domain.Identity, in ports.CreateContractInput) (*domain.Contract, error) {
	if err := policy.CanCreateContract(actor); err != nil {
		return nil, err
	}

	total, err := sanitize.ValidateAmount(in.TotalAmount)
	if err != nil {
		return nil, field("total_amount", err)
	}
	remaining, err := sanitize.ValidateAmount(in.RemainingAmount)
	if err != nil {
		return nil, field("remaining_amount", err)
	}
	if err := checkRemaining(total, remaining); err != nil {
		return nil, err
	}

	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, lookupErr("client", in.ClientID, err)
	}

	contract := &domain.Contract{
		ClientID:        in.ClientID,
		TotalAmount:     total,
		RemainingAmount: remaining,
		Status:          domain.ContractUnsigned,
		CreationDate:    s.now(),
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, writeErr("create contract", err)
	}

	s.log.Info().Int64("contract_id", contract.ID).Int64("client_id", contract.ClientID).Msg("contract created")
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, actor *domain.Identity, in ports.ListContractsInput) ([]*domain.Contract, error) {
	if err := policy.CanList(actor); err != nil {
		return nil, err
	}
	contracts, err := s.contracts.List(ctx, ports.ContractFilter{Signed: in.Signed, Paid: in.Paid})
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w: %w", domain.ErrPersistence, err)
	}
	return nonNil(contracts), nil
}

// Update applies the provided fields. Moving a contract from unsigned to
// signed emits a single contract_signed notice; signed is final.
func (s *ContractService) Update(ctx context.Context, actor *domain.Identity, id int64, in ports.UpdateContractInput) (*domain.Contract, error) {
	if err := policy.CanUpdateContract(actor, nil); err != nil {
		return nil, err
	}

	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("contract", id, err)
	}
	client, err := s.clients.FindByID(ctx, contract.ClientID)
	if err != nil {
		return nil, lookupErr("client", contract.ClientID, err)
	}
	if err := policy.CanUpdateContract(actor, client); err != nil {
		return nil, err
	}

	if raw, ok := in.TotalAmount.Get(); ok {
		if contract.TotalAmount, err = sanitize.ValidateAmount(raw); err != nil {
			return nil, field("total_amount", err)
		}
	}
	if raw, ok := in.RemainingAmount.Get(); ok {
		if contract.RemainingAmount, err = sanitize.ValidateAmount(raw); err != nil {
			return nil, field("remaining_amount", err)
		}
	}
	if err := checkRemaining(contract.TotalAmount, contract.RemainingAmount); err != nil {
		return nil, err
	}

	signing := false
	if raw, ok := in.Status.Get(); ok {
		next, err := domain.ParseContractStatus(raw)
		if err != nil {
			return nil, err
		}
		if !contract.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: contract %d cannot move from %s to %s", domain.ErrInvalidState, contract.ID, contract.Status, next)
		}
		signing = contract.Status == domain.ContractUnsigned && next == domain.ContractSigned
		contract.Status = next
	}

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, writeErr("update contract", err)
	}

	s.log.Info().Int64("contract_id", contract.ID).Str("status", string(contract.Status)).Int64("actor_id", actor.AccountID).Msg("contract updated")
	if signing {
		notify(ctx, s.sink, s.log, domain.Notice{
			Kind:       domain.NoticeContractSigned,
			Message:    fmt.Sprintf("contract %d for client %d signed", contract.ID, contract.ClientID),
			Severity:   domain.SeverityInfo,
			ActorID:    actor.AccountID,
			SubjectID:  contract.ID,
			OccurredAt: s.now(),
		})
	}
	return contract, nil
}

func checkRemaining(total, remaining decimal.Decimal) error {
	if remaining.GreaterThan(total) {
		return &domain.ValidationError{Field: "remaining_amount", Reason: "must not exceed total_amount"}
	}
	return nil
}
