package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is the signature state of a contract.
type ContractStatus string

const (
	ContractUnsigned ContractStatus = "unsigned"
	ContractSigned   ContractStatus = "signed"
)

// MaxAmount is the largest amount a contract can carry.
var MaxAmount = decimal.RequireFromString("999999999.99")

// validContractTransitions lists, per status, the statuses it may move to.
// Signed is terminal.
var validContractTransitions = map[ContractStatus][]ContractStatus{
	ContractUnsigned: {ContractSigned},
}

// CanTransitionTo reports whether a contract in status s may be moved to next.
// Staying in the same status is always allowed.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range validContractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseContractStatus accepts "signed"/"unsigned" as well as the boolean
// spellings "true"/"false".
func ParseContractStatus(s string) (ContractStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signed", "true":
		return ContractSigned, nil
	case "unsigned", "false":
		return ContractUnsigned, nil
	default:
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown contract status %q", s)}
	}
}

// Contract binds a client to an amount to be paid.
type Contract struct {
	ID              int64           `json:"id"`
	ClientID        int64           `json:"client_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ContractStatus  `json:"status"`
	CreationDate    time.Time       `json:"creation_date"`
}

// Signed reports whether the contract has been signed.
func (c *Contract) Signed() bool {
	return c.Status == ContractSigned
}

// Paid reports whether nothing remains to be paid.
func (c *Contract) Paid() bool {
	return c.RemainingAmount.IsZero()
}
