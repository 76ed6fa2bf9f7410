package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/epicevents/crm/internal/core/domain"
)

// BcryptHasher stores passwords as bcrypt digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher uses bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &domain.ValidationError{Field: "password", Reason: "is too long (max 72 bytes)"}
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
