package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
)

const issuer = "epic-events-crm"

// RevocationList remembers logged-out tokens by ID until they expire.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type claims struct {
	jwt.RegisteredClaims
	AccountID int64       `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// JWTAuthenticator issues HS256 tokens carrying the account ID and role.
type JWTAuthenticator struct {
	secret  []byte
	revoked RevocationList
	log     zerolog.Logger
	now     func() time.Time
}

func NewJWTAuthenticator(secret string, revoked RevocationList, log zerolog.Logger) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:  []byte(secret),
		revoked: revoked,
		log:     log,
		now:     time.Now,
	}
}

func (a *JWTAuthenticator) Issue(_ context.Context, identity domain.Identity, ttl time.Duration) (string, error) {
	now := a.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(identity.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: identity.AccountID,
		Role:      identity.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify rejects malformed, tampered, expired and revoked tokens alike. A
// revocation store that cannot be reached also rejects the token.
func (a *JWTAuthenticator) Verify(ctx context.Context, token string) (domain.Identity, bool) {
	c, err := a.parse(token)
	if err != nil {
		return domain.Identity{}, false
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, c.ID)
		if err != nil {
			a.log.Warn().Err(err).Msg("revocation check failed")
			return domain.Identity{}, false
		}
		if revoked {
			return domain.Identity{}, false
		}
	}
	return domain.Identity{AccountID: c.AccountID, Role: c.Role}, true
}

// Revoke records the token ID until the token would have expired anyway.
func (a *JWTAuthenticator) Revoke(ctx context.Context, token string) error {
	c, err := a.parse(token)
	if err != nil {
		return domain.ErrNotAuthenticated
	}
	if a.revoked == nil {
		return errors.New("token revocation is not configured")
	}
	if err := a.revoked.Revoke(ctx, c.ID, c.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (a *JWTAuthenticator) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if c.ID == "" || !c.Role.Valid() {
		return nil, errors.New("token is missing required claims")
	}
	return &c, nil
}
