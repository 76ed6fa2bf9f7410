package ports

import (
	"context"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

// Authenticator issues and verifies session tokens.
type Authenticator interface {
	Issue(ctx context.Context, identity domain.Identity, ttl time.Duration) (string, error)
	// Verify reports false for any malformed, expired, tampered or revoked
	// token; the reason is deliberately not exposed.
	Verify(ctx context.Context, token string) (domain.Identity, bool)
	// Revoke invalidates a token before its expiry.
	Revoke(ctx context.Context, token string) error
}

// Hasher turns passwords into opaque digests.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify never fails; a mismatch or a malformed digest yields false.
	Verify(digest, plain string) bool
}

// EventSink receives notable state changes after they have been committed.
// Delivery is best effort: services log a failing sink and carry on.
type EventSink interface {
	Notify(ctx context.Context, notice domain.Notice) error
}
