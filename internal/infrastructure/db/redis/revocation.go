package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList stores logged-out token IDs in Redis. Each key expires with
// the token it revokes.
// Key format: revoked:<jti>
type RevocationList struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client, now: time.Now}
}

// Revoke marks tokenID as revoked until the given instant. Tokens that have
// already expired need no entry.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(tokenID string) string {
	return "revoked:" + tokenID
}
