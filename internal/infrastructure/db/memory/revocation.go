package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationList keeps revoked token IDs in memory until they expire.
type RevocationList struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{ids: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(_ context.Context, tokenID string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep()
	l.ids[tokenID] = until
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.ids[tokenID]
	return ok && l.now().Before(until), nil
}

// sweep drops entries whose token has expired. The caller holds the lock.
func (l *RevocationList) sweep() {
	now := l.now()
	for id, until := range l.ids {
		if !now.Before(until) {
			delete(l.ids, id)
		}
	}
}
