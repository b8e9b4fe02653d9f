package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationSet tracks token ids (jti) that must no longer be honored. The
// set is consulted on refresh and current-account resolution; entries expire
// naturally with the token they shadow, so the set is size-bounded.
//
// The default Authenticator uses a no-op set, matching the stateless design
// where expiry alone ends validity. Install MemoryRevocationSet, or an
// implementation backed by an external fast store, to make Invalidate
// effective.
type RevocationSet interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type noopRevocationSet struct{}

func (noopRevocationSet) Revoke(context.Context, string, time.Time) error {
	return nil
}

func (noopRevocationSet) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}

func normalizeRevocationSet(s RevocationSet) RevocationSet {
	if s == nil {
		return noopRevocationSet{}
	}
	return s
}

// MemoryRevocationSet is an in-process RevocationSet with TTL semantics.
// Suitable for single-process deployments and tests; multi-node deployments
// want a shared store behind the same interface.
type MemoryRevocationSet struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationSet creates an empty in-memory revocation set.
func NewMemoryRevocationSet() *MemoryRevocationSet {
	return &MemoryRevocationSet{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock overrides the time source, useful for expiry tests.
func (m *MemoryRevocationSet) WithClock(clock func() time.Time) *MemoryRevocationSet {
	if clock != nil {
		m.now = clock
	}
	return m
}

// Revoke records the token id until expiresAt. Ids of already expired tokens
// are ignored, they can no longer validate anyway.
func (m *MemoryRevocationSet) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrNoEmptyString
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !expiresAt.After(m.now()) {
		return nil
	}

	m.entries[tokenID] = expiresAt
	m.sweepLocked()
	return nil
}

// IsRevoked reports whether the token id is currently revoked.
func (m *MemoryRevocationSet) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	expiresAt, ok := m.entries[tokenID]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if !expiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.entries, tokenID)
		m.mu.Unlock()
		return false, nil
	}

	return true, nil
}

// Len returns the number of live entries, expired ones included until swept.
func (m *MemoryRevocationSet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryRevocationSet) sweepLocked() {
	now := m.now()
	for id, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, id)
		}
	}
}
