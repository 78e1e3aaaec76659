package loyalty

import (
	"context"
	"sync"
	"time"

	"github.com/jugnuhq/jugnu-billing/internal/idgen"
	"github.com/jugnuhq/jugnu-billing/internal/pagination"
)

// MemoryStore is an in-memory wallet store for demo/development mode.
type MemoryStore struct {
	wallets map[string]*Wallet
	entries []*Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory wallet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets: make(map[string]*Wallet),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) GetWallet(ctx context.Context, userID string) (*Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if w, ok := m.wallets[userID]; ok {
		cp := *w
		return &cp, nil
	}
	// A user who has never earned points has an empty wallet, not an error.
	return &Wallet{UserID: userID, UpdatedAt: time.Now()}, nil
}

func (m *MemoryStore) Earn(ctx context.Context, userID string, points int64, reference, description string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wallets[userID]
	if !ok {
		w = &Wallet{UserID: userID}
		m.wallets[userID] = w
	}

	w.Balance += points
	w.LifetimeEarned += points
	w.UpdatedAt = time.Now()

	m.entries = append(m.entries, &Entry{
		ID:          idgen.WithPrefix("we_"),
		UserID:      userID,
		Type:        "earn",
		Points:      points,
		Reference:   reference,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (m *MemoryStore) Redeem(ctx context.Context, userID string, points int64, reference, description string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wallets[userID]
	if !ok || w.Balance < points {
		return ErrInsufficientBalance
	}

	w.Balance -= points
	w.LifetimeRedeemed += points
	w.UpdatedAt = time.Now()

	m.entries = append(m.entries, &Entry{
		ID:          idgen.WithPrefix("we_"),
		UserID:      userID,
		Type:        "redeem",
		Points:      points,
		Reference:   reference,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (m *MemoryStore) History(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Entry
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		e := m.entries[i]
		if e.UserID != userID {
			continue
		}
		if cursor != nil && !olderThan(e, cursor) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// olderThan reports whether e sorts strictly before the cursor position
// in (created_at, id) descending order.
func olderThan(e *Entry, c *pagination.Cursor) bool {
	if e.CreatedAt.Before(c.CreatedAt) {
		return true
	}
	return e.CreatedAt.Equal(c.CreatedAt) && e.ID < c.ID
}
