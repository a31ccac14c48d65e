package memory

import (
	"context"
	"sync"

	domain "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/inventory"
)

// InventoryStore is the in-memory stock ledger. Reserve and Release are
// compound operations under one lock so the availability check and the
// decrement can never interleave with another caller.
type InventoryStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

// DefaultCatalog is the simulated warehouse used by the demo and the server
// seed.
func DefaultCatalog() map[string]int {
	return map[string]int{
		"MONITOR-27":   10,
		"WASHER-7KG":   2,
		"LAPTOP-15":    5,
		"SMARTPHONE-X": 8,
		"TABLET-10":    3,
	}
}

// NewInventoryStore builds a store seeded with the given catalog. A nil seed
// yields an empty ledger.
func NewInventoryStore(seed map[string]int) *InventoryStore {
	store := &InventoryStore{items: make(map[string]*domain.Item, len(seed))}
	for sku, qty := range seed {
		if item, err := domain.NewItem(sku, qty); err == nil {
			store.items[sku] = item
		}
	}
	return store
}

func (s *InventoryStore) Available(ctx context.Context, sku string) (int, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[sku]
	if !ok {
		return 0, nil
	}
	return item.Quantity, nil
}

func (s *InventoryStore) Reserve(ctx context.Context, sku string, quantity int) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	return item.Deduct(quantity)
}

func (s *InventoryStore) Release(ctx context.Context, sku string, quantity int) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[sku]
	if !ok {
		return domain.ErrNotFound
	}
	return item.Restore(quantity)
}

func (s *InventoryStore) SetStock(ctx context.Context, sku string, quantity int) error {
	_ = ctx

	item, err := domain.NewItem(sku, quantity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[sku] = item
	return nil
}

func (s *InventoryStore) Snapshot(ctx context.Context) (map[string]int, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.items))
	for sku, item := range s.items {
		out[sku] = item.Quantity
	}
	return out, nil
}
