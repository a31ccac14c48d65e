package memory

import (
	"context"
	"sync"
	"testing"

	domain "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryStoreReserve(t *testing.T) {
	tests := map[string]struct {
		seed    map[string]int
		sku     string
		qty     int
		wantErr error
		want    int
	}{
		"deducts available stock": {
			seed: map[string]int{"MONITOR-27": 10},
			sku:  "MONITOR-27",
			qty:  3,
			want: 7,
		},
		"exact remaining stock": {
			seed: map[string]int{"WASHER-7KG": 2},
			sku:  "WASHER-7KG",
			qty:  2,
			want: 0,
		},
		"insufficient stock": {
			seed:    map[string]int{"WASHER-7KG": 2},
			sku:     "WASHER-7KG",
			qty:     5,
			wantErr: domain.ErrInsufficientStock,
			want:    2,
		},
		"unknown sku": {
			seed:    map[string]int{"MONITOR-27": 10},
			sku:     "NONEXISTENT-PRODUCT",
			qty:     1,
			wantErr: domain.ErrNotFound,
		},
		"zero quantity": {
			seed:    map[string]int{"MONITOR-27": 10},
			sku:     "MONITOR-27",
			qty:     0,
			wantErr: domain.ErrInvalidQuantity,
			want:    10,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			store := NewInventoryStore(tt.seed)
			ctx := context.Background()

			err := store.Reserve(ctx, tt.sku, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, err := store.Available(ctx, tt.sku)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInventoryStoreReleaseRoundTrip(t *testing.T) {
	store := NewInventoryStore(map[string]int{"LAPTOP-15": 5})
	ctx := context.Background()

	require.NoError(t, store.Reserve(ctx, "LAPTOP-15", 3))
	require.NoError(t, store.Release(ctx, "LAPTOP-15", 3))

	got, err := store.Available(ctx, "LAPTOP-15")
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestInventoryStoreReleaseUnknownSKU(t *testing.T) {
	store := NewInventoryStore(map[string]int{"LAPTOP-15": 5})

	err := store.Release(context.Background(), "NONEXISTENT-PRODUCT", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventoryStoreAvailableUnknownSKU(t *testing.T) {
	store := NewInventoryStore(nil)

	got, err := store.Available(context.Background(), "ANYTHING")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestInventoryStoreSetStock(t *testing.T) {
	store := NewInventoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.SetStock(ctx, "NEW-SKU", 7))
	got, err := store.Available(ctx, "NEW-SKU")
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	assert.ErrorIs(t, store.SetStock(ctx, "NEW-SKU", -1), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, store.SetStock(ctx, "", 3), domain.ErrNotFound)
}

func TestInventoryStoreSnapshot(t *testing.T) {
	seed := DefaultCatalog()
	store := NewInventoryStore(seed)
	ctx := context.Background()

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, snapshot)

	// The snapshot is a copy; mutating it must not touch the store.
	snapshot["MONITOR-27"] = 0
	got, err := store.Available(ctx, "MONITOR-27")
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestInventoryStoreConcurrentReserve(t *testing.T) {
	store := NewInventoryStore(map[string]int{"SMARTPHONE-X": 50})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Reserve(ctx, "SMARTPHONE-X", 1)
		}()
	}
	wg.Wait()

	got, err := store.Available(ctx, "SMARTPHONE-X")
	require.NoError(t, err)
	assert.Zero(t, got)
}
