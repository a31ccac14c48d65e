package inventory

import (
	"context"
	"errors"
	"testing"

	dominv "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	stock map[string]int

	availableErr error
	reserveErr   error
	releaseErr   error
	snapshotErr  error
}

func (f *fakeStore) Available(_ context.Context, sku string) (int, error) {
	if f.availableErr != nil {
		return 0, f.availableErr
	}
	return f.stock[sku], nil
}

func (f *fakeStore) Reserve(_ context.Context, sku string, qty int) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	if _, ok := f.stock[sku]; !ok {
		return dominv.ErrNotFound
	}
	if f.stock[sku] < qty {
		return dominv.ErrInsufficientStock
	}
	f.stock[sku] -= qty
	return nil
}

func (f *fakeStore) Release(_ context.Context, sku string, qty int) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	if _, ok := f.stock[sku]; !ok {
		return dominv.ErrNotFound
	}
	f.stock[sku] += qty
	return nil
}

func (f *fakeStore) SetStock(_ context.Context, sku string, qty int) error {
	f.stock[sku] = qty
	return nil
}

func (f *fakeStore) Snapshot(_ context.Context) (map[string]int, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	cp := make(map[string]int, len(f.stock))
	for k, v := range f.stock {
		cp[k] = v
	}
	return cp, nil
}

func TestServiceCheck(t *testing.T) {
	tests := map[string]struct {
		stock   map[string]int
		sku     string
		qty     int
		want    bool
		wantErr bool
		err     error
	}{
		"enough stock": {
			stock: map[string]int{"MONITOR-27": 10}, sku: "MONITOR-27", qty: 5, want: true,
		},
		"exact stock": {
			stock: map[string]int{"MONITOR-27": 5}, sku: "MONITOR-27", qty: 5, want: true,
		},
		"short stock": {
			stock: map[string]int{"WASHER-7KG": 2}, sku: "WASHER-7KG", qty: 5, want: false,
		},
		"unknown sku": {
			stock: map[string]int{}, sku: "NONEXISTENT", qty: 1, want: false,
		},
		"store fault bubbles": {
			stock: map[string]int{}, sku: "X", qty: 1, err: errors.New("backend down"), wantErr: true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{stock: tt.stock, availableErr: tt.err}
			svc := NewService(store, nil)

			got, err := svc.Check(context.Background(), tt.sku, tt.qty)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceReserve(t *testing.T) {
	tests := map[string]struct {
		stock    map[string]int
		storeErr error
		sku      string
		qty      int
		wantOK   bool
		wantErr  bool
	}{
		"reserves available stock": {
			stock:  map[string]int{"MONITOR-27": 10},
			sku:    "MONITOR-27",
			qty:    3,
			wantOK: true,
		},
		"short stock reports false without error": {
			stock: map[string]int{"WASHER-7KG": 2},
			sku:   "WASHER-7KG",
			qty:   5,
		},
		"unknown sku reports false without error": {
			stock: map[string]int{},
			sku:   "NONEXISTENT",
			qty:   1,
		},
		"store fault surfaces as error": {
			stock:    map[string]int{"MONITOR-27": 10},
			storeErr: errors.New("backend down"),
			sku:      "MONITOR-27",
			qty:      1,
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{stock: tt.stock, reserveErr: tt.storeErr}
			svc := NewService(store, nil)

			ok, err := svc.Reserve(context.Background(), tt.sku, tt.qty)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestServiceReleaseWrapsStoreErrors(t *testing.T) {
	store := &fakeStore{stock: map[string]int{"MONITOR-27": 5}}
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Release(ctx, "MONITOR-27", 2))
	assert.Equal(t, 7, store.stock["MONITOR-27"])

	err := svc.Release(ctx, "NONEXISTENT", 1)
	assert.ErrorIs(t, err, dominv.ErrNotFound)
}

func TestServiceCurrentStockAndSnapshot(t *testing.T) {
	store := &fakeStore{stock: map[string]int{"MONITOR-27": 5, "TABLET-10": 3}}
	svc := NewService(store, nil)
	ctx := context.Background()

	qty, err := svc.CurrentStock(ctx, "MONITOR-27")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"MONITOR-27": 5, "TABLET-10": 3}, snapshot)

	store.snapshotErr = errors.New("backend down")
	_, err = svc.Snapshot(ctx)
	assert.Error(t, err)
}

func TestServiceSetStock(t *testing.T) {
	store := &fakeStore{stock: map[string]int{}}
	svc := NewService(store, nil)

	require.NoError(t, svc.SetStock(context.Background(), "NEW-SKU", 4))
	assert.Equal(t, 4, store.stock["NEW-SKU"])
}
